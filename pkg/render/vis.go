// Package render converts visualization graphs into vis-network payloads
// and static SVG documents.
package render

import (
	"fmt"
	"maps"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

// VisNetwork is the data and options handed to a vis-network instance.
type VisNetwork struct {
	Type    common.VisualizationType `json:"type"`
	Nodes   []VisNode                `json:"nodes"`
	Edges   []VisEdge                `json:"edges"`
	Options map[string]any           `json:"options"`
}

type VisNode struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Title  string     `json:"title,omitempty"`
	Shape  string     `json:"shape"`
	Color  VisColor   `json:"color"`
	Font   VisFont    `json:"font"`
	Size   float64    `json:"size,omitempty"`
	Margin *VisMargin `json:"margin,omitempty"`
	X      *float64   `json:"x,omitempty"`
	Y      *float64   `json:"y,omitempty"`
	Level  *int       `json:"level,omitempty"`
}

type VisColor struct {
	Background string    `json:"background"`
	Border     string    `json:"border"`
	Highlight  *VisColor `json:"highlight,omitempty"`
}

type VisFont struct {
	Size        int    `json:"size"`
	Color       string `json:"color,omitempty"`
	StrokeWidth int    `json:"strokeWidth,omitempty"`
	StrokeColor string `json:"strokeColor,omitempty"`
}

type VisMargin struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

type VisEdge struct {
	ID     string       `json:"id"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Label  string       `json:"label,omitempty"`
	Title  string       `json:"title,omitempty"`
	Arrows string       `json:"arrows,omitempty"`
	Color  VisEdgeColor `json:"color"`
	Width  float64      `json:"width,omitempty"`
	Font   *VisFont     `json:"font,omitempty"`
}

type VisEdgeColor struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity,omitempty"`
}

func (n VisNode) NodeID() string              { return n.ID }
func (e VisEdge) Endpoints() (string, string) { return e.From, e.To }

// FlowchartShapes maps a flowchart node type to a vis shape. Unknown types
// are drawn as boxes.
var FlowchartShapes = map[visualization.FlowchartNodeType]string{
	visualization.FlowStart:    "ellipse",
	visualization.FlowEnd:      "ellipse",
	visualization.FlowDecision: "diamond",
	visualization.FlowProcess:  "box",
}

// FlowchartColors maps a flowchart node type to its fill and border.
var FlowchartColors = map[visualization.FlowchartNodeType]VisColor{
	visualization.FlowStart:     {Background: "#10b981", Border: "#059669"},
	visualization.FlowEnd:       {Background: "#ef4444", Border: "#dc2626"},
	visualization.FlowDecision:  {Background: "#f59e0b", Border: "#d97706"},
	visualization.FlowProcess:   {Background: "#3b82f6", Border: "#2563eb"},
	visualization.FlowConnector: {Background: "#6b7280", Border: "#4b5563"},
}

var conceptBorders = map[visualization.ConceptNodeType]string{
	visualization.ConceptMain:      "#1e40af",
	visualization.ConceptSecondary: "#047857",
	visualization.ConceptDetail:    "#b91c1c",
}

var conceptFontSizes = map[visualization.ConceptNodeType]int{
	visualization.ConceptMain:      16,
	visualization.ConceptSecondary: 14,
	visualization.ConceptDetail:    12,
}

// HierarchyColors are indexed by level; deeper levels reuse the last entry.
var HierarchyColors = []VisColor{
	{Background: "#3b82f6", Border: "#1e40af"},
	{Background: "#10b981", Border: "#047857"},
	{Background: "#f59e0b", Border: "#d97706"},
	{Background: "#8b5cf6", Border: "#7c3aed"},
}

var mindMapColors = map[visualization.MindMapCategory]string{
	visualization.CategoryCentral:         "#1e3a8a",
	visualization.CategoryDefinitions:     "#2563eb",
	visualization.CategoryComponents:      "#059669",
	visualization.CategoryFunctions:       "#7c3aed",
	visualization.CategoryCharacteristics: "#0891b2",
	visualization.CategoryRelationships:   "#db2777",
	visualization.CategoryApplications:    "#65a30d",
	visualization.CategoryProcesses:       "#ea580c",
	visualization.CategoryExamples:        "#ca8a04",
}

const (
	defaultBorder   = "#4b5563"
	defaultFill     = "#f3f4f6"
	defaultFontSize = 13
	darkText        = "#1f2937"
)

// LinkColor bands a link strength into four colors.
func LinkColor(strength float64) string {
	switch {
	case strength > 0.8:
		return "#dc2626"
	case strength > 0.6:
		return "#ea580c"
	case strength > 0.4:
		return "#ca8a04"
	default:
		return defaultBorder
	}
}

func flowchartColor(t visualization.FlowchartNodeType) VisColor {
	if c, ok := FlowchartColors[t]; ok {
		return c
	}
	return FlowchartColors[visualization.FlowProcess]
}

func flowchartShape(t visualization.FlowchartNodeType) string {
	if s, ok := FlowchartShapes[t]; ok {
		return s
	}
	return "box"
}

func conceptBorder(t visualization.ConceptNodeType) string {
	if c, ok := conceptBorders[t]; ok {
		return c
	}
	return defaultBorder
}

func conceptFontSize(t visualization.ConceptNodeType) int {
	if s, ok := conceptFontSizes[t]; ok {
		return s
	}
	return defaultFontSize
}

func hierarchyColor(level int) VisColor {
	return HierarchyColors[min(max(level, 0), len(HierarchyColors)-1)]
}

func titleOr(description, label string) string {
	if description != "" {
		return description
	}
	return label
}

func coords(p *visualization.Position) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	x, y := p.X, p.Y
	return &x, &y
}

// VisAdapter converts graphs into vis-network payloads.
type VisAdapter struct {
	// Options are merged over the per-type options of every payload.
	Options map[string]any
}

// Convert maps g to vis nodes and edges. Edges whose endpoints are not in
// the node set are dropped.
func (a VisAdapter) Convert(g visualization.Graph) (VisNetwork, error) {
	var nodes []VisNode
	var edges []VisEdge

	switch v := g.(type) {
	case *visualization.FlowchartGraph:
		nodes, edges = convertFlowchart(v)
	case *visualization.ConceptMapGraph:
		nodes, edges = convertConceptMap(v)
	case *visualization.HierarchyGraph:
		nodes, edges = convertHierarchy(v)
	case *visualization.MindMapGraph:
		nodes, edges = convertMindMap(v)
	default:
		return VisNetwork{}, fmt.Errorf("unsupported graph %T", g)
	}

	return VisNetwork{
		Type:    g.VisualizationType(),
		Nodes:   nodes,
		Edges:   visualization.PruneDanglingEdges(nodes, edges),
		Options: a.options(g.VisualizationType()),
	}, nil
}

func (a VisAdapter) options(t common.VisualizationType) map[string]any {
	opts := TypeOptions(t)
	mergeOptions(opts, a.Options)
	return opts
}

func convertFlowchart(g *visualization.FlowchartGraph) ([]VisNode, []VisEdge) {
	nodes := make([]VisNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		x, y := coords(n.Position)
		nodes = append(nodes, VisNode{
			ID:    n.ID,
			Label: n.Label,
			Title: titleOr(n.Description, n.Label),
			Shape: flowchartShape(n.Type),
			Color: flowchartColor(n.Type),
			Font:  VisFont{Size: 14, Color: "#333"},
			X:     x,
			Y:     y,
		})
	}

	edges := make([]VisEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, VisEdge{
			ID:     e.ID,
			From:   e.Source,
			To:     e.Target,
			Label:  e.Label,
			Arrows: "to",
			Font:   &VisFont{Size: 12},
			Color:  VisEdgeColor{Color: "#2563eb"},
		})
	}
	return nodes, edges
}

func convertConceptMap(g *visualization.ConceptMapGraph) ([]VisNode, []VisEdge) {
	nodes := make([]VisNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		x, y := coords(n.Position)
		fill := n.Color
		if fill == "" {
			fill = defaultFill
		}
		size := n.Size
		if size == 0 {
			size = 30
		}
		nodes = append(nodes, VisNode{
			ID:    n.ID,
			Label: n.Label,
			Title: titleOr(n.Description, n.Label),
			Shape: "ellipse",
			Color: VisColor{
				Background: fill,
				Border:     conceptBorder(n.Type),
				Highlight:  &VisColor{Background: "#e5e7eb", Border: "#374151"},
			},
			Size: size,
			Font: VisFont{Size: conceptFontSize(n.Type), Color: darkText},
			X:    x,
			Y:    y,
		})
	}

	edges := make([]VisEdge, 0, len(g.Edges))
	for _, l := range g.Edges {
		label := l.Label
		if label == "" {
			label = l.Relationship
		}
		edges = append(edges, VisEdge{
			ID:    l.ID,
			From:  l.Source,
			To:    l.Target,
			Label: label,
			Title: fmt.Sprintf("%s (fuerza: %.2f)", l.Relationship, l.Strength),
			Width: max(1, l.Strength*3),
			Color: VisEdgeColor{Color: LinkColor(l.Strength), Opacity: 0.7},
			Font:  &VisFont{Size: 10, StrokeWidth: 2, StrokeColor: "#fff"},
		})
	}
	return nodes, edges
}

// convertHierarchy draws one edge per parent link.
func convertHierarchy(g *visualization.HierarchyGraph) ([]VisNode, []VisEdge) {
	nodes := make([]VisNode, 0, len(g.Nodes))
	var edges []VisEdge
	for _, n := range g.Nodes {
		x, y := coords(n.Position)
		level := n.Level
		nodes = append(nodes, VisNode{
			ID:     n.ID,
			Label:  n.Label,
			Title:  titleOr(n.Description, n.Label),
			Shape:  "box",
			Color:  hierarchyColor(n.Level),
			Font:   VisFont{Size: max(12, 16-n.Level*2), Color: darkText},
			Margin: &VisMargin{Top: 10, Right: 10, Bottom: 10, Left: 10},
			X:      x,
			Y:      y,
			Level:  &level,
		})
		if n.Parent != "" {
			edges = append(edges, VisEdge{
				ID:     fmt.Sprintf("edge_%s_%s", n.Parent, n.ID),
				From:   n.Parent,
				To:     n.ID,
				Arrows: "to",
				Color:  VisEdgeColor{Color: "#6b7280"},
				Width:  2,
			})
		}
	}
	return nodes, edges
}

func convertMindMap(g *visualization.MindMapGraph) ([]VisNode, []VisEdge) {
	nodes := make([]VisNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		fill, ok := mindMapColors[n.Category]
		if !ok {
			fill = defaultBorder
		}
		shape := "ellipse"
		if n.Category == visualization.CategoryCentral {
			shape = "circle"
		}
		x, y := n.Position.X, n.Position.Y
		nodes = append(nodes, VisNode{
			ID:    n.ID,
			Label: n.Label,
			Title: titleOr(n.Description, n.FullText),
			Shape: shape,
			Color: VisColor{Background: fill, Border: conceptBorder(n.Type)},
			Size:  float64(20 + 4*n.Importance),
			Font:  VisFont{Size: conceptFontSize(n.Type), Color: "#ffffff"},
			X:     &x,
			Y:     &y,
		})
	}

	edges := make([]VisEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, VisEdge{
			ID:     e.ID,
			From:   e.Source,
			To:     e.Target,
			Label:  e.Label,
			Title:  e.Relationship,
			Arrows: "to",
			Width:  e.Strength,
			Color:  VisEdgeColor{Color: "#6b7280"},
			Font:   &VisFont{Size: 11, StrokeWidth: 2, StrokeColor: "#fff"},
		})
	}
	return nodes, edges
}

// mergeOptions deep-merges src into dst. Nested maps are merged, any other
// value replaces the one in dst.
func mergeOptions(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		cur, ok := dst[k].(map[string]any)
		if !ok {
			cur = make(map[string]any, len(sub))
			dst[k] = cur
		}
		mergeOptions(cur, sub)
	}
}

// cloneOptions copies nested option maps so callers may modify the result.
func cloneOptions(src map[string]any) map[string]any {
	out := maps.Clone(src)
	for k, v := range out {
		if sub, ok := v.(map[string]any); ok {
			out[k] = cloneOptions(sub)
		}
	}
	return out
}
