// Package visualization defines the graph produced for each visualization
// type and the edge validation shared by generators and renderers.
package visualization

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

// Graph is implemented by the four graph variants. The concrete type is
// recovered with a type switch on the value returned by a generator.
type Graph interface {
	VisualizationType() common.VisualizationType
	Meta() Metadata
	// Prune removes edges whose endpoints are not in the node set and
	// returns the number of edges dropped.
	Prune() int
}

// Metadata is shared by every graph variant.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generatedAt"`
	DocumentID  string    `json:"documentId"`
	Complexity  float64   `json:"complexity"`
	Confidence  float64   `json:"confidence"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FlowchartNodeType is the shape class of a flowchart step.
type FlowchartNodeType string

const (
	FlowStart     FlowchartNodeType = "start"
	FlowEnd       FlowchartNodeType = "end"
	FlowDecision  FlowchartNodeType = "decision"
	FlowProcess   FlowchartNodeType = "process"
	FlowConnector FlowchartNodeType = "connector"
)

type FlowchartNode struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Type        FlowchartNodeType `json:"type"`
	Description string            `json:"description,omitempty"`
	Position    *Position         `json:"position,omitempty"`
}

type FlowchartEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

type FlowchartGraph struct {
	Nodes    []FlowchartNode `json:"nodes"`
	Edges    []FlowchartEdge `json:"edges"`
	Metadata Metadata        `json:"metadata"`
}

// ConceptNodeType ranks a concept by frequency.
type ConceptNodeType string

const (
	ConceptMain      ConceptNodeType = "main"
	ConceptSecondary ConceptNodeType = "secondary"
	ConceptDetail    ConceptNodeType = "detail"
)

type ConceptNode struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Type        ConceptNodeType `json:"type"`
	Description string          `json:"description,omitempty"`
	Importance  float64         `json:"importance"`
	Size        float64         `json:"size"`
	Color       string          `json:"color"`
	Position    *Position       `json:"position,omitempty"`
}

type ConceptLink struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
	Label        string  `json:"label,omitempty"`
}

type ConceptMapGraph struct {
	Nodes    []ConceptNode `json:"nodes"`
	Edges    []ConceptLink `json:"edges"`
	Metadata Metadata      `json:"metadata"`
}

// HierarchyNode carries its structure in Parent and Children; the graph
// has no explicit edges.
type HierarchyNode struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Level       int       `json:"level"`
	Parent      string    `json:"parent,omitempty"`
	Children    []string  `json:"children"`
	Description string    `json:"description,omitempty"`
	Position    *Position `json:"position,omitempty"`
}

// HierarchyEdge is kept for shape parity with the other variants.
type HierarchyEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type HierarchyGraph struct {
	Nodes    []HierarchyNode `json:"nodes"`
	Edges    []HierarchyEdge `json:"edges"`
	Metadata Metadata        `json:"metadata"`
}

// MindMapCategory groups the concepts that radiate from the center.
type MindMapCategory string

const (
	CategoryCentral         MindMapCategory = "central"
	CategoryDefinitions     MindMapCategory = "definitions"
	CategoryComponents      MindMapCategory = "components"
	CategoryFunctions       MindMapCategory = "functions"
	CategoryCharacteristics MindMapCategory = "characteristics"
	CategoryRelationships   MindMapCategory = "relationships"
	CategoryApplications    MindMapCategory = "applications"
	CategoryProcesses       MindMapCategory = "processes"
	CategoryExamples        MindMapCategory = "examples"
)

type MindMapNode struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	FullText    string          `json:"fullText"`
	Type        ConceptNodeType `json:"type"`
	Category    MindMapCategory `json:"category"`
	Importance  int             `json:"importance"`
	Description string          `json:"description,omitempty"`
	Position    Position        `json:"position"`
}

type MindMapEdge struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Label        string  `json:"label"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

type MindMapGraph struct {
	Nodes    []MindMapNode `json:"nodes"`
	Edges    []MindMapEdge `json:"edges"`
	Metadata Metadata      `json:"metadata"`
}

func (n FlowchartNode) NodeID() string { return n.ID }
func (n ConceptNode) NodeID() string   { return n.ID }
func (n HierarchyNode) NodeID() string { return n.ID }
func (n MindMapNode) NodeID() string   { return n.ID }

func (e FlowchartEdge) Endpoints() (string, string) { return e.Source, e.Target }
func (e ConceptLink) Endpoints() (string, string)   { return e.Source, e.Target }
func (e HierarchyEdge) Endpoints() (string, string) { return e.Source, e.Target }
func (e MindMapEdge) Endpoints() (string, string)   { return e.Source, e.Target }

func (g *FlowchartGraph) VisualizationType() common.VisualizationType  { return common.Flowchart }
func (g *ConceptMapGraph) VisualizationType() common.VisualizationType { return common.ConceptMap }
func (g *HierarchyGraph) VisualizationType() common.VisualizationType  { return common.HierarchicalScheme }
func (g *MindMapGraph) VisualizationType() common.VisualizationType    { return common.MindMap }

func (g *FlowchartGraph) Meta() Metadata  { return g.Metadata }
func (g *ConceptMapGraph) Meta() Metadata { return g.Metadata }
func (g *HierarchyGraph) Meta() Metadata  { return g.Metadata }
func (g *MindMapGraph) Meta() Metadata    { return g.Metadata }

func (g *FlowchartGraph) Prune() int {
	before := len(g.Edges)
	g.Edges = PruneDanglingEdges(g.Nodes, g.Edges)
	return before - len(g.Edges)
}

func (g *ConceptMapGraph) Prune() int {
	before := len(g.Edges)
	g.Edges = PruneDanglingEdges(g.Nodes, g.Edges)
	return before - len(g.Edges)
}

// Prune also clears Parent and Children references to missing nodes.
func (g *HierarchyGraph) Prune() int {
	before := len(g.Edges)
	g.Edges = PruneDanglingEdges(g.Nodes, g.Edges)
	ids := NodeIDs(g.Nodes)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, ok := ids[n.Parent]; !ok {
			n.Parent = ""
		}
		kept := n.Children[:0]
		for _, c := range n.Children {
			if _, ok := ids[c]; ok {
				kept = append(kept, c)
			}
		}
		n.Children = kept
	}
	return before - len(g.Edges)
}

func (g *MindMapGraph) Prune() int {
	before := len(g.Edges)
	g.Edges = PruneDanglingEdges(g.Nodes, g.Edges)
	return before - len(g.Edges)
}

// envelope is the stored form of a graph: the variant plus its type tag.
type envelope struct {
	Type common.VisualizationType `json:"type"`
	Data json.RawMessage          `json:"data"`
}

// Marshal encodes g together with its type so Unmarshal can restore the
// concrete variant.
func Marshal(g Graph) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: g.VisualizationType(), Data: data})
}

// Unmarshal decodes data produced by Marshal.
func Unmarshal(data []byte) (Graph, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	g, err := New(env.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Data, g); err != nil {
		return nil, fmt.Errorf("failed to decode %s graph: %w", env.Type, err)
	}
	return g, nil
}

// New returns an empty graph of type t.
func New(t common.VisualizationType) (Graph, error) {
	switch t {
	case common.Flowchart:
		return &FlowchartGraph{}, nil
	case common.ConceptMap:
		return &ConceptMapGraph{}, nil
	case common.HierarchicalScheme:
		return &HierarchyGraph{}, nil
	case common.MindMap:
		return &MindMapGraph{}, nil
	default:
		return nil, fmt.Errorf("unknown visualization type %q", t)
	}
}
