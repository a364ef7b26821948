package generator

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

const (
	mindCenterX          = 600.0
	mindCenterY          = 400.0
	mindCentralLabel     = 30
	mindConceptLabel     = 22
	mindProximity        = 100
	mindCentralStrength  = 3.0
	mindConceptStrength  = 2.0
	mindCentralMinLength = 5
	mindCentralMaxLength = 60
	mindHeadingMaxLevel  = 3
)

// mindRing is one concentric ring of the radial layout.
type mindRing struct {
	minImportance int
	radius        float64
	startAngle    float64
}

// Rings are tried in order; a concept lands in the first ring whose
// minimum importance it reaches.
var mindRings = []mindRing{
	{minImportance: 4, radius: 220, startAngle: 0},
	{minImportance: 3, radius: 300, startAngle: math.Pi / 6},
	{minImportance: 0, radius: 380, startAngle: math.Pi / 3},
}

// mindCategory describes how one branch category is filled and drawn.
type mindCategory struct {
	category     visualization.MindMapCategory
	importance   int
	nodeType     visualization.ConceptNodeType
	relationship string
	label        string
	title        string
	limit        int
	// triggers select segments whose concept joins the category.
	triggers []string
}

var mindCategories = []mindCategory{
	{visualization.CategoryDefinitions, 5, visualization.ConceptMain, "defines", "se define como", "Definición", 4, []string{"se define como", "constituye"}},
	{visualization.CategoryComponents, 4, visualization.ConceptSecondary, "includes", "incluye", "Componente", 6, []string{"incluye", "compone", "integra"}},
	{visualization.CategoryFunctions, 4, visualization.ConceptSecondary, "performs", "realiza", "Función", 3, []string{"función", "responsabilidad", "competencia"}},
	{visualization.CategoryCharacteristics, 2, visualization.ConceptDetail, "has_property", "tiene", "Característica", 3, []string{"característica", "propiedad", "se caracteriza"}},
	{visualization.CategoryRelationships, 2, visualization.ConceptDetail, "relates_to", "se relaciona con", "Relación", 3, nil},
	{visualization.CategoryApplications, 2, visualization.ConceptDetail, "applies_to", "se aplica a", "Aplicación", 3, []string{"sirve para", "se utiliza", "se aplica", "aplicación"}},
	{visualization.CategoryProcesses, 3, visualization.ConceptSecondary, "executes", "ejecuta", "Proceso", 4, nil},
	{visualization.CategoryExamples, 1, visualization.ConceptDetail, "exemplifies", "ejemplo de", "Ejemplo", 3, []string{"ejemplo", "por ejemplo"}},
}

type MindMap struct {
	now func() time.Time
}

func NewMindMap(opts Options) *MindMap {
	return &MindMap{now: opts.clock()}
}

func (m *MindMap) Type() common.VisualizationType { return common.MindMap }

type mindConcept struct {
	text string
	cat  mindCategory
}

// Generate places the central concept of the document in the middle and
// its categorized concepts on rings ordered by category importance.
func (m *MindMap) Generate(ctx context.Context, analysis *common.DocumentAnalysisResult) (visualization.Graph, error) {
	if err := begin(ctx, analysis, "mind map"); err != nil {
		return nil, err
	}

	central := centralConcept(analysis)
	concepts := categorizeConcepts(analysis, central)
	nodes := mindMapNodes(central, concepts)
	edges := mindMapEdges(analysis, concepts, nodes)

	complexity := 1.0
	switch {
	case len(nodes) > 15:
		complexity = 3
	case len(nodes) > 8:
		complexity = 2
	}

	g := &visualization.MindMapGraph{
		Nodes: nodes,
		Edges: edges,
		Metadata: visualization.Metadata{
			Title:       "Mapa Mental - " + analysis.DocumentID,
			Description: fmt.Sprintf("Concepto central: %q con %d ramas principales", central, len(concepts)),
			GeneratedAt: m.now(),
			DocumentID:  analysis.DocumentID,
			Complexity:  complexity,
			Confidence:  analysis.Confidence,
		},
	}
	finish(g, len(nodes), len(edges))
	return g, nil
}

// centralConcept prefers a short top level heading, then the most frequent
// concept.
func centralConcept(analysis *common.DocumentAnalysisResult) string {
	for _, seg := range analysis.Segments {
		if seg.Type != common.SegmentHeading || seg.Level > mindHeadingMaxLevel {
			continue
		}
		title := strings.TrimSpace(reHeadingMarks.ReplaceAllString(seg.Content, ""))
		if n := textutil.RuneLen(title); n > mindCentralMinLength && n < mindCentralMaxLength {
			return title
		}
		break
	}

	freq := newFrequencies()
	for _, e := range common.EntitiesOfType(analysis.Entities, common.EntityConcept, common.EntityOrganization) {
		freq.add(e.Text)
	}
	if top := freq.top(1); len(top) > 0 {
		return top[0].text
	}
	return "Concepto Principal"
}

// categorizeConcepts fills the branch categories in declaration order. A
// concept appears in at most one category.
func categorizeConcepts(analysis *common.DocumentAnalysisResult, central string) []mindConcept {
	seen := map[string]struct{}{textutil.Fold(central): {}}
	var out []mindConcept

	for _, cat := range mindCategories {
		added := 0
		add := func(text string) {
			text = strings.TrimSpace(text)
			if text == "" || added == cat.limit {
				return
			}
			key := textutil.Fold(text)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			out = append(out, mindConcept{text: text, cat: cat})
			added++
		}

		for _, text := range categorySources(analysis, cat) {
			add(text)
		}
		for _, seg := range analysis.Segments {
			if len(cat.triggers) == 0 || !textutil.ContainsAny(textutil.Lower(seg.Content), cat.triggers) {
				continue
			}
			add(segmentConcept(seg, seen))
		}
	}
	return out
}

// categorySources are the structural sources of a category, taken before
// trigger words are considered.
func categorySources(analysis *common.DocumentAnalysisResult, cat mindCategory) []string {
	var out []string
	targets := func(types ...common.RelationshipType) {
		for _, rel := range analysis.Relationships {
			if slices.Contains(types, rel.Type) {
				out = append(out, rel.Target)
			}
		}
	}

	switch cat.category {
	case visualization.CategoryDefinitions:
		for _, seg := range analysis.Segments {
			if seg.Type == common.SegmentDefinition {
				out = append(out, textutil.DefinitionTerm(seg.Content))
			}
		}
	case visualization.CategoryComponents:
		targets(common.RelationIncludes, common.RelationPartOf)
		for _, e := range common.EntitiesOfType(analysis.Entities, common.EntityOrganization) {
			if textutil.RuneLen(e.Text) > mindCentralMinLength {
				out = append(out, e.Text)
			}
		}
	case visualization.CategoryRelationships:
		targets(common.RelationCauses)
	case visualization.CategoryProcesses:
		targets(common.RelationFollows)
		for _, e := range common.EntitiesOfType(analysis.Entities, common.EntityAction) {
			out = append(out, e.Text)
		}
	}
	return out
}

// segmentConcept names what a segment is about: its first unseen entity
// that is not an action, else its first unseen keyword.
func segmentConcept(seg common.DocumentSegment, seen map[string]struct{}) string {
	for _, e := range seg.Entities {
		if e.Type == common.EntityAction {
			continue
		}
		if _, dup := seen[textutil.Fold(e.Text)]; !dup {
			return e.Text
		}
	}
	for _, kw := range seg.Keywords {
		if _, dup := seen[textutil.Fold(kw)]; !dup {
			return kw
		}
	}
	return ""
}

func mindMapNodes(central string, concepts []mindConcept) []visualization.MindMapNode {
	nodes := []visualization.MindMapNode{{
		ID:          "central",
		Label:       textutil.Truncate(central, mindCentralLabel),
		FullText:    central,
		Type:        visualization.ConceptMain,
		Category:    visualization.CategoryCentral,
		Importance:  5,
		Description: "Concepto central del mapa: " + central,
		Position:    visualization.Position{X: mindCenterX, Y: mindCenterY},
	}}

	ordered := slices.Clone(concepts)
	slices.SortStableFunc(ordered, func(a, b mindConcept) int {
		return b.cat.importance - a.cat.importance
	})

	rings := make([][]mindConcept, len(mindRings))
	for _, c := range ordered {
		for i, r := range mindRings {
			if c.cat.importance >= r.minImportance {
				rings[i] = append(rings[i], c)
				break
			}
		}
	}

	for i, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		step := 2 * math.Pi / float64(len(ring))
		for j, c := range ring {
			angle := mindRings[i].startAngle + float64(j)*step
			nodes = append(nodes, visualization.MindMapNode{
				ID:          fmt.Sprintf("concept-%d", len(nodes)),
				Label:       textutil.Truncate(c.text, mindConceptLabel),
				FullText:    c.text,
				Type:        c.cat.nodeType,
				Category:    c.cat.category,
				Importance:  c.cat.importance,
				Description: c.cat.title + ": " + c.text,
				Position: visualization.Position{
					X: mindCenterX + math.Cos(angle)*mindRings[i].radius,
					Y: mindCenterY + math.Sin(angle)*mindRings[i].radius,
				},
			})
		}
	}
	return nodes
}

// mindMapEdges links the center to every concept and concepts to each
// other when they are mentioned close together in the document. Edge ids
// follow the order in which links are considered.
func mindMapEdges(analysis *common.DocumentAnalysisResult, concepts []mindConcept, nodes []visualization.MindMapNode) []visualization.MindMapEdge {
	byText := make(map[string]string, len(nodes))
	for _, n := range nodes {
		if _, ok := byText[n.FullText]; !ok {
			byText[n.FullText] = n.ID
		}
	}

	edges := make([]visualization.MindMapEdge, 0, len(concepts))
	index := 0
	link := func(from, to, relationship, label string, strength float64) {
		id := fmt.Sprintf("edge-%d", index)
		index++
		src, ok := byText[from]
		if !ok {
			return
		}
		dst, ok := byText[to]
		if !ok {
			return
		}
		edges = append(edges, visualization.MindMapEdge{
			ID:           id,
			Source:       src,
			Target:       dst,
			Label:        label,
			Relationship: relationship,
			Strength:     strength,
		})
	}

	central := nodes[0].FullText
	for _, c := range concepts {
		link(central, c.text, c.cat.relationship, c.cat.label, mindCentralStrength)
	}

	var parts []string
	for _, s := range analysis.Segments {
		parts = append(parts, s.Content)
	}
	content := textutil.Lower(strings.Join(parts, "\n"))
	for i := range concepts {
		for j := i + 1; j < len(concepts); j++ {
			if mentionedNearby(content, concepts[i].text, concepts[j].text) {
				link(concepts[i].text, concepts[j].text, "relates_to", "se relaciona con", mindConceptStrength)
			}
		}
	}
	return edges
}

// mentionedNearby reports whether the first mentions of a and b in content
// start less than mindProximity bytes apart.
func mentionedNearby(content, a, b string) bool {
	ia := strings.Index(content, textutil.Lower(a))
	ib := strings.Index(content, textutil.Lower(b))
	if ia < 0 || ib < 0 {
		return false
	}
	d := ia - ib
	if d < 0 {
		d = -d
	}
	return d < mindProximity
}
