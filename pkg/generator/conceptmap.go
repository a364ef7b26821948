package generator

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

const (
	conceptMaxNodes         = 15
	conceptMainRanks        = 3
	conceptSecondaryRanks   = 8
	conceptMinKeywordLength = 3
	conceptMinNodes         = 5
	conceptActionPadding    = 3
	conceptActionImportance = 3.0
	conceptExcerptLength    = 100
	conceptRelatedPerMain   = 3

	coOccurrenceStrength = 0.6
	includesStrength     = 0.8

	conceptCenterX       = 300.0
	conceptCenterY       = 200.0
	conceptRadius        = 150.0
	conceptMainRadius    = 0.6
	conceptDetailRadius  = 1.2
	conceptHubLinks      = 3
	conceptHubPull       = 0.3
	conceptLinkBonus     = 0.5
	conceptSizeMin       = 20.0
	conceptSizeMax       = 60.0
	conceptSizePerWeight = 3.0

	conceptNodeWeight = 0.4
	conceptLinkWeight = 0.6
	conceptMainWeight = 1.5
)

// ConceptColors is the fill color per concept rank.
var ConceptColors = map[visualization.ConceptNodeType]string{
	visualization.ConceptMain:      "#2563eb",
	visualization.ConceptSecondary: "#059669",
	visualization.ConceptDetail:    "#dc2626",
}

const defaultConceptColor = "#6b7280"

var conceptBaseSize = map[visualization.ConceptNodeType]float64{
	visualization.ConceptMain:      40,
	visualization.ConceptSecondary: 30,
	visualization.ConceptDetail:    20,
}

// RelationshipLabels are the Spanish link labels per relationship type.
var RelationshipLabels = map[common.RelationshipType]string{
	common.RelationCauses:    "causa",
	common.RelationIncludes:  "incluye",
	common.RelationFollows:   "sigue a",
	common.RelationDefines:   "define",
	common.RelationRelatesTo: "se relaciona con",
	common.RelationPartOf:    "es parte de",
}

type ConceptMap struct {
	now func() time.Time
}

func NewConceptMap(opts Options) *ConceptMap {
	return &ConceptMap{now: opts.clock()}
}

func (c *ConceptMap) Type() common.VisualizationType { return common.ConceptMap }

// Generate ranks the most frequent concepts and links them through the
// extracted relationships, segment co-occurrence and shared words.
func (c *ConceptMap) Generate(ctx context.Context, analysis *common.DocumentAnalysisResult) (visualization.Graph, error) {
	if err := begin(ctx, analysis, "concept map"); err != nil {
		return nil, err
	}

	nodes := conceptNodes(analysis)
	links := conceptLinks(analysis, nodes)
	degree := linkDegrees(links)
	weighConcepts(nodes, degree)
	layoutConcepts(nodes, degree)

	mains := 0
	for _, n := range nodes {
		if n.Type == visualization.ConceptMain {
			mains++
		}
	}
	complexity := conceptNodeWeight*float64(len(nodes)) +
		conceptLinkWeight*float64(len(links)) +
		conceptMainWeight*float64(mains)

	g := &visualization.ConceptMapGraph{
		Nodes: nodes,
		Edges: links,
		Metadata: visualization.Metadata{
			Title:       "Mapa Conceptual - " + analysis.DocumentID,
			Description: "Mapa conceptual que muestra las relaciones entre los conceptos principales del documento",
			GeneratedAt: c.now(),
			DocumentID:  analysis.DocumentID,
			Complexity:  min(complexity, 10),
			Confidence:  analysis.Confidence,
		},
	}
	finish(g, len(nodes), len(links))
	return g, nil
}

func conceptRank(index int) visualization.ConceptNodeType {
	switch {
	case index < conceptMainRanks:
		return visualization.ConceptMain
	case index < conceptSecondaryRanks:
		return visualization.ConceptSecondary
	default:
		return visualization.ConceptDetail
	}
}

func conceptColor(t visualization.ConceptNodeType) string {
	if c, ok := ConceptColors[t]; ok {
		return c
	}
	return defaultConceptColor
}

func initialConceptSize(t visualization.ConceptNodeType, importance float64) float64 {
	return conceptBaseSize[t] + min(importance*2, 20)
}

func conceptNodes(analysis *common.DocumentAnalysisResult) []visualization.ConceptNode {
	freq := newFrequencies()
	for _, e := range common.EntitiesOfType(analysis.Entities, common.EntityConcept, common.EntityOrganization, common.EntityPerson) {
		if key := cleanConcept(e.Text); key != "" {
			freq.add(key)
		}
	}
	for _, seg := range analysis.Segments {
		for _, kw := range seg.Keywords {
			if key := cleanConcept(kw); textutil.RuneLen(key) > conceptMinKeywordLength {
				freq.add(key)
			}
		}
	}

	top := freq.top(conceptMaxNodes)
	nodes := make([]visualization.ConceptNode, 0, len(top)+conceptActionPadding)
	for i, concept := range top {
		rank := conceptRank(i)
		importance := float64(concept.count)
		nodes = append(nodes, visualization.ConceptNode{
			ID:          textutil.GenerateID("concept"),
			Label:       concept.text,
			Type:        rank,
			Description: conceptDescription(analysis.Segments, concept.text, conceptExcerptLength),
			Importance:  importance,
			Size:        initialConceptSize(rank, importance),
			Color:       conceptColor(rank),
		})
	}

	if len(nodes) < conceptMinNodes {
		actions := common.EntitiesOfType(analysis.Entities, common.EntityAction)
		for _, a := range actions[:min(len(actions), conceptActionPadding)] {
			nodes = append(nodes, visualization.ConceptNode{
				ID:          textutil.GenerateID("concept"),
				Label:       cleanConcept(a.Text),
				Type:        visualization.ConceptSecondary,
				Description: "Acción: " + a.Text,
				Importance:  conceptActionImportance,
				Size:        initialConceptSize(visualization.ConceptSecondary, conceptActionImportance),
				Color:       conceptColor(visualization.ConceptSecondary),
			})
		}
	}
	return nodes
}

func conceptLinks(analysis *common.DocumentAnalysisResult, nodes []visualization.ConceptNode) []visualization.ConceptLink {
	var links []visualization.ConceptLink
	add := func(source, target, relationship string, strength float64, label string) {
		links = append(links, visualization.ConceptLink{
			ID:           textutil.GenerateID("link"),
			Source:       source,
			Target:       target,
			Relationship: relationship,
			Strength:     strength,
			Label:        label,
		})
	}
	exists := func(a, b string) bool {
		return slices.ContainsFunc(links, func(l visualization.ConceptLink) bool {
			return (l.Source == a && l.Target == b) || (l.Source == b && l.Target == a)
		})
	}

	for _, rel := range analysis.Relationships {
		src, ok := findConceptNode(nodes, rel.Source)
		if !ok {
			continue
		}
		dst, ok := findConceptNode(nodes, rel.Target)
		if !ok || src.ID == dst.ID {
			continue
		}
		label, ok := RelationshipLabels[rel.Type]
		if !ok {
			label = "relacionado con"
		}
		add(src.ID, dst.ID, label, rel.Confidence, label)
	}

	for _, seg := range analysis.Segments {
		if len(seg.Entities) < 2 {
			continue
		}
		var present []string
		for _, e := range seg.Entities {
			if n, ok := findConceptNode(nodes, e.Text); ok {
				present = append(present, n.ID)
			}
		}
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				if present[i] == present[j] || exists(present[i], present[j]) {
					continue
				}
				add(present[i], present[j], "se relaciona con", coOccurrenceStrength, "relacionado")
			}
		}
	}

	var mains, secondaries []visualization.ConceptNode
	for _, n := range nodes {
		switch n.Type {
		case visualization.ConceptMain:
			mains = append(mains, n)
		case visualization.ConceptSecondary:
			secondaries = append(secondaries, n)
		}
	}
	for _, m := range mains {
		related := 0
		for _, s := range secondaries {
			if related == conceptRelatedPerMain {
				break
			}
			if !conceptsShareWord(m.Label, s.Label) {
				continue
			}
			related++
			if !exists(m.ID, s.ID) {
				add(m.ID, s.ID, "incluye", includesStrength, "incluye")
			}
		}
	}

	if links == nil {
		links = []visualization.ConceptLink{}
	}
	return links
}

func findConceptNode(nodes []visualization.ConceptNode, label string) (visualization.ConceptNode, bool) {
	clean := cleanConcept(label)
	for _, n := range nodes {
		if labelsMatch(cleanConcept(n.Label), clean) {
			return n, true
		}
	}
	return visualization.ConceptNode{}, false
}

// conceptsShareWord reports whether a word longer than three characters of
// one label contains, or is contained in, such a word of the other.
func conceptsShareWord(a, b string) bool {
	for _, wa := range strings.Fields(a) {
		if textutil.RuneLen(wa) <= conceptMinKeywordLength {
			continue
		}
		for _, wb := range strings.Fields(b) {
			if textutil.RuneLen(wb) <= conceptMinKeywordLength {
				continue
			}
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				return true
			}
		}
	}
	return false
}

func linkDegrees(links []visualization.ConceptLink) map[string]int {
	degree := make(map[string]int)
	for _, l := range links {
		degree[l.Source]++
		degree[l.Target]++
	}
	return degree
}

func weighConcepts(nodes []visualization.ConceptNode, degree map[string]int) {
	for i := range nodes {
		n := &nodes[i]
		if n.Importance == 0 {
			n.Importance = 1
		}
		n.Importance += conceptLinkBonus * float64(degree[n.ID])
		n.Size = max(conceptSizeMin, min(conceptSizeMax, conceptSizeMin+n.Importance*conceptSizePerWeight))
	}
}

// layoutConcepts places nodes on a circle, main concepts inside and details
// outside, then pulls well connected nodes toward the center.
func layoutConcepts(nodes []visualization.ConceptNode, degree map[string]int) {
	for i := range nodes {
		n := &nodes[i]
		angle := float64(i) / float64(len(nodes)) * 2 * math.Pi
		r := conceptRadius
		switch n.Type {
		case visualization.ConceptMain:
			r *= conceptMainRadius
		case visualization.ConceptDetail:
			r *= conceptDetailRadius
		}
		x := conceptCenterX + math.Cos(angle)*r
		y := conceptCenterY + math.Sin(angle)*r
		if degree[n.ID] > conceptHubLinks {
			x += (conceptCenterX - x) * conceptHubPull
			y += (conceptCenterY - y) * conceptHubPull
		}
		n.Position = &visualization.Position{X: x, Y: y}
	}
}
