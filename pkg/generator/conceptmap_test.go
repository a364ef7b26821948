package generator

import (
	"context"
	"math"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

func energyFixture() *common.DocumentAnalysisResult {
	return &common.DocumentAnalysisResult{
		DocumentID: "energia",
		Segments: []common.DocumentSegment{
			{
				ID:       "s1",
				Type:     common.SegmentParagraph,
				Content:  "La energía solar depende del sol",
				Keywords: []string{"energía", "solar", "depende"},
				Entities: []common.Entity{concept("energía"), concept("solar")},
			},
			{
				ID:       "s2",
				Type:     common.SegmentParagraph,
				Content:  "La energía eólica usa viento",
				Keywords: []string{"energía", "eólica", "viento"},
				Entities: []common.Entity{concept("energía"), concept("viento")},
			},
		},
		Entities:   []common.Entity{concept("energía"), concept("solar"), concept("energía"), concept("viento")},
		Confidence: 0.7,
	}
}

func conceptByLabel(t *testing.T, g *visualization.ConceptMapGraph, label string) visualization.ConceptNode {
	t.Helper()
	for _, n := range g.Nodes {
		if n.Label == label {
			return n
		}
	}
	t.Fatalf("no node labelled %q", label)
	return visualization.ConceptNode{}
}

func TestConceptMap_Generate(t *testing.T) {
	g, err := NewConceptMap(Options{}).Generate(context.Background(), energyFixture())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	cm := g.(*visualization.ConceptMapGraph)

	wantTypes := []struct {
		label string
		typ   visualization.ConceptNodeType
	}{
		{"energía", visualization.ConceptMain},
		{"solar", visualization.ConceptMain},
		{"viento", visualization.ConceptMain},
		{"depende", visualization.ConceptSecondary},
		{"eólica", visualization.ConceptSecondary},
	}
	if len(cm.Nodes) != len(wantTypes) {
		t.Fatalf("got %d nodes, want %d", len(cm.Nodes), len(wantTypes))
	}
	for i, w := range wantTypes {
		n := cm.Nodes[i]
		if n.Label != w.label || n.Type != w.typ {
			t.Errorf("node %d = %q/%s, want %q/%s", i, n.Label, n.Type, w.label, w.typ)
		}
		if n.Color != ConceptColors[w.typ] {
			t.Errorf("node %d color = %s", i, n.Color)
		}
	}

	if len(cm.Edges) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(cm.Edges), cm.Edges)
	}
	for _, l := range cm.Edges {
		if l.Label != "relacionado" || l.Strength != 0.6 || l.Relationship != "se relaciona con" {
			t.Errorf("unexpected co-occurrence link %+v", l)
		}
	}

	energy := conceptByLabel(t, cm, "energía")
	// frequency 4 plus 0.5 per link
	if energy.Importance != 5 || energy.Size != 35 {
		t.Errorf("energía importance/size = %v/%v, want 5/35", energy.Importance, energy.Size)
	}
	if d := conceptByLabel(t, cm, "depende"); d.Size != 23 {
		t.Errorf("depende size = %v, want 23", d.Size)
	}

	// Main concepts sit at 0.6 of the base radius.
	p := energy.Position
	if r := math.Hypot(p.X-conceptCenterX, p.Y-conceptCenterY); math.Abs(r-90) > 1e-9 {
		t.Errorf("main radius = %v, want 90", r)
	}

	// 0.4*5 nodes + 0.6*2 links + 1.5*3 main
	if math.Abs(cm.Metadata.Complexity-7.7) > 1e-9 {
		t.Errorf("Complexity = %v, want 7.7", cm.Metadata.Complexity)
	}
}

func TestConceptMap_RelationshipLinks(t *testing.T) {
	analysis := energyFixture()
	analysis.Relationships = []common.Relationship{
		{Source: "Energía", Target: "viento", Type: common.RelationCauses, Confidence: 0.6},
		{Source: "energía", Target: "energías", Type: common.RelationIncludes, Confidence: 0.7},
		{Source: "solar", Target: "viento", Type: "mystery", Confidence: 0.3},
	}

	g, err := NewConceptMap(Options{}).Generate(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	cm := g.(*visualization.ConceptMapGraph)

	if cm.Edges[0].Label != "causa" || cm.Edges[0].Strength != 0.6 {
		t.Errorf("first link = %+v, want causa/0.6", cm.Edges[0])
	}
	if cm.Edges[1].Label != "relacionado con" {
		t.Errorf("unknown relationship label = %q", cm.Edges[1].Label)
	}
	for _, l := range cm.Edges {
		if l.Source == l.Target {
			t.Errorf("self link %+v", l)
		}
	}
	// causa + fallback label + energía/solar; energía/viento already linked
	if len(cm.Edges) != 3 {
		t.Errorf("got %d links, want 3", len(cm.Edges))
	}
}

func TestConceptMap_ActionPadding(t *testing.T) {
	analysis := &common.DocumentAnalysisResult{
		DocumentID: "acciones",
		Entities:   []common.Entity{action("Analizar"), action("crear")},
	}

	g, err := NewConceptMap(Options{}).Generate(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	cm := g.(*visualization.ConceptMapGraph)
	if len(cm.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(cm.Nodes))
	}
	n := cm.Nodes[0]
	if n.Label != "analizar" || n.Type != visualization.ConceptSecondary || n.Description != "Acción: Analizar" {
		t.Errorf("padding node = %+v", n)
	}
	// importance 3 and no links
	if n.Importance != 3 || n.Size != 29 {
		t.Errorf("importance/size = %v/%v, want 3/29", n.Importance, n.Size)
	}
}

func TestConceptsShareWord(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"energía solar", "paneles solares", true},
		{"agua", "aguacero", true},
		{"sol", "solar", false},
		{"clima", "tiempo", false},
	}
	for _, tt := range tests {
		if got := conceptsShareWord(tt.a, tt.b); got != tt.want {
			t.Errorf("conceptsShareWord(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
