package generator

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

func mindMapFixture() *common.DocumentAnalysisResult {
	return &common.DocumentAnalysisResult{
		DocumentID: "renovables",
		Segments: []common.DocumentSegment{
			{ID: "h", Type: common.SegmentHeading, Level: 1, Content: "# Energía renovable"},
			{ID: "d", Type: common.SegmentDefinition, Content: "Biomasa: materia orgánica usada como combustible"},
			{
				ID:       "e",
				Type:     common.SegmentParagraph,
				Content:  "Por ejemplo, la turbina de un parque",
				Keywords: []string{"ejemplo", "turbina", "parque"},
				Entities: []common.Entity{concept("turbina")},
			},
		},
		Entities: []common.Entity{action("instalar"), concept("turbina")},
		Relationships: []common.Relationship{
			{Source: "sistema", Target: "paneles", Type: common.RelationIncludes, Confidence: 0.7},
		},
		Confidence: 0.75,
	}
}

func TestMindMap_Generate(t *testing.T) {
	g, err := NewMindMap(Options{}).Generate(context.Background(), mindMapFixture())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	mm := g.(*visualization.MindMapGraph)

	want := []struct {
		id       string
		label    string
		category visualization.MindMapCategory
		typ      visualization.ConceptNodeType
		x, y     float64
	}{
		{"central", "Energía renovable", visualization.CategoryCentral, visualization.ConceptMain, 600, 400},
		{"concept-1", "Biomasa", visualization.CategoryDefinitions, visualization.ConceptMain, 820, 400},
		{"concept-2", "paneles", visualization.CategoryComponents, visualization.ConceptSecondary, 380, 400},
		{"concept-3", "instalar", visualization.CategoryProcesses, visualization.ConceptSecondary, 600 + 300*math.Cos(math.Pi/6), 400 + 300*math.Sin(math.Pi/6)},
		{"concept-4", "turbina", visualization.CategoryExamples, visualization.ConceptDetail, 600 + 380*math.Cos(math.Pi/3), 400 + 380*math.Sin(math.Pi/3)},
	}
	if len(mm.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d: %+v", len(mm.Nodes), len(want), mm.Nodes)
	}
	for i, w := range want {
		n := mm.Nodes[i]
		if n.ID != w.id || n.Label != w.label || n.Category != w.category || n.Type != w.typ {
			t.Errorf("node %d = %s/%q/%s/%s, want %s/%q/%s/%s", i, n.ID, n.Label, n.Category, n.Type, w.id, w.label, w.category, w.typ)
		}
		if math.Abs(n.Position.X-w.x) > 1e-6 || math.Abs(n.Position.Y-w.y) > 1e-6 {
			t.Errorf("node %d position = %+v, want (%v, %v)", i, n.Position, w.x, w.y)
		}
	}

	central := 0
	for _, e := range mm.Edges {
		if e.Source == "central" {
			central++
			if e.Strength != 3 {
				t.Errorf("central edge strength = %v", e.Strength)
			}
		}
	}
	if central != 4 {
		t.Fatalf("got %d central edges, want 4", central)
	}

	labels := map[string]string{}
	for _, e := range mm.Edges {
		if e.Source == "central" {
			labels[e.Target] = e.Label
		}
	}
	wantLabels := map[string]string{
		"concept-1": "se define como",
		"concept-2": "incluye",
		"concept-3": "ejecuta",
		"concept-4": "ejemplo de",
	}
	for id, l := range wantLabels {
		if labels[id] != l {
			t.Errorf("edge to %s label = %q, want %q", id, labels[id], l)
		}
	}

	if mm.Metadata.Complexity != 1 {
		t.Errorf("Complexity = %v, want 1", mm.Metadata.Complexity)
	}
}

func TestCentralConcept(t *testing.T) {
	tests := []struct {
		name     string
		analysis *common.DocumentAnalysisResult
		want     string
	}{
		{
			name: "heading",
			analysis: &common.DocumentAnalysisResult{Segments: []common.DocumentSegment{
				{Type: common.SegmentHeading, Level: 2, Content: "## Ciclo del agua"},
			}},
			want: "Ciclo del agua",
		},
		{
			name: "short heading falls back to concepts",
			analysis: &common.DocumentAnalysisResult{
				Segments: []common.DocumentSegment{{Type: common.SegmentHeading, Level: 1, Content: "# Agua"}},
				Entities: []common.Entity{concept("lluvia"), concept("nube"), concept("nube")},
			},
			want: "nube",
		},
		{
			name:     "nothing",
			analysis: &common.DocumentAnalysisResult{},
			want:     "Concepto Principal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := centralConcept(tt.analysis); got != tt.want {
				t.Fatalf("centralConcept() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMindMap_LongLabelsTruncated(t *testing.T) {
	analysis := &common.DocumentAnalysisResult{
		Segments: []common.DocumentSegment{
			{Type: common.SegmentHeading, Level: 1, Content: "# Administración pública y servicios ciudadanos"},
		},
		Relationships: []common.Relationship{
			{Source: "x", Target: "procedimiento administrativo común", Type: common.RelationIncludes},
		},
	}

	g, err := NewMindMap(Options{}).Generate(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	mm := g.(*visualization.MindMapGraph)
	if got := mm.Nodes[0].Label; got != "Administración pública y se..." {
		t.Errorf("central label = %q", got)
	}
	if got := mm.Nodes[1].Label; got != "procedimiento admin..." {
		t.Errorf("concept label = %q", got)
	}
	if mm.Nodes[1].FullText != "procedimiento administrativo común" {
		t.Errorf("FullText = %q", mm.Nodes[1].FullText)
	}
}

func TestMentionedNearby(t *testing.T) {
	content := "el agua y la lluvia" + strings.Repeat(" ", 200) + "la sequía"
	if !mentionedNearby(content, "Agua", "lluvia") {
		t.Errorf("expected agua and lluvia to be nearby")
	}
	if mentionedNearby(content, "agua", "sequía") {
		t.Errorf("expected agua and sequía to be far apart")
	}
	if mentionedNearby(content, "agua", "nieve") {
		t.Errorf("missing concept reported nearby")
	}
}
