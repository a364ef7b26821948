package generator

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

func TestHierarchy_Generate(t *testing.T) {
	analysis := &common.DocumentAnalysisResult{
		DocumentID: "edu",
		Segments: []common.DocumentSegment{
			{ID: "h1", Type: common.SegmentHeading, Level: 1, Content: "# Sistema Educativo"},
			{ID: "h2", Type: common.SegmentHeading, Level: 2, Content: "## Niveles educativos"},
			{ID: "l1", Type: common.SegmentList, Content: "1. Educación primaria obligatoria"},
			{ID: "l2", Type: common.SegmentList, Content: "- Educación secundaria"},
			{ID: "l3", Type: common.SegmentList, Content: "- FP"},
		},
		Entities: []common.Entity{concept("sistema"), concept("educación"), concept("sistema")},
		Relationships: []common.Relationship{
			{Source: "Sistema", Target: "Colegios", Type: common.RelationIncludes, Confidence: 0.7},
			{Source: "Museo", Target: "Salas", Type: common.RelationPartOf, Confidence: 0.7},
		},
		Confidence: 0.8,
	}

	g, err := NewHierarchy(Options{}).Generate(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	h := g.(*visualization.HierarchyGraph)

	type row struct {
		label  string
		level  int
		parent int
	}
	want := []row{
		{"sistema", 0, -1},
		{"Sistema Educativo", 1, 0},
		{"Niveles educativos", 2, 1},
		{"Colegios", 2, 1},
		{"Educación primaria obligatoria", 3, 2},
		{"Educación secundaria", 3, 3},
	}
	if len(h.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d: %+v", len(h.Nodes), len(want), h.Nodes)
	}
	for i, w := range want {
		n := h.Nodes[i]
		if n.Label != w.label || n.Level != w.level {
			t.Errorf("node %d = %q level %d, want %q level %d", i, n.Label, n.Level, w.label, w.level)
		}
		wantParent := ""
		if w.parent >= 0 {
			wantParent = h.Nodes[w.parent].ID
		}
		if n.Parent != wantParent {
			t.Errorf("node %d parent = %q, want %q", i, n.Parent, wantParent)
		}
	}

	if !reflect.DeepEqual(h.Nodes[1].Children, []string{h.Nodes[2].ID, h.Nodes[3].ID}) {
		t.Errorf("children of heading = %v", h.Nodes[1].Children)
	}
	if h.Nodes[3].Description != "Parte de: Sistema" {
		t.Errorf("sub description = %q", h.Nodes[3].Description)
	}
	if len(h.Edges) != 0 {
		t.Errorf("expected no edges, got %d", len(h.Edges))
	}

	if p := h.Nodes[0].Position; p == nil || p.X != 50 || p.Y != 50 {
		t.Errorf("root position = %+v", p)
	}
	if p := h.Nodes[3].Position; p == nil || p.X != 450 || p.Y != 350 {
		t.Errorf("second level-2 position = %+v", p)
	}

	// 0.3*6 nodes + 1.5*4 levels
	if math.Abs(h.Metadata.Complexity-7.8) > 1e-9 {
		t.Errorf("Complexity = %v, want 7.8", h.Metadata.Complexity)
	}
	if h.Metadata.Confidence != 0.8 {
		t.Errorf("Confidence = %v", h.Metadata.Confidence)
	}
}

func TestHierarchy_ConceptSectionsWithoutHeadings(t *testing.T) {
	analysis := &common.DocumentAnalysisResult{
		DocumentID: "agua",
		Segments: []common.DocumentSegment{
			{ID: "p1", Type: common.SegmentParagraph, Content: "El agua cubre gran parte del planeta."},
		},
		Entities: []common.Entity{concept("agua"), concept("agua"), organization("ONU"), concept("energía")},
	}

	g, err := NewHierarchy(Options{}).Generate(context.Background(), analysis)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	h := g.(*visualization.HierarchyGraph)

	var labels []string
	for _, n := range h.Nodes {
		labels = append(labels, n.Label)
	}
	if !reflect.DeepEqual(labels, []string{"agua", "agua", "ONU", "energía"}) {
		t.Fatalf("labels = %v", labels)
	}
	if !strings.HasPrefix(h.Nodes[1].Description, "El agua cubre") || !strings.HasSuffix(h.Nodes[1].Description, "...") {
		t.Errorf("description = %q", h.Nodes[1].Description)
	}
	if h.Nodes[3].Description != "Concepto: energía" {
		t.Errorf("description = %q", h.Nodes[3].Description)
	}
	for _, n := range h.Nodes[1:] {
		if n.Parent != h.Nodes[0].ID {
			t.Errorf("%s parent = %q, want root", n.Label, n.Parent)
		}
	}
}

func TestBestParent(t *testing.T) {
	nodes := []visualization.HierarchyNode{
		{ID: "a", Label: "Historia de Roma"},
		{ID: "b", Label: "Geografía", Children: []string{}},
		{ID: "c", Label: "Roma imperial"},
		{ID: "d", Label: "Clima", Children: nil},
	}
	if got := bestParent(&nodes[2], nodes, []int{0, 1}); got != 0 {
		t.Errorf("overlap: got parent %d, want 0", got)
	}

	nodes[0].Children = []string{"x"}
	if got := bestParent(&nodes[3], nodes, []int{0, 1}); got != 1 {
		t.Errorf("fewest children: got parent %d, want 1", got)
	}

	nodes[0].Children = nil
	if got := bestParent(&nodes[3], nodes, []int{0, 1}); got != 0 {
		t.Errorf("tie: got parent %d, want first", got)
	}
}
