package visualization

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

func TestPruneDanglingEdges(t *testing.T) {
	nodes := []FlowchartNode{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []FlowchartEdge{
		{ID: "1", Source: "a", Target: "b"},
		{ID: "2", Source: "a", Target: "missing"},
		{ID: "3", Source: "ghost", Target: "c"},
		{ID: "4", Source: "b", Target: "c"},
	}

	got := PruneDanglingEdges(nodes, edges)
	want := []FlowchartEdge{edges[0], edges[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PruneDanglingEdges() = %+v, want %+v", got, want)
	}
	if edges[1].ID != "2" {
		t.Fatalf("input slice was modified: %+v", edges)
	}
}

func TestPruneDanglingEdges_Empty(t *testing.T) {
	got := PruneDanglingEdges([]ConceptNode{}, []ConceptLink{{Source: "x", Target: "y"}})
	if len(got) != 0 {
		t.Fatalf("expected no edges, got %d", len(got))
	}
}

func TestHierarchyGraph_PruneClearsReferences(t *testing.T) {
	g := &HierarchyGraph{
		Nodes: []HierarchyNode{
			{ID: "root", Children: []string{"a", "gone"}},
			{ID: "a", Parent: "root"},
			{ID: "b", Parent: "gone"},
		},
		Edges: []HierarchyEdge{{ID: "e", Source: "root", Target: "gone"}},
	}

	if dropped := g.Prune(); dropped != 1 {
		t.Fatalf("Prune() dropped %d, want 1", dropped)
	}
	if !reflect.DeepEqual(g.Nodes[0].Children, []string{"a"}) {
		t.Fatalf("children = %v", g.Nodes[0].Children)
	}
	if g.Nodes[2].Parent != "" {
		t.Fatalf("dangling parent kept: %q", g.Nodes[2].Parent)
	}
	if g.Nodes[1].Parent != "root" {
		t.Fatalf("valid parent cleared")
	}
}

func TestMarshalRoundTrip_KeepsVariant(t *testing.T) {
	tests := []Graph{
		&FlowchartGraph{Nodes: []FlowchartNode{{ID: "s", Label: "Inicio", Type: FlowStart}}},
		&ConceptMapGraph{Nodes: []ConceptNode{{ID: "c", Type: ConceptMain}}},
		&HierarchyGraph{Nodes: []HierarchyNode{{ID: "r", Level: 0}}},
		&MindMapGraph{Nodes: []MindMapNode{{ID: "central", Category: CategoryCentral}}},
	}

	for _, g := range tests {
		t.Run(string(g.VisualizationType()), func(t *testing.T) {
			data, err := Marshal(g)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			back, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back.VisualizationType() != g.VisualizationType() {
				t.Fatalf("type = %s, want %s", back.VisualizationType(), g.VisualizationType())
			}
			if !reflect.DeepEqual(back, g) {
				t.Fatalf("Unmarshal() = %+v, want %+v", back, g)
			}
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	if _, err := New(common.VisualizationType("PIE")); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
