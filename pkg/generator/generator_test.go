package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/analyzer"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRegistry() *Registry {
	return NewRegistry(Options{Now: func() time.Time { return fixedNow }})
}

func concept(text string) common.Entity {
	return common.Entity{Text: text, Type: common.EntityConcept, Confidence: 0.6}
}

func action(text string) common.Entity {
	return common.Entity{Text: text, Type: common.EntityAction, Confidence: 0.7}
}

func organization(text string) common.Entity {
	return common.Entity{Text: text, Type: common.EntityOrganization, Confidence: 0.7}
}

const sampleDocument = `# Gestión de residuos
La Universidad de Sevilla incluye tres fases de gestión.
Primero se debe analizar el residuo, luego se debe clasificar el material.
Si el residuo es peligroso, entonces se aplica un procedimiento especial.
Reciclaje: proceso que transforma residuos en materia prima.
1. Recogida selectiva de envases
2. Tratamiento en planta
- Por ejemplo, el compostaje de materia orgánica
La contaminación provoca daños porque genera residuos tóxicos.`

func TestRegistry_AllTypesProduceValidGraphs(t *testing.T) {
	a := analyzer.New(analyzer.Params{ParallelSegments: 4})
	analysis, err := a.AnalyzeDocument(context.Background(), "doc-1", sampleDocument)
	if err != nil {
		t.Fatalf("AnalyzeDocument() error = %v", err)
	}

	r := testRegistry()
	for _, typ := range common.VisualizationTypes {
		t.Run(string(typ), func(t *testing.T) {
			g, err := r.Generate(context.Background(), typ, analysis)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if g.VisualizationType() != typ {
				t.Fatalf("type = %s, want %s", g.VisualizationType(), typ)
			}

			meta := g.Meta()
			if meta.DocumentID != "doc-1" {
				t.Errorf("DocumentID = %q", meta.DocumentID)
			}
			if !meta.GeneratedAt.Equal(fixedNow) {
				t.Errorf("GeneratedAt = %v", meta.GeneratedAt)
			}
			if meta.Complexity < 0 || meta.Complexity > 10 {
				t.Errorf("Complexity = %v out of range", meta.Complexity)
			}
			if dropped := g.Prune(); dropped != 0 {
				t.Fatalf("graph still had %d dangling edges", dropped)
			}
		})
	}
}

func TestRegistry_UnsupportedType(t *testing.T) {
	_, err := testRegistry().Generate(context.Background(), "PIE_CHART", &common.DocumentAnalysisResult{})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	r := testRegistry()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	for _, typ := range common.VisualizationTypes {
		if _, err := r.Generate(context.Background(), typ, nil); !errors.Is(err, ErrNoAnalysis) {
			t.Errorf("%s: expected ErrNoAnalysis, got %v", typ, err)
		}
		_, err := r.Generate(canceled, typ, &common.DocumentAnalysisResult{DocumentID: "x"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", typ, err)
		}
	}
}

func TestGenerate_EmptyAnalysis(t *testing.T) {
	r := testRegistry()
	empty := &common.DocumentAnalysisResult{DocumentID: "vacio", Confidence: 0.1}

	for _, typ := range common.VisualizationTypes {
		g, err := r.Generate(context.Background(), typ, empty)
		if err != nil {
			t.Fatalf("%s: Generate() error = %v", typ, err)
		}
		if g.Meta().Title == "" {
			t.Errorf("%s: empty title", typ)
		}
	}

	g, _ := r.Generate(context.Background(), common.Flowchart, empty)
	fc := g.(*visualization.FlowchartGraph)
	if len(fc.Nodes) != 2 || fc.Nodes[0].Label != "Inicio" || fc.Nodes[1].Label != "Fin" {
		t.Fatalf("unexpected empty flowchart: %+v", fc.Nodes)
	}
}
