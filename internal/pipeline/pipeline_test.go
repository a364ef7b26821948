package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/ai"
	"github.com/OFFIS-RIT/docvis/pkg/analyzer"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/conceptmap"
	"github.com/OFFIS-RIT/docvis/pkg/generator"
	"github.com/OFFIS-RIT/docvis/pkg/loader"
	"github.com/OFFIS-RIT/docvis/pkg/nlp"
)

const processDoc = `# Proceso de fabricación
Primero el operario debe preparar la materia prima en el almacén.
Luego la máquina procesa la materia prima y genera piezas metálicas.
Después el inspector revisa las piezas metálicas con cuidado.
Finalmente el embalaje protege las piezas durante el transporte.`

func newTestPipeline(params Params) *Pipeline {
	if params.Rand == nil {
		params.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return New(params)
}

func TestVisualize_DefaultsToRecommendation(t *testing.T) {
	p := newTestPipeline(Params{})
	ctx := context.Background()

	out, err := p.Visualize(ctx, VisualizeParams{Content: processDoc})
	if err != nil {
		t.Fatalf("Visualize() error = %v", err)
	}
	if out.Analysis.DocumentID == "" {
		t.Fatal("document id not generated")
	}
	if got, want := out.Graph.VisualizationType(), out.Analysis.RecommendedVisualizations[0]; got != want {
		t.Fatalf("graph type = %s, want first recommendation %s", got, want)
	}
	if out.Record != nil {
		t.Fatal("record created without persist")
	}
}

func TestVisualize_Persist(t *testing.T) {
	p := newTestPipeline(Params{})
	ctx := context.Background()

	out, err := p.Visualize(ctx, VisualizeParams{
		DocumentID: "doc-7",
		Content:    processDoc,
		Type:       common.MindMap,
		Persist:    true,
	})
	if err != nil {
		t.Fatalf("Visualize() error = %v", err)
	}
	if out.Record == nil || out.Record.DocumentID != "doc-7" || out.Record.Type != common.MindMap {
		t.Fatalf("record = %+v", out.Record)
	}

	recs, err := p.Store().ListByDocument(ctx, "doc-7")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(recs) != 1 || recs[0].ID != out.Record.ID {
		t.Fatalf("stored records = %+v", recs)
	}
	g, err := recs[0].Graph()
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if g.VisualizationType() != common.MindMap {
		t.Fatalf("stored graph type = %s", g.VisualizationType())
	}
}

type silentExtractor struct{}

func (silentExtractor) ExtractEntities(context.Context, string) ([]common.Entity, error) {
	return nil, nil
}

func (silentExtractor) ExtractRelationships(context.Context, []common.DocumentSegment) ([]common.Relationship, error) {
	return nil, nil
}

func (silentExtractor) AnalyzeDocumentStructure(context.Context, string) (nlp.DocumentStructure, error) {
	return nlp.DocumentStructure{}, nil
}

func TestVisualize_Errors(t *testing.T) {
	quiet := newTestPipeline(Params{
		Analyzer: analyzer.New(analyzer.Params{Extractor: silentExtractor{}}),
	})
	p := newTestPipeline(Params{})
	ctx := context.Background()

	tests := []struct {
		name   string
		p      *Pipeline
		params VisualizeParams
		want   error
	}{
		{"EmptyContent", p, VisualizeParams{Content: "  "}, ErrEmptyContent},
		{"UnknownType", p, VisualizeParams{Content: processDoc, Type: "PIE"}, generator.ErrUnsupportedType},
		{"NoRecommendation", quiet, VisualizeParams{Content: "texto"}, ErrNoRecommendation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.p.Visualize(ctx, tc.params); !errors.Is(err, tc.want) {
				t.Fatalf("Visualize() error = %v, want %v", err, tc.want)
			}
		})
	}
}

type stubClient struct {
	answer string
	err    error
}

func (s stubClient) GenerateCompletion(context.Context, string, ...ai.GenerateOption) (string, error) {
	return s.answer, s.err
}
func (stubClient) ResetMetrics()               {}
func (stubClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

const waterDoc = "El agua de la lluvia forma nubes. El agua de las nubes vuelve como lluvia."

func TestConceptMap_Sources(t *testing.T) {
	ctx := context.Background()
	good := conceptmap.NewService(stubClient{answer: `{"nodes":[{"id":"c","label":"Agua","level":"central"}],"edges":[]}`}, conceptmap.ServiceOptions{})
	bad := conceptmap.NewService(stubClient{err: errors.New("model down")}, conceptmap.ServiceOptions{})

	tests := []struct {
		name         string
		service      *conceptmap.Service
		useAI        bool
		wantFallback bool
		wantAI       bool
	}{
		{"Simple", nil, false, false, false},
		{"NoModel", nil, true, true, false},
		{"ModelFails", bad, true, true, false},
		{"Model", good, true, false, true},
		{"ModelNotRequested", good, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPipeline(Params{ConceptMaps: tc.service})
			data, fallback, err := p.ConceptMap(ctx, waterDoc, tc.useAI)
			if err != nil {
				t.Fatalf("ConceptMap() error = %v", err)
			}
			if fallback != tc.wantFallback {
				t.Errorf("fallback = %v, want %v", fallback, tc.wantFallback)
			}
			if data.Metadata.GeneratedWithAI != tc.wantAI {
				t.Errorf("GeneratedWithAI = %v, want %v", data.Metadata.GeneratedWithAI, tc.wantAI)
			}
		})
	}
}

func TestConceptMap_EmptyContent(t *testing.T) {
	if _, _, err := newTestPipeline(Params{}).ConceptMap(context.Background(), "", true); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("ConceptMap() error = %v, want ErrEmptyContent", err)
	}
}

type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, source string) ([]byte, error) {
	text, ok := m[source]
	if !ok {
		return nil, loader.ErrNotFound
	}
	return []byte(text), nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	if _, err := newTestPipeline(Params{}).Load(ctx, "a.txt"); !errors.Is(err, ErrNoLoader) {
		t.Fatalf("Load() without loader error = %v", err)
	}

	p := newTestPipeline(Params{Loader: mapLoader{"a.txt": "contenido"}})
	got, err := p.Load(ctx, "a.txt")
	if err != nil || got != "contenido" {
		t.Fatalf("Load() = %q, %v", got, err)
	}
	if _, err := p.Load(ctx, "b.txt"); !errors.Is(err, loader.ErrNotFound) || !strings.Contains(err.Error(), "b.txt") {
		t.Fatalf("Load(missing) error = %v", err)
	}
}
