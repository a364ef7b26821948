package mcptools

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/pkg/loader"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const processDoc = `# Proceso de fabricación
Primero el operario debe preparar la materia prima en el almacén.
Luego la máquina procesa la materia prima y genera piezas metálicas.
Después el inspector revisa las piezas metálicas con cuidado.
Finalmente el embalaje protege las piezas durante el transporte.`

type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, source string) ([]byte, error) {
	text, ok := m[source]
	if !ok {
		return nil, loader.ErrNotFound
	}
	return []byte(text), nil
}

func setup(t *testing.T) (*mcp.ClientSession, *pipeline.Pipeline) {
	t.Helper()

	p := pipeline.New(pipeline.Params{
		Loader: mapLoader{"proceso.txt": processDoc},
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
	srv := New(p, "test")

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := srv.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, p
}

func call(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent, got %T", name, result.Content[0])
	}
	return tc.Text, result.IsError
}

func TestListTools(t *testing.T) {
	session, _ := setup(t)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)

	want := []string{"analyze_document", "document_stats", "generate_concept_map", "generate_visualization"}
	if !slices.Equal(names, want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
}

func TestAnalyzeDocument(t *testing.T) {
	session, _ := setup(t)

	text, isErr := call(t, session, "analyze_document", map[string]any{
		"content":     processDoc,
		"document_id": "doc-1",
	})
	if isErr {
		t.Fatalf("analyze_document error: %s", text)
	}

	var res struct {
		DocumentID                string   `json:"documentId"`
		Segments                  []any    `json:"segments"`
		RecommendedVisualizations []string `json:"recommendedVisualizations"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.DocumentID != "doc-1" {
		t.Errorf("documentId = %q", res.DocumentID)
	}
	if len(res.Segments) == 0 || len(res.RecommendedVisualizations) == 0 {
		t.Errorf("analysis missing segments or recommendations: %s", text)
	}
}

func TestDocumentStats_FromSource(t *testing.T) {
	session, _ := setup(t)

	text, isErr := call(t, session, "document_stats", map[string]any{"source": "proceso.txt"})
	if isErr {
		t.Fatalf("document_stats error: %s", text)
	}
	var stats struct {
		SegmentCount int `json:"segmentCount"`
	}
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.SegmentCount == 0 {
		t.Fatalf("segmentCount = 0: %s", text)
	}
}

func TestGenerateVisualization_Persist(t *testing.T) {
	session, p := setup(t)

	text, isErr := call(t, session, "generate_visualization", map[string]any{
		"content":     processDoc,
		"document_id": "doc-2",
		"type":        "MIND_MAP",
		"persist":     true,
	})
	if isErr {
		t.Fatalf("generate_visualization error: %s", text)
	}
	var res struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Type != "MIND_MAP" || res.ID == "" {
		t.Fatalf("result = %+v", res)
	}

	recs, err := p.Store().ListByDocument(context.Background(), "doc-2")
	if err != nil || len(recs) != 1 || recs[0].ID != res.ID {
		t.Fatalf("stored records = %v, %v", recs, err)
	}
}

func TestGenerateConceptMap_Fallback(t *testing.T) {
	session, _ := setup(t)

	text, isErr := call(t, session, "generate_concept_map", map[string]any{"content": processDoc})
	if isErr {
		t.Fatalf("generate_concept_map error: %s", text)
	}
	var res struct {
		Fallback bool `json:"fallback"`
		Data     struct {
			Nodes []any `json:"nodes"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Fallback {
		t.Error("fallback = false without a model")
	}
	if len(res.Data.Nodes) == 0 {
		t.Error("no nodes")
	}

	text, _ = call(t, session, "generate_concept_map", map[string]any{"content": processDoc, "use_ai": false})
	if !strings.Contains(text, `"fallback": false`) {
		t.Errorf("use_ai=false reported fallback: %s", text)
	}
}

func TestToolErrors(t *testing.T) {
	session, _ := setup(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"NoDocument", "analyze_document", map[string]any{}, "content or source is required"},
		{"MissingSource", "document_stats", map[string]any{"source": "nada.txt"}, "Failed to load document"},
		{"UnknownType", "generate_visualization", map[string]any{"content": processDoc, "type": "PIE"}, "Failed to generate visualization"},
		{"BlankContent", "generate_concept_map", map[string]any{"content": "   "}, "Failed to generate concept map"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, isErr := call(t, session, tc.tool, tc.args)
			if !isErr {
				t.Fatalf("expected error, got %s", text)
			}
			if !strings.Contains(text, tc.want) {
				t.Fatalf("error = %q, want %q", text, tc.want)
			}
		})
	}
}
