// Package pipeline wires the analyzer, generators, renderers and stores
// into the operations exposed by the HTTP server, the worker and the MCP
// tool server.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/OFFIS-RIT/docvis/internal/metrics"
	"github.com/OFFIS-RIT/docvis/pkg/ai"
	"github.com/OFFIS-RIT/docvis/pkg/analyzer"
	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/conceptmap"
	"github.com/OFFIS-RIT/docvis/pkg/generator"
	"github.com/OFFIS-RIT/docvis/pkg/loader"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/store"
	"github.com/OFFIS-RIT/docvis/pkg/store/memory"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

var (
	ErrEmptyContent     = errors.New("content is required")
	ErrNoRecommendation = errors.New("no visualization recommended for document")
	ErrNoLoader         = errors.New("document loading is not configured")
)

// Concept map sources reported to metrics.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceSimple   = "simple"
)

// Pipeline is safe for concurrent use.
type Pipeline struct {
	analyzer    *analyzer.Analyzer
	generators  *generator.Registry
	store       store.Store
	loader      loader.DocumentLoader
	conceptMaps *conceptmap.Service
	aiClient    ai.CompletionClient
	metrics     *metrics.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Params configures a Pipeline. Nil fields get in-process defaults;
// without ConceptMaps every concept map request uses the simple map, and
// without Loader only inline content is accepted.
type Params struct {
	Analyzer    *analyzer.Analyzer
	Generators  *generator.Registry
	Store       store.Store
	Loader      loader.DocumentLoader
	ConceptMaps *conceptmap.Service
	// AIClient is only used for usage reporting.
	AIClient ai.CompletionClient
	Metrics  *metrics.Metrics
	// Rand drives the simple concept map layout.
	Rand *rand.Rand
}

func New(params Params) *Pipeline {
	p := &Pipeline{
		analyzer:    params.Analyzer,
		generators:  params.Generators,
		store:       params.Store,
		loader:      params.Loader,
		conceptMaps: params.ConceptMaps,
		aiClient:    params.AIClient,
		metrics:     params.Metrics,
		rng:         params.Rand,
	}
	if p.analyzer == nil {
		p.analyzer = analyzer.New(analyzer.Params{})
	}
	if p.generators == nil {
		p.generators = generator.NewRegistry(generator.Options{})
	}
	if p.store == nil {
		p.store = memory.New()
	}
	if p.metrics == nil {
		p.metrics = metrics.New()
	}
	if p.rng == nil {
		seed := uint64(time.Now().UnixNano())
		p.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return p
}

func (p *Pipeline) Store() store.Store { return p.store }

func (p *Pipeline) Metrics() *metrics.Metrics { return p.metrics }

func (p *Pipeline) AIEnabled() bool { return p.conceptMaps != nil }

// AIUsage returns the model usage since the last ResetAIUsage and false
// when no model is configured.
func (p *Pipeline) AIUsage() (ai.ModelMetrics, bool) {
	if p.aiClient == nil {
		return ai.ModelMetrics{}, false
	}
	return p.aiClient.GetMetrics(), true
}

func (p *Pipeline) ResetAIUsage() {
	if p.aiClient != nil {
		p.aiClient.ResetMetrics()
	}
}

// Close releases the store.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Load fetches document text from source.
func (p *Pipeline) Load(ctx context.Context, source string) (string, error) {
	if p.loader == nil {
		return "", ErrNoLoader
	}
	data, err := p.loader.Load(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", source, err)
	}
	return string(data), nil
}

// Analyze runs the analyzer. An empty documentID is replaced by a fresh id.
func (p *Pipeline) Analyze(ctx context.Context, documentID, content string) (*common.DocumentAnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if documentID == "" {
		documentID = textutil.GenerateID("doc")
	}

	start := time.Now()
	result, err := p.analyzer.AnalyzeDocument(ctx, documentID, content)
	segments := 0
	if result != nil {
		segments = len(result.Segments)
	}
	p.metrics.RecordAnalysis(segments, time.Since(start), err)
	return result, err
}

func (p *Pipeline) Stats(ctx context.Context, content string) (analyzer.DocumentStats, error) {
	if strings.TrimSpace(content) == "" {
		return analyzer.DocumentStats{}, ErrEmptyContent
	}
	return p.analyzer.GetDocumentStats(ctx, content)
}

type VisualizeParams struct {
	DocumentID string
	Content    string
	// Type defaults to the first recommendation of the analysis.
	Type    common.VisualizationType
	Persist bool
}

type Visualization struct {
	Analysis *common.DocumentAnalysisResult
	Graph    visualization.Graph
	// Record is nil unless the graph was persisted.
	Record *store.Record
}

// Visualize analyzes content and generates one graph from it.
func (p *Pipeline) Visualize(ctx context.Context, params VisualizeParams) (*Visualization, error) {
	if params.Type != "" && !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", generator.ErrUnsupportedType, params.Type)
	}

	analysis, err := p.Analyze(ctx, params.DocumentID, params.Content)
	if err != nil {
		return nil, err
	}

	visType := params.Type
	if visType == "" {
		if len(analysis.RecommendedVisualizations) == 0 {
			return nil, ErrNoRecommendation
		}
		visType = analysis.RecommendedVisualizations[0]
	}

	start := time.Now()
	graph, err := p.generators.Generate(ctx, visType, analysis)
	p.metrics.RecordGeneration(string(visType), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &Visualization{Analysis: analysis, Graph: graph}
	if !params.Persist {
		return out, nil
	}

	rec, err := store.NewRecord(graph)
	if err != nil {
		return nil, err
	}
	if err := p.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist visualization: %w", err)
	}
	out.Record = rec
	logger.Debug("Visualization stored", "id", rec.ID, "document_id", rec.DocumentID, "type", rec.Type)
	return out, nil
}

// ConceptMap builds a concept map with the model when useAI is set. When
// the model fails or none is configured the simple map is returned with
// fallback=true.
func (p *Pipeline) ConceptMap(ctx context.Context, content string, useAI bool) (data *conceptmap.ConceptMapData, fallback bool, err error) {
	if strings.TrimSpace(content) == "" {
		return nil, false, ErrEmptyContent
	}

	if !useAI {
		p.metrics.RecordConceptMap(SourceSimple)
		return p.simpleConceptMap(content), false, nil
	}

	if p.conceptMaps == nil {
		logger.Debug("No model configured, using simple concept map")
		p.metrics.RecordConceptMap(SourceFallback)
		return p.simpleConceptMap(content), true, nil
	}

	data, err = p.conceptMaps.GenerateConceptMap(ctx, content)
	if err == nil {
		p.metrics.RecordConceptMap(SourceAI)
		return data, false, nil
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	logger.Warn("AI concept map failed, using simple map", "err", err)
	p.metrics.RecordConceptMap(SourceFallback)
	return p.simpleConceptMap(content), true, nil
}

func (p *Pipeline) simpleConceptMap(content string) *conceptmap.ConceptMapData {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return conceptmap.GenerateSimpleConceptMap(content, p.rng)
}
