// Package generator turns a document analysis into one of the four
// visualization graphs.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

var (
	ErrUnsupportedType = errors.New("unsupported visualization type")
	ErrNoAnalysis      = errors.New("analysis result is required")
)

// Generator builds one visualization type from an analysis result. Every
// graph a Generator returns has already been pruned of dangling edges.
type Generator interface {
	Type() common.VisualizationType
	Generate(ctx context.Context, analysis *common.DocumentAnalysisResult) (visualization.Graph, error)
}

// Options are shared by all generators.
type Options struct {
	// Now stamps Metadata.GeneratedAt. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) clock() func() time.Time {
	if o.Now == nil {
		return time.Now
	}
	return o.Now
}

// Registry maps every visualization type to its generator.
type Registry struct {
	generators map[common.VisualizationType]Generator
}

// NewRegistry returns a registry holding the four built-in generators.
func NewRegistry(opts Options) *Registry {
	r := &Registry{generators: make(map[common.VisualizationType]Generator, len(common.VisualizationTypes))}
	r.Register(NewFlowchart(opts))
	r.Register(NewConceptMap(opts))
	r.Register(NewHierarchy(opts))
	r.Register(NewMindMap(opts))
	return r
}

// Register adds or replaces the generator for g.Type().
func (r *Registry) Register(g Generator) {
	r.generators[g.Type()] = g
}

// Get returns the generator for t.
func (r *Registry) Get(t common.VisualizationType) (Generator, error) {
	g, ok := r.generators[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
	return g, nil
}

// Generate builds a graph of type t from analysis.
func (r *Registry) Generate(ctx context.Context, t common.VisualizationType, analysis *common.DocumentAnalysisResult) (visualization.Graph, error) {
	g, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, analysis)
}

// begin validates the inputs every generator shares.
func begin(ctx context.Context, analysis *common.DocumentAnalysisResult, what string) error {
	if analysis == nil {
		return ErrNoAnalysis
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("error generating %s: %w", what, err)
	}
	return nil
}

// finish prunes g and logs a summary.
func finish(g visualization.Graph, nodes, edges int) {
	dropped := g.Prune()
	meta := g.Meta()
	logger.Debug("Visualization generated",
		"type", g.VisualizationType(),
		"document_id", meta.DocumentID,
		"nodes", nodes,
		"edges", edges-dropped,
		"dropped_edges", dropped,
		"complexity", fmt.Sprintf("%.2f", meta.Complexity),
	)
}
