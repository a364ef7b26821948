// Package analyzer orchestrates segmentation, entity and relationship
// extraction, pattern scoring and visualization recommendation.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/nlp"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"

	"golang.org/x/sync/errgroup"
)

var ErrEmptyDocumentID = errors.New("document id is required")

// Extractor is the NLP surface the analyzer depends on. *nlp.Processor
// implements it.
type Extractor interface {
	ExtractEntities(ctx context.Context, content string) ([]common.Entity, error)
	ExtractRelationships(ctx context.Context, segments []common.DocumentSegment) ([]common.Relationship, error)
	AnalyzeDocumentStructure(ctx context.Context, content string) (nlp.DocumentStructure, error)
}

// Analyzer runs the analysis pipeline. It holds no per-document state and
// is safe for concurrent use.
type Analyzer struct {
	extractor   Extractor
	lexicon     *textutil.Lexicon
	parallelMax int
}

// Params configures an Analyzer.
//
// Example:
//
//	a := analyzer.New(analyzer.Params{
//		Extractor:        nlp.NewProcessor(nil),
//		ParallelSegments: 8,
//	})
type Params struct {
	Extractor Extractor
	// Lexicon defaults to the built-in one.
	Lexicon *textutil.Lexicon
	// ParallelSegments bounds concurrent per-segment extraction. Values
	// below 1 mean one at a time.
	ParallelSegments int
}

func New(params Params) *Analyzer {
	lex := params.Lexicon
	if lex == nil {
		lex = textutil.Default()
	}
	extractor := params.Extractor
	if extractor == nil {
		extractor = nlp.NewProcessor(lex)
	}
	return &Analyzer{
		extractor:   extractor,
		lexicon:     lex,
		parallelMax: max(params.ParallelSegments, 1),
	}
}

// MinSegmentEntityConfidence filters per-segment entities.
const MinSegmentEntityConfidence = 0.5

// AnalyzeDocument runs the full pipeline over content. A failing segment
// degrades to an empty entity list; any other failure aborts the run.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, documentID string, content string) (*common.DocumentAnalysisResult, error) {
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}
	log := logger.With("document_id", documentID)
	log.Info("Starting document analysis", "bytes", len(content))

	segments, err := a.segmentAndEnrich(ctx, content, log)
	if err != nil {
		return nil, fmt.Errorf("error analyzing document: %w", err)
	}

	entities, err := a.extractor.ExtractEntities(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("error analyzing document: %w", err)
	}

	relationships, err := a.extractor.ExtractRelationships(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("error analyzing document: %w", err)
	}

	patterns := a.AnalyzePatterns(content, segments)
	recommended := Recommend(patterns, entities, relationships)
	confidence := Confidence(segments, entities, relationships)

	log.Info("Document analysis finished",
		"segments", len(segments),
		"entities", len(entities),
		"relationships", len(relationships),
		"confidence", fmt.Sprintf("%.2f", confidence),
	)

	if entities == nil {
		entities = []common.Entity{}
	}
	if relationships == nil {
		relationships = []common.Relationship{}
	}
	return &common.DocumentAnalysisResult{
		DocumentID:                documentID,
		Segments:                  segments,
		Entities:                  entities,
		Relationships:             relationships,
		Patterns:                  patterns,
		RecommendedVisualizations: recommended,
		Confidence:                confidence,
	}, nil
}

func (a *Analyzer) segmentAndEnrich(ctx context.Context, content string, log *logger.Scoped) ([]common.DocumentSegment, error) {
	segments := a.lexicon.SegmentDocument(content)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.parallelMax)
	for i := range segments {
		seg := &segments[i]
		g.Go(func() error {
			entities, err := a.extractor.ExtractEntities(gCtx, seg.Content)
			if err != nil {
				log.Warn("Error processing segment", "segment_id", seg.ID, "err", err)
				seg.Entities = []common.Entity{}
				return nil
			}
			filtered := make([]common.Entity, 0, len(entities))
			for _, e := range entities {
				if e.Confidence > MinSegmentEntityConfidence {
					filtered = append(filtered, e)
				}
			}
			seg.Entities = filtered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return segments, ctx.Err()
}

// AnalyzePatterns blends the global keyword flags of content with the share
// of segments that flag each pattern on their own.
func (a *Analyzer) AnalyzePatterns(content string, segments []common.DocumentSegment) common.DocumentPatterns {
	global := a.lexicon.DetectPatterns(content)

	var process, hierarchy, causal, decision int
	hasConcepts := false
	for _, s := range segments {
		p := a.lexicon.DetectPatterns(s.Content)
		if p.HasProcesses {
			process++
		}
		if p.HasHierarchy {
			hierarchy++
		}
		if p.HasCausalRelations {
			causal++
		}
		if p.HasDecisions {
			decision++
		}
		if len(s.Entities) > conceptSegmentEntities {
			hasConcepts = true
		}
	}

	n := float64(len(segments))
	share := func(count int) float64 {
		if n == 0 {
			return 0
		}
		return float64(count) / n
	}

	return common.DocumentPatterns{
		HasProcesses:        global.HasProcesses || float64(process) > n*processShareThreshold,
		HasConcepts:         hasConcepts,
		HasHierarchy:        global.HasHierarchy || float64(hierarchy) > n*hierarchyShareThreshold,
		HasComparisons:      float64(decision) > n*decisionShareThreshold,
		ProcessPrevalence:   share(process),
		HierarchyPrevalence: share(hierarchy),
		CausalPrevalence:    share(causal),
		DecisionPrevalence:  share(decision),
	}
}
