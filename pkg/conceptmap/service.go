package conceptmap

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sync"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/ai"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

var (
	// ErrNoJSON is returned when the model answer contains no JSON object.
	ErrNoJSON = errors.New("no JSON object in model response")
	// ErrInvalidShape is returned when the JSON lacks nodes or edges.
	ErrInvalidShape = errors.New("model response is missing nodes or edges")
)

const (
	maxAILabel       = 25
	defaultEdgeLabel = "relaciona"
	errPrefix        = "error en generación de mapa conceptual"
)

// reJSONObject spans from the first opening to the last closing brace.
var reJSONObject = regexp.MustCompile(`\{[\s\S]*\}`)

type ServiceOptions struct {
	// MaxPromptTokens caps the document text sent to the model. Zero sends
	// the whole text.
	MaxPromptTokens int
	// Rand drives layout jitter. A time seeded source is used when nil.
	Rand *rand.Rand
	Now  func() time.Time
}

// Service generates concept maps with a language model.
type Service struct {
	client          ai.CompletionClient
	maxPromptTokens int
	now             func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(client ai.CompletionClient, opts ServiceOptions) *Service {
	rng := opts.Rand
	if rng == nil {
		rng = newTimeSeeded()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		client:          client,
		maxPromptTokens: opts.MaxPromptTokens,
		now:             now,
		rng:             rng,
	}
}

func newTimeSeeded() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1))
}

// GenerateConceptMap asks the model for a concept map of content and lays
// it out. Missing JSON or a response without nodes and edges fails the
// call; it is not retried.
func (s *Service) GenerateConceptMap(ctx context.Context, content string) (*ConceptMapData, error) {
	start := s.now()

	text, truncated, err := ai.TruncateTokens(content, s.maxPromptTokens)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	if truncated {
		logger.Warn("Concept map input truncated", "max_tokens", s.maxPromptTokens)
	}

	answer, err := s.client.GenerateCompletion(ctx, buildPrompt(text),
		ai.WithJSONSchema("concept_map", modelSchema()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}

	resp, err := parseResponse(answer)
	if err != nil {
		logger.Error("Failed to parse concept map response", "err", err)
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}

	s.mu.Lock()
	data := layoutModelMap(*resp.Nodes, *resp.Edges, s.rng.Float64)
	s.mu.Unlock()
	data.Metadata.ProcessingTimeMs = s.now().Sub(start).Milliseconds()

	logger.Info("Concept map generated",
		"nodes", data.Metadata.TotalNodes,
		"edges", data.Metadata.TotalConnections,
		"complexity", data.Metadata.Complexity,
	)
	return data, nil
}

func parseResponse(answer string) (*modelResponse, error) {
	raw := reJSONObject.FindString(answer)
	if raw == "" {
		return nil, ErrNoJSON
	}

	var resp modelResponse
	if err := ai.UnmarshalFlexible(raw, &resp); err != nil {
		return nil, fmt.Errorf("error al interpretar respuesta: %w", err)
	}
	if resp.Nodes == nil || resp.Edges == nil {
		return nil, ErrInvalidShape
	}
	return &resp, nil
}

// modelLevel maps unknown levels to detail so every node has a ring.
func modelLevel(l Level) Level {
	switch l {
	case LevelCentral, LevelPrimary, LevelSecondary, LevelDetail:
		return l
	default:
		return LevelDetail
	}
}

func layoutModelMap(in []modelNode, rawEdges []modelEdge, float func() float64) *ConceptMapData {
	perLevel := map[Level]int{}
	for _, n := range in {
		perLevel[modelLevel(n.Level)]++
	}

	seen := map[Level]int{}
	nodes := make([]Node, 0, len(in))
	for i, n := range in {
		level := modelLevel(n.Level)
		index := seen[level]
		seen[level]++

		x, y := float64(centerX), float64(centerY)
		if level != LevelCentral {
			x, y = ringPosition(index, perLevel[level], aiRadii[level]+jitter(float, aiJitter))
		}

		id := n.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", level, i+1)
		}
		nodes = append(nodes, Node{
			ID:    id,
			Label: textutil.Truncate(n.Label, maxAILabel),
			Level: level,
			X:     x,
			Y:     y,
			Size:  nodeSize(n.Label, level),
			Color: levelColors[level],
		})
	}

	edges := make([]Edge, 0, len(rawEdges))
	for i, e := range rawEdges {
		label := e.Label
		if label == "" {
			label = defaultEdgeLabel
		}
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i+1)
		}
		edges = append(edges, Edge{ID: id, Source: e.Source, Target: e.Target, Label: label})
	}
	edges = visualization.PruneDanglingEdges(nodes, edges)

	return &ConceptMapData{
		Nodes: nodes,
		Edges: edges,
		Metadata: Metadata{
			TotalNodes:       len(nodes),
			TotalConnections: len(edges),
			Complexity:       modelComplexity(len(nodes)),
			GeneratedWithAI:  true,
		},
	}
}

func modelComplexity(nodes int) Complexity {
	switch {
	case nodes <= 8:
		return ComplexitySimple
	case nodes <= 15:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}
