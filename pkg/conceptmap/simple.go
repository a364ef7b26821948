package conceptmap

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"

	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

const (
	simpleMaxConcepts = 10
	simpleMinFreq     = 2
	simpleMinLetters  = 4
	simpleMaxLabel    = 20
	simpleJitter      = 20
)

var reLetterRun = regexp.MustCompile(`\p{L}+`)

// DefaultConcepts stand in when no word repeats.
var DefaultConcepts = []string{"Documento", "Contenido", "Información"}

// SimpleEdgeLabels are drawn at random for fallback edges.
var SimpleEdgeLabels = []string{"incluye", "comprende", "define", "mediante"}

type simpleRing struct {
	radius float64
	size   float64
}

var simpleRings = map[Level]simpleRing{
	LevelCentral:   {radius: 0, size: 110},
	LevelPrimary:   {radius: 200, size: 85},
	LevelSecondary: {radius: 320, size: 65},
	LevelDetail:    {radius: 440, size: 50},
}

// rankLevel assigns rings by frequency rank: 1 central, 3 primary,
// 3 secondary, the rest detail.
func rankLevel(rank int) Level {
	switch {
	case rank == 0:
		return LevelCentral
	case rank <= 3:
		return LevelPrimary
	case rank <= 6:
		return LevelSecondary
	default:
		return LevelDetail
	}
}

// frequentWords returns up to simpleMaxConcepts lowercase words of at least
// four letters that occur twice or more, most frequent first. Ties keep
// first occurrence order.
func frequentWords(content string) []string {
	counts := map[string]int{}
	var order []string
	for _, w := range reLetterRun.FindAllString(textutil.Lower(content), -1) {
		if textutil.RuneLen(w) < simpleMinLetters {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	words := slices.DeleteFunc(order, func(w string) bool { return counts[w] < simpleMinFreq })
	slices.SortStableFunc(words, func(a, b string) int { return counts[b] - counts[a] })
	return words[:min(len(words), simpleMaxConcepts)]
}

// GenerateSimpleConceptMap builds a concept map from word frequencies
// without any network call. rng drives ring jitter, parent choice and edge
// labels, so a seeded source gives reproducible maps; nil uses a time
// seeded source.
func GenerateSimpleConceptMap(content string, rng *rand.Rand) *ConceptMapData {
	if rng == nil {
		rng = newTimeSeeded()
	}

	concepts := frequentWords(content)
	if len(concepts) == 0 {
		concepts = DefaultConcepts
	}

	perLevel := map[Level]int{}
	for i := range concepts {
		perLevel[rankLevel(i)]++
	}

	seen := map[Level]int{}
	nodes := make([]Node, 0, len(concepts))
	for i, concept := range concepts {
		level := rankLevel(i)
		ring := simpleRings[level]
		index := seen[level]
		seen[level]++

		x, y := float64(centerX), float64(centerY)
		if level != LevelCentral {
			x, y = ringPosition(index, perLevel[level], ring.radius+jitter(rng.Float64, simpleJitter))
		}
		nodes = append(nodes, Node{
			ID:    fmt.Sprintf("%s-%d", level, i),
			Label: textutil.Truncate(concept, simpleMaxLabel),
			Level: level,
			X:     x,
			Y:     y,
			Size:  ring.size,
			Color: levelColors[level],
		})
	}

	edges := make([]Edge, 0, len(nodes))
	for _, n := range nodes {
		if n.Level == LevelCentral {
			continue
		}
		want := parentLevel(n.Level)
		var parents []Node
		for _, p := range nodes {
			if p.Level == want {
				parents = append(parents, p)
			}
		}
		if len(parents) == 0 {
			continue
		}
		parent := parents[rng.IntN(len(parents))]
		edges = append(edges, Edge{
			ID:     "edge-" + n.ID,
			Source: parent.ID,
			Target: n.ID,
			Label:  SimpleEdgeLabels[rng.IntN(len(SimpleEdgeLabels))],
		})
	}

	complexity := ComplexitySimple
	if len(nodes) > 6 {
		complexity = ComplexityMedium
	}
	return &ConceptMapData{
		Nodes: nodes,
		Edges: edges,
		Metadata: Metadata{
			TotalNodes:       len(nodes),
			TotalConnections: len(edges),
			Complexity:       complexity,
		},
	}
}
