package nlp

import (
	"context"
	"math"
	"sort"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

// DocumentStructure summarizes sentence shape and topics of a text.
type DocumentStructure struct {
	SentenceCount           int                 `json:"sentenceCount"`
	AverageWordsPerSentence float64             `json:"averageWordsPerSentence"`
	ComplexityScore         float64             `json:"complexityScore"`
	Patterns                common.PatternFlags `json:"patterns"`
	Topics                  []string            `json:"topics"`
	ReadabilityScore        int                 `json:"readabilityScore"`
}

// Complexity points per detected pattern.
const (
	processComplexity   = 2
	causalComplexity    = 3
	hierarchyComplexity = 2
	decisionComplexity  = 3
	maxLengthComplexity = 5
	maxTopics           = 10
)

// readabilityBands maps an upper bound on average words per sentence to a
// score; texts above the last bound score 1.
var readabilityBands = []struct {
	below float64
	score int
}{
	{10, 9},
	{15, 7},
	{20, 5},
	{25, 3},
}

// AnalyzeDocumentStructure computes sentence statistics, a 0-10 complexity
// score, pattern flags, frequent topics and a readability band.
func (p *Processor) AnalyzeDocumentStructure(ctx context.Context, content string) (DocumentStructure, error) {
	if err := ctx.Err(); err != nil {
		return DocumentStructure{}, err
	}

	sentences := textutil.SplitSentences(content)
	patterns := p.lexicon.DetectPatterns(content)
	avg := averageWords(sentences)

	return DocumentStructure{
		SentenceCount:           len(sentences),
		AverageWordsPerSentence: avg,
		ComplexityScore:         complexity(content, patterns),
		Patterns:                patterns,
		Topics:                  p.Topics(content, maxTopics),
		ReadabilityScore:        readability(avg),
	}, nil
}

// Topics returns up to limit concept nouns of content ordered by frequency.
// Inflected forms sharing a Snowball stem count together and are reported by
// their most frequent surface form. Ties keep first-appearance order.
func (p *Processor) Topics(content string, limit int) []string {
	words := scanWords(content)
	concepts := p.findConcepts(words, p.findNames(words).parts)

	type group struct {
		total   int
		forms   map[string]int
		best    string
		ordinal int
	}
	groups := map[string]*group{}
	for _, c := range concepts {
		stem := Stem(c)
		g, ok := groups[stem]
		if !ok {
			g = &group{forms: map[string]int{}, ordinal: len(groups)}
			groups[stem] = g
		}
		g.total++
		g.forms[c]++
		if g.best == "" || g.forms[c] > g.forms[g.best] {
			g.best = c
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].total != ordered[j].total {
			return ordered[i].total > ordered[j].total
		}
		return ordered[i].ordinal < ordered[j].ordinal
	})

	topics := make([]string, 0, min(limit, len(ordered)))
	for _, g := range ordered {
		if len(topics) == limit {
			break
		}
		topics = append(topics, g.best)
	}
	return topics
}

func averageWords(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	total := 0
	for _, s := range sentences {
		total += len(textutil.Tokenize(s))
	}
	return float64(total) / float64(len(sentences))
}

func complexity(content string, patterns common.PatternFlags) float64 {
	score := 0.0
	if patterns.HasProcesses {
		score += processComplexity
	}
	if patterns.HasCausalRelations {
		score += causalComplexity
	}
	if patterns.HasHierarchy {
		score += hierarchyComplexity
	}
	if patterns.HasDecisions {
		score += decisionComplexity
	}
	words := len(textutil.Tokenize(content))
	score += math.Min(float64(words)/100, maxLengthComplexity)
	return math.Min(score, 10)
}

func readability(avgWords float64) int {
	for _, band := range readabilityBands {
		if avgWords < band.below {
			return band.score
		}
	}
	return 1
}
