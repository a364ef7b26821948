package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

const (
	wordsPerMinute = 200
	statsTopics    = 5
)

// DocumentStats is a quick summary of a document without entity enrichment.
type DocumentStats struct {
	SegmentCount int `json:"segmentCount"`
	// EstimatedReadingTime is in minutes.
	EstimatedReadingTime int                 `json:"estimatedReadingTime"`
	ComplexityScore      float64             `json:"complexityScore"`
	Patterns             common.PatternFlags `json:"patterns"`
	Topics               []string            `json:"topics"`
	ReadabilityScore     int                 `json:"readabilityScore"`
}

// GetDocumentStats segments content and reports structure metrics.
// Reading time counts words as runs separated by single spaces.
func (a *Analyzer) GetDocumentStats(ctx context.Context, content string) (DocumentStats, error) {
	segments := a.lexicon.SegmentDocument(content)
	structure, err := a.extractor.AnalyzeDocumentStructure(ctx, content)
	if err != nil {
		return DocumentStats{}, fmt.Errorf("error computing document stats: %w", err)
	}

	words := len(strings.Split(content, " "))
	topics := structure.Topics
	if len(topics) > statsTopics {
		topics = topics[:statsTopics]
	}

	return DocumentStats{
		SegmentCount:         len(segments),
		EstimatedReadingTime: (words + wordsPerMinute - 1) / wordsPerMinute,
		ComplexityScore:      structure.ComplexityScore,
		Patterns:             a.lexicon.DetectPatterns(content),
		Topics:               topics,
		ReadabilityScore:     structure.ReadabilityScore,
	}, nil
}
