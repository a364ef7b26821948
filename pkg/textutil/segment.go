package textutil

import (
	"regexp"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

var (
	reHeading = regexp.MustCompile(`^(#+)`)
	reList    = regexp.MustCompile(`^(\d+\.|[•\-*])`)
)

// SegmentDocument classifies every non-blank line of content using the
// default lexicon.
func SegmentDocument(content string) []common.DocumentSegment {
	return defaultLexicon.SegmentDocument(content)
}

// SegmentDocument splits content on newlines and classifies each non-blank
// line as heading, list, definition or paragraph, in that order of
// precedence. Segment content is the trimmed line.
func (l *Lexicon) SegmentDocument(content string) []common.DocumentSegment {
	lines := strings.Split(content, "\n")
	segments := make([]common.DocumentSegment, 0, len(lines))

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		seg := common.DocumentSegment{
			ID:       GenerateID("segment"),
			Content:  line,
			Keywords: l.ExtractKeywords(line),
			Entities: []common.Entity{},
		}

		switch {
		case reHeading.MatchString(line):
			seg.Type = common.SegmentHeading
			seg.Level = len(reHeading.FindStringSubmatch(line)[1])
		case reList.MatchString(line):
			seg.Type = common.SegmentList
		case isDefinition(line):
			seg.Type = common.SegmentDefinition
		default:
			seg.Type = common.SegmentParagraph
		}

		segments = append(segments, seg)
	}

	return segments
}

// isDefinition reports whether line has exactly one colon with non-empty
// text on both sides.
func isDefinition(line string) bool {
	if strings.Count(line, ":") != 1 {
		return false
	}
	term, def, _ := strings.Cut(line, ":")
	return strings.TrimSpace(term) != "" && strings.TrimSpace(def) != ""
}

// DefinitionTerm returns the text left of the colon of a definition line.
func DefinitionTerm(line string) string {
	term, _, _ := strings.Cut(line, ":")
	return strings.TrimSpace(term)
}

// ExtractKeywords returns the distinct lowercase tokens of line longer than
// three characters that are not stopwords, in order of first appearance.
func ExtractKeywords(line string) []string {
	return defaultLexicon.ExtractKeywords(line)
}

func (l *Lexicon) ExtractKeywords(line string) []string {
	keywords := []string{}
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(line) {
		if RuneLen(tok) <= 3 || l.IsStopword(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
