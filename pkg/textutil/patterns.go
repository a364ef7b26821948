package textutil

import (
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

// DetectPatterns reports which indicator lists of the default lexicon occur
// in text.
func DetectPatterns(text string) common.PatternFlags {
	return defaultLexicon.DetectPatterns(text)
}

// DetectPatterns is a case-insensitive substring match of text against the
// four indicator lists. One occurrence is enough to set a flag.
func (l *Lexicon) DetectPatterns(text string) common.PatternFlags {
	lower := Lower(text)
	return common.PatternFlags{
		HasProcesses:       ContainsAny(lower, l.Process),
		HasCausalRelations: ContainsAny(lower, l.Causal),
		HasHierarchy:       ContainsAny(lower, l.Hierarchy),
		HasDecisions:       ContainsAny(lower, l.Decision),
	}
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CountContaining returns how many of texts contain at least one of substrs
// after lowercasing.
func CountContaining(texts []string, substrs []string) int {
	n := 0
	for _, t := range texts {
		if ContainsAny(Lower(t), substrs) {
			n++
		}
	}
	return n
}
