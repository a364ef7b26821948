package generator

import (
	"regexp"
	"slices"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

var (
	reLeadingArticle = regexp.MustCompile(`(?i)^(el|la|los|las|un|una)\s+`)
	reNonWord        = regexp.MustCompile(`[^\p{L}\p{N}\s_]`)
	reHeadingMarks   = regexp.MustCompile(`^#+\s*`)
	reNumberedItem   = regexp.MustCompile(`^\d+\.\s*`)
	reBulletItem     = regexp.MustCompile(`^[•\-*]\s*`)
)

// cleanLabel strips a leading article and punctuation and keeps the first
// three words.
func cleanLabel(text string) string {
	s := reLeadingArticle.ReplaceAllString(text, "")
	s = strings.TrimSpace(reNonWord.ReplaceAllString(s, ""))
	words := strings.Split(s, " ")
	return strings.Join(words[:min(len(words), 3)], " ")
}

// cleanConcept is the normalized form used as a concept frequency key.
func cleanConcept(text string) string {
	return strings.TrimSpace(reNonWord.ReplaceAllString(textutil.Lower(text), ""))
}

func cleanHeading(text string) string {
	s := reHeadingMarks.ReplaceAllString(text, "")
	return strings.TrimSpace(reNonWord.ReplaceAllString(s, ""))
}

func cleanListItem(text string) string {
	s := reNumberedItem.ReplaceAllString(text, "")
	s = reBulletItem.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// labelsMatch reports whether either label contains the other, ignoring
// case and accents. Empty labels never match.
func labelsMatch(a, b string) bool {
	fa, fb := textutil.Fold(a), textutil.Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// segmentMentioning returns the first segment whose content contains text.
func segmentMentioning(segments []common.DocumentSegment, text string) (common.DocumentSegment, bool) {
	needle := textutil.Lower(text)
	for _, s := range segments {
		if strings.Contains(textutil.Lower(s.Content), needle) {
			return s, true
		}
	}
	return common.DocumentSegment{}, false
}

type counted struct {
	text  string
	count int
}

// frequencies counts keys in first-seen order.
type frequencies struct {
	index map[string]int
	items []counted
}

func newFrequencies() *frequencies {
	return &frequencies{index: make(map[string]int)}
}

func (f *frequencies) add(key string) {
	if i, ok := f.index[key]; ok {
		f.items[i].count++
		return
	}
	f.index[key] = len(f.items)
	f.items = append(f.items, counted{text: key, count: 1})
}

// top returns up to n keys by descending count, earlier keys first on ties.
func (f *frequencies) top(n int) []counted {
	sorted := slices.Clone(f.items)
	slices.SortStableFunc(sorted, func(a, b counted) int {
		return b.count - a.count
	})
	return sorted[:min(n, len(sorted))]
}
