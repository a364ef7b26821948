package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lower lowercases s with Spanish casing rules after composing accents, so
// "é" and "é" compare equal.
func Lower(s string) string {
	return cases.Lower(language.Spanish).String(norm.NFC.String(s))
}

// Fold lowercases s and strips diacritics. It is used where labels are
// matched loosely, never for keyword detection.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return Lower(s)
	}
	return cases.Lower(language.Spanish).String(out)
}

// Tokenize splits text on every rune that is neither a letter nor a digit
// and returns the lowercase tokens.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range Lower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// SplitSentences splits on runs of '.', '!' and '?' and drops empty parts.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate shortens labels longer than limit runes to limit-3 runes plus
// "...", so the result never exceeds limit.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	keep := max(limit-3, 0)
	return string(r[:keep]) + "..."
}

// Excerpt returns the first n runes of s followed by "...", always.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// RuneLen is the length of s in characters.
func RuneLen(s string) int {
	return len([]rune(s))
}
