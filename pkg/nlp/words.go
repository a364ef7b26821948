package nlp

import (
	"strings"
	"unicode"
)

// word is a token with its original casing and the boundary information
// the name heuristics need.
type word struct {
	text string
	// sentenceStart is set for the first word of the text and for words
	// following '.', '!', '?', ':' or a line break.
	sentenceStart bool
	// punctBefore is set when any non-space separator precedes the word.
	punctBefore bool
}

func scanWords(text string) []word {
	var words []word
	var current strings.Builder
	sentence := true
	punct := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		words = append(words, word{text: current.String(), sentenceStart: sentence, punctBefore: punct})
		current.Reset()
		sentence = false
		punct = false
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			current.WriteRune(r)
		case r == '.' && isHonorific(current.String()):
			flush()
		case r == '.' || r == '!' || r == '?' || r == ':' || r == '\n' || r == '¿' || r == '¡':
			flush()
			sentence = true
			punct = true
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			punct = true
		}
	}
	flush()
	return words
}

func isHonorific(s string) bool {
	_, ok := honorifics[strings.ToLower(s)]
	return ok
}

func isCapitalized(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// isAcronym matches all-caps words of two to six letters such as "ONU".
func isAcronym(s string) bool {
	n := 0
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
		n++
	}
	return n >= 2 && n <= 6
}
