// Package nlp extracts entities and relationships from Spanish text with
// lexical heuristics.
package nlp

import (
	"github.com/kljensen/snowball/spanish"

	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

// Processor is safe for concurrent use.
type Processor struct {
	lexicon *textutil.Lexicon
	// actionStems maps the Snowball stem of each action verb to the verb.
	actionStems map[string]string
}

// NewProcessor builds a processor over lex. A nil lexicon selects the
// built-in one.
func NewProcessor(lex *textutil.Lexicon) *Processor {
	if lex == nil {
		lex = textutil.Default()
	}
	stems := make(map[string]string, len(lex.Actions))
	for _, v := range lex.Actions {
		stems[Stem(v)] = v
	}
	return &Processor{lexicon: lex, actionStems: stems}
}

// Lexicon returns the lexicon the processor was built with.
func (p *Processor) Lexicon() *textutil.Lexicon {
	return p.lexicon
}

// Stem returns the Spanish Snowball stem of a lowercase word.
func Stem(w string) string {
	return spanish.Stem(w, false)
}

var nominalSuffixes = []string{"ción", "sión", "miento", "dad", "ncia", "or", "ora"}

// actionFor maps a lowercase token to an action verb. A token counts when it
// contains the verb or is an inflection of it ("analiza" for "analizar");
// nominalizations such as "definición" are not actions.
func (p *Processor) actionFor(tok string) (string, bool) {
	if v, ok := p.lexicon.IsAction(tok); ok {
		return v, true
	}
	if hasAnySuffix(tok, nominalSuffixes) || textutil.RuneLen(tok) <= 3 {
		return "", false
	}
	v, ok := p.actionStems[Stem(tok)]
	return v, ok
}
