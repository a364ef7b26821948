package textutil

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the Spanish indicator lists used by segmentation, pattern
// detection and entity extraction.
type Lexicon struct {
	Process   []string `yaml:"process"`
	Causal    []string `yaml:"causal"`
	Hierarchy []string `yaml:"hierarchy"`
	Decision  []string `yaml:"decision"`
	Stopwords []string `yaml:"stopwords"`
	Actions   []string `yaml:"actions"`

	stops map[string]struct{}
}

var (
	processIndicators = []string{
		"primero", "segundo", "tercero", "luego", "después", "finalmente",
		"paso", "etapa", "fase", "proceso", "procedimiento",
		"a continuación", "por último", "secuencia",
	}
	causalIndicators = []string{
		"porque", "debido a", "causa", "provoca", "consecuencia",
		"por lo tanto", "por eso", "genera", "origina", "produce",
		"efecto", "resultado de",
	}
	hierarchyIndicators = []string{
		"incluye", "se divide", "tipos de", "clasifica", "categoría",
		"compuesto por", "consta de", "subtipo", "jerarquía", "nivel",
		"contiene", "forma parte",
	}
	// "si " keeps the trailing space so "sistema" does not count.
	decisionIndicators = []string{
		"si ", "en caso de", "depende", "opción", "elegir", "decidir",
		"alternativa", "o bien",
	}
	spanishStopwords = []string{
		"para", "como", "pero", "este", "esta", "estos", "estas", "entre",
		"sobre", "también", "desde", "hasta", "cuando", "donde", "porque",
		"todo", "todos", "toda", "todas", "cada", "otro", "otra", "otros",
		"otras", "puede", "pueden", "tiene", "tienen", "sido", "está",
		"están", "menos", "sino", "aunque", "mientras", "según", "durante",
		"ante", "tras", "cual", "cuales", "quien", "quienes", "esto", "eso",
		"aquí", "allí", "hace", "hacen", "del", "los", "las", "una", "uno",
		"unos", "unas", "que", "con", "por", "sus", "más", "muy", "ser",
		"son", "fue", "han", "hay", "ese", "esa", "esos", "esas", "mismo",
		"misma", "antes", "bien", "solo", "sólo", "siempre", "nunca",
		"algo", "nada", "mucho", "muchos", "poco", "pocos", "tanto",
		"dentro", "fuera", "cuyo", "cuya", "ellos", "ellas", "nosotros",
		"usted", "ustedes", "será", "serán", "había", "haber", "estar",
		"luego", "primero", "finalmente", "después",
	}
	actionVerbs = []string{
		"realizar", "ejecutar", "crear", "desarrollar", "analizar",
		"evaluar", "implementar", "diseñar", "aplicar", "verificar",
		"revisar", "completar", "preparar", "establecer", "definir",
		"identificar", "organizar", "planificar", "elaborar", "calcular",
	}
)

// DefaultLexicon returns a fresh copy of the built-in lists.
func DefaultLexicon() *Lexicon {
	l := &Lexicon{
		Process:   append([]string(nil), processIndicators...),
		Causal:    append([]string(nil), causalIndicators...),
		Hierarchy: append([]string(nil), hierarchyIndicators...),
		Decision:  append([]string(nil), decisionIndicators...),
		Stopwords: append([]string(nil), spanishStopwords...),
		Actions:   append([]string(nil), actionVerbs...),
	}
	l.index()
	return l
}

var defaultLexicon = DefaultLexicon()

// Default returns the shared built-in lexicon. Callers must not modify it.
func Default() *Lexicon {
	return defaultLexicon
}

// LoadLexicon reads a YAML file and appends its entries to the built-in
// lists. Built-in entries are never removed.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var extra Lexicon
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	l := DefaultLexicon()
	l.Process = mergeUnique(l.Process, extra.Process)
	l.Causal = mergeUnique(l.Causal, extra.Causal)
	l.Hierarchy = mergeUnique(l.Hierarchy, extra.Hierarchy)
	l.Decision = mergeUnique(l.Decision, extra.Decision)
	l.Stopwords = mergeUnique(l.Stopwords, extra.Stopwords)
	l.Actions = mergeUnique(l.Actions, extra.Actions)
	l.index()
	return l, nil
}

// IsAction reports whether token contains one of the action verbs and
// returns that verb.
func (l *Lexicon) IsAction(token string) (string, bool) {
	for _, v := range l.Actions {
		if strings.Contains(token, v) {
			return v, true
		}
	}
	return "", false
}

// IsStopword reports whether the lowercase token is a stopword.
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stops[token]
	return ok
}

func (l *Lexicon) index() {
	l.stops = make(map[string]struct{}, len(l.Stopwords))
	for _, w := range l.Stopwords {
		l.stops[Lower(w)] = struct{}{}
	}
}

func mergeUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, w := range list {
			w = Lower(w)
			if w == "" {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
