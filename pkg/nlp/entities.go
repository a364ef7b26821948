package nlp

import (
	"context"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

// Fixed confidence per entity category.
var entityConfidence = map[common.EntityType]float64{
	common.EntityPerson:       0.8,
	common.EntityOrganization: 0.7,
	common.EntityConcept:      0.6,
	common.EntityAction:       0.7,
}

// Synthetic position stride per entity category.
var positionStride = map[common.EntityType]int{
	common.EntityPerson:       10,
	common.EntityOrganization: 15,
	common.EntityConcept:      8,
	common.EntityAction:       12,
}

var organizationHeads = map[string]struct{}{
	"universidad": {}, "ministerio": {}, "instituto": {}, "empresa": {},
	"asociación": {}, "fundación": {}, "banco": {}, "compañía": {},
	"organización": {}, "consejo": {}, "tribunal": {}, "departamento": {},
	"dirección": {}, "servicio": {}, "centro": {}, "agencia": {},
	"gobierno": {}, "comisión": {}, "escuela": {}, "hospital": {},
}

var honorifics = map[string]struct{}{
	"sr": {}, "sra": {}, "dr": {}, "dra": {}, "don": {}, "doña": {},
	"profesor": {}, "profesora": {},
}

// connectors may join capitalized words inside one name.
var connectors = map[string]struct{}{
	"de": {}, "del": {}, "la": {}, "las": {}, "los": {}, "y": {},
}

// functionWords are dropped when capitalized only because they open a
// sentence.
var functionWords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {}, "en": {},
	"de": {}, "del": {}, "y": {}, "o": {}, "a": {}, "al": {}, "con": {},
	"por": {}, "se": {}, "su": {}, "sus": {}, "lo": {}, "es": {}, "si": {},
	"no": {}, "le": {}, "les": {}, "mi": {}, "tu": {},
}

var nonNounSuffixes = []string{"ar", "er", "ir", "ando", "iendo", "mente"}

// names holds the person and organization spans found in a text.
type names struct {
	persons       []string
	organizations []string
	// parts are the lowercase words of every name, excluded from concepts.
	parts map[string]struct{}
}

// ExtractEntities returns persons, organizations, concepts and actions of
// content, grouped in that order. Concepts keep duplicates; actions are
// unique. Positions are synthetic.
func (p *Processor) ExtractEntities(ctx context.Context, content string) ([]common.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := scanWords(content)
	found := p.findNames(words)

	entities := make([]common.Entity, 0, len(words))
	entities = appendEntities(entities, found.persons, common.EntityPerson)
	entities = appendEntities(entities, found.organizations, common.EntityOrganization)
	entities = appendEntities(entities, p.findConcepts(words, found.parts), common.EntityConcept)
	entities = appendEntities(entities, p.findActions(words), common.EntityAction)
	return entities, nil
}

func appendEntities(dst []common.Entity, texts []string, t common.EntityType) []common.Entity {
	stride := positionStride[t]
	for i, text := range texts {
		start := i * stride
		dst = append(dst, common.Entity{
			Text:       text,
			Type:       t,
			Confidence: entityConfidence[t],
			Position:   common.Position{Start: start, End: start + textutil.RuneLen(text)},
		})
	}
	return dst
}

func (p *Processor) findNames(words []word) names {
	found := names{parts: map[string]struct{}{}}
	addParts := func(run []string) {
		for _, w := range run {
			found.parts[textutil.Lower(w)] = struct{}{}
		}
	}

	for i := 0; i < len(words); {
		w := words[i]
		if isAcronym(w.text) {
			found.organizations = append(found.organizations, w.text)
			addParts([]string{w.text})
			i++
			continue
		}
		if !isCapitalized(w.text) {
			i++
			continue
		}

		run := []string{w.text}
		j := i + 1
		for j < len(words) && !words[j].punctBefore {
			next := words[j]
			if isCapitalized(next.text) && !isAcronym(next.text) {
				run = append(run, next.text)
				j++
				continue
			}
			_, isConnector := connectors[next.text]
			if isConnector && j+1 < len(words) && !words[j+1].punctBefore && isCapitalized(words[j+1].text) {
				run = append(run, next.text, words[j+1].text)
				j += 2
				continue
			}
			break
		}
		i = j

		if w.sentenceStart {
			lower := textutil.Lower(run[0])
			if _, ok := functionWords[lower]; ok || p.lexicon.IsStopword(lower) {
				run = run[1:]
			}
		}
		if len(run) == 0 {
			continue
		}

		if hasOrganizationHead(run) {
			found.organizations = append(found.organizations, strings.Join(run, " "))
			addParts(run)
			continue
		}

		honorific := false
		if _, ok := honorifics[textutil.Lower(run[0])]; ok {
			honorific = true
			run = run[1:]
		}
		if len(run) == 0 {
			continue
		}
		if honorific || (len(run) >= 2 && len(run) <= 4) {
			found.persons = append(found.persons, strings.Join(run, " "))
			addParts(run)
		}
	}
	return found
}

func hasOrganizationHead(run []string) bool {
	for _, w := range run {
		if _, ok := organizationHeads[textutil.Lower(w)]; ok {
			return true
		}
	}
	return false
}

func (p *Processor) findConcepts(words []word, nameParts map[string]struct{}) []string {
	var concepts []string
	for _, w := range words {
		tok := textutil.Lower(w.text)
		if textutil.RuneLen(tok) <= 3 || p.lexicon.IsStopword(tok) || isNumeric(tok) {
			continue
		}
		if _, ok := nameParts[tok]; ok {
			continue
		}
		if _, ok := p.actionFor(tok); ok {
			continue
		}
		if hasAnySuffix(tok, nonNounSuffixes) {
			continue
		}
		concepts = append(concepts, tok)
	}
	return concepts
}

// findActions returns the action verbs mentioned in words, each once, in
// order of first mention.
func (p *Processor) findActions(words []word) []string {
	var actions []string
	seen := map[string]struct{}{}
	for _, w := range words {
		verb, ok := p.actionFor(textutil.Lower(w.text))
		if !ok {
			continue
		}
		if _, dup := seen[verb]; dup {
			continue
		}
		seen[verb] = struct{}{}
		actions = append(actions, verb)
	}
	return actions
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
