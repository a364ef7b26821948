// Package patterns aggregates structural signals over an analyzed document.
package patterns

import (
	"math"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
)

var (
	sequentialWords     = []string{"primero", "segundo", "tercero", "luego", "después", "paso", "etapa"}
	comparisonWords     = []string{"versus", "comparado", "diferencia", "similar", "mayor", "menor", "mejor", "peor"}
	categorizationWords = []string{"tipos", "categorías", "clases", "grupos", "familias"}
	instructionWords    = []string{"debe", "realizar", "ejecutar", "hacer", "crear"}
	problemWords        = []string{"problema", "dificultad", "reto", "desafío", "obstáculo"}
	solutionWords       = []string{"solución", "resolver", "respuesta", "alternativa", "propuesta"}
)

// Thresholds of the advanced detector.
const (
	minSequentialSegments   = 2
	minDefinitionSegments   = 2 // strictly more than
	minActionEntities       = 3 // strictly more than
	hierarchyRatio          = 0.4
	complexRelationsMin     = 5 // strictly more than
	complexRelationTypesMin = 3
	causalChainMin          = 2
)

// AdvancedPatterns is the result of DetectAdvancedPatterns.
type AdvancedPatterns struct {
	HasSequentialSteps  bool `json:"hasSequentialSteps"`
	HasComparisons      bool `json:"hasComparisons"`
	HasDefinitions      bool `json:"hasDefinitions"`
	HasCategorizations  bool `json:"hasCategorizations"`
	HasInstructions     bool `json:"hasInstructions"`
	HasProblems         bool `json:"hasProblems"`
	HasSolutions        bool `json:"hasSolutions"`
	HasStrongHierarchy  bool `json:"hasStrongHierarchy"`
	HasComplexRelations bool `json:"hasComplexRelations"`
	HasCausalChains     bool `json:"hasCausalChains"`

	ComplexityScore   float64 `json:"complexityScore"`
	OrganizationScore float64 `json:"organizationScore"`
	RelationDensity   float64 `json:"relationDensity"`
}

// Detector is stateless; the zero value is ready to use.
type Detector struct{}

// DetectAdvancedPatterns layers keyword, relationship-shape and scalar
// heuristics over the analyzer output. It is deterministic.
func (Detector) DetectAdvancedPatterns(segments []common.DocumentSegment, entities []common.Entity, relationships []common.Relationship) AdvancedPatterns {
	contents := make([]string, len(segments))
	definitions := 0
	for i, s := range segments {
		contents[i] = s.Content
		if s.Type == common.SegmentDefinition {
			definitions++
		}
	}

	actions := len(common.EntitiesOfType(entities, common.EntityAction))
	anyContains := func(words []string) bool {
		return textutil.CountContaining(contents, words) > 0
	}

	hierarchical := 0
	causal := 0
	types := map[common.RelationshipType]struct{}{}
	for _, r := range relationships {
		types[r.Type] = struct{}{}
		switch r.Type {
		case common.RelationIncludes, common.RelationPartOf:
			hierarchical++
		case common.RelationCauses:
			causal++
		}
	}

	return AdvancedPatterns{
		HasSequentialSteps:  textutil.CountContaining(contents, sequentialWords) >= minSequentialSegments,
		HasComparisons:      anyContains(comparisonWords),
		HasDefinitions:      definitions > minDefinitionSegments,
		HasCategorizations:  anyContains(categorizationWords),
		HasInstructions:     actions > minActionEntities || anyContains(instructionWords),
		HasProblems:         anyContains(problemWords),
		HasSolutions:        anyContains(solutionWords),
		HasStrongHierarchy:  float64(hierarchical) > float64(len(relationships))*hierarchyRatio,
		HasComplexRelations: len(relationships) > complexRelationsMin && len(types) >= complexRelationTypesMin,
		HasCausalChains:     causal >= causalChainMin,

		ComplexityScore:   complexityScore(len(segments), len(entities), len(relationships)),
		OrganizationScore: organizationScore(segments),
		RelationDensity:   float64(len(relationships)) / float64(max(len(entities), 1)),
	}
}

func complexityScore(segments, entities, relationships int) float64 {
	score := math.Min(float64(segments)/10, 3) +
		math.Min(float64(entities)/8, 3) +
		math.Min(float64(relationships)/5, 4)
	return math.Min(score, 10)
}

func organizationScore(segments []common.DocumentSegment) float64 {
	var headings, lists, definitions int
	for _, s := range segments {
		switch s.Type {
		case common.SegmentHeading:
			headings++
		case common.SegmentList:
			lists++
		case common.SegmentDefinition:
			definitions++
		}
	}

	score := 5.0
	if headings > 2 {
		score += 2
	}
	if lists > 1 {
		score += 1.5
	}
	if definitions > 1 {
		score += 1.5
	}
	return math.Min(score, 10)
}
