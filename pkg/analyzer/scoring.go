package analyzer

import (
	"math"
	"slices"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

// Pattern blending thresholds.
const (
	processShareThreshold   = 0.3
	hierarchyShareThreshold = 0.2
	decisionShareThreshold  = 0.2
	conceptSegmentEntities  = 2
)

// Additive recommendation weights. They have no ground truth behind them and
// are kept exactly as tuned.
const (
	flowchartProcessWeight     = 40
	flowchartPrevalenceWeight  = 30
	flowchartComparisonWeight  = 20
	flowchartFollowsWeight     = 10
	flowchartPrevalenceMin     = 0.3
	flowchartInclusionMinScore = 20

	conceptMapConceptsWeight      = 35
	conceptMapEntitiesWeight      = 25
	conceptMapRelationshipsWeight = 25
	conceptMapCausalWeight        = 15
	conceptMapEntitiesMin         = 5
	conceptMapRelationshipsMin    = 3
	conceptMapCausalMin           = 0.2
	conceptMapInclusionMinScore   = 15

	hierarchyPatternWeight      = 45
	hierarchyPrevalenceWeight   = 30
	hierarchyRelationWeight     = 20
	hierarchyOrganizationWeight = 5
	hierarchyPrevalenceMin      = 0.2
	hierarchyInclusionMinScore  = 20

	mindMapBaseScore   = 30
	mindMapPerEntity   = 2
	mindMapMaxScore    = 70
	mindMapEntitiesMin = 3
	maxRecommendations = 3
)

// Confidence adjustments.
const (
	confidenceBase           = 0.5
	confidenceSegmentsBonus  = 0.1
	confidenceEntitiesBonus  = 0.15
	confidenceRelationsBonus = 0.1
	confidenceEntityQuality  = 0.2
	confidenceFewSegments    = 0.2
	confidenceNoEntities     = 0.3
	confidenceMin            = 0.1
	confidenceMax            = 1.0
)

// Recommendation is a scored visualization candidate.
type Recommendation struct {
	Type  common.VisualizationType `json:"type"`
	Score float64                  `json:"score"`
}

// ScoreVisualizations returns every candidate above its inclusion threshold
// in evaluation order (flowchart, concept map, hierarchy, mind map).
func ScoreVisualizations(patterns common.DocumentPatterns, entities []common.Entity, relationships []common.Relationship) []Recommendation {
	var recs []Recommendation

	flowchart := 0.0
	if patterns.HasProcesses {
		flowchart += flowchartProcessWeight
	}
	if patterns.ProcessPrevalence > flowchartPrevalenceMin {
		flowchart += flowchartPrevalenceWeight
	}
	if patterns.HasComparisons {
		flowchart += flowchartComparisonWeight
	}
	if hasRelationship(relationships, common.RelationFollows) {
		flowchart += flowchartFollowsWeight
	}
	if flowchart > flowchartInclusionMinScore {
		recs = append(recs, Recommendation{Type: common.Flowchart, Score: flowchart})
	}

	concept := 0.0
	if patterns.HasConcepts {
		concept += conceptMapConceptsWeight
	}
	if len(entities) > conceptMapEntitiesMin {
		concept += conceptMapEntitiesWeight
	}
	if len(relationships) > conceptMapRelationshipsMin {
		concept += conceptMapRelationshipsWeight
	}
	if patterns.CausalPrevalence > conceptMapCausalMin {
		concept += conceptMapCausalWeight
	}
	if concept > conceptMapInclusionMinScore {
		recs = append(recs, Recommendation{Type: common.ConceptMap, Score: concept})
	}

	hierarchy := 0.0
	if patterns.HasHierarchy {
		hierarchy += hierarchyPatternWeight
	}
	if patterns.HierarchyPrevalence > hierarchyPrevalenceMin {
		hierarchy += hierarchyPrevalenceWeight
	}
	if hasRelationship(relationships, common.RelationIncludes, common.RelationPartOf) {
		hierarchy += hierarchyRelationWeight
	}
	if len(common.EntitiesOfType(entities, common.EntityOrganization)) > 0 {
		hierarchy += hierarchyOrganizationWeight
	}
	if hierarchy > hierarchyInclusionMinScore {
		recs = append(recs, Recommendation{Type: common.HierarchicalScheme, Score: hierarchy})
	}

	if len(entities) > mindMapEntitiesMin {
		score := math.Min(mindMapBaseScore+float64(len(entities))*mindMapPerEntity, mindMapMaxScore)
		recs = append(recs, Recommendation{Type: common.MindMap, Score: score})
	}

	return recs
}

// Recommend returns at most three visualization types, highest score first.
// Equal scores keep evaluation order.
func Recommend(patterns common.DocumentPatterns, entities []common.Entity, relationships []common.Relationship) []common.VisualizationType {
	recs := ScoreVisualizations(patterns, entities, relationships)
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	out := make([]common.VisualizationType, 0, maxRecommendations)
	for _, r := range recs {
		if len(out) == maxRecommendations {
			break
		}
		out = append(out, r.Type)
	}
	return out
}

// Confidence scores how much the analysis can be trusted, in [0.1, 1].
func Confidence(segments []common.DocumentSegment, entities []common.Entity, relationships []common.Relationship) float64 {
	c := confidenceBase
	if len(segments) > 3 {
		c += confidenceSegmentsBonus
	}
	if len(entities) > 5 {
		c += confidenceEntitiesBonus
	}
	if len(relationships) > 2 {
		c += confidenceRelationsBonus
	}
	if len(entities) > 0 {
		sum := 0.0
		for _, e := range entities {
			sum += e.Confidence
		}
		c += sum / float64(len(entities)) * confidenceEntityQuality
	}
	if len(segments) < 2 {
		c -= confidenceFewSegments
	}
	if len(entities) == 0 {
		c -= confidenceNoEntities
	}
	return math.Max(confidenceMin, math.Min(confidenceMax, c))
}

func hasRelationship(relationships []common.Relationship, types ...common.RelationshipType) bool {
	for _, r := range relationships {
		if slices.Contains(types, r.Type) {
			return true
		}
	}
	return false
}
