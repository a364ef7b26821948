package nlp

import (
	"context"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

// Fixed confidence per relationship type.
var relationshipConfidence = map[common.RelationshipType]float64{
	common.RelationCauses:   0.6,
	common.RelationIncludes: 0.7,
	common.RelationFollows:  0.8,
}

// ExtractRelationships links the entities of each segment according to the
// segment's own pattern flags. Causal and sequential segments link every
// adjacent pair; hierarchical segments link only the first two entities.
// A segment may contribute several relationship types.
func (p *Processor) ExtractRelationships(ctx context.Context, segments []common.DocumentSegment) ([]common.Relationship, error) {
	var relationships []common.Relationship

	for _, segment := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entities := segment.Entities
		if len(entities) < 2 {
			continue
		}
		patterns := p.lexicon.DetectPatterns(segment.Content)

		if patterns.HasCausalRelations {
			relationships = appendChain(relationships, entities, common.RelationCauses, segment.Content)
		}
		if patterns.HasHierarchy {
			relationships = append(relationships, newRelationship(entities[0], entities[1], common.RelationIncludes, segment.Content))
		}
		if patterns.HasProcesses {
			relationships = appendChain(relationships, entities, common.RelationFollows, segment.Content)
		}
	}

	return relationships, nil
}

func appendChain(dst []common.Relationship, entities []common.Entity, t common.RelationshipType, context string) []common.Relationship {
	for i := 0; i < len(entities)-1; i++ {
		dst = append(dst, newRelationship(entities[i], entities[i+1], t, context))
	}
	return dst
}

func newRelationship(source, target common.Entity, t common.RelationshipType, context string) common.Relationship {
	return common.Relationship{
		Source:     source.Text,
		Target:     target.Text,
		Type:       t,
		Confidence: relationshipConfidence[t],
		Context:    context,
	}
}
