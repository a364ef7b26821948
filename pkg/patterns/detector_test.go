package patterns

import (
	"math"
	"testing"

	"github.com/OFFIS-RIT/docvis/pkg/common"
)

func seg(t common.SegmentType, content string) common.DocumentSegment {
	return common.DocumentSegment{Type: t, Content: content}
}

func rel(t common.RelationshipType) common.Relationship {
	return common.Relationship{Source: "a", Target: "b", Type: t}
}

func TestDetectAdvancedPatterns_Keywords(t *testing.T) {
	segments := []common.DocumentSegment{
		seg(common.SegmentParagraph, "Primero se prepara la mezcla"),
		seg(common.SegmentParagraph, "Luego se compara: es mayor que antes"),
		seg(common.SegmentParagraph, "Existen varios tipos de suelo"),
		seg(common.SegmentParagraph, "El problema tiene una solución"),
	}

	got := Detector{}.DetectAdvancedPatterns(segments, nil, nil)
	if !got.HasSequentialSteps || !got.HasComparisons || !got.HasCategorizations {
		t.Fatalf("keyword flags missing: %+v", got)
	}
	if !got.HasProblems || !got.HasSolutions {
		t.Fatalf("problem/solution flags missing: %+v", got)
	}
	if got.HasInstructions || got.HasDefinitions {
		t.Fatalf("unexpected flags: %+v", got)
	}
}

func TestDetectAdvancedPatterns_SequentialNeedsTwoSegments(t *testing.T) {
	segments := []common.DocumentSegment{
		seg(common.SegmentParagraph, "Primero, segundo y tercero en la misma línea"),
		seg(common.SegmentParagraph, "Nada más"),
	}
	if (Detector{}).DetectAdvancedPatterns(segments, nil, nil).HasSequentialSteps {
		t.Fatal("one segment must not count as sequential steps")
	}
}

func TestDetectAdvancedPatterns_Instructions(t *testing.T) {
	actions := make([]common.Entity, 4)
	for i := range actions {
		actions[i] = common.Entity{Text: "analizar", Type: common.EntityAction}
	}
	got := (Detector{}).DetectAdvancedPatterns(nil, actions, nil)
	if !got.HasInstructions {
		t.Fatal("four action entities should flag instructions")
	}
	if (Detector{}).DetectAdvancedPatterns(nil, actions[:3], nil).HasInstructions {
		t.Fatal("three action entities should not flag instructions")
	}
}

func TestDetectAdvancedPatterns_Relationships(t *testing.T) {
	tests := []struct {
		name         string
		rels         []common.Relationship
		strong       bool
		complex      bool
		causalChains bool
	}{
		{"Empty", nil, false, false, false},
		{"HalfHierarchical", []common.Relationship{rel(common.RelationIncludes), rel(common.RelationFollows)}, true, false, false},
		{"TwoFifthsIsNotStrong", []common.Relationship{
			rel(common.RelationIncludes), rel(common.RelationPartOf),
			rel(common.RelationFollows), rel(common.RelationFollows), rel(common.RelationFollows),
		}, false, false, false},
		{"Complex", []common.Relationship{
			rel(common.RelationCauses), rel(common.RelationCauses), rel(common.RelationFollows),
			rel(common.RelationFollows), rel(common.RelationIncludes), rel(common.RelationFollows),
		}, false, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Detector{}.DetectAdvancedPatterns(nil, nil, tc.rels)
			if got.HasStrongHierarchy != tc.strong || got.HasComplexRelations != tc.complex || got.HasCausalChains != tc.causalChains {
				t.Fatalf("got strong=%v complex=%v causal=%v, want %v %v %v",
					got.HasStrongHierarchy, got.HasComplexRelations, got.HasCausalChains,
					tc.strong, tc.complex, tc.causalChains)
			}
		})
	}
}

func TestDetectAdvancedPatterns_Scores(t *testing.T) {
	var segments []common.DocumentSegment
	for range 3 {
		segments = append(segments, seg(common.SegmentHeading, "# Título"))
	}
	for range 2 {
		segments = append(segments, seg(common.SegmentList, "- punto"))
		segments = append(segments, seg(common.SegmentDefinition, "Término: algo"))
	}
	entities := make([]common.Entity, 16)
	rels := make([]common.Relationship, 40)

	got := Detector{}.DetectAdvancedPatterns(segments, entities, rels)
	if got.OrganizationScore != 10 {
		t.Fatalf("OrganizationScore = %v, want 10", got.OrganizationScore)
	}
	// 7/10 + min(16/8, 3) + min(40/5, 4)
	if want := 0.7 + 2 + 4; math.Abs(got.ComplexityScore-want) > 1e-9 {
		t.Fatalf("ComplexityScore = %v, want %v", got.ComplexityScore, want)
	}
	if got.RelationDensity != 2.5 {
		t.Fatalf("RelationDensity = %v, want 2.5", got.RelationDensity)
	}
}

func TestDetectAdvancedPatterns_EmptyDensity(t *testing.T) {
	got := Detector{}.DetectAdvancedPatterns(nil, nil, []common.Relationship{rel(common.RelationCauses)})
	if got.RelationDensity != 1 {
		t.Fatalf("RelationDensity = %v, want 1", got.RelationDensity)
	}
	if got.OrganizationScore != 5 {
		t.Fatalf("OrganizationScore = %v, want 5", got.OrganizationScore)
	}
}
