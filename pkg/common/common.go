package common

// SegmentType classifies a line of document text.
type SegmentType string

const (
	SegmentHeading    SegmentType = "heading"
	SegmentList       SegmentType = "list"
	SegmentDefinition SegmentType = "definition"
	SegmentParagraph  SegmentType = "paragraph"
)

// DocumentSegment is one classified, non-blank line of a document.
//
// Segments are created by segmentation and enriched with entities by the
// analyzer. They live for the duration of one analysis run.
type DocumentSegment struct {
	ID       string      `json:"id"`
	Type     SegmentType `json:"type"`
	Content  string      `json:"content"`
	Level    int         `json:"level,omitempty"`
	Keywords []string    `json:"keywords"`
	Entities []Entity    `json:"entities"`
}

// EntityType is the coarse semantic category of an entity.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityConcept      EntityType = "concept"
	EntityAction       EntityType = "action"
)

// Position is a synthetic offset pair. It is derived from the index of the
// entity within its category and does not point into the source text.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Entity is a span of text tagged with a category and a fixed confidence.
// Entities are compared by Text only; the same text may appear many times.
type Entity struct {
	Text       string     `json:"text"`
	Type       EntityType `json:"type"`
	Confidence float64    `json:"confidence"`
	Position   Position   `json:"position"`
}

// RelationshipType is the kind of link inferred between two entities.
type RelationshipType string

const (
	RelationCauses   RelationshipType = "causes"
	RelationIncludes RelationshipType = "includes"
	RelationFollows  RelationshipType = "follows"
	RelationPartOf   RelationshipType = "part_of"
	// RelationDefines and RelationRelatesTo are never produced by the
	// extractor but are understood by the concept map labels.
	RelationDefines   RelationshipType = "defines"
	RelationRelatesTo RelationshipType = "relates_to"
)

// Relationship is a directed link between two entity texts. Source and
// Target are not stable identifiers.
type Relationship struct {
	Source     string           `json:"source"`
	Target     string           `json:"target"`
	Type       RelationshipType `json:"type"`
	Confidence float64          `json:"confidence"`
	Context    string           `json:"context"`
}

// PatternFlags are the four keyword-driven structure signals.
type PatternFlags struct {
	HasProcesses       bool `json:"hasProcesses"`
	HasCausalRelations bool `json:"hasCausalRelations"`
	HasHierarchy       bool `json:"hasHierarchy"`
	HasDecisions       bool `json:"hasDecisions"`
}

// DocumentPatterns is the blended pattern view of a whole document:
// global keyword flags combined with per-segment prevalence.
type DocumentPatterns struct {
	HasProcesses        bool    `json:"hasProcesses"`
	HasConcepts         bool    `json:"hasConcepts"`
	HasHierarchy        bool    `json:"hasHierarchy"`
	HasComparisons      bool    `json:"hasComparisons"`
	ProcessPrevalence   float64 `json:"processPrevalence"`
	CausalPrevalence    float64 `json:"causalPrevalence"`
	HierarchyPrevalence float64 `json:"hierarchyPrevalence"`
	DecisionPrevalence  float64 `json:"decisionPrevalence"`
}

// VisualizationType is the closed set of graph shapes a generator produces.
type VisualizationType string

const (
	Flowchart          VisualizationType = "FLOWCHART"
	ConceptMap         VisualizationType = "CONCEPT_MAP"
	HierarchicalScheme VisualizationType = "HIERARCHICAL_SCHEME"
	MindMap            VisualizationType = "MIND_MAP"
)

// VisualizationTypes lists every visualization type in declaration order.
var VisualizationTypes = []VisualizationType{Flowchart, ConceptMap, HierarchicalScheme, MindMap}

// Valid reports whether t is one of the four known types.
func (t VisualizationType) Valid() bool {
	for _, v := range VisualizationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DocumentAnalysisResult is the output of one analyzer run and the only
// input of the generators.
type DocumentAnalysisResult struct {
	DocumentID                string              `json:"documentId"`
	Segments                  []DocumentSegment   `json:"segments"`
	Entities                  []Entity            `json:"entities"`
	Relationships             []Relationship      `json:"relationships"`
	Patterns                  DocumentPatterns    `json:"patterns"`
	RecommendedVisualizations []VisualizationType `json:"recommendedVisualizations"`
	// Confidence is a heuristic in [0.1, 1].
	Confidence float64 `json:"confidence"`
}

// EntitiesOfType returns the entities of the given types, in order.
func EntitiesOfType(entities []Entity, types ...EntityType) []Entity {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		for _, t := range types {
			if e.Type == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
