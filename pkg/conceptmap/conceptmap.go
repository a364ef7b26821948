// Package conceptmap builds hierarchical concept maps from free text, either
// with a language model or with a word frequency fallback.
package conceptmap

// Level is the ring a concept sits on.
type Level string

const (
	LevelCentral   Level = "central"
	LevelPrimary   Level = "primary"
	LevelSecondary Level = "secondary"
	LevelDetail    Level = "detail"
)

// Complexity buckets a map by node count.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Level Level   `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

func (n Node) NodeID() string              { return n.ID }
func (e Edge) Endpoints() (string, string) { return e.Source, e.Target }

type Metadata struct {
	TotalNodes       int        `json:"totalNodes"`
	TotalConnections int        `json:"totalConnections"`
	Complexity       Complexity `json:"complexity"`
	GeneratedWithAI  bool       `json:"generatedWithAI"`
	ProcessingTimeMs int64      `json:"processingTimeMs,omitempty"`
}

// ConceptMapData is a laid out concept map ready for drawing.
type ConceptMapData struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// Canvas center shared by both builders.
const (
	centerX = 600
	centerY = 450
)

var levelColors = map[Level]string{
	LevelCentral:   "#2563eb",
	LevelPrimary:   "#059669",
	LevelSecondary: "#dc2626",
	LevelDetail:    "#7c3aed",
}

// parentLevel is the ring a node of level l hangs from.
func parentLevel(l Level) Level {
	switch l {
	case LevelPrimary:
		return LevelCentral
	case LevelSecondary:
		return LevelPrimary
	default:
		return LevelSecondary
	}
}
