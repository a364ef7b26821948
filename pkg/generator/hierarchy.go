package generator

import (
	"context"
	"strings"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

const (
	hierarchyMaxLevel       = 3
	hierarchyConceptSeeds   = 5
	hierarchyListItems      = 10
	hierarchyItemMinLength  = 5
	hierarchyItemMaxLength  = 100
	hierarchyExcerptLength  = 120
	hierarchyLevelSpacing   = 150.0
	hierarchyNodeSpacing    = 100.0
	hierarchyMinWidth       = 800.0
	hierarchyStartX         = 50.0
	hierarchyStartY         = 50.0
	hierarchyNodeWeight     = 0.3
	hierarchyLevelWeight    = 1.5
	hierarchyWideWeight     = 2.0
	hierarchyWideChildCount = 3
)

type Hierarchy struct {
	now func() time.Time
}

func NewHierarchy(opts Options) *Hierarchy {
	return &Hierarchy{now: opts.clock()}
}

func (h *Hierarchy) Type() common.VisualizationType { return common.HierarchicalScheme }

// Generate builds a tree of at most four levels under the main topic of the
// document. The structure lives in Parent and Children; Edges stays empty.
func (h *Hierarchy) Generate(ctx context.Context, analysis *common.DocumentAnalysisResult) (visualization.Graph, error) {
	if err := begin(ctx, analysis, "hierarchy"); err != nil {
		return nil, err
	}

	nodes := hierarchyNodes(analysis)
	assignParents(nodes)
	layoutHierarchy(nodes)

	g := &visualization.HierarchyGraph{
		Nodes: nodes,
		Edges: []visualization.HierarchyEdge{},
		Metadata: visualization.Metadata{
			Title:       "Esquema Jerárquico - " + analysis.DocumentID,
			Description: "Esquema jerárquico que organiza la información del documento en una estructura de árbol",
			GeneratedAt: h.now(),
			DocumentID:  analysis.DocumentID,
			Complexity:  hierarchyComplexity(nodes),
			Confidence:  analysis.Confidence,
		},
	}
	finish(g, len(nodes), 0)
	return g, nil
}

func hierarchyNodes(analysis *common.DocumentAnalysisResult) []visualization.HierarchyNode {
	node := func(prefix, label string, level int, description string) visualization.HierarchyNode {
		return visualization.HierarchyNode{
			ID:          textutil.GenerateID(prefix),
			Label:       label,
			Level:       level,
			Children:    []string{},
			Description: description,
		}
	}

	nodes := []visualization.HierarchyNode{
		node("root", mainTopic(analysis.Entities), 0, "Tema principal del documento"),
	}

	headings := 0
	for _, seg := range analysis.Segments {
		if seg.Type != common.SegmentHeading {
			continue
		}
		headings++
		level := min(max(seg.Level, 1), hierarchyMaxLevel)
		nodes = append(nodes, node("heading", cleanHeading(seg.Content), level, seg.Content))
	}

	if headings == 0 {
		seen := make(map[string]struct{})
		for _, e := range common.EntitiesOfType(analysis.Entities, common.EntityConcept, common.EntityOrganization) {
			if len(seen) == hierarchyConceptSeeds {
				break
			}
			key := textutil.Fold(e.Text)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			nodes = append(nodes, node("concept", e.Text, 1, conceptDescription(analysis.Segments, e.Text, hierarchyExcerptLength)))
		}
	}

	for _, rel := range analysis.Relationships {
		if rel.Type != common.RelationIncludes && rel.Type != common.RelationPartOf {
			continue
		}
		source := textutil.Lower(rel.Source)
		for _, n := range nodes {
			if strings.Contains(textutil.Lower(n.Label), source) {
				nodes = append(nodes, node("sub", rel.Target, 2, "Parte de: "+rel.Source))
				break
			}
		}
	}

	items := 0
	for _, seg := range analysis.Segments {
		if seg.Type != common.SegmentList {
			continue
		}
		if items == hierarchyListItems {
			break
		}
		items++
		item := cleanListItem(seg.Content)
		if n := textutil.RuneLen(item); n > hierarchyItemMinLength && n < hierarchyItemMaxLength {
			nodes = append(nodes, node("detail", item, hierarchyMaxLevel, seg.Content))
		}
	}

	return nodes
}

// mainTopic is the most frequent concept or organization, "Documento" when
// there is none.
func mainTopic(entities []common.Entity) string {
	freq := newFrequencies()
	for _, e := range common.EntitiesOfType(entities, common.EntityConcept, common.EntityOrganization) {
		freq.add(e.Text)
	}
	if top := freq.top(1); len(top) > 0 {
		return top[0].text
	}
	return "Documento"
}

func conceptDescription(segments []common.DocumentSegment, concept string, excerpt int) string {
	if seg, ok := segmentMentioning(segments, concept); ok {
		return textutil.Excerpt(seg.Content, excerpt)
	}
	return "Concepto: " + concept
}

// assignParents links each node of levels 1 to 3 to a node one level up,
// preferring word overlap and falling back to the parent with the fewest
// children.
func assignParents(nodes []visualization.HierarchyNode) {
	byLevel := groupByLevel(nodes)
	for level := 1; level <= hierarchyMaxLevel; level++ {
		parents := byLevel[level-1]
		if len(parents) == 0 {
			continue
		}
		for _, child := range byLevel[level] {
			parent := bestParent(&nodes[child], nodes, parents)
			nodes[child].Parent = nodes[parent].ID
			nodes[parent].Children = append(nodes[parent].Children, nodes[child].ID)
		}
	}
}

// groupByLevel returns node indexes per level in node order.
func groupByLevel(nodes []visualization.HierarchyNode) map[int][]int {
	byLevel := make(map[int][]int)
	for i, n := range nodes {
		byLevel[n.Level] = append(byLevel[n.Level], i)
	}
	return byLevel
}

func bestParent(child *visualization.HierarchyNode, nodes []visualization.HierarchyNode, parents []int) int {
	childWords := strings.Fields(textutil.Lower(child.Label))

	best, bestScore := -1, 0
	for _, p := range parents {
		parentWords := strings.Fields(textutil.Lower(nodes[p].Label))
		score := 0
		for _, w := range childWords {
			for _, pw := range parentWords {
				if strings.Contains(pw, w) || strings.Contains(w, pw) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	if best >= 0 {
		return best
	}

	best = parents[0]
	for _, p := range parents[1:] {
		if len(nodes[p].Children) < len(nodes[best].Children) {
			best = p
		}
	}
	return best
}

func layoutHierarchy(nodes []visualization.HierarchyNode) {
	for level, idxs := range groupByLevel(nodes) {
		count := float64(len(idxs))
		width := max(hierarchyMinWidth, count*hierarchyNodeSpacing)
		for i, idx := range idxs {
			nodes[idx].Position = &visualization.Position{
				X: hierarchyStartX + float64(i)*(width/count),
				Y: hierarchyStartY + float64(level)*hierarchyLevelSpacing,
			}
		}
	}
}

func hierarchyComplexity(nodes []visualization.HierarchyNode) float64 {
	levels, wide := 0, 0
	for _, n := range nodes {
		levels = max(levels, n.Level+1)
		if len(n.Children) > hierarchyWideChildCount {
			wide++
		}
	}
	c := hierarchyNodeWeight*float64(len(nodes)) +
		hierarchyLevelWeight*float64(levels) +
		hierarchyWideWeight*float64(wide)
	return min(c, 10)
}
