package generator

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/OFFIS-RIT/docvis/pkg/common"
	"github.com/OFFIS-RIT/docvis/pkg/textutil"
	"github.com/OFFIS-RIT/docvis/pkg/visualization"
)

const (
	flowStartY        = 50.0
	flowSpacingY      = 120.0
	flowCenterX       = 200.0
	flowAlternateX    = 100.0
	flowDecisionX     = 250.0
	flowMinNodes      = 4
	flowTopicPadding  = 3
	flowFollowsEdges  = 3
	flowExcerptLength = 100

	flowNodeWeight     = 0.5
	flowEdgeWeight     = 0.3
	flowDecisionWeight = 2.0
	flowConfidenceBump = 0.1
)

var (
	// Matched as whole words.
	decisionWords = []string{"si"}
	// Matched as substrings of the lowercased segment.
	decisionPhrases = []string{"entonces", "cuando", "en caso", "depende", "opción", "elegir"}

	reDecisionIf   = regexp.MustCompile(`(?i)(?:^|[^\p{L}])si\s+([^,?.]+)`)
	reDecisionWhen = regexp.MustCompile(`(?i)cuando\s+([^,?.]+)`)
)

type Flowchart struct {
	now func() time.Time
}

func NewFlowchart(opts Options) *Flowchart {
	return &Flowchart{now: opts.clock()}
}

func (f *Flowchart) Type() common.VisualizationType { return common.Flowchart }

// Generate lays the document out as a top-down process: a start node, one
// step per segment and an end node.
func (f *Flowchart) Generate(ctx context.Context, analysis *common.DocumentAnalysisResult) (visualization.Graph, error) {
	if err := begin(ctx, analysis, "flowchart"); err != nil {
		return nil, err
	}

	nodes := flowchartNodes(analysis)
	edges := flowchartEdges(analysis, nodes)
	layoutFlowchart(nodes)

	decisions := 0
	for _, n := range nodes {
		if n.Type == visualization.FlowDecision {
			decisions++
		}
	}
	complexity := flowNodeWeight*float64(len(nodes)) +
		flowEdgeWeight*float64(len(edges)) +
		flowDecisionWeight*float64(decisions)

	g := &visualization.FlowchartGraph{
		Nodes: nodes,
		Edges: edges,
		Metadata: visualization.Metadata{
			Title:       "Diagrama de Flujo - " + analysis.DocumentID,
			Description: "Diagrama de flujo generado automáticamente del proceso identificado en el documento",
			GeneratedAt: f.now(),
			DocumentID:  analysis.DocumentID,
			Complexity:  min(complexity, 10),
			Confidence:  min(analysis.Confidence+flowConfidenceBump, 1),
		},
	}
	finish(g, len(nodes), len(edges))
	return g, nil
}

func flowchartNodes(analysis *common.DocumentAnalysisResult) []visualization.FlowchartNode {
	nodes := []visualization.FlowchartNode{{
		ID:          textutil.GenerateID("start"),
		Label:       "Inicio",
		Type:        visualization.FlowStart,
		Description: "Punto de entrada del proceso",
	}}

	for _, seg := range analysis.Segments {
		actions := common.EntitiesOfType(seg.Entities, common.EntityAction)
		switch {
		case len(actions) > 0:
			for _, a := range actions {
				nodes = append(nodes, visualization.FlowchartNode{
					ID:          textutil.GenerateID("process"),
					Label:       cleanLabel(a.Text),
					Type:        visualization.FlowProcess,
					Description: textutil.Excerpt(seg.Content, flowExcerptLength),
				})
			}
		case hasDecisionWords(seg.Content):
			nodes = append(nodes, visualization.FlowchartNode{
				ID:          textutil.GenerateID("decision"),
				Label:       decisionLabel(seg.Content),
				Type:        visualization.FlowDecision,
				Description: seg.Content,
			})
		case len(seg.Entities) > 0:
			nodes = append(nodes, visualization.FlowchartNode{
				ID:          textutil.GenerateID("process"),
				Label:       cleanLabel(seg.Entities[0].Text),
				Type:        visualization.FlowProcess,
				Description: textutil.Excerpt(seg.Content, flowExcerptLength),
			})
		}
	}

	// Short processes are padded with document topics ahead of the end node.
	if len(nodes)+1 < flowMinNodes {
		topics := common.EntitiesOfType(analysis.Entities, common.EntityConcept)
		for _, t := range topics[:min(len(topics), flowTopicPadding)] {
			nodes = append(nodes, visualization.FlowchartNode{
				ID:          textutil.GenerateID("process"),
				Label:       cleanLabel(t.Text),
				Type:        visualization.FlowProcess,
				Description: "Proceso relacionado con " + t.Text,
			})
		}
	}

	return append(nodes, visualization.FlowchartNode{
		ID:          textutil.GenerateID("end"),
		Label:       "Fin",
		Type:        visualization.FlowEnd,
		Description: "Finalización del proceso",
	})
}

func flowchartEdges(analysis *common.DocumentAnalysisResult, nodes []visualization.FlowchartNode) []visualization.FlowchartEdge {
	edges := make([]visualization.FlowchartEdge, 0, len(nodes))
	for i := 0; i+1 < len(nodes); i++ {
		label := ""
		if nodes[i].Type == visualization.FlowDecision {
			label = "No"
			if i%2 == 0 {
				label = "Sí"
			}
		}
		edges = append(edges, visualization.FlowchartEdge{
			ID:     textutil.GenerateID("edge"),
			Source: nodes[i].ID,
			Target: nodes[i+1].ID,
			Label:  label,
		})
	}

	follows := 0
	for _, rel := range analysis.Relationships {
		if rel.Type != common.RelationFollows {
			continue
		}
		if follows == flowFollowsEdges {
			break
		}
		follows++

		src, ok := findFlowNode(nodes, rel.Source)
		if !ok {
			continue
		}
		dst, ok := findFlowNode(nodes, rel.Target)
		if !ok {
			continue
		}
		exists := slices.ContainsFunc(edges, func(e visualization.FlowchartEdge) bool {
			return e.Source == src.ID && e.Target == dst.ID
		})
		if exists {
			continue
		}
		edges = append(edges, visualization.FlowchartEdge{
			ID:     textutil.GenerateID("edge"),
			Source: src.ID,
			Target: dst.ID,
			Label:  "continúa",
		})
	}
	return edges
}

func layoutFlowchart(nodes []visualization.FlowchartNode) {
	for i := range nodes {
		x := flowCenterX
		if i%2 == 1 {
			x += flowAlternateX
		}
		if nodes[i].Type == visualization.FlowDecision {
			x = flowDecisionX
		}
		nodes[i].Position = &visualization.Position{X: x, Y: flowStartY + float64(i)*flowSpacingY}
	}
}

func findFlowNode(nodes []visualization.FlowchartNode, label string) (visualization.FlowchartNode, bool) {
	for _, n := range nodes {
		if labelsMatch(n.Label, label) {
			return n, true
		}
	}
	return visualization.FlowchartNode{}, false
}

func hasDecisionWords(content string) bool {
	lower := textutil.Lower(content)
	if textutil.ContainsAny(lower, decisionPhrases) {
		return true
	}
	for _, tok := range textutil.Tokenize(lower) {
		if slices.Contains(decisionWords, tok) {
			return true
		}
	}
	return false
}

// decisionLabel turns "si X, ..." or "cuando X, ..." into "¿X?".
func decisionLabel(content string) string {
	for _, re := range []*regexp.Regexp{reDecisionIf, reDecisionWhen} {
		if m := re.FindStringSubmatch(content); m != nil {
			if q := strings.TrimSpace(m[1]); q != "" {
				return "¿" + q + "?"
			}
		}
	}
	return "Decisión"
}
