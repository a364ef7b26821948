package render

import "github.com/OFFIS-RIT/docvis/pkg/common"

var baseOptions = map[string]any{
	"interaction": map[string]any{
		"dragNodes":            true,
		"dragView":             true,
		"zoomView":             true,
		"selectConnectedEdges": false,
	},
	"physics": map[string]any{
		"enabled":       true,
		"stabilization": map[string]any{"iterations": 100},
	},
	"nodes": map[string]any{
		"borderWidth": 2,
		"shadow": map[string]any{
			"enabled": true,
			"color":   "rgba(0,0,0,0.2)",
			"size":    5,
			"x":       2,
			"y":       2,
		},
	},
	"edges": map[string]any{
		"shadow": map[string]any{
			"enabled": true,
			"color":   "rgba(0,0,0,0.1)",
			"size":    3,
			"x":       1,
			"y":       1,
		},
		"smooth": map[string]any{
			"enabled": true,
			"type":    "dynamic",
		},
	},
}

// typeOptions replace top level keys of baseOptions per type.
var typeOptions = map[common.VisualizationType]map[string]any{
	common.Flowchart: {
		"layout": map[string]any{
			"hierarchical": map[string]any{
				"enabled":         true,
				"direction":       "UD",
				"sortMethod":      "directed",
				"levelSeparation": 150,
				"nodeSpacing":     100,
			},
		},
		"physics": map[string]any{"enabled": false},
	},
	common.ConceptMap: {
		"physics": map[string]any{
			"enabled": true,
			"barnesHut": map[string]any{
				"gravitationalConstant": -8000,
				"centralGravity":        0.3,
				"springLength":          120,
				"springConstant":        0.04,
				"damping":               0.09,
			},
			"stabilization": map[string]any{"iterations": 200},
		},
	},
	common.HierarchicalScheme: {
		"layout": map[string]any{
			"hierarchical": map[string]any{
				"enabled":         true,
				"direction":       "UD",
				"sortMethod":      "directed",
				"levelSeparation": 120,
				"nodeSpacing":     150,
				"treeSpacing":     200,
			},
		},
		"physics": map[string]any{"enabled": false},
	},
	// Mind map positions are final.
	common.MindMap: {
		"physics": map[string]any{"enabled": false},
	},
}

// TypeOptions returns a fresh copy of the vis-network options for t.
func TypeOptions(t common.VisualizationType) map[string]any {
	opts := cloneOptions(baseOptions)
	for k, v := range typeOptions[t] {
		if sub, ok := v.(map[string]any); ok {
			v = cloneOptions(sub)
		}
		opts[k] = v
	}
	return opts
}
