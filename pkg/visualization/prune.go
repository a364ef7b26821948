package visualization

// Node is anything with a stable id inside one graph.
type Node interface {
	NodeID() string
}

// Edge is anything connecting two node ids.
type Edge interface {
	Endpoints() (source, target string)
}

// NodeIDs indexes the ids of nodes.
func NodeIDs[N Node](nodes []N) map[string]struct{} {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.NodeID()] = struct{}{}
	}
	return ids
}

// PruneDanglingEdges returns the edges whose source and target both exist
// in nodes, preserving order. Dropped edges are not reported as errors.
// The result never aliases edges.
func PruneDanglingEdges[N Node, E Edge](nodes []N, edges []E) []E {
	ids := NodeIDs(nodes)
	out := make([]E, 0, len(edges))
	for _, e := range edges {
		src, dst := e.Endpoints()
		if _, ok := ids[src]; !ok {
			continue
		}
		if _, ok := ids[dst]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
