package graph

import (
	"sort"

	"golang.org/x/exp/rand"
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/econograph/backend/pkg/logger"
)

// communitySeed fixes the random source for modularity optimization so
// that repeated runs on the same graph partition identically.
const communitySeed = 42

// Communities partitions the undirected projection of the graph into
// modularity-based communities (Louvain). If modularity optimization
// fails, connected components are used as the fallback partition. Members
// within a community and the communities themselves are ordered by node
// insertion order, so the result is deterministic for a fixed graph.
func Communities(g *Graph) [][]string {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	ug := simple.NewUndirectedGraph()
	for i := range nodes {
		ug.AddNode(simple.Node(int64(i)))
	}
	idx := make(map[string]int64, len(nodes))
	for i, id := range nodes {
		idx[id] = int64(i)
	}
	for _, from := range nodes {
		for _, to := range g.Out(from) {
			ug.SetEdge(ug.NewEdge(simple.Node(idx[from]), simple.Node(idx[to])))
		}
	}

	groups := modularize(ug)
	if groups == nil {
		logger.Warn("[Graph] Modularity optimization failed, falling back to connected components")
		groups = topo.ConnectedComponents(ug)
	}

	result := make([][]string, 0, len(groups))
	for _, group := range groups {
		members := make([]string, 0, len(group))
		ids := make([]int64, 0, len(group))
		for _, n := range group {
			ids = append(ids, n.ID())
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		for _, id := range ids {
			members = append(members, nodes[id])
		}
		result = append(result, members)
	}
	sort.Slice(result, func(a, b int) bool {
		return idx[result[a][0]] < idx[result[b][0]]
	})
	return result
}

func modularize(ug gonumgraph.Undirected) (groups [][]gonumgraph.Node) {
	defer func() {
		if r := recover(); r != nil {
			groups = nil
		}
	}()
	reduced := community.Modularize(ug, 1.0, rand.NewSource(communitySeed))
	return reduced.Communities()
}
