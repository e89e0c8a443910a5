package graph

import (
	"fmt"

	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/dataset"
	"github.com/econograph/backend/pkg/logger"
)

// Graph is a directed graph over record identifiers. An edge A→B means A
// is intellectually downstream of B (A was influenced by B, or B advised
// A). Node and edge iteration follow insertion order, which keeps every
// derived result reproducible for the same input.
type Graph struct {
	nodes   []string
	nodeIdx map[string]int

	out   map[string][]string
	inDeg map[string]int
	edges map[[2]string]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIdx: make(map[string]int),
		out:     make(map[string][]string),
		inDeg:   make(map[string]int),
		edges:   make(map[[2]string]struct{}),
	}
}

// AddNode inserts a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodeIdx[id]; ok {
		return
	}
	g.nodeIdx[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
}

// AddEdge inserts a directed edge. Edge multiplicity is collapsed: adding
// the same ordered pair twice is a no-op. A self-loop is rejected with an
// error because it can only come from a resolution defect, never from
// valid input.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("self-loop on node %s", from)
	}
	if _, ok := g.nodeIdx[from]; !ok {
		return fmt.Errorf("unknown source node %s", from)
	}
	if _, ok := g.nodeIdx[to]; !ok {
		return fmt.Errorf("unknown target node %s", to)
	}

	key := [2]string{from, to}
	if _, ok := g.edges[key]; ok {
		return nil
	}
	g.edges[key] = struct{}{}
	g.out[from] = append(g.out[from], to)
	g.inDeg[to]++
	return nil
}

// HasNode reports whether the node is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIdx[id]
	return ok
}

// HasEdge reports whether the directed edge is present.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[[2]string{from, to}]
	return ok
}

// Nodes returns node identifiers in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Out returns the out-neighbors of a node in insertion order.
func (g *Graph) Out(id string) []string {
	return g.out[id]
}

// Degree returns the total degree (in + out) of a node.
func (g *Graph) Degree(id string) int {
	return len(g.out[id]) + g.inDeg[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Links returns all edges as serializable source/target pairs, ordered by
// source insertion order and per-source edge insertion order.
func (g *Graph) Links() []common.GraphLink {
	links := make([]common.GraphLink, 0, len(g.edges))
	for _, from := range g.nodes {
		for _, to := range g.out[from] {
			links = append(links, common.GraphLink{Source: from, Target: to})
		}
	}
	return links
}

// PruneIsolates removes every node with total degree zero and returns the
// number of nodes removed. A node without any relationship carries no
// network signal and would only distort centrality and community results.
func (g *Graph) PruneIsolates() int {
	kept := make([]string, 0, len(g.nodes))
	removed := 0
	for _, id := range g.nodes {
		if g.Degree(id) == 0 {
			delete(g.nodeIdx, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	g.nodes = kept
	for i, id := range g.nodes {
		g.nodeIdx[id] = i
	}
	return removed
}

// NameIndex resolves display names to record identifiers. Both the exact
// display name and its parenthetical-stripped alias are indexed; lookups
// fall back to the normalized form when no exact entry matches.
type NameIndex struct {
	exact map[string]string
	norm  map[string]string
}

// BuildNameIndex indexes every record by display name and alias. When two
// records collide on the same indexed string, the later record wins; that
// is an expected real-world condition with non-unique names, not an error.
func BuildNameIndex(records []common.Person) *NameIndex {
	ix := &NameIndex{
		exact: make(map[string]string),
		norm:  make(map[string]string),
	}
	for _, r := range records {
		id := r.ID.String()
		ix.put(r.Name, id)
		if alias := dataset.StripParenthetical(r.Name); alias != r.Name {
			ix.put(alias, id)
		}
	}
	return ix
}

func (ix *NameIndex) put(name, id string) {
	ix.exact[name] = id
	ix.norm[dataset.NormalizeName(name)] = id
}

// Resolve maps a referenced name to a record identifier, trying the exact
// name first and the normalized form as fallback.
func (ix *NameIndex) Resolve(name string) (string, bool) {
	if id, ok := ix.exact[name]; ok {
		return id, true
	}
	id, ok := ix.norm[dataset.NormalizeName(name)]
	return id, ok
}

// BuildStats carries diagnostics from graph construction. Unresolved
// counts referenced names with no matching record; those are expected and
// never an error.
type BuildStats struct {
	Unresolved int
	Pruned     int
}

// Build constructs the relationship graph from sanitized records. Edges
// run from each record to its resolved influences and doctoral advisors.
// A name that resolves back to the referencing record itself is skipped:
// shared names make that an expected data condition at this step. After
// edge insertion, isolated nodes are pruned.
func Build(records []common.Person) (*Graph, *NameIndex, BuildStats, error) {
	ix := BuildNameIndex(records)
	g := NewGraph()
	stats := BuildStats{}

	for _, r := range records {
		g.AddNode(r.ID.String())
	}

	for _, r := range records {
		id := r.ID.String()
		for _, rel := range [][]string{r.Influences, r.DoctoralAdvisors} {
			for _, name := range rel {
				target, ok := ix.Resolve(name)
				if !ok {
					stats.Unresolved++
					continue
				}
				if target == id {
					continue
				}
				if err := g.AddEdge(id, target); err != nil {
					return nil, nil, stats, fmt.Errorf("failed to add edge: %w", err)
				}
			}
		}
	}

	stats.Pruned = g.PruneIsolates()

	logger.Debug(
		"[Graph] Built relationship graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"unresolved", stats.Unresolved,
		"pruned", stats.Pruned,
	)

	return g, ix, stats, nil
}
