package graph

import (
	"sort"

	"github.com/econograph/backend/pkg/common"
)

// BuildExport assembles the final serialized graph. Every sanitized
// record becomes a node, including records pruned from the relationship
// graph; those carry a zero centrality score. Relation lists are resolved
// to record identifiers through the name index, with unresolved names and
// self-references dropped. Schools lists the distinct labels observed on
// the nodes in sorted order.
func BuildExport(
	records []common.Person,
	g *Graph,
	scores map[string]float64,
	labels map[string]string,
	ix *NameIndex,
) common.GraphExport {
	nodes := make([]common.GraphNode, 0, len(records))
	seenSchools := make(map[string]struct{})

	for _, r := range records {
		id := r.ID.String()
		school := labels[id]

		node := common.GraphNode{
			ID:     id,
			Name:   r.Name,
			School: school,
			Score:  scores[id],
			Born:   r.Born,
			Died:   r.Died,
			Img:    r.Img,
			URL:    r.URL,

			AdvisorIDs:      resolveAll(ix, id, r.DoctoralAdvisors),
			StudentIDs:      resolveAll(ix, id, r.DoctoralStudents),
			InfluencedByIDs: resolveAll(ix, id, r.Influences),
		}
		nodes = append(nodes, node)

		if school != "" {
			seenSchools[school] = struct{}{}
		}
	}

	schools := make([]string, 0, len(seenSchools))
	for s := range seenSchools {
		schools = append(schools, s)
	}
	sort.Strings(schools)

	return common.GraphExport{
		Nodes:   nodes,
		Links:   g.Links(),
		Schools: schools,
	}
}

func resolveAll(ix *NameIndex, self string, names common.NameList) []string {
	ids := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		id, ok := ix.Resolve(name)
		if !ok || id == self {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
