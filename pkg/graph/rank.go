package graph

import "math"

const (
	rankDamping   = 0.85
	rankTolerance = 1e-8
	rankMaxIter   = 100
)

// Rank computes a damped random-walk stationary distribution (PageRank)
// over the graph. Scores are non-negative and sum to 1.0 for any
// non-empty graph. Dangling nodes have their rank mass redistributed
// uniformly across all nodes. Iteration stops when the L1 delta of an
// iteration drops below the tolerance, or after the iteration cap is hit,
// in which case the best estimate reached is returned. The result is
// fully determined by the graph's node order.
func Rank(g *Graph) map[string]float64 {
	return rank(g, rankDamping, rankTolerance, rankMaxIter)
}

func rank(g *Graph, damping, tol float64, maxIter int) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return map[string]float64{}
	}

	idx := make(map[string]int, n)
	for i, id := range nodes {
		idx[id] = i
	}

	outIdx := make([][]int, n)
	for i, id := range nodes {
		neighbors := g.Out(id)
		outIdx[i] = make([]int, len(neighbors))
		for j, to := range neighbors {
			outIdx[i][j] = idx[to]
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	teleport := (1.0 - damping) / float64(n)
	next := make([]float64, n)

	for range maxIter {
		danglingMass := 0.0
		for i := range next {
			next[i] = 0
		}

		for i, score := range scores {
			if len(outIdx[i]) == 0 {
				danglingMass += score
				continue
			}
			share := score / float64(len(outIdx[i]))
			for _, j := range outIdx[i] {
				next[j] += share
			}
		}

		danglingShare := danglingMass / float64(n)
		delta := 0.0
		for i := range next {
			next[i] = teleport + damping*(next[i]+danglingShare)
			delta += math.Abs(next[i] - scores[i])
		}

		scores, next = next, scores
		if delta < tol {
			break
		}
	}

	result := make(map[string]float64, n)
	for i, id := range nodes {
		result[id] = scores[i]
	}
	return result
}
