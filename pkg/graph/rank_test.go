package graph

import (
	"math"
	"testing"
)

func chain(t *testing.T, edges [][2]string, nodes ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	return g
}

func TestRankSumsToOne(t *testing.T) {
	g := chain(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, "a", "b", "c")

	scores := Rank(g)
	sum := 0.0
	for _, s := range scores {
		if s < 0 {
			t.Errorf("negative score %v", s)
		}
		sum += s
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("scores sum to %v, want 1.0", sum)
	}
}

func TestRankDanglingNode(t *testing.T) {
	// c has no out-edges; its mass must be redistributed, not lost.
	g := chain(t, [][2]string{{"a", "c"}, {"b", "c"}}, "a", "b", "c")

	scores := Rank(g)
	sum := 0.0
	for id, s := range scores {
		if s <= 0 {
			t.Errorf("score for %s = %v, want positive", id, s)
		}
		sum += s
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("scores sum to %v, want 1.0", sum)
	}
	if scores["c"] <= scores["a"] {
		t.Errorf("sink node c (%v) should outrank source a (%v)", scores["c"], scores["a"])
	}
}

func TestRankCycle(t *testing.T) {
	g := chain(t, [][2]string{{"a", "b"}, {"b", "a"}}, "a", "b")

	scores := Rank(g)
	if math.Abs(scores["a"]-scores["b"]) > 1e-9 {
		t.Errorf("symmetric cycle should rank equally, got a=%v b=%v", scores["a"], scores["b"])
	}
}

func TestRankEmptyGraph(t *testing.T) {
	scores := Rank(NewGraph())
	if len(scores) != 0 {
		t.Errorf("Rank() on empty graph = %v, want empty map", scores)
	}
}

func TestRankDeterministic(t *testing.T) {
	build := func() *Graph {
		return chain(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"a", "c"}}, "a", "b", "c")
	}

	first := Rank(build())
	second := Rank(build())
	for id, s := range first {
		if second[id] != s {
			t.Errorf("score for %s differs between runs: %v vs %v", id, s, second[id])
		}
	}
}

func TestRankTerminatesOnIterationCap(t *testing.T) {
	g := chain(t, [][2]string{{"a", "b"}, {"b", "a"}}, "a", "b")

	// An absurdly tight tolerance must still terminate via the cap.
	scores := rank(g, rankDamping, 0, rankMaxIter)
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("scores sum to %v, want 1.0", sum)
	}
}
