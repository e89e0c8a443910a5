package graph

import (
	"reflect"
	"testing"
)

func TestCommunitiesTwoClusters(t *testing.T) {
	// Two dense triangles joined by a single bridge edge.
	g := chain(t, [][2]string{
		{"a", "b"}, {"b", "c"}, {"c", "a"},
		{"x", "y"}, {"y", "z"}, {"z", "x"},
		{"c", "x"},
	}, "a", "b", "c", "x", "y", "z")

	groups := Communities(g)
	if len(groups) < 2 {
		t.Fatalf("Communities() found %d groups, want at least 2", len(groups))
	}

	membership := make(map[string]int)
	for i, group := range groups {
		for _, id := range group {
			membership[id] = i
		}
	}
	if membership["a"] != membership["b"] || membership["b"] != membership["c"] {
		t.Errorf("triangle a,b,c split across communities: %v", membership)
	}
	if membership["x"] != membership["y"] || membership["y"] != membership["z"] {
		t.Errorf("triangle x,y,z split across communities: %v", membership)
	}
	if membership["a"] == membership["x"] {
		t.Errorf("both triangles in one community: %v", membership)
	}
}

func TestCommunitiesDeterministic(t *testing.T) {
	build := func() *Graph {
		return chain(t, [][2]string{
			{"a", "b"}, {"b", "c"}, {"c", "a"},
			{"x", "y"}, {"y", "z"}, {"z", "x"},
			{"c", "x"},
		}, "a", "b", "c", "x", "y", "z")
	}

	first := Communities(build())
	second := Communities(build())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Communities() not deterministic:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestCommunitiesEmptyGraph(t *testing.T) {
	if groups := Communities(NewGraph()); groups != nil {
		t.Errorf("Communities() on empty graph = %v, want nil", groups)
	}
}
