package graph

import (
	"reflect"
	"testing"

	"github.com/econograph/backend/pkg/common"
)

func int64Ptr(v int64) *int64 { return &v }

func person(id, name string, influences, advisors, students []string) common.Person {
	return common.Person{
		ID:               common.FlexID(id),
		Name:             name,
		Born:             int64Ptr(0),
		Influences:       influences,
		DoctoralAdvisors: advisors,
		DoctoralStudents: students,
	}
}

func TestBuildEdgesAndPruning(t *testing.T) {
	records := []common.Person{
		person("1", "Karl Marx", nil, nil, nil),
		person("2", "Jane Doe", []string{"Karl Marx"}, nil, nil),
		person("3", "John Roe", nil, []string{"Karl Marx"}, nil),
		person("4", "Loner Person", nil, nil, nil),
	}

	g, _, stats, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !g.HasEdge("2", "1") {
		t.Error("missing influence edge 2->1")
	}
	if !g.HasEdge("3", "1") {
		t.Error("missing advisor edge 3->1")
	}
	if g.HasNode("4") {
		t.Error("isolated node 4 should be pruned")
	}
	if stats.Pruned != 1 {
		t.Errorf("stats.Pruned = %d, want 1", stats.Pruned)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("graph has %d nodes and %d edges, want 3 and 2", g.NodeCount(), g.EdgeCount())
	}
}

func TestBuildCollapsesEdgeMultiplicity(t *testing.T) {
	records := []common.Person{
		person("1", "Karl Marx", nil, nil, nil),
		person("2", "Jane Doe", []string{"Karl Marx"}, []string{"Karl Marx"}, nil),
	}

	g, _, _, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (influence and advisor collapse)", g.EdgeCount())
	}
}

func TestBuildSkipsSelfResolution(t *testing.T) {
	records := []common.Person{
		person("1", "Karl Marx", []string{"Karl Marx"}, nil, nil),
	}

	g, _, _, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, link := range g.Links() {
		if link.Source == link.Target {
			t.Fatalf("self-loop in built graph: %v", link)
		}
	}
	if g.HasNode("1") {
		t.Error("node with only a self-reference should end up isolated and pruned")
	}
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddNode("1")
	if err := g.AddEdge("1", "1"); err == nil {
		t.Fatal("AddEdge() accepted a self-loop, want error")
	}
}

func TestBuildDropsUnresolvableNames(t *testing.T) {
	records := []common.Person{
		person("1", "Karl Marx", []string{"Somebody Unknown", "Another Ghost"}, nil, nil),
		person("2", "Jane Doe", []string{"Karl Marx"}, nil, nil),
	}

	g, _, stats, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stats.Unresolved != 2 {
		t.Errorf("stats.Unresolved = %d, want 2", stats.Unresolved)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBuildEmptyRelationsYieldsEmptyGraph(t *testing.T) {
	records := []common.Person{
		person("1", "Karl Marx", nil, nil, nil),
		person("2", "Jane Doe", nil, nil, nil),
	}

	g, _, _, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("graph has %d nodes and %d edges, want empty", g.NodeCount(), g.EdgeCount())
	}
}

func TestNameIndexResolution(t *testing.T) {
	records := []common.Person{
		person("1", "John Smith (economist)", nil, nil, nil),
		person("2", "Lawrence F. Katz", nil, nil, nil),
	}
	ix := BuildNameIndex(records)

	tests := []struct {
		name   string
		lookup string
		wantID string
		wantOK bool
	}{
		{"exact name", "John Smith (economist)", "1", true},
		{"parenthetical-stripped alias", "John Smith", "1", true},
		{"normalized fallback", "john smith", "1", true},
		{"initial variant", "Lawrence Katz", "2", true},
		{"unknown name", "Milton Friedman", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ix.Resolve(tt.lookup)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.lookup, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestNameIndexLaterRecordWins(t *testing.T) {
	records := []common.Person{
		person("1", "John Smith", nil, nil, nil),
		person("2", "John Smith", nil, nil, nil),
	}
	ix := BuildNameIndex(records)

	id, ok := ix.Resolve("John Smith")
	if !ok || id != "2" {
		t.Errorf("Resolve() = (%q, %v), want later record (%q, true)", id, ok, "2")
	}
}

func TestLinksDeterministicOrder(t *testing.T) {
	records := []common.Person{
		person("1", "A Person", []string{"B Person", "C Person"}, nil, nil),
		person("2", "B Person", []string{"C Person"}, nil, nil),
		person("3", "C Person", nil, nil, nil),
	}

	g, _, _, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []common.GraphLink{
		{Source: "1", Target: "2"},
		{Source: "1", Target: "3"},
		{Source: "2", Target: "3"},
	}
	if got := g.Links(); !reflect.DeepEqual(got, want) {
		t.Errorf("Links() = %v, want %v", got, want)
	}
}
