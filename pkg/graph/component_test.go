package graph

import (
	"testing"

	"road_mesh/pkg/geo"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := uint32(0); i < 5; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	// Union 0 and 1.
	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	// Union 2 and 3.
	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	// 0 and 2 should be different.
	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	// Union the two groups.
	if !uf.Union(1, 3) {
		t.Error("Union of distinct sets should return true")
	}
	if uf.Union(0, 2) {
		t.Error("Union within one set should return false")
	}
	if uf.Size(3) != 4 {
		t.Errorf("Size(3) = %d, want 4", uf.Size(3))
	}
}

// twoComponents returns a triangle plus a separate edge.
func twoComponents(t *testing.T) *Graph {
	t.Helper()
	g, _ := Build([]geo.Segment{
		geo.Seg(geo.Pt(0, 0), geo.Pt(1, 0)),
		geo.Seg(geo.Pt(1, 0), geo.Pt(0, 1)),
		geo.Seg(geo.Pt(0, 1), geo.Pt(0, 0)),
		geo.Seg(geo.Pt(5, 5), geo.Pt(6, 5)),
	})
	return g
}

func TestNumComponentsAndConnected(t *testing.T) {
	g := twoComponents(t)
	g.AddVertex(geo.Pt(9, 9))

	if n := NumComponents(g); n != 3 {
		t.Errorf("NumComponents = %d, want 3", n)
	}
	if !Connected(g, geo.Pt(0, 0), geo.Pt(0, 1)) {
		t.Error("triangle vertices should be connected")
	}
	if Connected(g, geo.Pt(0, 0), geo.Pt(5, 5)) {
		t.Error("separate components reported connected")
	}
	if Connected(g, geo.Pt(0, 0), geo.Pt(42, 42)) {
		t.Error("missing vertex reported connected")
	}
}

func TestLargestComponent(t *testing.T) {
	g := twoComponents(t)
	nodes := LargestComponent(g)
	if len(nodes) != 3 {
		t.Fatalf("LargestComponent has %d nodes, want 3", len(nodes))
	}
}

func TestFilterToComponent(t *testing.T) {
	g := twoComponents(t)
	filtered := FilterToComponent(g, LargestComponent(g))

	if filtered.NumVertices() != 3 {
		t.Fatalf("filtered NumVertices = %d, want 3", filtered.NumVertices())
	}
	if filtered.NumEdges() != 3 {
		t.Fatalf("filtered NumEdges = %d, want 3", filtered.NumEdges())
	}
	if filtered.HasVertex(geo.Pt(5, 5)) {
		t.Error("vertex of the small component survived filtering")
	}
}

func TestFilterToComponentEmptyGraph(t *testing.T) {
	g := New()
	nodes := LargestComponent(g)
	if nodes != nil {
		t.Errorf("expected nil for empty graph, got %v", nodes)
	}

	filtered := FilterToComponent(g, nil)
	if filtered.NumVertices() != 0 || filtered.NumEdges() != 0 {
		t.Errorf("expected empty graph, got %d vertices, %d edges", filtered.NumVertices(), filtered.NumEdges())
	}
}
