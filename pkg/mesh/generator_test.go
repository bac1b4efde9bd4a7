package mesh

import (
	"errors"
	"reflect"
	"testing"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

func polygon(pts ...geo.Point) []geo.Segment {
	out := make([]geo.Segment, len(pts))
	for i, p := range pts {
		out[i] = geo.Seg(p, pts[(i+1)%len(pts)])
	}
	return out
}

func skeletonOf(t *testing.T, edges ...[]geo.Segment) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, es := range edges {
		for _, e := range es {
			g.AddEdge(e)
		}
	}
	return g
}

func squareSkeleton(t *testing.T, min, max float64) []geo.Segment {
	t.Helper()
	return polygon(geo.Pt(min, min), geo.Pt(max, min), geo.Pt(max, max), geo.Pt(min, max))
}

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.RoadsFromPoint = 4
	cfg.SegmentLength = 10
	cfg.SnapRadius = 2
	return cfg
}

func checkResult(t *testing.T, res *Result, cfg Config) {
	t.Helper()
	if c, ok := graph.FindCrossing(res.Graph.Edges()); ok {
		t.Fatalf("network self-intersects: %v crosses %v", c.A, c.B)
	}
	for i, b := range res.Blocks {
		if len(b) < 3 {
			t.Errorf("block %d has %d vertices", i, len(b))
		}
		for j, p := range b {
			if !res.Graph.HasEdge(geo.Seg(p, b[(j+1)%len(b)])) {
				t.Errorf("block %d: %v-%v is not a network edge", i, p, b[(j+1)%len(b)])
			}
		}
	}
	for _, s := range res.Snaps {
		d, _ := geo.Seg(s.Source, s.Unsnapped).PointToSegmentDist(s.Snapped)
		if d > cfg.SnapRadius+1e-9 {
			t.Errorf("%v snap from %v moved %f away from its segment", s.Kind, s.Source, d)
		}
	}
	for _, e := range res.Backbone.Edges() {
		if !res.Graph.HasEdge(e) {
			t.Errorf("backbone edge %v missing from the network", e)
		}
	}
}

func TestGenerateSingleSquare(t *testing.T) {
	cfg := scenarioConfig()
	res, err := Generate(skeletonOf(t, squareSkeleton(t, 0, 40)), cfg, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	checkResult(t, res, cfg)

	if res.Stats.Loops != 1 || len(res.Loops) != 1 {
		t.Fatalf("got %d loops, want 1", res.Stats.Loops)
	}
	loop := res.Loops[0]
	if len(loop.Seeds) < 4 {
		t.Errorf("got %d seeds, want at least 4", len(loop.Seeds))
	}
	if loop.Segments == 0 || res.Stats.Edges <= 4 {
		t.Errorf("nothing grew: segments=%d edges=%d", loop.Segments, res.Stats.Edges)
	}
	if len(loop.Exits) == 0 {
		t.Error("loop has no exits")
	}
	if len(res.Blocks) < 2 {
		t.Errorf("got %d blocks, want the loop subdivided", len(res.Blocks))
	}
	if loop.Enclosed || loop.Parent != -1 {
		t.Errorf("lone loop reported enclosed (parent %d)", loop.Parent)
	}
}

func TestGenerateNestedLoops(t *testing.T) {
	cfg := scenarioConfig()
	skel := skeletonOf(t, squareSkeleton(t, 0, 60), squareSkeleton(t, 25, 35))
	res, err := Generate(skel, cfg, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	checkResult(t, res, cfg)

	if len(res.Loops) != 2 || res.Stats.EnclosedLoops != 1 {
		t.Fatalf("got %d loops, %d enclosed; want 2, 1", len(res.Loops), res.Stats.EnclosedLoops)
	}
	outer, inner := res.Loops[0], res.Loops[1]
	if outer.Enclosed {
		t.Error("outer loop reported enclosed")
	}
	if !inner.Enclosed || inner.Parent != 0 {
		t.Errorf("inner loop: enclosed=%v parent=%d, want true 0", inner.Enclosed, inner.Parent)
	}
	if !graph.Connected(res.Graph, geo.Pt(0, 0), geo.Pt(25, 25)) {
		t.Error("enclosed loop is not connected to its surroundings")
	}
}

func TestGenerateOpenPolyline(t *testing.T) {
	skel := skeletonOf(t, []geo.Segment{
		geo.Seg(geo.Pt(0, 0), geo.Pt(10, 0)),
		geo.Seg(geo.Pt(10, 0), geo.Pt(10, 10)),
		geo.Seg(geo.Pt(10, 10), geo.Pt(20, 10)),
	})
	res, err := Generate(skel, DefaultConfig(), 0)
	if !errors.Is(err, ErrNoLoops) {
		t.Fatalf("err = %v, want ErrNoLoops", err)
	}
	if res != nil {
		t.Error("result should be nil on error")
	}
}

func TestGenerateSelfIntersecting(t *testing.T) {
	skel := skeletonOf(t, polygon(geo.Pt(0, 0), geo.Pt(10, 10), geo.Pt(10, 0), geo.Pt(0, 10)))
	_, err := Generate(skel, DefaultConfig(), 0)
	if !errors.Is(err, ErrSelfIntersecting) {
		t.Fatalf("err = %v, want ErrSelfIntersecting", err)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RoadsFromPoint = 1
	_, err := Generate(skeletonOf(t, squareSkeleton(t, 0, 40)), cfg, 0)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestGenerateLeavesSkeletonUntouched(t *testing.T) {
	skel := skeletonOf(t, squareSkeleton(t, 0, 40))
	before := skel.Edges()
	if _, err := Generate(skel, scenarioConfig(), 0); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(before, skel.Edges()) {
		t.Error("skeleton was modified")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := scenarioConfig()
	run := func() *Result {
		skel := skeletonOf(t, squareSkeleton(t, 0, 60), squareSkeleton(t, 25, 35))
		res, err := Generate(skel, cfg, 42)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a.Graph.Vertices(), b.Graph.Vertices()) {
		t.Error("vertices differ between runs")
	}
	if !reflect.DeepEqual(a.Graph.Edges(), b.Graph.Edges()) {
		t.Error("edges differ between runs")
	}
	if !reflect.DeepEqual(a.Blocks, b.Blocks) {
		t.Error("blocks differ between runs")
	}
	if a.Stats != b.Stats {
		t.Errorf("stats differ: %+v vs %+v", a.Stats, b.Stats)
	}
}

func TestGenerateNeverCrosses(t *testing.T) {
	skeletons := map[string]func() *graph.Graph{
		"square": func() *graph.Graph { return skeletonOf(t, squareSkeleton(t, 0, 50)) },
		"two cells": func() *graph.Graph {
			ring := polygon(geo.Pt(0, 0), geo.Pt(20, 0), geo.Pt(40, 0), geo.Pt(40, 40), geo.Pt(20, 40), geo.Pt(0, 40))
			return skeletonOf(t, ring, []geo.Segment{geo.Seg(geo.Pt(20, 0), geo.Pt(20, 40))})
		},
		"pentagon": func() *graph.Graph {
			return skeletonOf(t, polygon(geo.Pt(0, 0), geo.Pt(40, -5), geo.Pt(55, 25), geo.Pt(25, 50), geo.Pt(-10, 30)))
		},
	}
	for name, build := range skeletons {
		for _, axis := range []bool{true, false} {
			cfg := scenarioConfig()
			cfg.FavourAxisAligned = axis
			cfg.DirectionDeviationAngle = 0.3
			for seed := int64(0); seed < 10; seed++ {
				res, err := Generate(build(), cfg, seed)
				if err != nil {
					t.Fatalf("%s axis=%v seed=%d: %v", name, axis, seed, err)
				}
				checkResult(t, res, cfg)
			}
		}
	}
}

func TestGenerateStarSkeleton(t *testing.T) {
	star := polygon(
		geo.Pt(0, 0), geo.Pt(50, 10), geo.Pt(100, 0), geo.Pt(90, 50),
		geo.Pt(100, 100), geo.Pt(50, 60), geo.Pt(0, 100), geo.Pt(10, 50),
	)
	cfg := DefaultConfig()
	cfg.RoadsFromPoint = 6
	cfg.FavourAxisAligned = true
	cfg.SnapRadius = 3
	cfg.DirectionDeviationAngle = 0.5
	cfg.SegmentLength = 7
	cfg.SegmentLengthDeviation = 3

	// With this seed a branch hits an edge right at a vertex it is
	// already joined to.
	res, err := Generate(skeletonOf(t, star), cfg, 4)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	checkResult(t, res, cfg)
}

func TestResultExports(t *testing.T) {
	res, err := Generate(skeletonOf(t, squareSkeleton(t, 0, 40)), scenarioConfig(), 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	fc := res.FeatureCollection()
	if want := res.Graph.NumEdges() + len(res.Blocks); len(fc.Features) != want {
		t.Errorf("got %d features, want %d", len(fc.Features), want)
	}
	backbone := 0
	for _, f := range fc.Features {
		if f.Properties["kind"] == "backbone" {
			backbone++
		}
	}
	if backbone != res.Backbone.NumEdges() {
		t.Errorf("got %d backbone features, want %d", backbone, res.Backbone.NumEdges())
	}

	m := res.Mesh()
	if m.NumVertices() != res.Graph.NumVertices() || m.NumEdges() != res.Graph.NumEdges() || m.NumBlocks() != len(res.Blocks) {
		t.Errorf("mesh counts %d/%d/%d, want %d/%d/%d",
			m.NumVertices(), m.NumEdges(), m.NumBlocks(),
			res.Graph.NumVertices(), res.Graph.NumEdges(), len(res.Blocks))
	}
}
