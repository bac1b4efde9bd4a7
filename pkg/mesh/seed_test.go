package mesh

import (
	"math/rand"
	"testing"

	"road_mesh/pkg/geo"
)

func TestIntervalPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SegmentLength = 10
	cfg.SegmentLengthDeviation = 0
	rng := rand.New(rand.NewSource(0))

	pts := intervalPoints(ccwSquare(40), cfg, rng)
	if len(pts) != 16 {
		t.Fatalf("got %d points, want 16", len(pts))
	}
	want := []geo.Point{geo.Pt(5, 0), geo.Pt(15, 0), geo.Pt(25, 0), geo.Pt(35, 0), geo.Pt(40, 5)}
	for i := range want {
		if !pts[i].Near(want[i]) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestSubsample(t *testing.T) {
	var pts []geo.Point
	for i := 0; i < 10; i++ {
		pts = append(pts, geo.Pt(float64(i), 0))
	}
	got := subsample(pts, 4)
	want := []float64{0, 2, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].X != want[i] {
			t.Errorf("point %d = %v, want x=%v", i, got[i], want[i])
		}
	}
	if len(subsample(pts, 20)) != 10 {
		t.Error("subsample should not grow the list")
	}
}

func TestSeedPlacement(t *testing.T) {
	n, _, cv := squareNetwork(t)
	cfg := DefaultConfig()
	cfg.SegmentLength = 4
	cfg.SegmentLengthDeviation = 0
	cfg.SnapRadius = 1
	cfg.MaxStartPointsPerLoop = 100

	canopy := NewCanopy()
	res := &Result{}
	f := newFlood(n, canopy, 0, cfg, rand.New(rand.NewSource(0)), res, n.log)
	c := n.View(cv).Cycle
	seeds := f.seed(c)

	// Points every 4 along the 40 long perimeter starting at 2; those at 10
	// and 30 land on corners.
	if len(seeds) != 10 {
		t.Fatalf("got %d seeds, want 10: %v", len(seeds), seeds)
	}
	if f.queue.Size() != len(seeds) {
		t.Errorf("queued %d branches, want %d", f.queue.Size(), len(seeds))
	}
	if res.Stats.Seeds != 10 {
		t.Errorf("Stats.Seeds = %d, want 10", res.Stats.Seeds)
	}
	corners := 0
	for _, s := range seeds {
		if !n.Graph().HasVertex(s) {
			t.Errorf("seed %v is not a network vertex", s)
		}
		if s == geo.Pt(10, 0) || s == geo.Pt(0, 10) {
			corners++
		}
	}
	if corners != 2 {
		t.Errorf("got %d corner seeds, want 2", corners)
	}
	if got := len(c.Ring()); got != 4+8 {
		t.Errorf("loop has %d vertices after seeding, want 12", got)
	}
	if !canopy.IsDeadEnd(geo.Pt(2, 0)) || canopy.IsDeadEnd(geo.Pt(10, 0)) {
		t.Error("edge seeds should be dead ends, corner seeds should not")
	}
}
