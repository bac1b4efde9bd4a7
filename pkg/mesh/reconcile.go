package mesh

import (
	"sort"

	"go.uber.org/zap"

	"road_mesh/pkg/geo"
)

// connections returns the vertices of e, in ring order, that the flood's
// network attaches to.
func (f *flood) connections(e *OrientedCycle) []geo.Point {
	grown := f.net.View(f.owner).Graph
	full := f.net.Graph()
	var out []geo.Point
	for _, v := range e.Ring() {
		if grown.HasVertex(v) && full.Degree(v) > 2 {
			out = append(out, v)
		}
	}
	return out
}

// reconcile makes sure the enclosed loop e is attached to the network
// grown around it. With one attachment a branch leaves from the vertex
// farthest from it; with none, branches leave from the two extremes along
// a random axis. It returns the number of branches forced.
func (f *flood) reconcile(e *OrientedCycle) int {
	conns := f.connections(e)
	ring := e.Ring()
	used := make(map[geo.Point]bool)

	forced := 0
	switch len(conns) {
	case 0:
		axis := f.rng.Intn(2)
		coord := func(p geo.Point) float64 {
			if axis == 0 {
				return p.X
			}
			return p.Y
		}
		asc := append([]geo.Point(nil), ring...)
		sort.SliceStable(asc, func(i, j int) bool { return coord(asc[i]) < coord(asc[j]) })
		desc := append([]geo.Point(nil), ring...)
		sort.SliceStable(desc, func(i, j int) bool { return coord(desc[i]) > coord(desc[j]) })
		if f.force(e, asc, used) {
			forced++
		}
		if f.force(e, desc, used) {
			forced++
		}
	case 1:
		c := conns[0]
		far := make([]geo.Point, 0, len(ring))
		for _, v := range ring {
			if v != c {
				far = append(far, v)
			}
		}
		sort.SliceStable(far, func(i, j int) bool { return far[i].DistanceSq(c) > far[j].DistanceSq(c) })
		if f.force(e, far, used) {
			forced++
		}
	}

	f.res.Stats.Forced += forced
	f.log.Info("reconciled enclosed loop",
		zap.Stringer("first", ring[0]),
		zap.Int("connections", len(conns)),
		zap.Int("forced", forced))
	return forced
}

// force grows an outward branch from the first candidate that is not
// blocked, then lets the flood run its continuations.
func (f *flood) force(e *OrientedCycle, candidates []geo.Point, used map[geo.Point]bool) bool {
	for _, v := range candidates {
		if used[v] {
			continue
		}
		ray, sector := e.InwardBisector(v, false)
		if out := f.grow(branch{ray: ray, sector: sector, seed: true}); out.Kind == Blocked {
			continue
		}
		used[v] = true
		f.run()
		return true
	}
	return false
}
