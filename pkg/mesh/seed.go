package mesh

import (
	"math/rand"

	"road_mesh/pkg/geo"
)

// intervalPoints places points along the closed ring at intervals of
// SegmentLength ± SegmentLengthDeviation, the first half an interval in.
func intervalPoints(ring []geo.Point, cfg Config, rng *rand.Rand) []geo.Point {
	var pts []geo.Point
	next := segmentLength(cfg, rng) / 2
	var walked float64
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		l := a.Distance(b)
		for next <= walked+l {
			pts = append(pts, a.Lerp(b, (next-walked)/l))
			next += segmentLength(cfg, rng)
		}
		walked += l
	}
	return pts
}

// subsample keeps at most n points spread evenly over pts.
func subsample(pts []geo.Point, n int) []geo.Point {
	if len(pts) <= n {
		return pts
	}
	out := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		out[i] = pts[i*len(pts)/n]
	}
	return out
}

// seed places the start points on the border of c and enqueues one seed
// branch per point. A point close to a loop vertex moves onto it and
// leaves along the inward bisector; any other point splits its loop edge
// and leaves along the inward normal.
func (f *flood) seed(c *OrientedCycle) []geo.Point {
	ring := c.Ring()
	pts := subsample(intervalPoints(ring, f.cfg, f.rng), f.cfg.MaxStartPointsPerLoop)

	var seeds []geo.Point
	taken := func(p geo.Point) bool {
		for _, s := range seeds {
			if s.Near(p) || s.Distance(p) <= f.cfg.SnapRadius {
				return true
			}
		}
		return false
	}

	for _, p := range pts {
		v, onVertex := nearestVertex(ring, p, f.cfg.SnapRadius)
		if onVertex {
			p = v
		}
		if taken(p) {
			continue
		}

		var (
			ray    geo.Ray
			sector geo.Sector
		)
		if onVertex {
			ray, sector = c.InwardBisector(p, true)
		} else {
			e, ok := c.EdgeAt(p)
			if !ok {
				continue
			}
			ray, sector = c.InwardNormal(e, p, true)
			f.net.SplitEdge(e, p)
			f.canopy.MarkDeadEnd(p)
		}
		seeds = append(seeds, p)
		f.push(branch{ray: ray, sector: sector, seed: true})
	}
	f.res.Stats.Seeds += len(seeds)
	return seeds
}

// nearestVertex returns the ring vertex closest to p if it is within
// radius (or coincides with p).
func nearestVertex(ring []geo.Point, p geo.Point, radius float64) (geo.Point, bool) {
	best, bestD := geo.Point{}, -1.0
	for _, v := range ring {
		d := v.Distance(p)
		if bestD < 0 || d < bestD {
			best, bestD = v, d
		}
	}
	if bestD < 0 {
		return geo.Point{}, false
	}
	return best, bestD <= radius || best.Near(p)
}
