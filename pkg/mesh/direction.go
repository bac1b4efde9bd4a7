package mesh

import (
	"math"
	"math/rand"

	"road_mesh/pkg/geo"
)

// deviate perturbs a growth direction. With FavourAxisAligned it pulls the
// direction toward the nearest axis: onto it when within
// DirectionDeviationAngle, otherwise by exactly that angle. Without it a
// uniform offset in ±DirectionDeviationAngle is added.
func deviate(dir float64, cfg Config, rng *rand.Rand) float64 {
	dev := cfg.DirectionDeviationAngle
	if cfg.FavourAxisAligned {
		axis := math.Round(dir/(math.Pi/2)) * (math.Pi / 2)
		diff := geo.AngleDiff(dir, axis)
		if math.Abs(diff) <= dev {
			return geo.NormalizeAngle(axis)
		}
		return geo.NormalizeAngle(dir + math.Copysign(dev, diff))
	}
	if dev == 0 {
		return geo.NormalizeAngle(dir)
	}
	return geo.NormalizeAngle(dir + uniform(rng, dev))
}

// uniform draws from [-w, w).
func uniform(rng *rand.Rand, w float64) float64 {
	return (rng.Float64()*2 - 1) * w
}

// segmentLength draws one segment length.
func segmentLength(cfg Config, rng *rand.Rand) float64 {
	return cfg.SegmentLength + uniform(rng, cfg.SegmentLengthDeviation)
}

// childDirections returns the directions of the branches leaving a new
// point reached by travelling along incoming: the reverse of incoming
// rotated by i·2π/k for i = 1..k-1.
func childDirections(incoming float64, k int) []float64 {
	back := incoming + math.Pi
	out := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		out = append(out, geo.NormalizeAngle(back+float64(i)*2*math.Pi/float64(k)))
	}
	return out
}
