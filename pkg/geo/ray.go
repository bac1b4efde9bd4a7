package geo

import (
	"fmt"
	"math"
)

// Ray is a start point plus a direction. It is neither terminated nor
// ordered: it stands for "grow from here this way".
type Ray struct {
	Start     Point
	Direction float64 // radians
}

func (r Ray) String() string {
	return fmt.Sprintf("%v@%.4f", r.Start, r.Direction)
}

// Sector is an angular range of allowed directions, sweeping
// counter-clockwise from From by Sweep radians.
type Sector struct {
	From  float64
	Sweep float64
}

// UniversalSector accepts every direction.
func UniversalSector() Sector {
	return Sector{From: 0, Sweep: 2 * math.Pi}
}

// NewSector builds a sector sweeping counter-clockwise from from to to.
func NewSector(from, to float64) Sector {
	sweep := NormalizeAngle(to - from)
	if sweep == 0 {
		sweep = 2 * math.Pi
	}
	return Sector{From: NormalizeAngle(from), Sweep: sweep}
}

// Universal reports whether s accepts every direction.
func (s Sector) Universal() bool {
	return s.Sweep >= 2*math.Pi-Epsilon
}

// Contains reports whether direction lies strictly inside s.
func (s Sector) Contains(direction float64) bool {
	if s.Universal() {
		return true
	}
	d := NormalizeAngle(direction - s.From)
	return d > Epsilon && d < s.Sweep-Epsilon
}

// ContainsVector reports whether the direction of v lies strictly inside s.
func (s Sector) ContainsVector(v Point) bool {
	return s.Contains(v.Angle())
}
