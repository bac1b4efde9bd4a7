package mesh

import (
	"math"

	"github.com/pkg/errors"
)

// Config controls how the secondary network is grown.
type Config struct {
	// RoadsFromPoint is the branching factor: a freshly placed point spawns
	// RoadsFromPoint-1 new branches.
	RoadsFromPoint int `yaml:"roads_from_point" json:"roads_from_point"`
	// SegmentLength is the mean length of a grown segment.
	SegmentLength float64 `yaml:"segment_length" json:"segment_length"`
	// SegmentLengthDeviation is the half-width of the uniform length noise.
	SegmentLengthDeviation float64 `yaml:"segment_length_deviation" json:"segment_length_deviation"`
	// SnapRadius is the distance within which a candidate end point snaps
	// to existing geometry.
	SnapRadius float64 `yaml:"snap_radius" json:"snap_radius"`
	// DirectionDeviationAngle bounds the per-step direction noise, in radians.
	DirectionDeviationAngle float64 `yaml:"direction_deviation_angle" json:"direction_deviation_angle"`
	// FavourAxisAligned rounds directions toward the nearest right angle
	// instead of adding noise.
	FavourAxisAligned bool `yaml:"favour_axis_aligned" json:"favour_axis_aligned"`
	// MaxStartPointsPerLoop caps the number of seeds placed on one loop.
	MaxStartPointsPerLoop int `yaml:"max_start_points_per_loop" json:"max_start_points_per_loop"`
}

// DefaultConfig returns a configuration producing a loose orthogonal grid.
func DefaultConfig() Config {
	return Config{
		RoadsFromPoint:          4,
		SegmentLength:           10,
		SegmentLengthDeviation:  2,
		SnapRadius:              2,
		DirectionDeviationAngle: 0.1,
		FavourAxisAligned:       true,
		MaxStartPointsPerLoop:   16,
	}
}

// Validate checks value ranges. The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.RoadsFromPoint < 2:
		return errors.Wrapf(ErrInvalidConfig, "roads_from_point must be at least 2, got %d", c.RoadsFromPoint)
	case !(c.SegmentLength > 0) || math.IsInf(c.SegmentLength, 0):
		return errors.Wrapf(ErrInvalidConfig, "segment_length must be positive, got %g", c.SegmentLength)
	case c.SegmentLengthDeviation < 0 || c.SegmentLengthDeviation >= c.SegmentLength:
		return errors.Wrapf(ErrInvalidConfig,
			"segment_length_deviation must be in [0, %g), got %g", c.SegmentLength, c.SegmentLengthDeviation)
	case c.SnapRadius < 0 || c.SnapRadius >= c.SegmentLength:
		return errors.Wrapf(ErrInvalidConfig,
			"snap_radius must be in [0, %g), got %g", c.SegmentLength, c.SnapRadius)
	case c.DirectionDeviationAngle < 0 || c.DirectionDeviationAngle >= 2*math.Pi:
		return errors.Wrapf(ErrInvalidConfig,
			"direction_deviation_angle must be in [0, 2π), got %g", c.DirectionDeviationAngle)
	case c.MaxStartPointsPerLoop < 1:
		return errors.Wrapf(ErrInvalidConfig,
			"max_start_points_per_loop must be at least 1, got %d", c.MaxStartPointsPerLoop)
	}
	return nil
}
