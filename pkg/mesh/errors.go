package mesh

import (
	"fmt"

	"github.com/pkg/errors"

	"road_mesh/pkg/geo"
)

var (
	// ErrInvalidConfig is wrapped by every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNoLoops is returned when the skeleton encloses no area.
	ErrNoLoops = errors.New("skeleton has no loops")
	// ErrSelfIntersecting is returned when two skeleton edges cross.
	ErrSelfIntersecting = errors.New("skeleton self-intersects")
)

// InvariantError reports a broken planarity invariant: a defect in the
// growth logic rather than bad input. A and B are the offending segments;
// B is zero when a single segment is at fault.
type InvariantError struct {
	Op     string
	Reason string
	A, B   geo.Segment
}

func (e *InvariantError) Error() string {
	if e.B == (geo.Segment{}) {
		return fmt.Sprintf("invariant violated during %s: %s: %v", e.Op, e.Reason, e.A)
	}
	return fmt.Sprintf("invariant violated during %s: %s: %v and %v", e.Op, e.Reason, e.A, e.B)
}

// fail aborts the current generation run. It is recovered in Generate.
func fail(op, reason string, a, b geo.Segment) {
	panic(&InvariantError{Op: op, Reason: reason, A: a, B: b})
}
