package mesh

import "road_mesh/pkg/geo"

// Canopy is the dead-end registry shared by every tree growing inside one
// loop. A point in it is never used as the start of a new branch. It also
// tracks petioles, the edges leading to leaves, so that a split of a
// petiole passes the leaf's dead-end status to the split point.
type Canopy struct {
	deadEnds map[geo.Point]bool
	petioles map[geo.Segment]geo.Point // canonical key -> leaf
}

// NewCanopy creates an empty registry.
func NewCanopy() *Canopy {
	return &Canopy{
		deadEnds: make(map[geo.Point]bool),
		petioles: make(map[geo.Segment]geo.Point),
	}
}

// MarkDeadEnd adds p. Returns false if it was already present.
func (c *Canopy) MarkDeadEnd(p geo.Point) bool {
	if c.deadEnds[p] {
		return false
	}
	c.deadEnds[p] = true
	return true
}

// IsDeadEnd reports whether p is in the registry.
func (c *Canopy) IsDeadEnd(p geo.Point) bool { return c.deadEnds[p] }

// Len returns the number of dead ends.
func (c *Canopy) Len() int { return len(c.deadEnds) }

// AddPetiole records e as the edge leading to leaf.
func (c *Canopy) AddPetiole(e geo.Segment, leaf geo.Point) {
	c.petioles[e.Key()] = leaf
}

// EdgeSplit implements SplitObserver.
func (c *Canopy) EdgeSplit(orig, a, b geo.Segment, p geo.Point) {
	key := orig.Key()
	leaf, ok := c.petioles[key]
	if !ok {
		return
	}
	delete(c.petioles, key)
	if c.deadEnds[leaf] {
		c.deadEnds[p] = true
	}
	if a.HasEndpoint(leaf) {
		c.petioles[a.Key()] = leaf
	} else {
		c.petioles[b.Key()] = leaf
	}
}

var _ SplitObserver = (*Canopy)(nil)
