package mesh

import (
	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
)

// SnapRecord is one terminal snap: where a branch wanted to end and where
// it actually ended.
type SnapRecord struct {
	Source    geo.Point
	Unsnapped geo.Point
	Snapped   geo.Point
	Kind      SnapKind
}

// LoopInfo describes one minimal loop of the skeleton after generation.
type LoopInfo struct {
	// Vertices is the loop in traversal order, split points included.
	Vertices []geo.Point
	// Exits are the loop vertices the grown network attaches to.
	Exits []geo.Point
	// Seeds are the border points growth inside the loop started from.
	Seeds []geo.Point
	// Enclosed is set when another loop contains this one; Parent is the
	// index of the smallest such loop, or -1.
	Enclosed bool
	Parent   int
	// Forced counts the branches added by reconciliation.
	Forced int
	// Segments is the number of edges grown inside the loop.
	Segments int
}

// Stats summarises one generation run.
type Stats struct {
	Loops         int `json:"loops"`
	EnclosedLoops int `json:"enclosed_loops"`
	Seeds         int `json:"seeds"`
	Steps         int `json:"steps"`
	NoSnaps       int `json:"no_snaps"`
	NodeSnaps     int `json:"node_snaps"`
	EdgeSnaps     int `json:"edge_snaps"`
	Blocked       int `json:"blocked"`
	Dropped       int `json:"dropped"`
	Forced        int `json:"forced"`
	Vertices      int `json:"vertices"`
	Edges         int `json:"edges"`
	Blocks        int `json:"blocks"`
}

// Result is the output of one generation run.
type Result struct {
	// Graph is the full network: skeleton, grown segments and split points.
	Graph *graph.Graph
	// Backbone is the skeleton after splits.
	Backbone *graph.Graph
	// Blocks are the minimal cycles of Graph, each a simple polygon.
	Blocks    [][]geo.Point
	Filaments [][]geo.Point
	Loops     []LoopInfo
	Snaps     []SnapRecord
	Stats     Stats
}

// Mesh flattens the result for binary persistence.
func (r *Result) Mesh() *graph.Mesh {
	return graph.NewMesh(r.Graph, r.Backbone, r.Blocks)
}
