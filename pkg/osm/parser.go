package osm

import (
	"context"
	"io"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"road_mesh/pkg/geo"
)

// RawEdge is one undirected skeleton edge between consecutive way nodes.
type RawEdge struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	Highway    string  // highway tag of the source way
	Length     float64 // great-circle length in meters
}

// ParseResult holds the output of parsing an OSM file.
type ParseResult struct {
	Edges   []RawEdge
	NodeLat map[osm.NodeID]float64
	NodeLon map[osm.NodeID]float64
}

// Format selects the OSM encoding.
type Format int

const (
	FormatPBF Format = iota
	FormatXML
)

// FormatFromPath picks the encoding from a file name.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(path, ".pbf") {
		return FormatPBF
	}
	return FormatXML
}

// majorHighways lists the highway values that bound city blocks by default.
var majorHighways = map[string]bool{
	"motorway":    true,
	"trunk":       true,
	"primary":     true,
	"secondary":   true,
	"tertiary":    true,
	"residential": true,
}

// isSkeletonRoad returns true if the way should become part of the skeleton.
func isSkeletonRoad(tags osm.Tags, highways map[string]bool) bool {
	if !highways[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Bridges and tunnels cross other roads without a junction, which
	// would break planarity.
	if v := tags.Find("bridge"); v != "" && v != "no" {
		return false
	}
	if v := tags.Find("tunnel"); v != "" && v != "no" {
		return false
	}
	return true
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox     BBox        // if non-zero, filter edges to this bounding box
	Format   Format      // input encoding
	Highways []string    // highway values to keep; defaults to major roads
	Logger   *zap.Logger // progress logging; nil disables it
}

func (o ParseOptions) highways() map[string]bool {
	if len(o.Highways) == 0 {
		return majorHighways
	}
	m := make(map[string]bool, len(o.Highways))
	for _, h := range o.Highways {
		m[h] = true
	}
	return m
}

// scanner is the subset shared by the PBF and XML scanners.
type scanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

func newScanner(ctx context.Context, r io.Reader, format Format, skipNodes bool) scanner {
	if format == FormatXML {
		return osmxml.New(ctx, r)
	}
	s := osmpbf.New(ctx, r, 1)
	s.SkipNodes = skipNodes
	s.SkipWays = !skipNodes
	s.SkipRelations = true
	return s
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	NodeIDs []osm.NodeID
	Highway string
}

// Parse reads an OSM file and returns the undirected skeleton edges of its
// major roads. The reader is consumed twice (seeks back to start for the
// second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	useBBox := !opt.BBox.IsZero()
	highways := opt.highways()

	// Pass 1: Scan ways to collect referenced node IDs and way info.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	sc := newScanner(ctx, rs, opt.Format, true)
	for sc.Scan() {
		w, ok := sc.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isSkeletonRoad(w.Tags, highways) || len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: nodeIDs, Highway: w.Tags.Find("highway")})
	}
	if err := sc.Err(); err != nil {
		sc.Close()
		return nil, errors.Wrap(err, "pass 1 (ways)")
	}
	sc.Close()

	log.Info("pass 1 complete",
		zap.Int("ways", len(ways)),
		zap.Int("referenced_nodes", len(referencedNodes)))

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek for pass 2")
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	sc = newScanner(ctx, rs, opt.Format, false)
	for sc.Scan() {
		n, ok := sc.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := sc.Err(); err != nil {
		sc.Close()
		return nil, errors.Wrap(err, "pass 2 (nodes)")
	}
	sc.Close()

	log.Info("pass 2 complete", zap.Int("node_coordinates", len(nodeLat)))

	// Build edges from ways. Ways often overlap at shared nodes, so
	// edges are deduplicated regardless of direction.
	var edges []RawEdge
	var skippedEdges, bboxFiltered, duplicates int
	seen := make(map[[2]osm.NodeID]struct{})

	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID := w.NodeIDs[i]
			toID := w.NodeIDs[i+1]
			if fromID == toID {
				continue
			}

			fromLat, fromOk := nodeLat[fromID]
			fromLon := nodeLon[fromID]
			toLat, toOk := nodeLat[toID]
			toLon := nodeLon[toID]

			if !fromOk || !toOk {
				skippedEdges++
				continue
			}

			// Bounding box filter: skip edges with any endpoint outside.
			if useBBox && (!opt.BBox.Contains(fromLat, fromLon) || !opt.BBox.Contains(toLat, toLon)) {
				bboxFiltered++
				continue
			}

			key := [2]osm.NodeID{min(fromID, toID), max(fromID, toID)}
			if _, dup := seen[key]; dup {
				duplicates++
				continue
			}
			seen[key] = struct{}{}

			edges = append(edges, RawEdge{
				FromNodeID: fromID,
				ToNodeID:   toID,
				Highway:    w.Highway,
				Length:     geo.Haversine(fromLat, fromLon, toLat, toLon),
			})
		}
	}

	if skippedEdges > 0 {
		log.Warn("skipped edges due to missing node coordinates", zap.Int("edges", skippedEdges))
	}
	if bboxFiltered > 0 {
		log.Info("filtered edges outside bounding box", zap.Int("edges", bboxFiltered))
	}
	log.Info("built skeleton edges", zap.Int("edges", len(edges)), zap.Int("duplicates", duplicates))

	return &ParseResult{
		Edges:   edges,
		NodeLat: nodeLat,
		NodeLon: nodeLon,
	}, nil
}
