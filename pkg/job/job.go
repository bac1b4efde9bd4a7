// Package job loads generation jobs: a skeleton, a mesh configuration and
// a seed, described in a YAML file.
package job

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"road_mesh/pkg/geo"
	"road_mesh/pkg/graph"
	"road_mesh/pkg/mesh"
	"road_mesh/pkg/osm"
)

// ProjectFile is the job file LoadProject looks for.
const ProjectFile = "mesh.yaml"

// Job is one generation request.
type Job struct {
	Seed     int64       `yaml:"seed"`
	Config   mesh.Config `yaml:"config"`
	Skeleton Skeleton    `yaml:"skeleton"`
}

// Skeleton is either an explicit point list with edge index pairs, or an
// OSM extract whose major roads become the skeleton.
type Skeleton struct {
	Points [][2]float64 `yaml:"points"`
	Edges  [][2]int     `yaml:"edges"`
	OSM    *OSMSource   `yaml:"osm"`
}

// OSMSource names an OSM XML or PBF file. A relative Path is resolved
// against the directory of the job file.
type OSMSource struct {
	Path     string   `yaml:"path"`
	Highways []string `yaml:"highways"`
	BBox     *BBox    `yaml:"bbox"`
}

// BBox is a lat/lon filter for OSM input.
type BBox struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
}

// Load reads a job from a YAML file. Config fields the file omits keep
// their default values.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading job file")
	}

	j := Job{Config: mesh.DefaultConfig()}
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(err, "parsing job YAML")
	}
	if err := j.Config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "job %s", path)
	}

	s := j.Skeleton
	switch {
	case s.OSM != nil && len(s.Points) > 0:
		return nil, errors.Errorf("job %s: skeleton has both points and an osm source", path)
	case s.OSM != nil:
		if s.OSM.Path == "" {
			return nil, errors.Errorf("job %s: osm source has no path", path)
		}
		if !filepath.IsAbs(s.OSM.Path) {
			s.OSM.Path = filepath.Join(filepath.Dir(path), s.OSM.Path)
		}
	case len(s.Points) == 0:
		return nil, errors.Errorf("job %s: skeleton is empty", path)
	}
	return &j, nil
}

// LoadProject loads the job file of a project directory.
func LoadProject(dir string) (*Job, error) {
	return Load(filepath.Join(dir, ProjectFile))
}

// Graph builds the skeleton graph. OSM input is reduced to its largest
// connected component.
func (j *Job) Graph(ctx context.Context, log *zap.Logger) (*graph.Graph, error) {
	if j.Skeleton.OSM != nil {
		src := j.Skeleton.OSM
		var bbox osm.BBox
		if src.BBox != nil {
			bbox = osm.BBox{MinLat: src.BBox.MinLat, MaxLat: src.BBox.MaxLat, MinLng: src.BBox.MinLng, MaxLng: src.BBox.MaxLng}
		}
		g, _, err := FromOSM(ctx, src.Path, osm.ParseOptions{BBox: bbox, Highways: src.Highways, Logger: log})
		return g, err
	}

	points := make([]geo.Point, len(j.Skeleton.Points))
	for i, p := range j.Skeleton.Points {
		points[i] = geo.Pt(p[0], p[1])
	}
	g, stats, err := graph.BuildFromIndexed(points, j.Skeleton.Edges)
	if err != nil {
		return nil, errors.Wrap(err, "building skeleton")
	}
	if log != nil && (stats.Degenerate > 0 || stats.Duplicate > 0) {
		log.Warn("dropped skeleton edges",
			zap.Int("degenerate", stats.Degenerate),
			zap.Int("duplicate", stats.Duplicate))
	}
	return g, nil
}

// FromOSM parses an OSM file into a projected skeleton restricted to its
// largest connected component. The format follows the file extension.
func FromOSM(ctx context.Context, path string, opt osm.ParseOptions) (*graph.Graph, geo.Projection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, geo.Projection{}, errors.Wrap(err, "opening OSM file")
	}
	defer f.Close()

	opt.Format = osm.FormatFromPath(path)
	parsed, err := osm.Parse(ctx, f, opt)
	if err != nil {
		return nil, geo.Projection{}, errors.Wrapf(err, "parsing %s", path)
	}
	g, proj := graph.BuildFromOSM(parsed)
	largest := graph.LargestComponent(g)
	g = graph.FilterToComponent(g, largest)
	if opt.Logger != nil {
		opt.Logger.Info("built skeleton from OSM",
			zap.String("path", path),
			zap.Int("vertices", g.NumVertices()),
			zap.Int("edges", g.NumEdges()))
	}
	return g, proj, nil
}
