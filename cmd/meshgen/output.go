package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"road_mesh/pkg/graph"
	"road_mesh/pkg/mesh"
)

// loadConfig reads a mesh configuration from YAML; fields the file omits
// keep their defaults. An empty path gives the defaults.
func loadConfig(path string) (mesh.Config, error) {
	cfg := mesh.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config YAML")
	}
	return cfg, nil
}

// writeResult writes the GeoJSON export to geoPath ("-" for w) and, when
// binPath is set, the binary mesh.
func writeResult(w io.Writer, res *mesh.Result, geoPath, binPath string) error {
	if geoPath != "" {
		data, err := json.Marshal(res.FeatureCollection())
		if err != nil {
			return errors.Wrap(err, "encoding GeoJSON")
		}
		if geoPath == "-" {
			if _, err := w.Write(data); err != nil {
				return err
			}
		} else if err := os.WriteFile(geoPath, data, 0o644); err != nil {
			return errors.Wrap(err, "writing GeoJSON")
		}
		logger.Info("wrote GeoJSON", zap.String("path", geoPath), zap.Int("bytes", len(data)))
	}
	if binPath != "" {
		if err := graph.WriteBinary(binPath, res.Mesh()); err != nil {
			return errors.Wrap(err, "writing binary mesh")
		}
		logger.Info("wrote binary mesh", zap.String("path", binPath))
	}
	return nil
}

func printStats(w io.Writer, s mesh.Stats) {
	fmt.Fprintf(w, "loops:      %d (%d enclosed)\n", s.Loops, s.EnclosedLoops)
	fmt.Fprintf(w, "seeds:      %d\n", s.Seeds)
	fmt.Fprintf(w, "steps:      %d (none %d, node %d, edge %d, blocked %d, dropped %d)\n",
		s.Steps, s.NoSnaps, s.NodeSnaps, s.EdgeSnaps, s.Blocked, s.Dropped)
	fmt.Fprintf(w, "forced:     %d\n", s.Forced)
	fmt.Fprintf(w, "vertices:   %d\n", s.Vertices)
	fmt.Fprintf(w, "edges:      %d\n", s.Edges)
	fmt.Fprintf(w, "blocks:     %d\n", s.Blocks)
}
