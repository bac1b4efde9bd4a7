package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"road_mesh/pkg/job"
)

func osmCmd() *cobra.Command {
	var (
		bbox       string
		highways   []string
		configPath string
		seed       int64
		output     string
		binOut     string
	)

	cmd := &cobra.Command{
		Use:   "osm [file.osm | file.osm.pbf]",
		Short: "Use the major roads of an OSM extract as the skeleton and generate a mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j := &job.Job{Seed: seed}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			j.Config = cfg
			src := &job.OSMSource{Path: args[0], Highways: highways}
			if bbox != "" {
				b, err := parseBBox(bbox)
				if err != nil {
					return err
				}
				src.BBox = &b
				logger.Info("using bounding box filter",
					zap.Float64("min_lat", b.MinLat), zap.Float64("max_lat", b.MaxLat),
					zap.Float64("min_lng", b.MinLng), zap.Float64("max_lng", b.MaxLng))
			}
			j.Skeleton.OSM = src
			if err := j.Config.Validate(); err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), j, output, binOut)
		},
	}

	cmd.Flags().StringVar(&bbox, "bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	cmd.Flags().StringSliceVar(&highways, "highways", nil, "Highway values to keep (default major roads)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Mesh config YAML")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "mesh.geojson", "GeoJSON output path (- for stdout)")
	cmd.Flags().StringVar(&binOut, "bin", "", "Binary mesh output path")
	return cmd
}

func parseBBox(s string) (job.BBox, error) {
	var b job.BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return b, errors.Wrap(err, "invalid bbox format (expected minLat,minLng,maxLat,maxLng)")
	}
	if b.MinLat >= b.MaxLat || b.MinLng >= b.MaxLng {
		return b, errors.Errorf("invalid bbox %q: min must be below max", s)
	}
	return b, nil
}
