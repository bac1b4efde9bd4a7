package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"road_mesh/pkg/job"
	"road_mesh/pkg/mesh"
)

func generateCmd() *cobra.Command {
	var (
		output string
		binOut string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "generate [job.yaml | project-dir]",
		Short: "Run a generation job and write the resulting mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := loadJob(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				j.Seed = seed
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), j, output, binOut)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "mesh.geojson", "GeoJSON output path (- for stdout)")
	cmd.Flags().StringVar(&binOut, "bin", "", "Binary mesh output path")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Override the job's seed")
	return cmd
}

func loadJob(path string) (*job.Job, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return job.LoadProject(path)
	}
	return job.Load(path)
}

func runGenerate(ctx context.Context, w io.Writer, j *job.Job, output, binOut string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	skeleton, err := j.Graph(ctx, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded skeleton",
		zap.Int("vertices", skeleton.NumVertices()),
		zap.Int("edges", skeleton.NumEdges()))

	res, err := mesh.Generate(skeleton, j.Config, j.Seed, mesh.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("generated mesh", zap.Duration("elapsed", time.Since(start)))

	if err := writeResult(w, res, output, binOut); err != nil {
		return err
	}
	if output != "-" {
		printStats(w, res.Stats)
	}
	return nil
}
