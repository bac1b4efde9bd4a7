package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"road_mesh/pkg/api"
	"road_mesh/pkg/mesh"
)

func serveCmd() *cobra.Command {
	var (
		port       int
		corsOrigin string
		snapDist   float64
		jobPath    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handlers := api.NewHandlers(api.MeshGenerator{Log: logger}, api.EngineFactory(snapDist), logger)

			// Optionally preload a mesh so route queries work right away.
			if jobPath != "" {
				j, err := loadJob(jobPath)
				if err != nil {
					return err
				}
				skeleton, err := j.Graph(cmd.Context(), logger)
				if err != nil {
					return err
				}
				res, err := mesh.Generate(skeleton, j.Config, j.Seed, mesh.WithLogger(logger))
				if err != nil {
					return err
				}
				handlers.SetMesh(res, j.Seed)
				logger.Info("preloaded mesh",
					zap.String("job", jobPath),
					zap.Int("vertices", res.Stats.Vertices),
					zap.Int("blocks", res.Stats.Blocks))
			}

			cfg := api.DefaultConfig(fmt.Sprintf(":%d", port))
			cfg.CORSOrigin = corsOrigin
			srv := api.NewServer(cfg, handlers, logger)
			if err := api.ListenAndServe(srv, logger); err != nil {
				logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	cmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")
	cmd.Flags().Float64Var(&snapDist, "snap-dist", 50, "Maximum distance a route endpoint may be from the mesh")
	cmd.Flags().StringVar(&jobPath, "job", "", "Job file or project directory to generate at startup")
	return cmd
}
