package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"road_mesh/pkg/graph"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file.mesh]",
		Short: "Print a summary of a binary mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInspect(w io.Writer, path string) error {
	m, err := graph.ReadBinary(path)
	if err != nil {
		return err
	}
	g := m.Graph()

	backbone := 0
	for _, b := range m.Backbone {
		if b != 0 {
			backbone++
		}
	}
	minSize, maxSize := 0, 0
	for i := 0; i < m.NumBlocks(); i++ {
		n := len(m.Block(i))
		if i == 0 || n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}

	fmt.Fprintf(w, "file:        %s\n", path)
	fmt.Fprintf(w, "vertices:    %d\n", m.NumVertices())
	fmt.Fprintf(w, "edges:       %d (%d backbone)\n", m.NumEdges(), backbone)
	fmt.Fprintf(w, "blocks:      %d (%d-%d vertices)\n", m.NumBlocks(), minSize, maxSize)
	fmt.Fprintf(w, "components:  %d\n", graph.NumComponents(g))
	if graph.SelfIntersects(g) {
		fmt.Fprintln(w, "warning: mesh self-intersects")
	}
	return nil
}
