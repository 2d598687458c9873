package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pcbflow/pcbflow/pkg/board"
	"github.com/pcbflow/pcbflow/pkg/pipeline"
)

// routeCommand creates the route command for re-routing an
// already-placed circuit, for example after hand-editing positions.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		output  string
		profile string
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "route [circuit.json]",
		Short: "Route connections for an already-placed circuit",
		Long: `Route connections for an already-placed circuit.

The route command skips placement entirely: component positions in the
input file are taken as final, and only the connection polylines are
recomputed. Useful after manually editing positions or rotations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile != "" {
				p, err := pipeline.LoadProfile(profile)
				if err != nil {
					return err
				}
				opts.Profile = p
			}
			return c.runRoute(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.routes.json)")
	cmd.Flags().StringVar(&profile, "profile", "", "TOML tuning profile")

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, input string, opts pipeline.Options, output string) error {
	circuit, err := board.ReadCircuitFile(input)
	if err != nil {
		return fmt.Errorf("load circuit %s: %w", input, err)
	}

	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()

	p := newProgress(c.Logger)
	routes, err := runner.RouteOnly(ctx, circuit, opts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Routed %d connections", len(routes)))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".routes.json"
	}

	data, err := json.MarshalIndent(map[string]any{"routes": routes}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Routing complete")
	printFile(outputPath)
	return nil
}
