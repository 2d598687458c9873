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

// layoutCommand creates the layout command for placing and routing a
// circuit.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		profile string
	)
	opts := pipeline.Options{
		Strategy: pipeline.DefaultStrategy,
		Width:    pipeline.DefaultWidth,
		Height:   pipeline.DefaultHeight,
		Seed:     pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "layout [circuit.json]",
		Short: "Place components and route connections",
		Long: `Place components and route connections.

The layout command takes a circuit.json file (component rectangles plus a
net list) and computes final positions with the selected strategy, snaps
grid-aligned components, and routes a polyline per connection. The output
is a layout.json file for rendering collaborators.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile != "" {
				p, err := pipeline.LoadProfile(profile)
				if err != nil {
					return err
				}
				opts.Profile = p
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", opts.Strategy, "layout strategy: force (default), hierarchical, circular")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "simulation step budget (0 = default)")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "convergence threshold (0 = default)")
	cmd.Flags().Float64Var(&opts.GridSize, "grid", 0, "snap pitch for grid-aligned components (0 = off)")
	cmd.Flags().BoolVar(&opts.SkipRouting, "no-route", false, "skip connection routing")
	cmd.Flags().StringVar(&profile, "profile", "", "TOML tuning profile")

	return cmd
}

// runLayout loads the circuit, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	circuit, err := board.ReadCircuitFile(input)
	if err != nil {
		return fmt.Errorf("load circuit %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Strategy))
	spin.start()

	result, cacheHit, err := runner.Execute(ctx, circuit, opts)
	if err != nil {
		spin.stopWithError("Layout failed")
		return err
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := writeResultFile(result, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(circuit.Nodes), len(circuit.Connections), cacheHit)
	if !result.Converged {
		printWarning("Simulation did not converge within %d steps", result.Steps)
	}
	if result.SkippedConnections > 0 {
		printWarning("Skipped %d connections referencing unknown components", result.SkippedConnections)
	}
	printNewline()
	printNextStep("Re-route after edits", appName+" route "+outputPath)

	return nil
}

// writeResultFile writes a pipeline result as pretty-printed JSON.
func writeResultFile(result pipeline.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
