// Package pipeline provides the core place → snap → route pipeline.
//
// The CLI and the HTTP service both drive layout computations through
// [Runner], which keeps behavior consistent across entry points: option
// validation, result caching, observability hooks, and logging live here,
// while the geometric work stays in pkg/physics, pkg/layout, pkg/grid,
// and pkg/route.
//
// # Stages
//
//  1. Place: run the selected layout strategy over the circuit.
//  2. Snap: quantize grid-aligned nodes onto the configured grid.
//  3. Route: compute a polyline per connection from final positions.
//
// Each stage is pure; a Runner holds no per-circuit state, so one Runner
// may serve concurrent layout requests.
package pipeline

import (
	"fmt"

	apperrors "github.com/pcbflow/pcbflow/pkg/errors"
	"github.com/pcbflow/pcbflow/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	// DefaultWidth is the default canvas width in canvas units.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in canvas units.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultStrategy is the default layout strategy name.
	DefaultStrategy = "force"
)

// Options configures a pipeline execution. The zero value is completed by
// setDefaults; Validate rejects what defaults cannot repair.
type Options struct {
	// Strategy names the layout algorithm: force, hierarchical, circular.
	Strategy string `json:"strategy,omitempty"`

	// Width and Height are the canvas dimensions.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Seed feeds the engine's random generator.
	Seed uint64 `json:"seed,omitempty"`

	// MaxSteps and Threshold bound the force simulation. Zero values use
	// the layout package defaults.
	MaxSteps  int     `json:"max_steps,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`

	// GridSize is the snap pitch for grid-aligned nodes; zero disables
	// snapping.
	GridSize float64 `json:"grid_size,omitempty"`

	// SkipRouting stops the pipeline after placement.
	SkipRouting bool `json:"skip_routing,omitempty"`

	// Profile carries physics and routing tuning, typically decoded from
	// a TOML file. Zeroed fields fall back to defaults.
	Profile Profile `json:"profile,omitempty"`
}

// setDefaults fills unset fields in place.
func (o *Options) setDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Validate checks the options after defaulting.
func (o *Options) Validate() error {
	if _, err := layout.ParseStrategy(o.Strategy); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidStrategy, err, "strategy %q", o.Strategy)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidCanvas,
			"canvas dimensions must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.GridSize < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidCircuit, "grid size must not be negative")
	}
	return nil
}

// cacheKeyFields is the subset of options that influence the computed
// result. CLI-only concerns (output paths, cache toggles) never reach it.
type cacheKeyFields struct {
	Strategy  string  `json:"strategy"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Seed      uint64  `json:"seed"`
	MaxSteps  int     `json:"max_steps"`
	Threshold float64 `json:"threshold"`
	GridSize  float64 `json:"grid_size"`
	SkipRoute bool    `json:"skip_routing"`
	Profile   Profile `json:"profile"`
}

func (o *Options) cacheKeyFields() cacheKeyFields {
	return cacheKeyFields{
		Strategy:  o.Strategy,
		Width:     o.Width,
		Height:    o.Height,
		Seed:      o.Seed,
		MaxSteps:  o.MaxSteps,
		Threshold: o.Threshold,
		GridSize:  o.GridSize,
		SkipRoute: o.SkipRouting,
		Profile:   o.Profile,
	}
}

// =============================================================================
// Result Types
// =============================================================================

// Placement is a node's final position and rotation, the contract with
// rendering collaborators.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Route is a routed connection: the ordered polyline from the source
// terminal to the destination terminal.
type Route struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Signal string       `json:"signal,omitempty"`
	Points []RoutePoint `json:"points"`
}

// RoutePoint is one vertex of a routed polyline.
type RoutePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the outcome of a pipeline execution.
type Result struct {
	// RunID uniquely identifies the computation that produced this
	// result; cache hits return the original run's ID.
	RunID string `json:"run_id"`

	// Strategy is the requested algorithm; Effective is what actually
	// ran (differing only for the hierarchical no-root fallback).
	Strategy  string `json:"strategy"`
	Effective string `json:"effective_strategy"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Steps and Converged report the simulation outcome. Non-convergence
	// is normal and reportable, never an error.
	Steps     int  `json:"steps"`
	Converged bool `json:"converged"`

	// SkippedConnections counts connections dropped for referencing
	// unknown nodes during placement or routing.
	SkippedConnections int `json:"skipped_connections,omitempty"`

	Positions map[string]Placement `json:"positions"`
	Routes    []Route              `json:"routes,omitempty"`
}

func (r *Result) String() string {
	return fmt.Sprintf("run %s: %s layout of %d nodes, %d steps (converged=%t)",
		r.RunID, r.Effective, len(r.Positions), r.Steps, r.Converged)
}
