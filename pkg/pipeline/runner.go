package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pcbflow/pcbflow/pkg/board"
	"github.com/pcbflow/pcbflow/pkg/cache"
	apperrors "github.com/pcbflow/pcbflow/pkg/errors"
	"github.com/pcbflow/pcbflow/pkg/grid"
	"github.com/pcbflow/pcbflow/pkg/layout"
	"github.com/pcbflow/pcbflow/pkg/observability"
	"github.com/pcbflow/pcbflow/pkg/route"
)

// Runner executes the place → snap → route pipeline. It holds no
// per-circuit state and may serve concurrent executions.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables memoization; a nil
// logger discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error { return r.cache.Close() }

// Execute runs the full pipeline for circuit. The boolean reports whether
// the result came from cache.
func (r *Runner) Execute(ctx context.Context, circuit board.Circuit, opts Options) (Result, bool, error) {
	opts.setDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, false, err
	}
	if err := circuit.Validate(); err != nil {
		return Result{}, false, apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "invalid circuit")
	}

	circuitJSON, err := board.MarshalCircuit(circuit)
	if err != nil {
		return Result{}, false, apperrors.Wrap(apperrors.ErrCodeInternal, err, "marshal circuit")
	}
	key := cache.LayoutKey(circuitJSON, opts.cacheKeyFields())

	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.CacheEvents().OnCacheHit(ctx, "layout")
			r.logger.Debug("layout cache hit", "key", key[:19])
			return cached, true, nil
		}
	} else if err != nil {
		// A broken cache backend must not fail the computation.
		r.logger.Warn("cache read failed", "err", err)
	}
	observability.CacheEvents().OnCacheMiss(ctx, "layout")

	result, err := r.compute(ctx, circuit, opts)
	if err != nil {
		return Result{}, false, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := r.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.logger.Warn("cache write failed", "err", err)
		} else {
			observability.CacheEvents().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return result, false, nil
}

// compute runs the pipeline stages without cache involvement.
func (r *Runner) compute(ctx context.Context, circuit board.Circuit, opts Options) (Result, error) {
	strategy, err := layout.ParseStrategy(opts.Strategy)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.ErrCodeInvalidStrategy, err, "strategy %q", opts.Strategy)
	}

	// Place.
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, strategy.String(), len(circuit.Nodes))
	lres, err := layout.Compute(ctx, circuit.Nodes, circuit.Connections, layout.Options{
		Strategy:  strategy,
		Physics:   opts.Profile.physicsConfig(&opts),
		MaxSteps:  opts.MaxSteps,
		Threshold: opts.Threshold,
	})
	observability.Layout().OnLayoutComplete(ctx, strategy.String(), lres.Steps, lres.Converged, time.Since(start), err)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "compute %s layout", strategy)
	}
	r.logger.Debug("placement done",
		"strategy", lres.Effective.String(),
		"steps", lres.Steps,
		"converged", lres.Converged,
		"elapsed", time.Since(start).Round(time.Millisecond))

	// Snap.
	if opts.GridSize > 0 {
		snapped := 0
		for i := range lres.Nodes {
			if grid.SnapNode(&lres.Nodes[i], opts.GridSize) {
				snapped++
			}
		}
		if snapped > 0 {
			r.logger.Debug("snapped nodes to grid", "count", snapped, "pitch", opts.GridSize)
		}
	}

	result := Result{
		RunID:              uuid.NewString(),
		Strategy:           strategy.String(),
		Effective:          lres.Effective.String(),
		Width:              opts.Width,
		Height:             opts.Height,
		Steps:              lres.Steps,
		Converged:          lres.Converged,
		SkippedConnections: lres.Skipped,
		Positions:          make(map[string]Placement, len(lres.Nodes)),
	}
	for i := range lres.Nodes {
		n := &lres.Nodes[i]
		result.Positions[n.ID] = Placement{X: n.X, Y: n.Y, Rotation: n.Rotation}
	}

	// Route.
	if !opts.SkipRouting {
		result.Routes = r.routeAll(ctx, lres.Nodes, circuit.Connections, opts)
	}
	return result, nil
}

// RouteOnly routes an already-placed circuit without recomputing layout.
// Used by the route command to re-route after manual position edits.
func (r *Runner) RouteOnly(ctx context.Context, circuit board.Circuit, opts Options) ([]Route, error) {
	opts.setDefaults()
	if err := circuit.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidCircuit, err, "invalid circuit")
	}
	return r.routeAll(ctx, circuit.Nodes, circuit.Connections, opts), nil
}

func (r *Runner) routeAll(ctx context.Context, nodes []board.Node, conns []board.Connection, opts Options) []Route {
	start := time.Now()
	observability.Layout().OnRouteStart(ctx, len(conns))

	router := route.NewRouter(nodes, opts.Profile.Route)
	routes := make([]Route, 0, len(conns))
	for _, c := range conns {
		points, ok := router.Route(c)
		if !ok {
			continue
		}
		rt := Route{From: c.From, To: c.To, Signal: c.Signal, Points: make([]RoutePoint, len(points))}
		for i, p := range points {
			rt.Points[i] = RoutePoint{X: p.X, Y: p.Y}
		}
		routes = append(routes, rt)
	}

	observability.Layout().OnRouteComplete(ctx, len(routes), router.Skipped(), time.Since(start))
	r.logger.Debug("routing done",
		"routed", len(routes),
		"skipped", router.Skipped(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return routes
}
