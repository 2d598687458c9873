package layout

import (
	"context"
	"math"

	"github.com/pcbflow/pcbflow/pkg/board"
	"github.com/pcbflow/pcbflow/pkg/physics"
)

// Defaults for the force-directed simulation budget.
const (
	DefaultMaxSteps  = 1000
	DefaultThreshold = 0.1

	// circularRadiusFactor scales the circle radius against the smaller
	// canvas dimension.
	circularRadiusFactor = 0.3
)

// Options configures a layout computation. Physics carries the canvas
// dimensions for every strategy; its tuning fields only matter for
// force-directed placement (and the hierarchical fallback).
type Options struct {
	Strategy  Strategy
	Physics   physics.Config
	MaxSteps  int
	Threshold float64

	// StepFunc is forwarded to the physics engine for cooperative
	// progress reporting and cancellation. May be nil.
	StepFunc func(step int, maxDisplacement float64) bool
}

func (o Options) withDefaults() Options {
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Result holds the outcome of a layout computation.
type Result struct {
	// Nodes are the final node states in insertion order.
	Nodes []board.Node

	// Effective is the strategy that actually ran. It differs from the
	// requested strategy only for the hierarchical no-root fallback.
	Effective Strategy

	// Steps is the number of simulation steps executed (zero for
	// non-simulated strategies). Converged reports whether the
	// simulation settled within its budget.
	Steps     int
	Converged bool

	// Skipped counts connections dropped for referencing unknown nodes.
	Skipped int
}

// Positions returns the final top-left position of every node by ID.
func (r *Result) Positions() map[string]board.Point {
	out := make(map[string]board.Point, len(r.Nodes))
	for i := range r.Nodes {
		out[r.Nodes[i].ID] = board.Point{X: r.Nodes[i].X, Y: r.Nodes[i].Y}
	}
	return out
}

// Compute places nodes on the canvas using the selected strategy.
// The inputs are not mutated; final states are returned in the Result.
func Compute(ctx context.Context, nodes []board.Node, conns []board.Connection, opts Options) (Result, error) {
	opts = opts.withDefaults()

	switch opts.Strategy {
	case Hierarchical:
		return computeHierarchical(ctx, nodes, conns, opts)
	case Circular:
		return computeCircular(nodes, conns, opts)
	default:
		return computeForce(ctx, nodes, conns, opts)
	}
}

// computeForce delegates placement to the physics engine.
func computeForce(ctx context.Context, nodes []board.Node, conns []board.Connection, opts Options) (Result, error) {
	eng, err := physics.New(opts.Physics)
	if err != nil {
		return Result{}, err
	}
	for _, n := range nodes {
		if err := eng.AddNode(n); err != nil {
			return Result{}, err
		}
	}
	for _, c := range conns {
		eng.AddConnection(c)
	}
	eng.StepFunc = opts.StepFunc

	steps, err := eng.Simulate(ctx, opts.MaxSteps, opts.Threshold)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Nodes:     eng.Nodes(),
		Effective: ForceDirected,
		Steps:     steps,
		Converged: steps < opts.MaxSteps,
		Skipped:   eng.Skipped(),
	}, nil
}

// computeHierarchical levels the graph breadth-first from its roots.
// Graphs without an in-degree-zero node (cyclic, or every node has an
// incoming edge) fall back to force-directed placement.
func computeHierarchical(ctx context.Context, nodes []board.Node, conns []board.Connection, opts Options) (Result, error) {
	if err := validateCanvas(opts.Physics); err != nil {
		return Result{}, err
	}
	if len(nodes) == 0 {
		return Result{Effective: Hierarchical, Converged: true}, nil
	}

	index := make(map[string]int, len(nodes))
	for i := range nodes {
		index[nodes[i].ID] = i
	}

	// In-degree and adjacency over valid connections only. Dangling or
	// self-referential connections are counted, not errored.
	inDegree := make([]int, len(nodes))
	children := make([][]int, len(nodes))
	skipped := 0
	for _, c := range conns {
		from, okFrom := index[c.From]
		to, okTo := index[c.To]
		if !okFrom || !okTo || from == to {
			skipped++
			continue
		}
		inDegree[to]++
		children[from] = append(children[from], to)
	}

	var roots []int
	for i := range nodes {
		if inDegree[i] == 0 {
			roots = append(roots, i)
		}
	}
	if len(roots) == 0 {
		return computeForce(ctx, nodes, conns, opts)
	}

	// BFS from the root set. FIFO order breaks ties; the first discovery
	// of a node fixes its level.
	level := make([]int, len(nodes))
	visited := make([]bool, len(nodes))
	queue := make([]int, 0, len(nodes))
	for _, r := range roots {
		visited[r] = true
		queue = append(queue, r)
	}
	maxLevel := 0
	order := make([]int, 0, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)
		for _, child := range children[curr] {
			if visited[child] {
				continue
			}
			visited[child] = true
			level[child] = level[curr] + 1
			if level[child] > maxLevel {
				maxLevel = level[child]
			}
			queue = append(queue, child)
		}
	}

	// Nodes unreachable from any root land on the last level, after the
	// discovered nodes, in input order.
	for i := range nodes {
		if !visited[i] {
			level[i] = maxLevel
			order = append(order, i)
		}
	}

	byLevel := make([][]int, maxLevel+1)
	for _, i := range order {
		byLevel[level[i]] = append(byLevel[level[i]], i)
	}

	out := make([]board.Node, len(nodes))
	copy(out, nodes)
	levelHeight := opts.Physics.CanvasHeight / float64(maxLevel+2)
	for lvl, members := range byLevel {
		y := levelHeight * float64(lvl+1)
		spacing := opts.Physics.CanvasWidth / float64(len(members)+1)
		for i, idx := range members {
			n := &out[idx]
			n.X = spacing*float64(i+1) - n.Width/2
			n.Y = y
			clampNode(n, opts.Physics)
		}
	}

	return Result{
		Nodes:     out,
		Effective: Hierarchical,
		Converged: true,
		Skipped:   skipped,
	}, nil
}

// computeCircular spaces node centers evenly around a circle of radius
// 0.3·min(W, H) centered on the canvas, in input order.
func computeCircular(nodes []board.Node, conns []board.Connection, opts Options) (Result, error) {
	if err := validateCanvas(opts.Physics); err != nil {
		return Result{}, err
	}

	index := make(map[string]bool, len(nodes))
	for i := range nodes {
		index[nodes[i].ID] = true
	}
	skipped := 0
	for _, c := range conns {
		if !index[c.From] || !index[c.To] || c.From == c.To {
			skipped++
		}
	}

	out := make([]board.Node, len(nodes))
	copy(out, nodes)
	if len(out) > 0 {
		cx := opts.Physics.CanvasWidth / 2
		cy := opts.Physics.CanvasHeight / 2
		radius := circularRadiusFactor * math.Min(opts.Physics.CanvasWidth, opts.Physics.CanvasHeight)
		step := 2 * math.Pi / float64(len(out))
		for i := range out {
			angle := float64(i) * step
			out[i].X = cx + radius*math.Cos(angle) - out[i].Width/2
			out[i].Y = cy + radius*math.Sin(angle) - out[i].Height/2
			clampNode(&out[i], opts.Physics)
		}
	}

	return Result{
		Nodes:     out,
		Effective: Circular,
		Converged: true,
		Skipped:   skipped,
	}, nil
}

func validateCanvas(cfg physics.Config) error {
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return physics.ErrInvalidCanvas
	}
	return nil
}

func clampNode(n *board.Node, cfg physics.Config) {
	n.X = math.Min(math.Max(n.X, 0), math.Max(cfg.CanvasWidth-n.Width, 0))
	n.Y = math.Min(math.Max(n.Y, 0), math.Max(cfg.CanvasHeight-n.Height, 0))
}
