package physics

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/pcbflow/pcbflow/pkg/board"
)

var (
	// ErrInvalidCanvas is returned by [New] when a canvas dimension is
	// zero or negative. This is a configuration error, not a degenerate
	// input, so it is fatal.
	ErrInvalidCanvas = errors.New("canvas dimensions must be positive")

	// ErrInvalidNodeID is returned by [Engine.AddNode] when the node ID
	// is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Engine.AddNode] when a node with
	// the same ID was already inserted.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidDimensions is returned by [Engine.AddNode] when width or
	// height is zero or negative.
	ErrInvalidDimensions = errors.New("node dimensions must be positive")
)

// conn is a connection resolved to arena indices.
type conn struct {
	from, to  int
	strength  float64
	ideal     float64
	stiffness float64
}

// Engine simulates spring and repulsion forces over an arena of nodes.
// Create one with [New], populate it with [Engine.AddNode] and
// [Engine.AddConnection], then call [Engine.Simulate]. The engine owns
// its node copies; read results back with [Engine.Nodes] or
// [Engine.Positions].
type Engine struct {
	cfg Config
	rng *rand.Rand

	nodes []board.Node
	index map[string]int
	conns []conn

	// forces is scratch space reused across steps, indexed like nodes.
	forces  []board.Point
	skipped int

	// StepFunc, when set, is invoked after every simulation step with the
	// step number and the maximum displacement observed. Returning false
	// aborts the simulation at the next step boundary.
	StepFunc func(step int, maxDisplacement float64) bool
}

// New creates an engine for the given config. The config's canvas
// dimensions must be positive; other tuning fields fall back to defaults
// when zero.
func New(cfg Config) (*Engine, error) {
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, ErrInvalidCanvas
	}
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(int64(cfg.Seed^0xdeadbeef))),
		index: make(map[string]int),
	}, nil
}

// AddNode copies n into the arena. Zero or negative mass is replaced with
// [board.DefaultMass]; velocities are zeroed; the position is clamped into
// the canvas so the bounds invariant holds from step zero.
func (e *Engine) AddNode(n board.Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := e.index[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	if n.Width <= 0 || n.Height <= 0 {
		return ErrInvalidDimensions
	}
	if n.Mass <= 0 {
		n.Mass = board.DefaultMass
	}
	n.VX, n.VY = 0, 0

	e.index[n.ID] = len(e.nodes)
	e.nodes = append(e.nodes, n)
	e.forces = append(e.forces, board.Point{})
	e.clamp(len(e.nodes) - 1)
	return nil
}

// AddConnection resolves c's endpoints to arena indices. Connections that
// reference unknown nodes or connect a node to itself are degenerate
// inputs: they are dropped and counted, never an error. [Engine.Skipped]
// reports the count.
func (e *Engine) AddConnection(c board.Connection) {
	from, okFrom := e.index[c.From]
	to, okTo := e.index[c.To]
	if !okFrom || !okTo || from == to {
		e.skipped++
		return
	}
	strength := c.Strength
	if strength < 0 {
		strength = 0
	}
	e.conns = append(e.conns, conn{
		from:      from,
		to:        to,
		strength:  strength,
		ideal:     math.Max(c.IdealLength, 0),
		stiffness: stiffnessFor(c.Signal),
	})
}

// Skipped returns the number of connections dropped for referencing
// unknown nodes or for being self-loops.
func (e *Engine) Skipped() int { return e.skipped }

// NodeCount returns the number of nodes in the arena.
func (e *Engine) NodeCount() int { return len(e.nodes) }

// Nodes returns a copy of the arena in insertion order.
func (e *Engine) Nodes() []board.Node {
	out := make([]board.Node, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// Node returns a copy of the node with the given ID.
func (e *Engine) Node(id string) (board.Node, bool) {
	i, ok := e.index[id]
	if !ok {
		return board.Node{}, false
	}
	return e.nodes[i], true
}

// Positions returns the current top-left position of every node by ID.
func (e *Engine) Positions() map[string]board.Point {
	out := make(map[string]board.Point, len(e.nodes))
	for i := range e.nodes {
		out[e.nodes[i].ID] = board.Point{X: e.nodes[i].X, Y: e.nodes[i].Y}
	}
	return out
}

// Simulate runs up to maxSteps simulation steps, stopping early once the
// maximum positional displacement in a step falls below threshold. It
// returns the number of steps executed; exhausting the budget without
// converging is a normal outcome. The context is checked between steps so
// long-running layouts can be aborted cooperatively.
func (e *Engine) Simulate(ctx context.Context, maxSteps int, threshold float64) (int, error) {
	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return step - 1, err
		}
		maxDisp := e.Step()
		if e.StepFunc != nil && !e.StepFunc(step, maxDisp) {
			return step, nil
		}
		if maxDisp < threshold {
			return step, nil
		}
	}
	return maxSteps, nil
}

// Step advances the simulation by one step and returns the maximum
// positional displacement across all nodes.
func (e *Engine) Step() float64 {
	prev := make([]board.Point, len(e.nodes))
	for i := range e.nodes {
		prev[i] = board.Point{X: e.nodes[i].X, Y: e.nodes[i].Y}
		e.forces[i] = board.Point{}
	}

	e.applyRepulsion()
	e.applySprings()
	e.integrate()
	e.ResolveCollisions()

	var maxDisp float64
	for i := range e.nodes {
		d := math.Hypot(e.nodes[i].X-prev[i].X, e.nodes[i].Y-prev[i].Y)
		if d > maxDisp {
			maxDisp = d
		}
	}
	return maxDisp
}

// applyRepulsion accumulates the inverse-square repulsion between every
// unordered pair of node centers.
func (e *Engine) applyRepulsion() {
	for i := 0; i < len(e.nodes); i++ {
		ci := e.nodes[i].Center()
		for j := i + 1; j < len(e.nodes); j++ {
			cj := e.nodes[j].Center()
			dx, dy := ci.X-cj.X, ci.Y-cj.Y
			dist := math.Hypot(dx, dy)

			var ux, uy float64
			if dist < e.cfg.Epsilon {
				// Coincident centers: break the tie along a random
				// direction from the seeded generator.
				ux, uy = e.randomUnit()
				dist = e.cfg.Epsilon
			} else {
				ux, uy = dx/dist, dy/dist
			}

			f := e.cfg.Repulsion / (dist * dist)
			e.forces[i].X += ux * f
			e.forces[i].Y += uy * f
			e.forces[j].X -= ux * f
			e.forces[j].Y -= uy * f
		}
	}
}

// applySprings accumulates the linear spring force for every connection,
// pulling or pushing the endpoints toward the ideal length.
func (e *Engine) applySprings() {
	for _, c := range e.conns {
		a := e.nodes[c.from].Center()
		b := e.nodes[c.to].Center()
		dx, dy := b.X-a.X, b.Y-a.Y
		dist := math.Hypot(dx, dy)
		if dist < e.cfg.Epsilon {
			continue
		}
		f := e.cfg.Attraction * (dist - c.ideal) * c.strength * c.stiffness
		ux, uy := dx/dist, dy/dist
		e.forces[c.from].X += ux * f
		e.forces[c.from].Y += uy * f
		e.forces[c.to].X -= ux * f
		e.forces[c.to].Y -= uy * f
	}
}

// integrate folds accumulated forces into velocities, damps, moves, and
// clamps every non-fixed node into the canvas.
func (e *Engine) integrate() {
	for i := range e.nodes {
		n := &e.nodes[i]
		if n.Fixed {
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX = (n.VX + e.forces[i].X/n.Mass) * e.cfg.Damping
		n.VY = (n.VY + e.forces[i].Y/n.Mass) * e.cfg.Damping
		n.X += n.VX
		n.Y += n.VY
		e.clamp(i)
	}
}

// clamp forces node i inside the canvas. Oversized nodes pin to the
// top-left edge.
func (e *Engine) clamp(i int) {
	n := &e.nodes[i]
	n.X = math.Min(math.Max(n.X, 0), math.Max(e.cfg.CanvasWidth-n.Width, 0))
	n.Y = math.Min(math.Max(n.Y, 0), math.Max(e.cfg.CanvasHeight-n.Height, 0))
}

// randomUnit returns a unit vector in a pseudo-random direction.
func (e *Engine) randomUnit() (float64, float64) {
	angle := e.rng.Float64() * 2 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}
