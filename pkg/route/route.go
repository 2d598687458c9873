// Package route computes connection polylines from final node positions.
//
// Each signal class gets its own geometry: power and ground rails run as
// direct star-topology segments, digital nets take Manhattan (L-shaped)
// paths, and analog traces bow away from the straight line so crossing
// traces stay visually distinct. Connections with auto-routing disabled
// pass their manual points through untouched.
//
// Terminal positions account for node rotation: a post offset is rotated
// around the node origin by the node's rotation before being translated.
package route

import (
	"math"

	"github.com/pcbflow/pcbflow/pkg/board"
)

const (
	// DefaultAnalogThreshold is the terminal distance below which an
	// analog trace routes as a direct segment.
	DefaultAnalogThreshold = 50.0

	// analogMaxOffset caps the perpendicular bow of a long analog trace.
	analogMaxOffset = 20.0
)

// Config tunes the router. The zero value routes with defaults.
type Config struct {
	// AnalogThreshold overrides DefaultAnalogThreshold when positive.
	AnalogThreshold float64 `toml:"analog_threshold"`
}

// Router resolves connections against a fixed snapshot of node states.
// Build one per layout result; a Router is read-only after construction
// and safe for concurrent use.
type Router struct {
	cfg   Config
	nodes map[string]board.Node

	skipped int
}

// NewRouter indexes the given nodes. Later mutations of the input slice
// do not affect the router.
func NewRouter(nodes []board.Node, cfg Config) *Router {
	if cfg.AnalogThreshold <= 0 {
		cfg.AnalogThreshold = DefaultAnalogThreshold
	}
	idx := make(map[string]board.Node, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return &Router{cfg: cfg, nodes: idx}
}

// Skipped returns the number of connections dropped by Route for
// referencing unknown nodes.
func (r *Router) Skipped() int { return r.skipped }

// Route computes the polyline for one connection. The boolean is false
// when either endpoint references an unknown node; such connections are
// counted and otherwise ignored.
func (r *Router) Route(c board.Connection) ([]board.Point, bool) {
	fromNode, okFrom := r.nodes[c.From]
	toNode, okTo := r.nodes[c.To]
	if !okFrom || !okTo {
		r.skipped++
		return nil, false
	}

	if !c.AutoRoute {
		return c.ManualRoute, true
	}

	start := fromNode.Post(c.FromPost)
	end := toNode.Post(c.ToPost)

	switch c.Signal {
	case board.SignalPower, board.SignalGround:
		// Rails prefer star topology: no intermediate routing.
		return []board.Point{start, end}, true
	case board.SignalAnalog:
		return analogPath(start, end, r.cfg.AnalogThreshold), true
	default:
		// Digital and everything unclassified routes Manhattan.
		return manhattanPath(start, end), true
	}
}

// manhattanPath returns an L-shaped path routing the longer axis first.
// Vertically aligned terminals collapse to a single segment.
func manhattanPath(start, end board.Point) []board.Point {
	dx := end.X - start.X
	if dx == 0 {
		return []board.Point{start, end}
	}
	var corner board.Point
	if math.Abs(dx) > math.Abs(end.Y-start.Y) {
		corner = board.Point{X: end.X, Y: start.Y}
	} else {
		corner = board.Point{X: start.X, Y: end.Y}
	}
	return []board.Point{start, corner, end}
}

// analogPath routes short traces directly and bows longer ones: the
// midpoint is displaced perpendicular to the dominant axis by
// min(analogMaxOffset, distance/4).
func analogPath(start, end board.Point, threshold float64) []board.Point {
	dist := start.DistanceTo(end)
	if dist < threshold {
		return []board.Point{start, end}
	}

	mid := board.Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	offset := math.Min(analogMaxOffset, dist/4)
	if math.Abs(end.X-start.X) >= math.Abs(end.Y-start.Y) {
		mid.Y += offset
	} else {
		mid.X += offset
	}
	return []board.Point{start, mid, end}
}
