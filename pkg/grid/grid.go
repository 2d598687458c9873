// Package grid quantizes coordinates onto a regular grid. Snapping is
// applied after layout, and only to nodes that opted in via
// board.Node.GridAligned.
package grid

import (
	"math"

	"github.com/pcbflow/pcbflow/pkg/board"
)

// DefaultSize is the default grid pitch in canvas units.
const DefaultSize = 10.0

// Snap rounds v to the nearest multiple of size, half away from zero.
// A non-positive size disables snapping and returns v unchanged.
// Snapping is idempotent: Snap(Snap(v, s), s) == Snap(v, s).
func Snap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	return math.Round(v/size) * size
}

// SnapPoint snaps each coordinate independently.
func SnapPoint(p board.Point, size float64) board.Point {
	return board.Point{X: Snap(p.X, size), Y: Snap(p.Y, size)}
}

// SnapNode snaps a node's position in place when it is grid-aligned.
// It reports whether the node moved.
func SnapNode(n *board.Node, size float64) bool {
	if !n.GridAligned {
		return false
	}
	x, y := Snap(n.X, size), Snap(n.Y, size)
	moved := x != n.X || y != n.Y
	n.X, n.Y = x, y
	return moved
}
