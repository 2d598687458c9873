package physics

import (
	"math"
)

// separationSlop is a small extra push applied when separating overlapping
// pairs. Without it the damped correction decays geometrically and two
// boxes stay infinitesimally overlapped forever; the slop guarantees
// strict separation in finitely many passes.
const separationSlop = 0.01

// ResolveCollisions separates every pair of overlapping bounding boxes
// along their center-to-center axis. Each node moves by the *other*
// node's mass share, so heavier nodes move less; fixed nodes never move
// and push the full correction onto their partner. The correction is
// scaled by the configured collision damping to avoid oscillation.
//
// Simulate calls this once per step; callers running a strategy without
// force simulation can invoke it directly to de-overlap a placement.
func (e *Engine) ResolveCollisions() {
	for i := 0; i < len(e.nodes); i++ {
		for j := i + 1; j < len(e.nodes); j++ {
			a, b := &e.nodes[i], &e.nodes[j]
			if a.Fixed && b.Fixed {
				continue
			}
			if !a.Overlaps(b) {
				continue
			}

			overlapX := math.Min(a.X+a.Width, b.X+b.Width) - math.Max(a.X, b.X)
			overlapY := math.Min(a.Y+a.Height, b.Y+b.Height) - math.Max(a.Y, b.Y)
			overlap := math.Min(overlapX, overlapY)

			ca, cb := a.Center(), b.Center()
			dx, dy := cb.X-ca.X, cb.Y-ca.Y
			dist := math.Hypot(dx, dy)

			var ux, uy float64
			if dist < e.cfg.Epsilon {
				ux, uy = e.randomUnit()
			} else {
				ux, uy = dx/dist, dy/dist
			}

			move := overlap*e.cfg.CollisionDamping + separationSlop

			// Mass shares: each node moves proportionally to the other's
			// mass. A fixed partner contributes its whole share.
			shareA := b.Mass / (a.Mass + b.Mass)
			shareB := a.Mass / (a.Mass + b.Mass)
			switch {
			case a.Fixed:
				shareA, shareB = 0, 1
			case b.Fixed:
				shareA, shareB = 1, 0
			}

			a.X -= ux * move * shareA
			a.Y -= uy * move * shareA
			b.X += ux * move * shareB
			b.Y += uy * move * shareB

			e.clamp(i)
			e.clamp(j)
		}
	}
}
