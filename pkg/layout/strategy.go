package layout

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned by [ParseStrategy] for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// Strategy selects a placement algorithm. The set is closed: callers
// switch over it, and invalid values surface at parse time.
type Strategy int

const (
	// ForceDirected runs the physics simulation to a stable configuration.
	ForceDirected Strategy = iota
	// Hierarchical levels the graph top-down from its roots.
	Hierarchical
	// Circular spaces nodes evenly around a canvas-centered circle.
	Circular
)

// String returns the canonical name accepted by [ParseStrategy].
func (s Strategy) String() string {
	switch s {
	case ForceDirected:
		return "force"
	case Hierarchical:
		return "hierarchical"
	case Circular:
		return "circular"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps a user-supplied name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "force", "force-directed":
		return ForceDirected, nil
	case "hierarchical":
		return Hierarchical, nil
	case "circular":
		return Circular, nil
	default:
		return ForceDirected, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
