package physics

import (
	"github.com/pcbflow/pcbflow/pkg/board"
)

// Default tuning constants. They are deliberately conservative: two nodes
// joined by a unit-strength spring settle within ~2 units of the ideal
// length before 200 steps on an otherwise empty canvas.
const (
	DefaultRepulsion        = 500.0
	DefaultAttraction       = 0.05
	DefaultDamping          = 0.6
	DefaultCollisionDamping = 0.6
	DefaultEpsilon          = 0.01
	DefaultSeed             = uint64(42)
)

// Config tunes an [Engine]. The zero value is not usable - canvas
// dimensions must be positive. Use [DefaultConfig] and override fields.
type Config struct {
	// CanvasWidth and CanvasHeight bound all node rectangles. Both must
	// be positive; New rejects anything else.
	CanvasWidth  float64 `toml:"canvas_width"`
	CanvasHeight float64 `toml:"canvas_height"`

	// Repulsion is the inverse-square repulsion constant between node
	// centers.
	Repulsion float64 `toml:"repulsion"`

	// Attraction is the linear spring constant applied per connection.
	Attraction float64 `toml:"attraction"`

	// Damping is multiplied into every node's velocity each step. Must be
	// below 1 or the simulation oscillates indefinitely.
	Damping float64 `toml:"damping"`

	// CollisionDamping scales the positional correction applied when two
	// bounding boxes overlap.
	CollisionDamping float64 `toml:"collision_damping"`

	// Epsilon floors center distances to avoid division blow-ups.
	Epsilon float64 `toml:"epsilon"`

	// Seed initializes the engine's random generator, used only to break
	// zero-distance degeneracies.
	Seed uint64 `toml:"seed"`
}

// DefaultConfig returns a Config with default tuning for the given canvas.
func DefaultConfig(width, height float64) Config {
	return Config{
		CanvasWidth:      width,
		CanvasHeight:     height,
		Repulsion:        DefaultRepulsion,
		Attraction:       DefaultAttraction,
		Damping:          DefaultDamping,
		CollisionDamping: DefaultCollisionDamping,
		Epsilon:          DefaultEpsilon,
		Seed:             DefaultSeed,
	}
}

// withDefaults fills zeroed tuning fields so a partially specified config
// (say, decoded from a TOML profile) behaves sensibly.
func (c Config) withDefaults() Config {
	if c.Repulsion == 0 {
		c.Repulsion = DefaultRepulsion
	}
	if c.Attraction == 0 {
		c.Attraction = DefaultAttraction
	}
	if c.Damping == 0 {
		c.Damping = DefaultDamping
	}
	if c.CollisionDamping == 0 {
		c.CollisionDamping = DefaultCollisionDamping
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}

// signalStiffness maps a connection's signal class to a spring stiffness
// multiplier. Hierarchy edges pull hard to keep parent and child close;
// supply rails stay loose because they route as stars, not daisy chains.
var signalStiffness = map[string]float64{
	board.SignalDigital:   1.0,
	board.SignalAnalog:    1.0,
	board.SignalPower:     0.5,
	board.SignalGround:    0.5,
	board.SignalHierarchy: 1.5,
	board.SignalMismatch:  0.25,
}

func stiffnessFor(signal string) float64 {
	if s, ok := signalStiffness[signal]; ok {
		return s
	}
	return 1.0
}
