package pipeline

import (
	"github.com/BurntSushi/toml"

	apperrors "github.com/pcbflow/pcbflow/pkg/errors"
	"github.com/pcbflow/pcbflow/pkg/physics"
	"github.com/pcbflow/pcbflow/pkg/route"
)

// Profile carries the tuning constants of a layout computation. Profiles
// are typically written as TOML files and shared across a team so every
// board in a project lays out with the same physics:
//
//	[physics]
//	repulsion = 800.0
//	attraction = 0.03
//	damping = 0.6
//
//	[route]
//	analog_threshold = 40.0
//
// Canvas dimensions and the seed come from Options, not the profile; a
// profile describes how a board behaves, not which board it is.
type Profile struct {
	Physics physics.Config `json:"physics,omitempty" toml:"physics"`
	Route   route.Config   `json:"route,omitempty" toml:"route"`
}

// LoadProfile decodes a TOML profile from path. Unknown keys are
// rejected so typos surface instead of silently using defaults.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, apperrors.Wrap(apperrors.ErrCodeInvalidProfile, err, "decode profile %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Profile{}, apperrors.New(apperrors.ErrCodeInvalidProfile,
			"profile %s: unknown key %q", path, undecoded[0].String())
	}
	return p, nil
}

// physicsConfig merges the profile's tuning with the per-run canvas and
// seed from opts.
func (p Profile) physicsConfig(opts *Options) physics.Config {
	cfg := p.Physics
	cfg.CanvasWidth = opts.Width
	cfg.CanvasHeight = opts.Height
	cfg.Seed = opts.Seed
	return cfg
}
