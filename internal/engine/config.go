package engine

import (
	"errors"
	"fmt"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/grab"
	"github.com/san-kum/rigidsim/internal/resolve"
)

var ErrInvalidConfig = errors.New("engine: invalid config")

// Config tunes the frame integrator. Damping factors are applied once per
// frame and are independent of the frame length.
type Config struct {
	LinearDamping      float64
	AngularDamping     float64
	Restitution        float64
	GrabStiffness      float64
	GrabDamping        float64
	HeldAngularDamping float64
	InertiaFactor      float64
	MaxSubSteps        int
	PositionCorrection bool
}

func DefaultConfig() Config {
	return Config{
		LinearDamping:      0.98,
		AngularDamping:     0.95,
		Restitution:        resolve.DefaultRestitution,
		GrabStiffness:      grab.DefaultStiffness,
		GrabDamping:        grab.DefaultDamping,
		HeldAngularDamping: 0.82,
		InertiaFactor:      body.DefaultInertiaFactor,
		MaxSubSteps:        5,
		PositionCorrection: true,
	}
}

func (c Config) Validate() error {
	unit := func(name string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, name, v)
		}
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"linear_damping", c.LinearDamping},
		{"angular_damping", c.AngularDamping},
		{"restitution", c.Restitution},
		{"held_angular_damping", c.HeldAngularDamping},
	} {
		if err := unit(f.name, f.v); err != nil {
			return err
		}
	}
	if c.GrabStiffness < 0 || c.GrabDamping < 0 {
		return fmt.Errorf("%w: grab stiffness and damping must be non-negative", ErrInvalidConfig)
	}
	if c.InertiaFactor <= 0 {
		return fmt.Errorf("%w: inertia_factor must be positive, got %f", ErrInvalidConfig, c.InertiaFactor)
	}
	if c.MaxSubSteps < 1 {
		return fmt.Errorf("%w: max_substeps must be at least 1, got %d", ErrInvalidConfig, c.MaxSubSteps)
	}
	return nil
}
