package config

import (
	"sort"

	"github.com/san-kum/rigidsim/internal/engine"
)

// Presets are named physics tunings selectable with --preset.
var Presets = map[string]PhysicsConfig{
	"default": FromEngine(engine.DefaultConfig()),
	"bouncy": {
		LinearDamping: 0.995, AngularDamping: 0.98, Restitution: 0.95,
		GrabStiffness: 2000, GrabDamping: 60, HeldAngularDamping: 0.9,
		InertiaFactor: 500, MaxSubSteps: 8, PositionCorrection: true,
	},
	"sticky": {
		LinearDamping: 0.9, AngularDamping: 0.85, Restitution: 0.1,
		GrabStiffness: 3000, GrabDamping: 200, HeldAngularDamping: 0.7,
		InertiaFactor: 500, MaxSubSteps: 5, PositionCorrection: true,
	},
	"rigid": {
		LinearDamping: 1, AngularDamping: 1, Restitution: 1,
		GrabStiffness: 2000, GrabDamping: 100, HeldAngularDamping: 1,
		InertiaFactor: 500, MaxSubSteps: 10, PositionCorrection: true,
	},
}

func GetPreset(name string) *PhysicsConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
