package metrics

import (
	"github.com/san-kum/rigidsim/internal/world"
)

func totalKinetic(w *world.World) float64 {
	sum := 0.0
	for _, b := range w.Bodies() {
		sum += b.KineticEnergy()
	}
	return sum
}

// KineticEnergy is the mean total kinetic energy over all observations.
type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(w *world.World, t float64) {
	e.totalEnergy += totalKinetic(w)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyGrowth reports the largest kinetic energy seen relative to the
// first observation. Without external input it stays at or below 1.
type EnergyGrowth struct {
	name    string
	initial float64
	max     float64
	samples int
}

func NewEnergyGrowth() *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth"}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(w *world.World, t float64) {
	ke := totalKinetic(w)
	if e.samples == 0 {
		e.initial = ke
	}
	if ke > e.max {
		e.max = ke
	}
	e.samples++
}

func (e *EnergyGrowth) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	if e.initial < 1e-12 {
		// started at rest: fall back to the absolute peak
		if e.max < 1e-12 {
			return 1
		}
		return e.max
	}
	return e.max / e.initial
}

func (e *EnergyGrowth) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}
