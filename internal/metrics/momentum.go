package metrics

import (
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/world"
)

// Momentum is the magnitude of the total linear momentum of all finite
// mass bodies at the last observation.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{
		name: "momentum",
	}
}

func (m *Momentum) Name() string {
	return m.name
}

func (m *Momentum) Observe(w *world.World, t float64) {
	p := geom.Zero
	for _, b := range w.Bodies() {
		p = p.Add(b.Momentum())
	}
	m.value = p.Len()
}

func (m *Momentum) Value() float64 {
	return m.value
}

func (m *Momentum) Reset() {
	m.value = 0
}

// Default returns the metrics a headless run records.
func Default() []sim.Metric {
	return []sim.Metric{NewKineticEnergy(), NewEnergyGrowth(), NewPenetration(), NewMomentum()}
}
