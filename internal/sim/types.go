package sim

import (
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/world"
)

type Metric interface {
	Name() string
	Observe(w *world.World, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, t float64, w *world.World, stats engine.FrameStats)
}

type Config struct {
	Dt          float64
	Duration    float64
	RecordEvery int
}

// Sample is the recorded transform of one body at one instant.
type Sample struct {
	Time  float64
	Body  string
	X, Y  float64
	Angle float64
	VX    float64
	VY    float64
}

type Result struct {
	Frames          int
	Time            float64
	SubSteps        int
	Collisions      int
	SaturatedFrames int
	Grabs           int
	Metrics         map[string]float64
	Samples         []Sample
}
