package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rigidsim/internal/sim"
)

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		hz   float64
		n    int
		dt   float64
	}{
		{"2hz", 2, 200, 0.01},
		{"5hz odd length", 5, 300, 0.01},
		{"0.5hz", 0.5, 240, 1.0 / 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.hz*float64(i)*tt.dt)
			}
			got := DominantFrequency(data, tt.dt)
			if math.Abs(got-tt.hz) > 1e-9 {
				t.Errorf("expected %f Hz, got %f", tt.hz, got)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	data := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	if got := DominantFrequency(data, 0.1); got != 0 {
		t.Errorf("expected 0 for a constant signal, got %f", got)
	}
	if got := DominantFrequency([]float64{1}, 0.1); got != 0 {
		t.Errorf("expected 0 for a single sample, got %f", got)
	}
	if got := DominantFrequency([]float64{1, 2, 1, 2}, 0); got != 0 {
		t.Errorf("expected 0 for zero dt, got %f", got)
	}
}

func TestSeries(t *testing.T) {
	samples := []sim.Sample{
		{Time: 0, Body: "a", X: 1, VX: 3, VY: 4},
		{Time: 0, Body: "b", X: 9},
		{Time: 0.5, Body: "a", X: 2, VX: 0, VY: 1},
	}

	times, xs, err := Series(samples, "a", "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 2 || xs[0] != 1 || xs[1] != 2 {
		t.Errorf("unexpected x series %v", xs)
	}
	if SampleInterval(times) != 0.5 {
		t.Errorf("expected interval 0.5, got %f", SampleInterval(times))
	}

	_, speeds, err := Series(samples, "a", "speed")
	if err != nil {
		t.Fatal(err)
	}
	if speeds[0] != 5 || speeds[1] != 1 {
		t.Errorf("unexpected speeds %v", speeds)
	}

	if _, _, err := Series(samples, "a", "mass"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}
