package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rigidsim/internal/sim"
)

var ErrUnknownField = errors.New("analysis: unknown field")

// Fields lists the names accepted by Series.
var Fields = []string{"x", "y", "angle", "vx", "vy", "speed"}

// Series extracts one field of one body from recorded samples, in
// recording order.
func Series(samples []sim.Sample, body, field string) (times, values []float64, err error) {
	get, err := accessor(field)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range samples {
		if s.Body != body {
			continue
		}
		times = append(times, s.Time)
		values = append(values, get(s))
	}
	return times, values, nil
}

// SampleInterval is the spacing of a uniformly recorded time series.
func SampleInterval(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}

func accessor(field string) (func(sim.Sample) float64, error) {
	switch field {
	case "x":
		return func(s sim.Sample) float64 { return s.X }, nil
	case "y":
		return func(s sim.Sample) float64 { return s.Y }, nil
	case "angle":
		return func(s sim.Sample) float64 { return s.Angle }, nil
	case "vx":
		return func(s sim.Sample) float64 { return s.VX }, nil
	case "vy":
		return func(s sim.Sample) float64 { return s.VY }, nil
	case "speed":
		return func(s sim.Sample) float64 { return math.Hypot(s.VX, s.VY) }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}
