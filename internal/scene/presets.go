package scene

import (
	"fmt"
	"math"
	"sort"
)

var presets = map[string]func() *Spec{
	"arena":     arena,
	"billiards": billiards,
	"bullet":    bullet,
	"pile":      pile,
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Spec {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func arena() *Spec {
	return &Spec{
		Name: "arena", Width: 1280, Height: 720, Border: 40,
		Player: &PlayerSpec{X: 640, Y: 360},
		Crates: []CrateSpec{
			{X: 200, Y: 200, Side: 40},
			{X: 1000, Y: 500, Side: 40},
			{X: 400, Y: 600, Side: 40},
		},
	}
}

func billiards() *Spec {
	s := &Spec{Name: "billiards", Width: 800, Height: 400, Border: 20}
	const r = 12.0
	n := 0
	for row := 0; row < 3; row++ {
		for k := 0; k <= row; k++ {
			n++
			s.Bodies = append(s.Bodies, BodySpec{
				Name: fmt.Sprintf("ball-%d", n), Kind: "dynamic", Shape: "polygon",
				Sides: 12, Radius: r, Mass: 1,
				X: 560 + float64(row)*2*r*math.Sqrt(3)/2*1.05,
				Y: 200 + (float64(k)-float64(row)/2)*2*r*1.05,
			})
		}
	}
	s.Bodies = append(s.Bodies, BodySpec{
		Name: "cue", Kind: "dynamic", Shape: "polygon",
		Sides: 12, Radius: r, Mass: 1.2, X: 200, Y: 200, VX: 600,
	})
	return s
}

func bullet() *Spec {
	return &Spec{
		Name: "bullet", Width: 600, Height: 200,
		Bodies: []BodySpec{
			{Name: "bullet", Kind: "dynamic", Shape: "box", W: 4, H: 4, Mass: 0.1, X: 20, Y: 100, VX: 12000},
			{Name: "plate", Kind: "static", Shape: "box", W: 2, H: 200, X: 400, Y: 100},
		},
	}
}

func pile() *Spec {
	s := &Spec{
		Name: "pile", Width: 400, Height: 400, Border: 20,
		Player: &PlayerSpec{X: 200, Y: 340},
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			s.Crates = append(s.Crates, CrateSpec{
				X: 168 + float64(col)*32, Y: 120 + float64(row)*32, Side: 30,
			})
		}
	}
	return s
}
