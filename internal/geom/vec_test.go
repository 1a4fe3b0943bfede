package geom

import (
	"math"
	"testing"
)

func TestVecArithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	tests := []struct {
		name     string
		got      Vec2
		expected Vec2
	}{
		{"add", a.Add(b), V(4, 2)},
		{"sub", a.Sub(b), V(2, 6)},
		{"scale", a.Scale(2), V(6, 8)},
		{"neg", a.Neg(), V(-3, -4)},
		{"perp", V(1, 0).Perp(), V(0, 1)},
		{"normalize", a.Normalize(), V(0.6, 0.8)},
		{"normalize zero", Zero.Normalize(), Zero},
		{"rotate quarter", V(1, 0).Rotate(math.Pi / 2), V(0, 1)},
		{"rotate zero", a.Rotate(0), a},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVecScalars(t *testing.T) {
	a := V(3, 4)
	if a.Len() != 5 {
		t.Errorf("expected len 5, got %f", a.Len())
	}
	if a.LenSq() != 25 {
		t.Errorf("expected len sq 25, got %f", a.LenSq())
	}
	if d := a.Dot(V(1, -2)); d != -5 {
		t.Errorf("expected dot -5, got %f", d)
	}
	if c := V(1, 0).Cross(V(0, 1)); c != 1 {
		t.Errorf("expected cross 1, got %f", c)
	}
}

func TestVecValidity(t *testing.T) {
	if !V(1, 2).IsValid() {
		t.Error("finite vector should be valid")
	}
	if V(math.NaN(), 0).IsValid() {
		t.Error("NaN vector should be invalid")
	}
	if V(0, math.Inf(1)).IsValid() {
		t.Error("Inf vector should be invalid")
	}
	if !Zero.IsZero() {
		t.Error("zero vector should report zero")
	}
}

func TestRotateRoundTrip(t *testing.T) {
	v := V(2.5, -7)
	for _, angle := range []float64{0.1, 1, math.Pi, -2.2} {
		got := v.Rotate(angle).Rotate(-angle)
		if !got.ApproxEqual(v, 1e-9) {
			t.Errorf("angle %.2f: expected %v, got %v", angle, v, got)
		}
	}
}
