package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used by the collision and resolution code to
// absorb floating-point noise.
const Epsilon = 1e-6

type Vec2 mgl64.Vec2

var Zero = Vec2{}

func V(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) X() float64 { return v[0] }
func (v Vec2) Y() float64 { return v[1] }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2(mgl64.Vec2(v).Add(mgl64.Vec2(o))) }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2(mgl64.Vec2(v).Sub(mgl64.Vec2(o))) }
func (v Vec2) Scale(k float64) Vec2 { return Vec2(mgl64.Vec2(v).Mul(k)) }
func (v Vec2) Neg() Vec2 { return Vec2{-v[0], -v[1]} }

func (v Vec2) Dot(o Vec2) float64 { return mgl64.Vec2(v).Dot(mgl64.Vec2(o)) }

// Cross returns the z component of the 3D cross product (v.x*o.y - v.y*o.x).
func (v Vec2) Cross(o Vec2) float64 { return v[0]*o[1] - v[1]*o[0] }

func (v Vec2) Len() float64   { return mgl64.Vec2(v).Len() }
func (v Vec2) LenSq() float64 { return mgl64.Vec2(v).LenSqr() }

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Zero
	}
	return Vec2{v[0] / l, v[1] / l}
}

// Perp returns v rotated by +90 degrees.
func (v Vec2) Perp() Vec2 { return Vec2{-v[1], v[0]} }

func (v Vec2) Rotate(angle float64) Vec2 {
	if angle == 0 {
		return v
	}
	return Vec2(mgl64.Rotate2D(angle).Mul2x1(mgl64.Vec2(v)))
}

func (v Vec2) IsZero() bool { return v[0] == 0 && v[1] == 0 }

func (v Vec2) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every component of v is within tol of o.
func (v Vec2) ApproxEqual(o Vec2, tol float64) bool {
	return math.Abs(v[0]-o[0]) <= tol && math.Abs(v[1]-o[1]) <= tol
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v[0], v[1])
}
