package collision

import (
	"math"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/geom"
)

// Result describes a discrete overlap test. MTV is the translation that
// pushes the first body out of the second and is only set when Colliding.
type Result struct {
	Colliding bool
	MTV       geom.Vec2
}

func (r Result) Depth() float64 { return r.MTV.Len() }

func axes(a, b *body.Body) []geom.Vec2 {
	return append(a.Axes(), b.Axes()...)
}

// CheckCollision runs the separating axis test on the current transforms.
// Touching polygons do not collide.
func CheckCollision(a, b *body.Body) Result {
	minOverlap := math.Inf(1)
	var best geom.Vec2
	sign := 1.0

	for _, axis := range axes(a, b) {
		aMin, aMax := a.Project(axis)
		bMin, bMax := b.Project(axis)

		// push A towards -axis or +axis, whichever is shorter
		down := aMax - bMin
		up := bMax - aMin
		if down <= 0 || up <= 0 {
			return Result{}
		}

		overlap, s := up, 1.0
		if down < up {
			overlap, s = down, -1.0
		}
		if overlap < minOverlap {
			minOverlap = overlap
			best = axis
			sign = s
		}
	}

	mtv := best.Scale(minOverlap)
	d := a.Position.Sub(b.Position).Dot(mtv)
	switch {
	case d < -geom.Epsilon:
		mtv = mtv.Neg()
	case d <= geom.Epsilon:
		mtv = mtv.Scale(sign)
	}
	return Result{Colliding: true, MTV: mtv}
}

// ContactNormal returns the unit axis of least penetration (or largest
// separation) oriented from a towards b.
func ContactNormal(a, b *body.Body) geom.Vec2 {
	bestSep := math.Inf(-1)
	var normal geom.Vec2

	for _, axis := range axes(a, b) {
		aMin, aMax := a.Project(axis)
		bMin, bMax := b.Project(axis)

		ahead := bMin - aMax
		behind := aMin - bMax
		sep, n := ahead, axis
		if behind > ahead {
			sep, n = behind, axis.Neg()
		}
		if sep > bestSep {
			bestSep = sep
			normal = n
		}
	}
	return normal
}
