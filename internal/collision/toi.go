package collision

import (
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/geom"
)

// TimeOfImpact sweeps both polygons along their linear velocities and
// returns the first time in [0, limit] at which they touch. Angular
// velocity is ignored. A zero result means the bodies already overlap.
func TimeOfImpact(a, b *body.Body, limit float64) (float64, bool) {
	const eps = geom.Epsilon

	v := a.Velocity.Sub(b.Velocity)
	tEnter := 0.0
	tLeave := limit

	for _, axis := range axes(a, b) {
		aMin, aMax := a.Project(axis)
		bMin, bMax := b.Project(axis)
		speed := v.Dot(axis)

		gapAhead := bMin - aMax
		gapBehind := aMin - bMax

		if gapAhead > -eps && speed < eps {
			return 0, false
		}
		if gapBehind > -eps && speed > -eps {
			return 0, false
		}

		if gapAhead < -eps && gapBehind < -eps {
			if abs(speed) < eps {
				continue
			}
			centreA := (aMin + aMax) / 2
			centreB := (bMin + bMax) / 2
			if speed*(centreA-centreB) > 0 {
				continue
			}
		}

		enter := gapAhead / speed
		leave := (bMax - aMin) / speed
		if enter > leave {
			enter, leave = leave, enter
		}
		if enter > tEnter {
			tEnter = enter
		}
		if leave < tLeave {
			tLeave = leave
		}
		if tEnter > tLeave || tEnter > limit {
			return 0, false
		}
	}
	return tEnter, true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
