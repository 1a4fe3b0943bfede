package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/geom"
)

// SweptBounds covers the body's bounding box over dt of linear motion.
func SweptBounds(b *body.Body, dt float64) cp.BB {
	bb := b.Bounds()
	d := b.Velocity.Scale(dt)
	moved := cp.BB{L: bb.L + d.X(), B: bb.B + d.Y(), R: bb.R + d.X(), T: bb.T + d.Y()}
	bb = bb.Merge(moved)
	return cp.BB{L: bb.L - geom.Epsilon, B: bb.B - geom.Epsilon, R: bb.R + geom.Epsilon, T: bb.T + geom.Epsilon}
}

// MayCollide is a conservative broadphase test on swept bounds.
func MayCollide(a, b *body.Body, dt float64) bool {
	return SweptBounds(a, dt).Intersects(SweptBounds(b, dt))
}
