package resolve

import (
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/geom"
)

// DefaultRestitution is the fraction of normal relative speed kept after impact.
const DefaultRestitution = 0.6

type Resolver struct {
	Restitution float64
}

func New(restitution float64) *Resolver {
	return &Resolver{Restitution: restitution}
}

// ResolvePosition separates a and b by mtv, which pushes a out of b. The
// displacement is split by inverse mass; an immovable body takes no share.
func (r *Resolver) ResolvePosition(a, b *body.Body, mtv geom.Vec2) {
	aFixed, bFixed := a.Immovable(), b.Immovable()

	switch {
	case aFixed && bFixed:
		return
	case aFixed:
		b.Position = b.Position.Sub(mtv)
	case bFixed:
		a.Position = a.Position.Add(mtv)
	default:
		total := a.Mass + b.Mass
		shareA, shareB := 0.5, 0.5
		if total > 0 {
			shareA = b.Mass / total
			shareB = a.Mass / total
		}
		a.Position = a.Position.Add(mtv.Scale(shareA))
		b.Position = b.Position.Sub(mtv.Scale(shareB))
	}
}

// ResolveVelocity applies a restitution impulse along the contact normal
// when the bodies approach each other and reports whether it did.
func (r *Resolver) ResolveVelocity(a, b *body.Body) bool {
	aFixed, bFixed := a.Immovable(), b.Immovable()

	switch {
	case aFixed && bFixed:
		return false
	case bFixed:
		return r.reflect(a, collision.ContactNormal(a, b))
	case aFixed:
		return r.reflect(b, collision.ContactNormal(b, a))
	}

	delta := b.Position.Sub(a.Position)
	if delta.Len() < geom.Epsilon {
		return false
	}
	n := delta.Normalize()

	m1, m2 := a.Mass, b.Mass
	total := m1 + m2
	if total == 0 {
		return false
	}

	p1 := a.Velocity.Dot(n)
	p2 := b.Velocity.Dot(n)
	closing := p1 - p2
	if closing <= 0 {
		return false
	}

	momentum := m1*p1 + m2*p2
	np1 := (momentum - m2*r.Restitution*closing) / total
	np2 := (momentum + m1*r.Restitution*closing) / total

	a.Velocity = a.Velocity.Add(n.Scale(np1 - p1))
	b.Velocity = b.Velocity.Add(n.Scale(np2 - p2))
	return true
}

// reflect bounces b off an immovable surface with normal n pointing from b
// into the surface.
func (r *Resolver) reflect(b *body.Body, n geom.Vec2) bool {
	vn := b.Velocity.Dot(n)
	if vn <= 0 {
		return false
	}
	b.Velocity = b.Velocity.Sub(n.Scale((1 + r.Restitution) * vn))
	return true
}
