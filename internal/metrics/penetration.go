package metrics

import (
	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/world"
)

// Penetration tracks the deepest overlap between physical bodies seen
// after any frame.
type Penetration struct {
	name  string
	depth float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string {
	return p.name
}

func (p *Penetration) Observe(w *world.World, t float64) {
	bodies := w.Bodies()
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		if !a.Physical() {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if !b.Physical() || (a.Immovable() && b.Immovable()) {
				continue
			}
			if r := collision.CheckCollision(a, b); r.Colliding && r.Depth() > p.depth {
				p.depth = r.Depth()
			}
		}
	}
}

func (p *Penetration) Value() float64 {
	return p.depth
}

func (p *Penetration) Reset() {
	p.depth = 0
}
