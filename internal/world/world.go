// Package world holds the ordered body collection stepped by the engine
// and the table of active grab constraints.
package world

import (
	"sort"
	"sync/atomic"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/grab"
)

// World owns neither the stepping policy nor the bodies' lifetime; callers
// build it once and the engine mutates body state in place.
type World struct {
	bodies   []*body.Body
	grabs    map[body.Handle]grab.Constraint
	stepping atomic.Bool
}

func New(bodies ...*body.Body) *World {
	w := &World{grabs: make(map[body.Handle]grab.Constraint)}
	for _, b := range bodies {
		w.Add(b)
	}
	return w
}

// Add appends b and returns its handle. Handles stay valid for the life of
// the world.
func (w *World) Add(b *body.Body) body.Handle {
	w.bodies = append(w.bodies, b)
	return body.Handle(len(w.bodies) - 1)
}

// BeginStep marks the world as being stepped. It reports false when a step
// is already in progress, whichever engine runs it.
func (w *World) BeginStep() bool { return w.stepping.CompareAndSwap(false, true) }

func (w *World) EndStep() { w.stepping.Store(false) }

func (w *World) Len() int { return len(w.bodies) }

// Bodies returns the bodies in handle order. The slice must not be modified.
func (w *World) Bodies() []*body.Body { return w.bodies }

// Body returns the body for h, or nil when h is out of range.
func (w *World) Body(h body.Handle) *body.Body {
	if h < 0 || int(h) >= len(w.bodies) {
		return nil
	}
	return w.bodies[h]
}

func (w *World) Find(name string) (body.Handle, bool) {
	for i, b := range w.bodies {
		if b.Name == name {
			return body.Handle(i), true
		}
	}
	return body.NoHandle, false
}

func (w *World) HandleOf(b *body.Body) body.Handle {
	for i, x := range w.bodies {
		if x == b {
			return body.Handle(i)
		}
	}
	return body.NoHandle
}

func (w *World) SetConstraint(c grab.Constraint) {
	w.grabs[c.Holder] = c
}

func (w *World) Constraint(holder body.Handle) (grab.Constraint, bool) {
	c, ok := w.grabs[holder]
	return c, ok
}

func (w *World) RemoveConstraint(holder body.Handle) bool {
	if _, ok := w.grabs[holder]; !ok {
		return false
	}
	delete(w.grabs, holder)
	return true
}

// Constraints returns the active constraints ordered by holder handle.
func (w *World) Constraints() []grab.Constraint {
	out := make([]grab.Constraint, 0, len(w.grabs))
	for _, c := range w.grabs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Holder < out[j].Holder })
	return out
}

// HeldMass is the mass of the body holder is holding, zero when it holds
// nothing or an immovable body.
func (w *World) HeldMass(holder body.Handle) float64 {
	c, ok := w.grabs[holder]
	if !ok {
		return 0
	}
	t := w.Body(c.Target)
	if t == nil || t.Immovable() {
		return 0
	}
	return t.Mass
}
