// Package engine advances a world by one frame: grab forces, velocity
// decay, then sub-stepped continuous collision handling.
package engine

import (
	"math"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/grab"
	"github.com/san-kum/rigidsim/internal/resolve"
	"github.com/san-kum/rigidsim/internal/world"
)

// FrameStats summarises one call to Advance.
type FrameStats struct {
	SubSteps   int
	Collisions int
	Consumed   float64
	Remaining  float64
	Saturated  bool
}

type Engine struct {
	cfg       Config
	resolver  *resolve.Resolver
	observers []Observer
	frame     int
}

func New(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		resolver:  resolve.New(cfg.Restitution),
		observers: make([]Observer, 0),
	}
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Frame() int     { return e.frame }

func (e *Engine) emit(ev Event) {
	for _, o := range e.observers {
		o.OnEvent(ev)
	}
}

type pair struct{ i, j int }

// Advance steps w forward by delta seconds. A non-positive or NaN delta is
// a no-op. Only one Advance may run on a world at a time, across all
// engines.
func (e *Engine) Advance(w *world.World, delta float64) FrameStats {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return FrameStats{}
	}
	if !w.BeginStep() {
		panic("engine: concurrent Advance on one world")
	}
	defer w.EndStep()

	e.frame++
	e.applyGrabs(w, delta)

	bodies := w.Bodies()
	for _, b := range bodies {
		b.DecayVelocity(e.cfg.LinearDamping, e.cfg.AngularDamping)
	}

	var stats FrameStats
	remaining := delta
	resolvedNow := make(map[pair]bool)

	for remaining > 0 && stats.SubSteps < e.cfg.MaxSubSteps {
		earliest := remaining
		hit := pair{-1, -1}

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
				if resolvedNow[pair{i, j}] || !collision.MayCollide(a, b, remaining) {
					continue
				}
				toi, ok := collision.TimeOfImpact(a, b, remaining)
				if ok && toi < earliest {
					earliest = toi
					hit = pair{i, j}
				}
			}
		}

		for _, b := range bodies {
			b.IntegratePosition(earliest)
		}
		if earliest > 0 {
			clear(resolvedNow)
		}

		if hit.i >= 0 {
			a, b := bodies[hit.i], bodies[hit.j]
			e.resolver.ResolveVelocity(a, b)
			if e.cfg.PositionCorrection {
				if res := collision.CheckCollision(a, b); res.Colliding {
					e.resolver.ResolvePosition(a, b, res.MTV)
				}
			}
			resolvedNow[hit] = true
			stats.Collisions++
			e.emit(Event{
				Kind:      EventCollision,
				Frame:     e.frame,
				SubStep:   stats.SubSteps,
				A:         body.Handle(hit.i),
				B:         body.Handle(hit.j),
				TOI:       earliest,
				Remaining: remaining - earliest,
			})
		}

		remaining -= earliest
		stats.SubSteps++
	}

	if remaining < 0 {
		remaining = 0
	}
	stats.Remaining = remaining
	stats.Consumed = delta - remaining
	if remaining > 0 {
		stats.Saturated = true
		e.emit(Event{
			Kind:      EventSaturated,
			Frame:     e.frame,
			SubStep:   stats.SubSteps,
			A:         body.NoHandle,
			B:         body.NoHandle,
			Remaining: remaining,
		})
	}
	return stats
}

func (e *Engine) applyGrabs(w *world.World, dt float64) {
	for _, c := range w.Constraints() {
		holder, manip, target := w.Body(c.Holder), w.Body(c.Manipulator), w.Body(c.Target)
		if holder == nil || manip == nil || target == nil {
			w.RemoveConstraint(c.Holder)
			continue
		}
		c.Apply(holder, manip, target, dt)
		target.AngularVelocity *= e.cfg.HeldAngularDamping
	}
}

// TryGrab binds the first physical body overlapping manip to holder. It
// fails when holder already holds something or nothing overlaps.
func (e *Engine) TryGrab(w *world.World, holder, manip body.Handle) (body.Handle, bool) {
	if _, held := w.Constraint(holder); held {
		return body.NoHandle, false
	}
	m := w.Body(manip)
	if m == nil || w.Body(holder) == nil {
		return body.NoHandle, false
	}

	for i, b := range w.Bodies() {
		h := body.Handle(i)
		if h == holder || h == manip || !b.Physical() {
			continue
		}
		if !collision.CheckCollision(m, b).Colliding {
			continue
		}
		w.SetConstraint(grab.Attach(holder, manip, h, m.Position, b, e.cfg.GrabStiffness, e.cfg.GrabDamping))
		e.emit(Event{Kind: EventGrab, Frame: e.frame, A: holder, B: h})
		return h, true
	}
	return body.NoHandle, false
}

func (e *Engine) Release(w *world.World, holder body.Handle) bool {
	c, ok := w.Constraint(holder)
	if !ok {
		return false
	}
	w.RemoveConstraint(holder)
	e.emit(Event{Kind: EventRelease, Frame: e.frame, A: holder, B: c.Target})
	return true
}

func (e *Engine) Holding(w *world.World, holder body.Handle) (body.Handle, bool) {
	c, ok := w.Constraint(holder)
	if !ok {
		return body.NoHandle, false
	}
	return c.Target, true
}
