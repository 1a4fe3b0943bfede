// Package intent turns per-frame player input into forces, dashes, hand
// placement and grab requests on a world.
package intent

import (
	"math"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/world"
)

// Input is one frame of player intent. Move components are in [-1, 1]; Aim
// is a world-space point the hand orbits towards.
type Input struct {
	Move geom.Vec2
	Aim  geom.Vec2
	Dash bool
	Grab bool
}

type Config struct {
	Acceleration float64
	MaxSpeed     float64
	Damping      float64
	DashImpulse  float64
	DashDuration float64
	DashCooldown float64
	HandOrbit    float64
}

func DefaultConfig() Config {
	return Config{
		Acceleration: 2000,
		MaxSpeed:     300,
		Damping:      0.92,
		DashImpulse:  1500,
		DashDuration: 0.15,
		DashCooldown: 1.0,
		HandOrbit:    30,
	}
}

// Status reports the controller state after an update.
type Status struct {
	Dashing bool
	Holding bool
	Target  body.Handle
	Grabbed bool
}

type Player struct {
	cfg  Config
	Body body.Handle
	Hand body.Handle

	dashing   bool
	dashTimer float64
	cooldown  float64
}

func NewPlayer(cfg Config, player, hand body.Handle) *Player {
	return &Player{cfg: cfg, Body: player, Hand: hand}
}

func (p *Player) Dashing() bool { return p.dashing }

// Update applies in to the player and hand bodies. It runs before the
// engine advances the frame.
func (p *Player) Update(eng *engine.Engine, w *world.World, in Input, dt float64) Status {
	pb := w.Body(p.Body)
	if pb == nil || !(dt > 0) {
		return Status{Target: body.NoHandle}
	}

	if in.Dash && p.cooldown <= 0 && !p.dashing {
		p.startDash(pb)
	}

	if p.cooldown > 0 {
		p.cooldown -= dt
	}
	if p.dashTimer > 0 {
		p.dashTimer -= dt
		if p.dashTimer <= 0 {
			p.dashing = false
		}
	}

	if !p.dashing {
		p.move(pb, in.Move, w.HeldMass(p.Body), dt)
	}

	if hb := w.Body(p.Hand); hb != nil {
		p.placeHand(pb, hb, in.Aim)
	}

	return p.grab(eng, w, in.Grab)
}

func (p *Player) startDash(pb *body.Body) {
	p.dashing = true
	p.dashTimer = p.cfg.DashDuration
	p.cooldown = p.cfg.DashCooldown

	dir := pb.Velocity
	if dir.IsZero() {
		dir = geom.V(0, -1)
	}
	pb.Velocity = pb.Velocity.Add(dir.Normalize().Scale(p.cfg.DashImpulse))
}

func (p *Player) move(pb *body.Body, dir geom.Vec2, heldMass, dt float64) {
	if dir.X() != 0 && dir.Y() != 0 {
		dir = dir.Normalize()
	}

	accel := p.cfg.Acceleration
	if total := pb.Mass + heldMass; total > 0 {
		accel *= pb.Mass / total
	}

	v := pb.Velocity.Add(dir.Scale(accel * dt)).Scale(p.cfg.Damping)
	if speed := v.Len(); speed > p.cfg.MaxSpeed {
		v = v.Scale(p.cfg.MaxSpeed / speed)
	}
	pb.Velocity = v
}

func (p *Player) placeHand(pb, hb *body.Body, aim geom.Vec2) {
	d := aim.Sub(pb.Position)
	angle := math.Atan2(d.Y(), d.X())
	hb.Position = pb.Position.Add(geom.V(math.Cos(angle), math.Sin(angle)).Scale(p.cfg.HandOrbit))
	hb.Velocity = pb.Velocity
}

func (p *Player) grab(eng *engine.Engine, w *world.World, want bool) Status {
	st := Status{Dashing: p.dashing, Target: body.NoHandle}

	target, holding := eng.Holding(w, p.Body)
	switch {
	case want && !holding:
		if h, ok := eng.TryGrab(w, p.Body, p.Hand); ok {
			target, holding = h, true
			st.Grabbed = true
		}
	case !want && holding:
		eng.Release(w, p.Body)
		target, holding = body.NoHandle, false
	}

	st.Holding = holding
	if holding {
		st.Target = target
	}
	return st
}
