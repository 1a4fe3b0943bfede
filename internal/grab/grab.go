// Package grab implements the spring-damper constraint that lets a holder
// body pull a target body through a manipulator point.
package grab

import (
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/geom"
)

const (
	DefaultStiffness = 2000.0
	DefaultDamping   = 100.0
)

// Constraint binds a point on Target, stored in Target's local frame, to the
// Manipulator's position. Handles are non-owning.
type Constraint struct {
	Holder      body.Handle
	Manipulator body.Handle
	Target      body.Handle
	Local       geom.Vec2
	Stiffness   float64
	Damping     float64
}

// Attach builds a constraint for the manipulator's current overlap with
// target.
func Attach(holder, manip, target body.Handle, manipPos geom.Vec2, t *body.Body, stiffness, damping float64) Constraint {
	return Constraint{
		Holder:      holder,
		Manipulator: manip,
		Target:      target,
		Local:       manipPos.Sub(t.Position).Rotate(-t.Angle),
		Stiffness:   stiffness,
		Damping:     damping,
	}
}

// Arm returns the attachment point relative to the target's centre in world
// orientation.
func (c Constraint) Arm(target *body.Body) geom.Vec2 {
	return c.Local.Rotate(target.Angle)
}

// Force returns the spring-damper force acting on the target.
func (c Constraint) Force(holder, manip, target *body.Body) geom.Vec2 {
	attach := target.Position.Add(c.Arm(target))
	stretch := attach.Sub(manip.Position)
	relVel := target.Velocity.Sub(holder.Velocity)
	return stretch.Scale(-c.Stiffness).Sub(relVel.Scale(c.Damping))
}

// Apply integrates the constraint force over dt: the target receives it at
// the attachment point, the holder receives the reaction at its centre.
func (c Constraint) Apply(holder, manip, target *body.Body, dt float64) geom.Vec2 {
	f := c.Force(holder, manip, target)
	target.ApplyForce(f, c.Arm(target), dt)
	holder.ApplyCentralForce(f.Neg(), dt)
	return f
}
