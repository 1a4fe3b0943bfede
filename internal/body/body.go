package body

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/rigidsim/internal/geom"
)

// DefaultInertiaFactor approximates the moment of inertia as mass times this value.
const DefaultInertiaFactor = 500.0

// Body is a convex rigid polygon. Position is the centre of mass and the
// origin of the local vertex frame.
type Body struct {
	Name string
	Kind Kind

	Position        geom.Vec2
	Velocity        geom.Vec2
	Angle           float64
	AngularVelocity float64

	Mass          float64
	InertiaFactor float64

	local []geom.Vec2

	world      []geom.Vec2
	cachePos   geom.Vec2
	cacheAngle float64
	cacheOK    bool
}

// New validates the local polygon and mass and returns a body at the origin.
// Static bodies always get infinite mass regardless of the mass argument.
func New(kind Kind, vertices []geom.Vec2, mass float64) (*Body, error) {
	if err := validatePolygon(vertices); err != nil {
		return nil, err
	}
	if kind == Static {
		mass = math.Inf(1)
	}
	if math.IsNaN(mass) || mass < 0 {
		return nil, ErrInvalidMass
	}

	local := make([]geom.Vec2, len(vertices))
	copy(local, vertices)

	return &Body{
		Kind:          kind,
		Mass:          mass,
		InertiaFactor: DefaultInertiaFactor,
		local:         local,
	}, nil
}

// NewBox returns an axis-aligned w by h rectangle centred on its position.
func NewBox(kind Kind, w, h, mass float64) (*Body, error) {
	hw, hh := w/2, h/2
	return New(kind, []geom.Vec2{
		geom.V(-hw, -hh),
		geom.V(hw, -hh),
		geom.V(hw, hh),
		geom.V(-hw, hh),
	}, mass)
}

// NewRegularPolygon returns an n-gon inscribed in a circle of the given radius.
func NewRegularPolygon(kind Kind, n int, radius, mass float64) (*Body, error) {
	if n < 3 {
		return nil, ErrTooFewVertices
	}
	vs := make([]geom.Vec2, n)
	for i := range vs {
		a := 2 * math.Pi * float64(i) / float64(n)
		vs[i] = geom.V(radius*math.Cos(a), radius*math.Sin(a))
	}
	return New(kind, vs, mass)
}

func validatePolygon(vs []geom.Vec2) error {
	n := len(vs)
	if n < 3 {
		return ErrTooFewVertices
	}
	for _, v := range vs {
		if !v.IsValid() {
			return ErrNotConvex
		}
	}

	sign := 0.0
	turning := 0.0
	for i := 0; i < n; i++ {
		e1 := vs[(i+1)%n].Sub(vs[i])
		e2 := vs[(i+2)%n].Sub(vs[(i+1)%n])
		if e1.IsZero() {
			return ErrNotConvex
		}
		c := e1.Cross(e2)
		if math.Abs(c) > geom.Epsilon {
			if sign == 0 {
				sign = math.Copysign(1, c)
			} else if math.Copysign(1, c) != sign {
				return ErrNotConvex
			}
		}
		turning += math.Atan2(c, e1.Dot(e2))
	}
	if sign == 0 {
		return ErrNotConvex
	}
	// A simple convex polygon turns exactly once.
	if math.Abs(math.Abs(turning)-2*math.Pi) > 1e-3 {
		return ErrNotConvex
	}
	return nil
}

// Immovable reports whether the body has infinite mass.
func (b *Body) Immovable() bool {
	return b.Kind == Static || math.IsInf(b.Mass, 1)
}

// Physical reports whether the body participates in collisions.
func (b *Body) Physical() bool { return b.Kind != Sensor }

func (b *Body) Inertia() float64 {
	if b.Immovable() {
		return math.Inf(1)
	}
	return b.Mass * b.InertiaFactor
}

func (b *Body) LocalVertices() []geom.Vec2 {
	out := make([]geom.Vec2, len(b.local))
	copy(out, b.local)
	return out
}

// ApplyForce integrates force over dt at the point arm, given relative to
// the centre in world orientation.
func (b *Body) ApplyForce(force, arm geom.Vec2, dt float64) {
	if b.Immovable() || b.Mass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(force.Scale(dt / b.Mass))

	if inertia := b.Inertia(); inertia > 0 {
		torque := arm.Cross(force)
		b.AngularVelocity += torque / inertia * dt
	}
}

func (b *Body) ApplyCentralForce(force geom.Vec2, dt float64) {
	if b.Immovable() || b.Mass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(force.Scale(dt / b.Mass))
}

// DecayVelocity scales linear and angular velocity by the given factors.
// Player-controlled and static bodies keep their velocity.
func (b *Body) DecayVelocity(linear, angular float64) {
	if b.Kind == PlayerControlled || b.Kind == Static {
		return
	}
	b.Velocity = b.Velocity.Scale(linear)
	b.AngularVelocity *= angular
}

func (b *Body) IntegratePosition(dt float64) {
	if b.Immovable() {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Angle += b.AngularVelocity * dt
}

// WorldVertices returns the polygon in world space. The slice is cached per
// transform and must not be modified.
func (b *Body) WorldVertices() []geom.Vec2 {
	if b.cacheOK && b.cachePos == b.Position && b.cacheAngle == b.Angle {
		return b.world
	}
	if b.world == nil {
		b.world = make([]geom.Vec2, len(b.local))
	}
	for i, v := range b.local {
		b.world[i] = v.Rotate(b.Angle).Add(b.Position)
	}
	b.cachePos = b.Position
	b.cacheAngle = b.Angle
	b.cacheOK = true
	return b.world
}

// Axes returns the unit normals of the world-space edges.
func (b *Body) Axes() []geom.Vec2 {
	vs := b.WorldVertices()
	axes := make([]geom.Vec2, len(vs))
	for i := range vs {
		edge := vs[(i+1)%len(vs)].Sub(vs[i])
		axes[i] = edge.Perp().Normalize()
	}
	return axes
}

// Project returns the interval covered by the body on axis.
func (b *Body) Project(axis geom.Vec2) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range b.WorldVertices() {
		p := v.Dot(axis)
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

// Bounds returns the world-space bounding box.
func (b *Body) Bounds() cp.BB {
	l, r := b.Project(geom.V(1, 0))
	bot, t := b.Project(geom.V(0, 1))
	return cp.BB{L: l, B: bot, R: r, T: t}
}

// KineticEnergy is zero for immovable bodies.
func (b *Body) KineticEnergy() float64 {
	if b.Immovable() {
		return 0
	}
	return 0.5*b.Mass*b.Velocity.LenSq() + 0.5*b.Inertia()*b.AngularVelocity*b.AngularVelocity
}

func (b *Body) Momentum() geom.Vec2 {
	if b.Immovable() {
		return geom.Zero
	}
	return b.Velocity.Scale(b.Mass)
}
