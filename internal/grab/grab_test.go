package grab

import (
	"math"
	"testing"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/geom"
)

type rig struct {
	holder, hand, crate *body.Body
}

func newRig(t *testing.T) rig {
	t.Helper()
	holder, err := body.NewRegularPolygon(body.PlayerControlled, 8, 15, 10)
	if err != nil {
		t.Fatal(err)
	}
	hand, _ := body.NewBox(body.Sensor, 10, 10, 1)
	crate, _ := body.NewBox(body.Dynamic, 40, 40, 32)
	return rig{holder: holder, hand: hand, crate: crate}
}

func TestAttachLocalFrame(t *testing.T) {
	r := newRig(t)
	r.crate.Position = geom.V(100, 0)
	r.crate.Angle = math.Pi / 2

	c := Attach(0, 1, 2, geom.V(100, 10), r.crate, DefaultStiffness, DefaultDamping)

	// (0, 10) rotated by -90 degrees
	if !c.Local.ApproxEqual(geom.V(10, 0), 1e-9) {
		t.Errorf("expected local (10, 0), got %v", c.Local)
	}
	if !c.Arm(r.crate).ApproxEqual(geom.V(0, 10), 1e-9) {
		t.Errorf("expected arm (0, 10), got %v", c.Arm(r.crate))
	}
}

func TestForceZeroAtRest(t *testing.T) {
	r := newRig(t)
	r.crate.Position = geom.V(50, 0)
	r.hand.Position = geom.V(40, 5)
	r.crate.Velocity = geom.V(3, 4)
	r.holder.Velocity = geom.V(3, 4)

	c := Attach(0, 1, 2, r.hand.Position, r.crate, DefaultStiffness, DefaultDamping)
	f := c.Force(r.holder, r.hand, r.crate)
	if !f.ApproxEqual(geom.Zero, 1e-9) {
		t.Errorf("expected zero force, got %v", f)
	}
}

func TestApplyPullsTowardsManipulator(t *testing.T) {
	r := newRig(t)
	r.crate.Position = geom.V(50, 0)
	r.hand.Position = geom.V(50, 0)

	c := Attach(0, 1, 2, r.hand.Position, r.crate, DefaultStiffness, DefaultDamping)
	r.hand.Position = geom.V(30, 0)

	f := c.Apply(r.holder, r.hand, r.crate, 1.0/60)
	if !f.ApproxEqual(geom.V(-40000, 0), 1e-9) {
		t.Errorf("expected force (-40000, 0), got %v", f)
	}
	if r.crate.Velocity.X() >= 0 {
		t.Errorf("crate should move towards the hand, got vx %f", r.crate.Velocity.X())
	}
	if r.holder.Velocity.X() <= 0 {
		t.Errorf("holder should feel the reaction, got vx %f", r.holder.Velocity.X())
	}

	// equal and opposite impulses
	p := r.crate.Momentum().Add(r.holder.Momentum())
	if !p.ApproxEqual(geom.Zero, 1e-9) {
		t.Errorf("expected zero net momentum, got %v", p)
	}
	if r.crate.AngularVelocity != 0 {
		t.Errorf("central attachment should not spin, got %f", r.crate.AngularVelocity)
	}
}

func TestApplyOffCentreTorque(t *testing.T) {
	r := newRig(t)
	r.crate.Position = geom.V(0, 0)

	c := Attach(0, 1, 2, geom.V(20, 0), r.crate, DefaultStiffness, DefaultDamping)
	r.hand.Position = geom.V(20, 10)

	c.Apply(r.holder, r.hand, r.crate, 1.0/60)
	if r.crate.AngularVelocity <= 0 {
		t.Errorf("expected positive angular velocity, got %f", r.crate.AngularVelocity)
	}
}

func TestApplyImmovableTarget(t *testing.T) {
	r := newRig(t)
	wall, _ := body.NewBox(body.Static, 10, 100, 0)
	wall.Position = geom.V(100, 0)

	c := Attach(0, 1, 2, geom.V(100, 0), wall, DefaultStiffness, DefaultDamping)
	r.hand.Position = geom.V(90, 0)

	c.Apply(r.holder, r.hand, wall, 1.0/60)
	if !wall.Velocity.IsZero() {
		t.Error("immovable target should not move")
	}
	if r.holder.Velocity.X() <= 0 {
		t.Errorf("holder should be pulled towards the wall, got vx %f", r.holder.Velocity.X())
	}
}
