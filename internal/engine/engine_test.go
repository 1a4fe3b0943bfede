package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/world"
)

func undamped() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.LinearDamping = 1
	cfg.AngularDamping = 1
	return cfg
}

func newBox(kind body.Kind, w, h, mass float64, pos, vel geom.Vec2) *body.Body {
	b, err := body.NewBox(kind, w, h, mass)
	Expect(err).NotTo(HaveOccurred())
	b.Position = pos
	b.Velocity = vel
	return b
}

func totalKE(w *world.World) float64 {
	sum := 0.0
	for _, b := range w.Bodies() {
		sum += b.KineticEnergy()
	}
	return sum
}

var _ = Describe("Advance", func() {
	var (
		eng *engine.Engine
		a   *body.Body
	)

	BeforeEach(func() {
		eng = engine.New(undamped())
		a = newBox(body.Dynamic, 10, 10, 1, geom.V(0, 0), geom.V(100, 0))
	})

	Context("with an invalid delta", func() {
		It("leaves the world untouched", func() {
			w := world.New(a)
			for _, d := range []float64{0, -1, math.NaN()} {
				stats := eng.Advance(w, d)
				Expect(stats).To(Equal(engine.FrameStats{}))
			}
			Expect(a.Position).To(Equal(geom.V(0, 0)))
			Expect(eng.Frame()).To(Equal(0))
		})
	})

	Context("with no contacts", func() {
		It("integrates the full frame in one sub-step", func() {
			w := world.New(a)
			stats := eng.Advance(w, 0.5)
			Expect(stats.SubSteps).To(Equal(1))
			Expect(stats.Collisions).To(Equal(0))
			Expect(stats.Remaining).To(BeZero())
			Expect(stats.Consumed).To(BeNumerically("~", 0.5, 1e-12))
			Expect(a.Position.X()).To(BeNumerically("~", 50, 1e-9))
		})
	})

	Context("when two equal boxes meet head on", func() {
		It("resolves the impact at the time of impact and conserves momentum", func() {
			b := newBox(body.Dynamic, 10, 10, 1, geom.V(15, 0), geom.Zero)
			w := world.New(a, b)

			stats := eng.Advance(w, 1)
			Expect(stats.SubSteps).To(Equal(2))
			Expect(stats.Collisions).To(Equal(1))
			Expect(stats.Saturated).To(BeFalse())

			Expect(a.Velocity.X()).To(BeNumerically("~", 20, 1e-9))
			Expect(b.Velocity.X()).To(BeNumerically("~", 80, 1e-9))
			Expect(a.Position.X()).To(BeNumerically("~", 24, 1e-6))
			Expect(b.Position.X()).To(BeNumerically("~", 91, 1e-6))
		})
	})

	Context("when a box hits an immovable wall", func() {
		It("reflects the box and leaves the wall alone", func() {
			wall := newBox(body.Static, 10, 10, 0, geom.V(15, 0), geom.Zero)
			w := world.New(a, wall)

			eng.Advance(w, 1)
			Expect(a.Velocity.X()).To(BeNumerically("~", -60, 1e-9))
			Expect(a.Position.X()).To(BeNumerically("~", -52, 1e-6))
			Expect(wall.Position).To(Equal(geom.V(15, 0)))
			Expect(wall.Velocity.IsZero()).To(BeTrue())
		})
	})

	Context("with a fast projectile", func() {
		It("does not tunnel through a thin wall", func() {
			bullet := newBox(body.Dynamic, 2, 2, 0.1, geom.V(0, 0), geom.V(10000, 0))
			wall := newBox(body.Static, 1, 100, 0, geom.V(50, 0), geom.Zero)
			w := world.New(bullet, wall)

			stats := eng.Advance(w, 1.0/60)
			Expect(stats.Collisions).To(Equal(1))
			Expect(bullet.Position.X()).To(BeNumerically("<", 49.5))
			Expect(bullet.Velocity.X()).To(BeNumerically("<", 0))
		})
	})

	Context("when a box is trapped between walls", func() {
		It("stops at the sub-step cap and reports saturation", func() {
			left := newBox(body.Static, 10, 100, 0, geom.V(-20, 0), geom.Zero)
			right := newBox(body.Static, 10, 100, 0, geom.V(20, 0), geom.Zero)
			a.Velocity = geom.V(1000, 0)
			w := world.New(a, left, right)

			var saturated int
			eng.AddObserver(engine.ObserverFunc(func(ev engine.Event) {
				if ev.Kind == engine.EventSaturated {
					saturated++
				}
			}))

			stats := eng.Advance(w, 1)
			Expect(stats.SubSteps).To(Equal(5))
			Expect(stats.Collisions).To(Equal(5))
			Expect(stats.Saturated).To(BeTrue())
			Expect(stats.Remaining).To(BeNumerically(">", 0))
			Expect(stats.Consumed + stats.Remaining).To(BeNumerically("~", 1, 1e-12))
			Expect(math.Abs(a.Position.X())).To(BeNumerically("<=", 10+1e-6))
			Expect(saturated).To(Equal(1))
		})
	})

	Context("with sensors", func() {
		It("lets them pass through other bodies", func() {
			sensor := newBox(body.Sensor, 10, 10, 1, geom.V(15, 0), geom.Zero)
			w := world.New(a, sensor)

			stats := eng.Advance(w, 1)
			Expect(stats.Collisions).To(Equal(0))
			Expect(a.Position.X()).To(BeNumerically("~", 100, 1e-9))
		})
	})

	Context("with many bodies in a box", func() {
		It("never gains energy and keeps bodies apart", func() {
			eng = engine.New(engine.DefaultConfig())
			w := world.New(
				newBox(body.Static, 400, 10, 0, geom.V(0, -205), geom.Zero),
				newBox(body.Static, 400, 10, 0, geom.V(0, 205), geom.Zero),
				newBox(body.Static, 10, 400, 0, geom.V(-205, 0), geom.Zero),
				newBox(body.Static, 10, 400, 0, geom.V(205, 0), geom.Zero),
			)
			for i := 0; i < 6; i++ {
				x := -150 + float64(i)*60
				w.Add(newBox(body.Dynamic, 20, 20, 4, geom.V(x, float64(i%2)*40), geom.V(300-float64(i)*90, 120-float64(i)*40)))
			}

			prev := totalKE(w)
			for frame := 0; frame < 600; frame++ {
				eng.Advance(w, 1.0/60)
				ke := totalKE(w)
				Expect(ke).To(BeNumerically("<=", prev+1e-9))
				prev = ke
			}
			for _, b := range w.Bodies() {
				Expect(b.Position.IsValid()).To(BeTrue())
				Expect(math.Abs(b.Position.X())).To(BeNumerically("<", 205))
				Expect(math.Abs(b.Position.Y())).To(BeNumerically("<", 205))
			}
		})
	})

	Context("with finite bodies only", func() {
		It("conserves linear momentum across the frame", func() {
			w := world.New(
				newBox(body.Dynamic, 10, 10, 2, geom.V(0, 0), geom.V(120, 10)),
				newBox(body.Dynamic, 10, 10, 3, geom.V(30, 2), geom.V(-40, 0)),
				newBox(body.Dynamic, 10, 10, 1, geom.V(60, -1), geom.V(-90, 5)),
			)
			momentum := func() geom.Vec2 {
				p := geom.Zero
				for _, b := range w.Bodies() {
					p = p.Add(b.Momentum())
				}
				return p
			}

			before := momentum()
			for i := 0; i < 30; i++ {
				eng.Advance(w, 1.0/60)
			}
			Expect(momentum().ApproxEqual(before, 1e-6)).To(BeTrue())
		})
	})

	It("reports collisions to observers", func() {
		b := newBox(body.Dynamic, 10, 10, 1, geom.V(15, 0), geom.Zero)
		w := world.New(a, b)

		var events []engine.Event
		eng.AddObserver(engine.ObserverFunc(func(ev engine.Event) { events = append(events, ev) }))
		eng.Advance(w, 1)

		Expect(events).To(HaveLen(1))
		Expect(events[0].Kind).To(Equal(engine.EventCollision))
		Expect(events[0].A).To(Equal(body.Handle(0)))
		Expect(events[0].B).To(Equal(body.Handle(1)))
		Expect(events[0].TOI).To(BeNumerically("~", 0.05, 1e-9))
		Expect(events[0].Frame).To(Equal(1))
	})

	It("resolves equal-TOI pairs in index order", func() {
		b := newBox(body.Dynamic, 10, 10, 1, geom.V(15, 0), geom.Zero)
		c := newBox(body.Dynamic, 10, 10, 1, geom.V(0, 100), geom.V(100, 0))
		d := newBox(body.Dynamic, 10, 10, 1, geom.V(15, 100), geom.Zero)
		w := world.New(a, b, c, d)

		var events []engine.Event
		eng.AddObserver(engine.ObserverFunc(func(ev engine.Event) { events = append(events, ev) }))
		stats := eng.Advance(w, 1)

		Expect(stats.Collisions).To(Equal(2))
		Expect(stats.SubSteps).To(Equal(3))
		Expect(stats.Saturated).To(BeFalse())

		Expect(events).To(HaveLen(2))
		Expect([]body.Handle{events[0].A, events[0].B}).To(Equal([]body.Handle{0, 1}))
		Expect(events[0].TOI).To(BeNumerically("~", 0.05, 1e-9))
		Expect([]body.Handle{events[1].A, events[1].B}).To(Equal([]body.Handle{2, 3}))
		Expect(events[1].TOI).To(BeNumerically("~", 0, 1e-9))

		for _, pair := range [][2]*body.Body{{a, b}, {c, d}} {
			Expect(pair[0].Velocity.X()).To(BeNumerically("~", 20, 1e-6))
			Expect(pair[1].Velocity.X()).To(BeNumerically("~", 80, 1e-6))
		}
	})

	It("refuses to step a world that is already being stepped", func() {
		w := world.New(a)
		Expect(w.BeginStep()).To(BeTrue())

		other := engine.New(undamped())
		Expect(func() { other.Advance(w, 0.1) }).To(PanicWith("engine: concurrent Advance on one world"))
		Expect(a.Position).To(Equal(geom.V(0, 0)))

		w.EndStep()
		other.Advance(w, 0.1)
		Expect(a.Position.X()).To(BeNumerically("~", 10, 1e-9))
	})
})

var _ = Describe("Grab", func() {
	var (
		eng                 *engine.Engine
		w                   *world.World
		player, hand, crate body.Handle
		playerB, handB, crB *body.Body
	)

	BeforeEach(func() {
		eng = engine.New(undamped())

		var err error
		playerB, err = body.NewRegularPolygon(body.PlayerControlled, 8, 15, 10)
		Expect(err).NotTo(HaveOccurred())
		handB = newBox(body.Sensor, 10, 10, 1, geom.V(100, 0), geom.Zero)
		crB = newBox(body.Dynamic, 20, 20, 8, geom.V(100, 0), geom.Zero)

		w = world.New()
		player = w.Add(playerB)
		hand = w.Add(handB)
		crate = w.Add(crB)
	})

	It("binds the overlapping body", func() {
		target, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeTrue())
		Expect(target).To(Equal(crate))

		held, ok := eng.Holding(w, player)
		Expect(ok).To(BeTrue())
		Expect(held).To(Equal(crate))
	})

	It("refuses a second grab while holding", func() {
		_, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeTrue())
		_, ok = eng.TryGrab(w, player, hand)
		Expect(ok).To(BeFalse())
	})

	It("fails when nothing overlaps the manipulator", func() {
		handB.Position = geom.V(-200, -200)
		_, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeFalse())
		_, ok = eng.Holding(w, player)
		Expect(ok).To(BeFalse())
	})

	It("pulls the target towards the manipulator", func() {
		_, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeTrue())

		handB.Position = geom.V(60, 0)
		eng.Advance(w, 1.0/60)

		Expect(crB.Velocity.X()).To(BeNumerically("<", 0))
		Expect(playerB.Velocity.X()).To(BeNumerically(">", 0))
	})

	It("applies no force when the attachment sits on the manipulator", func() {
		_, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeTrue())

		eng.Advance(w, 1.0/60)
		Expect(crB.Velocity.IsZero()).To(BeTrue())
		Expect(playerB.Velocity.IsZero()).To(BeTrue())
	})

	It("releases without a residual impulse", func() {
		_, ok := eng.TryGrab(w, player, hand)
		Expect(ok).To(BeTrue())
		Expect(eng.Release(w, player)).To(BeTrue())
		Expect(eng.Release(w, player)).To(BeFalse())

		handB.Position = geom.V(60, 0)
		eng.Advance(w, 1.0/60)
		Expect(crB.Velocity.IsZero()).To(BeTrue())
	})
})
