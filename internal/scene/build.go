package scene

import (
	"fmt"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/world"
)

const (
	PlayerMass   = 10.0
	PlayerRadius = 15.0
	PlayerSides  = 8
	HandSize     = 10.0
	HandMass     = 1.0
)

// Level is a built scene. Player and Hand are NoHandle when the scene has
// no player.
type Level struct {
	Spec   *Spec
	World  *world.World
	Player body.Handle
	Hand   body.Handle
}

func (l *Level) HasPlayer() bool { return l.Player.Valid() }

func Build(s *Spec, cfg engine.Config) (*Level, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	lvl := &Level{
		Spec:   s,
		World:  world.New(),
		Player: body.NoHandle,
		Hand:   body.NoHandle,
	}

	add := func(name string, b *body.Body, pos geom.Vec2) body.Handle {
		b.Name = name
		b.Position = pos
		b.InertiaFactor = cfg.InertiaFactor
		return lvl.World.Add(b)
	}

	if s.Player != nil {
		p, err := body.NewRegularPolygon(body.PlayerControlled, PlayerSides, PlayerRadius, PlayerMass)
		if err != nil {
			return nil, fmt.Errorf("scene: player: %w", err)
		}
		h, err := body.NewBox(body.Sensor, HandSize, HandSize, HandMass)
		if err != nil {
			return nil, fmt.Errorf("scene: hand: %w", err)
		}
		pos := geom.V(s.Player.X, s.Player.Y)
		lvl.Player = add("player", p, pos)
		lvl.Hand = add("hand", h, pos)
	}

	for i, c := range s.Crates {
		b, err := body.NewBox(body.Dynamic, c.Side, c.Side, c.Side*c.Side*CrateDensity)
		if err != nil {
			return nil, fmt.Errorf("scene: crate %d: %w", i, err)
		}
		add(fmt.Sprintf("crate-%d", i+1), b, geom.V(c.X, c.Y))
	}

	for i, bs := range s.Bodies {
		b, err := buildBody(bs)
		if err != nil {
			name := bs.Name
			if name == "" {
				name = fmt.Sprint(i)
			}
			return nil, fmt.Errorf("scene: body %s: %w", name, err)
		}
		name := bs.Name
		if name == "" {
			name = fmt.Sprintf("body-%d", i+1)
		}
		b.Velocity = geom.V(bs.VX, bs.VY)
		b.Angle = bs.Angle
		b.AngularVelocity = bs.Spin
		add(name, b, geom.V(bs.X, bs.Y))
	}

	if t := s.Border; t > 0 {
		w, h := s.Width, s.Height
		walls := []struct {
			name       string
			x, y, w, h float64
		}{
			{"wall-top", w / 2, -t / 2, w + 2*t, t},
			{"wall-bottom", w / 2, h + t/2, w + 2*t, t},
			{"wall-left", -t / 2, h / 2, t, h},
			{"wall-right", w + t/2, h / 2, t, h},
		}
		for _, wl := range walls {
			b, err := body.NewBox(body.Static, wl.w, wl.h, 0)
			if err != nil {
				return nil, fmt.Errorf("scene: %s: %w", wl.name, err)
			}
			add(wl.name, b, geom.V(wl.x, wl.y))
		}
	}

	return lvl, nil
}

func buildBody(bs BodySpec) (*body.Body, error) {
	kind, err := body.ParseKind(bs.Kind)
	if err != nil {
		return nil, err
	}
	switch bs.Shape {
	case "polygon":
		return body.NewRegularPolygon(kind, bs.Sides, bs.Radius, bs.Mass)
	case "vertices":
		vs := make([]geom.Vec2, len(bs.Vertices))
		for i, v := range bs.Vertices {
			vs[i] = geom.V(v[0], v[1])
		}
		return body.New(kind, vs, bs.Mass)
	default:
		return body.NewBox(kind, bs.W, bs.H, bs.Mass)
	}
}
