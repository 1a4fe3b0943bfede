package intent

import "github.com/san-kum/rigidsim/internal/geom"

// View is what an input source may observe about the world each frame.
type View struct {
	Frame   int
	Time    float64
	Player  geom.Vec2
	Holding bool
}

type Source interface {
	Next(v View) (Input, error)
}

// Idle never moves and aims straight right.
type Idle struct{}

func (Idle) Next(v View) (Input, error) {
	return Input{Aim: v.Player.Add(geom.V(1, 0))}, nil
}

type Func func(v View) Input

func (f Func) Next(v View) (Input, error) { return f(v), nil }
