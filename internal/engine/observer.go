package engine

import (
	"github.com/charmbracelet/log"
	"github.com/san-kum/rigidsim/internal/body"
)

type EventKind int

const (
	EventCollision EventKind = iota
	EventSaturated
	EventGrab
	EventRelease
)

func (k EventKind) String() string {
	switch k {
	case EventCollision:
		return "collision"
	case EventSaturated:
		return "saturated"
	case EventGrab:
		return "grab"
	case EventRelease:
		return "release"
	}
	return "unknown"
}

// Event is a structured trace record emitted while stepping.
type Event struct {
	Kind      EventKind
	Frame     int
	SubStep   int
	A, B      body.Handle
	TOI       float64
	Remaining float64
}

type Observer interface {
	OnEvent(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) OnEvent(ev Event) { f(ev) }

type logObserver struct {
	logger *log.Logger
}

// LogObserver writes every event to logger at debug level.
func LogObserver(logger *log.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) OnEvent(ev Event) {
	switch ev.Kind {
	case EventCollision:
		o.logger.Debug("collision", "frame", ev.Frame, "substep", ev.SubStep,
			"a", ev.A, "b", ev.B, "toi", ev.TOI, "remaining", ev.Remaining)
	case EventSaturated:
		o.logger.Debug("substep cap reached", "frame", ev.Frame, "substep", ev.SubStep,
			"remaining", ev.Remaining)
	default:
		o.logger.Debug(ev.Kind.String(), "frame", ev.Frame, "holder", ev.A, "target", ev.B)
	}
}
