package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/intent"
	"github.com/san-kum/rigidsim/internal/scene"
)

// Runner steps a level headlessly with a fixed dt.
type Runner struct {
	eng       *engine.Engine
	level     *scene.Level
	player    *intent.Player
	source    intent.Source
	metrics   []Metric
	observers []Observer
}

// New returns a runner for level. When the level has a player, source
// drives it each frame; a nil source means Idle.
func New(level *scene.Level, eng *engine.Engine, source intent.Source, playerCfg intent.Config) *Runner {
	r := &Runner{
		eng:       eng,
		level:     level,
		source:    source,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	if r.source == nil {
		r.source = intent.Idle{}
	}
	if level.HasPlayer() {
		r.player = intent.NewPlayer(playerCfg, level.Player, level.Hand)
	}
	return r
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Level() *scene.Level { return r.level }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.RecordEvery < 1 {
		cfg.RecordEvery = 1
	}

	frames := int(math.Round(cfg.Duration / cfg.Dt))
	w := r.level.World
	result := &Result{
		Metrics: make(map[string]float64),
		Samples: make([]Sample, 0, (frames/cfg.RecordEvery+1)*w.Len()),
	}

	for _, m := range r.metrics {
		m.Reset()
		m.Observe(w, 0)
	}
	result.Samples = r.record(result.Samples, 0)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if r.player != nil {
			in, err := r.source.Next(r.view(i, t))
			if err != nil {
				r.finish(result)
				return result, &RunError{Frame: i, Time: t, Wrapped: err}
			}
			if st := r.player.Update(r.eng, w, in, cfg.Dt); st.Grabbed {
				result.Grabs++
			}
		}

		stats := r.eng.Advance(w, cfg.Dt)
		result.Frames++
		result.SubSteps += stats.SubSteps
		result.Collisions += stats.Collisions
		if stats.Saturated {
			result.SaturatedFrames++
		}

		t = float64(i+1) * cfg.Dt
		result.Time = t
		if b := firstInvalid(w.Bodies()); b != nil {
			r.finish(result)
			return result, &RunError{Frame: i, Time: t, Body: b.Name, Wrapped: ErrDiverged}
		}

		for _, m := range r.metrics {
			m.Observe(w, t)
		}
		for _, o := range r.observers {
			o.OnFrame(i, t, w, stats)
		}
		if (i+1)%cfg.RecordEvery == 0 {
			result.Samples = r.record(result.Samples, t)
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) view(frame int, t float64) intent.View {
	v := intent.View{Frame: frame, Time: t}
	if pb := r.level.World.Body(r.level.Player); pb != nil {
		v.Player = pb.Position
	}
	_, v.Holding = r.eng.Holding(r.level.World, r.level.Player)
	return v
}

func (r *Runner) record(samples []Sample, t float64) []Sample {
	for _, b := range r.level.World.Bodies() {
		if b.Kind == body.Static {
			continue
		}
		samples = append(samples, Sample{
			Time:  t,
			Body:  b.Name,
			X:     b.Position.X(),
			Y:     b.Position.Y(),
			Angle: b.Angle,
			VX:    b.Velocity.X(),
			VY:    b.Velocity.Y(),
		})
	}
	return samples
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

func firstInvalid(bodies []*body.Body) *body.Body {
	for _, b := range bodies {
		if b.Immovable() {
			continue
		}
		if !b.Position.IsValid() || !b.Velocity.IsValid() ||
			math.IsNaN(b.Angle) || math.IsInf(b.Angle, 0) {
			return b
		}
	}
	return nil
}
