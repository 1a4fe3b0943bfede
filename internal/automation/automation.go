package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/intent"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/sim"
)

var (
	ErrUnknownParam = errors.New("automation: unknown sweep parameter")
	ErrInvalidSweep = errors.New("automation: invalid sweep")
)

// Setup describes one headless run of a scene.
type Setup struct {
	Scene     string
	Physics   engine.Config
	Player    intent.Config
	Script    string
	Observers []engine.Observer
}

// NewRunner builds the level, engine and input source for s and attaches
// the default metrics.
func NewRunner(s Setup) (*sim.Runner, error) {
	spec, err := scene.Resolve(s.Scene)
	if err != nil {
		return nil, err
	}
	level, err := scene.Build(spec, s.Physics)
	if err != nil {
		return nil, err
	}

	eng := engine.New(s.Physics)
	for _, o := range s.Observers {
		eng.AddObserver(o)
	}

	var source intent.Source
	if s.Script != "" {
		script, err := intent.LoadScript(s.Script)
		if err != nil {
			return nil, err
		}
		source = script
	}

	r := sim.New(level, eng, source, s.Player)
	for _, m := range metrics.Default() {
		r.AddMetric(m)
	}
	return r, nil
}

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Scene    string  `yaml:"scene"`
	Preset   string  `yaml:"preset"`
	Script   string  `yaml:"script"`
	Duration float64 `yaml:"duration"`
	Dt       float64 `yaml:"dt"`
}

// StepResult pairs a finished step with its result.
type StepResult struct {
	Step   ScenarioStep
	Config sim.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	return &scenario, nil
}

// RunScenario executes the steps in order. Steps leave dt, duration and
// preset empty to inherit them from base. It stops at the first failure
// and returns the steps completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, observers ...engine.Observer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		physics := base.Physics
		if step.Preset != "" {
			p := config.GetPreset(step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
			}
			physics = *p
		}
		cfg := sim.Config{Dt: base.Run.Dt, Duration: base.Run.Duration, RecordEvery: base.Run.RecordEvery}
		if step.Dt > 0 {
			cfg.Dt = step.Dt
		}
		if step.Duration > 0 {
			cfg.Duration = step.Duration
		}

		r, err := NewRunner(Setup{
			Scene:     step.Scene,
			Physics:   physics.Engine(),
			Player:    base.Player.Intent(),
			Script:    step.Script,
			Observers: observers,
		})
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := r.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs one scene across evenly spaced values of a physics
// parameter.
type ParameterSweep struct {
	Scene     string
	Physics   engine.Config
	Player    intent.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Run       sim.Config
}

type SweepResult struct {
	ParamValue float64
	Result     *sim.Result
}

// SweepParams lists the parameter names a sweep accepts.
var SweepParams = []string{"restitution", "linear_damping", "angular_damping", "grab_stiffness", "grab_damping", "max_substeps"}

func setParam(cfg *engine.Config, name string, v float64) error {
	switch name {
	case "restitution":
		cfg.Restitution = v
	case "linear_damping":
		cfg.LinearDamping = v
	case "angular_damping":
		cfg.AngularDamping = v
	case "grab_stiffness":
		cfg.GrabStiffness = v
	case "grab_damping":
		cfg.GrabDamping = v
	case "max_substeps":
		cfg.MaxSubSteps = int(math.Round(v))
	default:
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownParam, name, SweepParams)
	}
	return nil
}

// RunSweep runs every sweep point concurrently and returns results in
// parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidSweep, sweep.NumSteps)
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	values := make([]float64, sweep.NumSteps)
	jobs := make([]sim.Job, sweep.NumSteps)
	for i := range jobs {
		values[i] = sweep.ParamMin + float64(i)*paramStep

		physics := sweep.Physics
		if err := setParam(&physics, sweep.ParamName, values[i]); err != nil {
			return nil, err
		}
		if err := physics.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, values[i], err)
		}

		r, err := NewRunner(Setup{Scene: sweep.Scene, Physics: physics, Player: sweep.Player})
		if err != nil {
			return nil, err
		}
		jobs[i] = sim.Job{Name: fmt.Sprintf("%s=%g", sweep.ParamName, values[i]), Runner: r, Config: sweep.Run}
	}

	results := make([]SweepResult, 0, len(jobs))
	for i, br := range sim.RunBatch(ctx, jobs) {
		if br.Err != nil {
			return nil, fmt.Errorf("%s: %w", br.Name, br.Err)
		}
		results = append(results, SweepResult{ParamValue: values[i], Result: br.Result})
	}
	return results, nil
}
