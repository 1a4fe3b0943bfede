package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/intent"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultRecordEvery = 1
	DefaultScene       = "arena"
	DefaultLogLevel    = "info"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Scene   string        `yaml:"scene"`
	Physics PhysicsConfig `yaml:"physics"`
	Player  PlayerConfig  `yaml:"player"`
	Run     RunConfig     `yaml:"run"`
	Log     LogConfig     `yaml:"log"`
}

type PhysicsConfig struct {
	LinearDamping      float64 `yaml:"linear_damping"`
	AngularDamping     float64 `yaml:"angular_damping"`
	Restitution        float64 `yaml:"restitution"`
	GrabStiffness      float64 `yaml:"grab_stiffness"`
	GrabDamping        float64 `yaml:"grab_damping"`
	HeldAngularDamping float64 `yaml:"held_angular_damping"`
	InertiaFactor      float64 `yaml:"inertia_factor"`
	MaxSubSteps        int     `yaml:"max_substeps"`
	PositionCorrection bool    `yaml:"position_correction"`
}

type PlayerConfig struct {
	Acceleration float64 `yaml:"acceleration"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Damping      float64 `yaml:"damping"`
	DashImpulse  float64 `yaml:"dash_impulse"`
	DashDuration float64 `yaml:"dash_duration"`
	DashCooldown float64 `yaml:"dash_cooldown"`
	HandOrbit    float64 `yaml:"hand_orbit"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	RecordEvery int     `yaml:"record_every"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:   DefaultScene,
		Physics: FromEngine(engine.DefaultConfig()),
		Player:  fromIntent(intent.DefaultConfig()),
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			RecordEvery: DefaultRecordEvery,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Physics.Engine().Validate(); err != nil {
		return err
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("%w: run.dt must be positive, got %f", ErrInvalid, c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("%w: run.duration must be positive, got %f", ErrInvalid, c.Run.Duration)
	}
	if c.Run.RecordEvery < 1 {
		return fmt.Errorf("%w: run.record_every must be at least 1, got %d", ErrInvalid, c.Run.RecordEvery)
	}
	if c.Player.MaxSpeed <= 0 {
		return fmt.Errorf("%w: player.max_speed must be positive, got %f", ErrInvalid, c.Player.MaxSpeed)
	}
	if c.Player.Damping < 0 || c.Player.Damping > 1 {
		return fmt.Errorf("%w: player.damping must be in [0, 1], got %f", ErrInvalid, c.Player.Damping)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

func FromEngine(e engine.Config) PhysicsConfig {
	return PhysicsConfig{
		LinearDamping:      e.LinearDamping,
		AngularDamping:     e.AngularDamping,
		Restitution:        e.Restitution,
		GrabStiffness:      e.GrabStiffness,
		GrabDamping:        e.GrabDamping,
		HeldAngularDamping: e.HeldAngularDamping,
		InertiaFactor:      e.InertiaFactor,
		MaxSubSteps:        e.MaxSubSteps,
		PositionCorrection: e.PositionCorrection,
	}
}

func (p PhysicsConfig) Engine() engine.Config {
	return engine.Config{
		LinearDamping:      p.LinearDamping,
		AngularDamping:     p.AngularDamping,
		Restitution:        p.Restitution,
		GrabStiffness:      p.GrabStiffness,
		GrabDamping:        p.GrabDamping,
		HeldAngularDamping: p.HeldAngularDamping,
		InertiaFactor:      p.InertiaFactor,
		MaxSubSteps:        p.MaxSubSteps,
		PositionCorrection: p.PositionCorrection,
	}
}

func fromIntent(i intent.Config) PlayerConfig {
	return PlayerConfig{
		Acceleration: i.Acceleration,
		MaxSpeed:     i.MaxSpeed,
		Damping:      i.Damping,
		DashImpulse:  i.DashImpulse,
		DashDuration: i.DashDuration,
		DashCooldown: i.DashCooldown,
		HandOrbit:    i.HandOrbit,
	}
}

func (p PlayerConfig) Intent() intent.Config {
	return intent.Config{
		Acceleration: p.Acceleration,
		MaxSpeed:     p.MaxSpeed,
		Damping:      p.Damping,
		DashImpulse:  p.DashImpulse,
		DashDuration: p.DashDuration,
		DashCooldown: p.DashCooldown,
		HandOrbit:    p.HandOrbit,
	}
}

// Logger builds the stderr logger used by the CLI.
func (c *Config) Logger() *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "rigidsim",
		ReportTimestamp: true,
		Level:           level,
	})
}
