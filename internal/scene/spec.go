// Package scene describes playable arenas in YAML and builds worlds from
// them.
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownScene = errors.New("scene: unknown scene")
	ErrInvalidScene = errors.New("scene: invalid scene")
)

// CrateDensity converts a crate's area to its mass.
const CrateDensity = 0.02

type Spec struct {
	Name   string      `yaml:"name"`
	Width  float64     `yaml:"width"`
	Height float64     `yaml:"height"`
	Border float64     `yaml:"border,omitempty"`
	Player *PlayerSpec `yaml:"player,omitempty"`
	Crates []CrateSpec `yaml:"crates,omitempty"`
	Bodies []BodySpec  `yaml:"bodies,omitempty"`
}

type PlayerSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CrateSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Side float64 `yaml:"side"`
}

// BodySpec is a free-form body. Shape is "box" (W, H), "polygon" (Sides,
// Radius) or "vertices" (Vertices, local to the centre).
type BodySpec struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Shape    string       `yaml:"shape"`
	W        float64      `yaml:"w,omitempty"`
	H        float64      `yaml:"h,omitempty"`
	Sides    int          `yaml:"sides,omitempty"`
	Radius   float64      `yaml:"radius,omitempty"`
	Vertices [][2]float64 `yaml:"vertices,omitempty"`
	Mass     float64      `yaml:"mass"`
	X        float64      `yaml:"x"`
	Y        float64      `yaml:"y"`
	VX       float64      `yaml:"vx,omitempty"`
	VY       float64      `yaml:"vy,omitempty"`
	Angle    float64      `yaml:"angle,omitempty"`
	Spin     float64      `yaml:"spin,omitempty"`
}

func Parse(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func Save(path string, s *Spec) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve returns the preset called name, or loads name as a file.
func Resolve(name string) (*Spec, error) {
	if s := GetPreset(name); s != nil {
		return s, nil
	}
	if _, err := os.Stat(name); err == nil {
		return Load(name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
}

func (s *Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size must be positive, got %gx%g", ErrInvalidScene, s.Width, s.Height)
	}
	if s.Border < 0 {
		return fmt.Errorf("%w: border must be non-negative", ErrInvalidScene)
	}
	for i, c := range s.Crates {
		if c.Side <= 0 {
			return fmt.Errorf("%w: crate %d side must be positive", ErrInvalidScene, i)
		}
	}
	for i, b := range s.Bodies {
		switch b.Shape {
		case "box", "":
			if b.W <= 0 || b.H <= 0 {
				return fmt.Errorf("%w: body %d box size must be positive", ErrInvalidScene, i)
			}
		case "polygon":
			if b.Radius <= 0 {
				return fmt.Errorf("%w: body %d radius must be positive", ErrInvalidScene, i)
			}
		case "vertices":
		default:
			return fmt.Errorf("%w: body %d unknown shape %q", ErrInvalidScene, i, b.Shape)
		}
	}
	return nil
}
