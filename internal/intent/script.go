package intent

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/san-kum/rigidsim/internal/geom"
)

var scriptInputs = []string{"t", "frame", "px", "py", "holding"}

var scriptOutputs = map[string]any{
	"move_x": 0.0,
	"move_y": 0.0,
	"aim_x":  0.0,
	"aim_y":  0.0,
	"dash":   false,
	"grab":   false,
}

// ScriptSource runs a tengo script once per frame. The script reads t,
// frame, px, py and holding and assigns move_x, move_y, aim_x, aim_y, dash
// and grab. Aim is relative to the player; a zero aim points right.
type ScriptSource struct {
	compiled *tengo.Compiled
}

func LoadScript(path string) (*ScriptSource, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewScriptSource(src)
}

func NewScriptSource(src []byte) (*ScriptSource, error) {
	script := tengo.NewScript(src)
	mustAdd(script, "t", 0.0)
	mustAdd(script, "frame", 0)
	mustAdd(script, "px", 0.0)
	mustAdd(script, "py", 0.0)
	mustAdd(script, "holding", false)
	for name, v := range scriptOutputs {
		mustAdd(script, name, v)
	}
	script.SetImports(stdlib.GetModuleMap("math", "rand"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("intent: compile script: %w", err)
	}
	return &ScriptSource{compiled: compiled}, nil
}

// mustAdd declares a script variable. Add only fails on value types tengo
// cannot convert, and every value declared here is a float, int or bool.
func mustAdd(script *tengo.Script, name string, value any) {
	if err := script.Add(name, value); err != nil {
		panic(fmt.Sprintf("intent: declare %s: %v", name, err))
	}
}

// Next runs the script for one frame. Runtime panics inside the VM, such as
// integer division by zero, are returned as errors.
func (s *ScriptSource) Next(v View) (Input, error) {
	inputs := map[string]any{
		"t":       v.Time,
		"frame":   v.Frame,
		"px":      v.Player.X(),
		"py":      v.Player.Y(),
		"holding": v.Holding,
	}
	for _, name := range scriptInputs {
		if err := s.compiled.Set(name, inputs[name]); err != nil {
			return Input{}, err
		}
	}
	for name, def := range scriptOutputs {
		if err := s.compiled.Set(name, def); err != nil {
			return Input{}, err
		}
	}

	if err := s.run(v.Frame); err != nil {
		return Input{}, err
	}

	aim := geom.V(s.compiled.Get("aim_x").Float(), s.compiled.Get("aim_y").Float())
	if aim.IsZero() {
		aim = geom.V(1, 0)
	}
	return Input{
		Move: geom.V(clampUnit(s.compiled.Get("move_x").Float()), clampUnit(s.compiled.Get("move_y").Float())),
		Aim:  v.Player.Add(aim),
		Dash: s.compiled.Get("dash").Bool(),
		Grab: s.compiled.Get("grab").Bool(),
	}, nil
}

func (s *ScriptSource) run(frame int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("intent: script frame %d: %v", frame, r)
		}
	}()
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("intent: script frame %d: %w", frame, err)
	}
	return nil
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
