package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/intent"
	"github.com/san-kum/rigidsim/internal/scene"
)

func arenaOptions() Options {
	cfg := engine.DefaultConfig()
	return Options{
		Load: func() (*scene.Level, error) {
			return scene.Build(scene.GetPreset("arena"), cfg)
		},
		Engine: cfg,
		Player: intent.DefaultConfig(),
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelTick(t *testing.T) {
	m, err := NewModel(arenaOptions())
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, TickMsg(time.Now()), TickMsg(time.Now()))
	if m.eng.Frame() != 2 {
		t.Errorf("expected 2 frames, got %d", m.eng.Frame())
	}

	m = send(t, m, key("p"), TickMsg(time.Now()))
	if m.eng.Frame() != 2 {
		t.Errorf("paused model advanced to frame %d", m.eng.Frame())
	}
}

func TestModelMove(t *testing.T) {
	m, err := NewModel(arenaOptions())
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, key("d"), TickMsg(time.Now()))
	pb := m.level.World.Body(m.level.Player)
	if pb.Velocity.X() <= 0 {
		t.Errorf("expected rightward velocity, got %v", pb.Velocity)
	}
	if m.moveTTL != moveHoldFrames-1 {
		t.Errorf("expected hold to count down, got %d", m.moveTTL)
	}
}

func TestModelGrabToggleAndReload(t *testing.T) {
	m, err := NewModel(arenaOptions())
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, key("g"))
	if !m.grab {
		t.Error("expected grab on")
	}
	m = send(t, m, TickMsg(time.Now()), key("r"))
	if m.grab || m.eng.Frame() != 0 {
		t.Errorf("reload should reset grab and frame, got grab=%v frame=%d", m.grab, m.eng.Frame())
	}
}

func TestModelLoadError(t *testing.T) {
	opts := arenaOptions()
	opts.Load = func() (*scene.Level, error) { return nil, scene.ErrUnknownScene }
	if _, err := NewModel(opts); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestModelView(t *testing.T) {
	m, err := NewModel(arenaOptions())
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, TickMsg(time.Now()), TickMsg(time.Now()))
	out := m.View()
	if !strings.Contains(out, "ARENA") || !strings.Contains(out, "RUNNING") {
		t.Errorf("view is missing the header or status:\n%s", out)
	}
}

func TestPickerOpens(t *testing.T) {
	opened := ""
	p := NewPicker([]string{"arena", "pile"}, func(name string) (Model, error) {
		opened = name
		return NewModel(arenaOptions())
	})

	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if opened != "pile" {
		t.Errorf("expected pile to open, got %q", opened)
	}
	if cmd == nil {
		t.Error("expected the live model to start ticking")
	}
	if next.(picker).state != stateLive {
		t.Error("expected live state")
	}
}
