package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/engine"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/intent"
	"github.com/san-kum/rigidsim/internal/scene"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300

	// Terminals send key repeats but no key releases, so a movement key
	// stays held for this many frames after its last repeat.
	moveHoldFrames = 8
	aimDistance    = 100.0
)

type TickMsg time.Time

type sceneChangedMsg string

type watchErrMsg struct{ err error }

// Options configures a live viewer.
type Options struct {
	Title     string
	Load      func() (*scene.Level, error)
	Engine    engine.Config
	Player    intent.Config
	Observers []engine.Observer
	// WatchPath, when set, reloads the level whenever the file changes.
	WatchPath string
	FPS       int
}

// Model steps a level at a fixed rate and renders it on a braille canvas.
type Model struct {
	opts    Options
	level   *scene.Level
	eng     *engine.Engine
	player  *intent.Player
	watcher *Watcher

	dt       float64
	t        float64
	running  bool
	moveDir  geom.Vec2
	moveTTL  int
	aim      geom.Vec2
	dash     bool
	grab     bool
	status   intent.Status
	stats    engine.FrameStats
	hits     int
	energy   []float64
	canvas   *Canvas
	viewport Viewport
	err      error
}

func NewModel(opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	m := Model{
		opts:    opts,
		dt:      1 / float64(opts.FPS),
		running: true,
		aim:     geom.V(1, 0),
		canvas:  NewCanvas(width, height),
		energy:  make([]float64, 0, historyCapacity),
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	if opts.WatchPath != "" {
		w, err := NewWatcher(opts.WatchPath)
		if err != nil {
			return Model{}, err
		}
		m.watcher = w
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForChange(w *Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return sceneChangedMsg(path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err}
		}
	}
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return tea.Batch(m.tick(), waitForChange(m.watcher))
	}
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.watcher != nil {
				_ = m.watcher.Close()
			}
			return m, tea.Quit
		case "p":
			m.running = !m.running
		case "r":
			m.err = m.reload()
		case "t":
			CycleTheme()
		case "w":
			m.hold(geom.V(0, -1))
		case "s":
			m.hold(geom.V(0, 1))
		case "a":
			m.hold(geom.V(-1, 0))
		case "d":
			m.hold(geom.V(1, 0))
		case "up":
			m.aim = geom.V(0, -1)
		case "down":
			m.aim = geom.V(0, 1)
		case "left":
			m.aim = geom.V(-1, 0)
		case "right":
			m.aim = geom.V(1, 0)
		case " ":
			m.dash = true
		case "g":
			m.grab = !m.grab
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	case sceneChangedMsg:
		m.err = m.reload()
		return m, waitForChange(m.watcher)
	case watchErrMsg:
		m.err = msg.err
		return m, waitForChange(m.watcher)
	}
	return m, nil
}

func (m *Model) hold(dir geom.Vec2) {
	if m.moveTTL > 0 {
		m.moveDir = m.moveDir.Add(dir)
		m.moveDir = geom.V(clampAxis(m.moveDir.X()), clampAxis(m.moveDir.Y()))
	} else {
		m.moveDir = dir
	}
	m.moveTTL = moveHoldFrames
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func (m *Model) input() intent.Input {
	in := intent.Input{Dash: m.dash, Grab: m.grab}
	if m.moveTTL > 0 {
		in.Move = m.moveDir
		m.moveTTL--
	}
	if pb := m.level.World.Body(m.level.Player); pb != nil {
		in.Aim = pb.Position.Add(m.aim.Scale(aimDistance))
	}
	m.dash = false
	return in
}

// step advances the level by one frame.
func (m *Model) step() {
	w := m.level.World
	if m.player != nil {
		m.status = m.player.Update(m.eng, w, m.input(), m.dt)
	}
	m.stats = m.eng.Advance(w, m.dt)
	m.hits += m.stats.Collisions
	m.t += m.dt

	ke := 0.0
	for _, b := range w.Bodies() {
		ke += b.KineticEnergy()
	}
	m.energy = append(m.energy, ke)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

// reload rebuilds the level and resets the clock. On failure the current
// level keeps running.
func (m *Model) reload() error {
	lvl, err := m.opts.Load()
	if err != nil {
		return err
	}
	eng := engine.New(m.opts.Engine)
	for _, o := range m.opts.Observers {
		eng.AddObserver(o)
	}

	m.level, m.eng, m.player = lvl, eng, nil
	if lvl.HasPlayer() {
		m.player = intent.NewPlayer(m.opts.Player, lvl.Player, lvl.Hand)
	}
	m.t, m.hits, m.grab = 0, 0, false
	m.status = intent.Status{}
	m.stats = engine.FrameStats{}
	m.energy = m.energy[:0]

	s := lvl.Spec
	m.viewport = Fit(m.canvas, geom.Zero, geom.V(s.Width, s.Height), s.Border)
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.level.World.Bodies() {
		m.canvas.DrawPolygon(m.viewport, b.WorldVertices())
	}
}

// View renders the canvas and the status panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasColor().Render(m.canvas.String())

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = m.level.Spec.Name
	}
	s.WriteString(headerStyle().Render(strings.ToUpper(title)) + "\n")
	if m.running {
		s.WriteString(statusStyle(true).Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusStyle(false).Render("PAUSED") + "\n\n")
	}

	if varies(m.energy) {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Frame", fmt.Sprintf("%d", m.eng.Frame()))
	row("Substeps", fmt.Sprintf("%d", m.stats.SubSteps))
	row("Collisions", fmt.Sprintf("%d", m.hits))
	if m.stats.Saturated {
		row("Saturated", fmt.Sprintf("%.4fs dropped", m.stats.Remaining))
	}
	if m.player != nil {
		held := "-"
		if m.status.Holding {
			if b := m.level.World.Body(m.status.Target); b != nil {
				held = b.Name
			}
		}
		row("Holding", held)
		grab := "off"
		if m.grab {
			grab = "on"
		}
		row("Grab", grab)
		if m.player.Dashing() {
			row("Dash", "active")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Foreground(CurrentTheme.Muted).Render("\n─────────────────────\nWASD:Move ←↑↓→:Aim\nSP:Dash G:Grab P:Pause\nR:Reload T:Theme Q:Quit"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func varies(xs []float64) bool {
	for _, x := range xs {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// Run opens the viewer in the alternate screen and blocks until it quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
