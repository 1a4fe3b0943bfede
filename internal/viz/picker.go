package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	stateMenu = iota
	stateLive
)

// picker lists scenes and hands the chosen one to a live Model.
type picker struct {
	state  int
	cursor int
	scenes []string
	open   func(name string) (Model, error)
	live   Model
	err    error
}

func NewPicker(scenes []string, open func(name string) (Model, error)) tea.Model {
	return picker{scenes: scenes, open: open}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			if p.live.watcher != nil {
				_ = p.live.watcher.Close()
			}
			p.state = stateMenu
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.scenes)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.scenes) == 0 {
			return p, nil
		}
		live, err := p.open(p.scenes[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.err, p.state = live, nil, stateLive
		return p, p.live.Init()
	}
	return p, nil
}

func (p picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}

	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Title).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	cur := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	b.WriteString("\n\n    " + h.Render("RIGIDSIM") + "\n    " + sub.Render("2d rigid body sandbox") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range p.scenes {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s\n", cur.Render("▸"), lipgloss.NewStyle().Bold(true).Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", sub.Render(name)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + errorStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + cur.Render("j/k") + sub.Render(" navigate  ") + cur.Render("enter") + sub.Render(" open  ") + cur.Render("esc") + sub.Render(" back  ") + cur.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunPicker opens the scene menu in the alternate screen.
func RunPicker(scenes []string, open func(name string) (Model, error)) error {
	_, err := tea.NewProgram(NewPicker(scenes, open), tea.WithAltScreen()).Run()
	return err
}
