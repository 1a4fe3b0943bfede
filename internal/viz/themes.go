package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live viewer.
type Theme struct {
	Name    string
	Canvas  lipgloss.Color
	Title   lipgloss.Color
	Accent  lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Muted   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Canvas:  lipgloss.Color("#ff00ff"),
		Title:   lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ffff00"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ff8800"),
		Muted:   lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Canvas:  lipgloss.Color("#00ff00"), // green phosphor
		Title:   lipgloss.Color("#00cc00"),
		Accent:  lipgloss.Color("#88ff88"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Muted:   lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Canvas:  lipgloss.Color("#ffffff"),
		Title:   lipgloss.Color("#cccccc"),
		Accent:  lipgloss.Color("#0088ff"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Muted:   lipgloss.Color("#888888"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns the named theme, or the default for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// CycleTheme switches to the theme after the current one.
func CycleTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}
