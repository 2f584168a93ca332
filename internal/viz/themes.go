package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendulab/internal/scene"
)

// Theme pairs scene colors with the sidebar palette.
type Theme struct {
	Name    string
	Scene   scene.Style
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:    "classic",
		Scene:   scene.DefaultStyle,
		Primary: lipgloss.Color("#0066cc"),
		Accent:  lipgloss.Color("#cc3333"),
		Text:    lipgloss.Color("#333333"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ff8800"),
	}

	ThemeNight = Theme{
		Name: "night",
		Scene: scene.Style{
			Background: "#000000",
			Axis:       "#8888aa",
			PlotFill:   "#0a0a14",
			Trace:      "#00ccff",
			Rod:        "#cccccc",
			Bob:        "#ff4466",
			Marker:     "#ffcc00",
			Text:       "#aaaacc",
		},
		Primary: lipgloss.Color("#00ccff"),
		Accent:  lipgloss.Color("#ff4466"),
		Text:    lipgloss.Color("#e0e0f0"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name: "retro",
		Scene: scene.Style{
			Background: "#001100",
			Axis:       "#00aa00",
			PlotFill:   "#001a00",
			Trace:      "#00ff00",
			Rod:        "#88ff88",
			Bob:        "#88ff88",
			Marker:     "#ffff00",
			Text:       "#00cc00",
		},
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	// All available themes
	Themes = []Theme{
		ThemeNight,
		ThemeClassic,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, or the night theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// NextTheme returns the theme after name in [Themes], wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
