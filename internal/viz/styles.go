package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are rebuilt whenever the theme changes.
type styles struct {
	canvas  lipgloss.Style
	sidebar lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	failed  lipgloss.Style
}

// Canvas padding; mouse coordinates are shifted by it.
const (
	canvasPadTop  = 1
	canvasPadLeft = 2
)

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(canvasPadTop, canvasPadLeft),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		failed: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
	}
}

// ParamBar renders value against a 0..2*reference gauge.
func ParamBar(value, reference float64, width int) string {
	ratio := 0.0
	if reference > 0 {
		ratio = value / (2 * reference)
	}
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
