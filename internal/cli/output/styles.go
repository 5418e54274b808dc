package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Link    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Status icons, rendered with String().
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSkipped lipgloss.Style
}

// NewStyles builds the styles on the given lipgloss renderer, so that the
// color profile follows the output writer.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"}
	yellow := lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"}
	red := lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}
	blue := lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"}
	gray := lipgloss.AdaptiveColor{Light: "#6e7781", Dark: "#8b949e"}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(blue),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(gray),
		Link:    lr.NewStyle().Foreground(blue).Underline(true),

		Success: lr.NewStyle().Foreground(green),
		Warning: lr.NewStyle().Foreground(yellow),
		Error:   lr.NewStyle().Foreground(red),
		Info:    lr.NewStyle().Foreground(blue),

		StatusSuccess: lr.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(red).SetString("✗"),
		StatusWarning: lr.NewStyle().Foreground(yellow).SetString("!"),
		StatusSkipped: lr.NewStyle().Foreground(gray).SetString("-"),
	}
}
