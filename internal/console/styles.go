package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor = lipgloss.Color("#4ECDC4")
	SuccessColor = lipgloss.Color("#7BD389")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")
)

// Icons.
const (
	SuccessIcon = "✓"
	WarningIcon = "⚠"
	ErrorIcon   = "✗"
)

// Styles are bound to the renderer of one writer, so output to a file or a
// test buffer carries no escape sequences.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Subtle  lipgloss.Style
	Bold    lipgloss.Style
}

func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(PrimaryColor),
		Success: r.NewStyle().Foreground(SuccessColor),
		Warning: r.NewStyle().Foreground(WarningColor),
		Error:   r.NewStyle().Bold(true).Foreground(ErrorColor),
		Subtle:  r.NewStyle().Foreground(SubtleColor),
		Bold:    r.NewStyle().Bold(true),
	}
}
