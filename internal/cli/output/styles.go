package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds lipgloss styles for text-mode output.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds styles bound to w so colour support is detected per writer.
func NewStyles(w io.Writer) *Styles {
	lr := lipgloss.NewRenderer(w)
	return &Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Key:     lr.NewStyle().Bold(true),
	}
}

// plainStyles renders every style as unadorned text.
func plainStyles() *Styles {
	s := lipgloss.NewStyle()
	return &Styles{Header: s, Success: s, Warning: s, Error: s, Muted: s, Key: s}
}
