package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// Styles holds the lipgloss styles of one theme.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Cursor   lipgloss.Style
	Editing  lipgloss.Style
	Input    lipgloss.Style
	Dim      lipgloss.Style
	Status   lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style
	Dialog   lipgloss.Style
	Selected lipgloss.Style
}

type palette struct {
	fg, accent, dim, header, cursor, editing, err, notice lipgloss.Color
}

var palettes = map[table.ThemeMode]palette{
	table.ThemeLight: {
		fg: "235", accent: "25", dim: "245", header: "252",
		cursor: "153", editing: "229", err: "160", notice: "28",
	},
	table.ThemeDark: {
		fg: "252", accent: "75", dim: "242", header: "238",
		cursor: "24", editing: "58", err: "203", notice: "114",
	},
}

// NewStyles returns the styles for a theme mode. Unknown modes are light.
func NewStyles(mode table.ThemeMode) Styles {
	p, ok := palettes[mode]
	if !ok {
		p = palettes[table.ThemeLight]
	}
	base := lipgloss.NewStyle().Foreground(p.fg)
	return Styles{
		Title:    base.Bold(true).Foreground(p.accent),
		Header:   base.Bold(true).Background(p.header),
		Cell:     base,
		Cursor:   base.Background(p.cursor),
		Editing:  base.Background(p.editing),
		Input:    base.Underline(true),
		Dim:      lipgloss.NewStyle().Foreground(p.dim),
		Status:   lipgloss.NewStyle().Foreground(p.accent),
		Notice:   lipgloss.NewStyle().Foreground(p.notice),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(p.err),
		Dialog:   base.Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		Selected: base.Bold(true).Foreground(p.accent),
	}
}
