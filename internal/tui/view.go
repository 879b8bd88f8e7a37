package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

const (
	minColWidth = 4
	maxColWidth = 28
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// View implements tea.Model.
func (m Model) View() string {
	v := m.view()
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("tablemgr"))
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  %d rows · theme %s", v.Total, output.ThemeLabel(v.Theme))))
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString(m.input.View())
	} else if v.Search != "" {
		b.WriteString(m.styles.Dim.Render("search: " + v.Search))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewTable(v))
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(output.PageSummary(v)))
	if ids := m.edits.EditingIDs(); len(ids) > 0 {
		b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  editing %d row(s): ctrl+s save all · C cancel all", len(ids))))
	}
	b.WriteString("\n")

	switch m.mode {
	case modeCell:
		b.WriteString(m.input.View() + "\n")
	case modeAdd:
		b.WriteString(m.viewAddForm())
	case modeConfirmDelete:
		b.WriteString(m.viewConfirmDelete())
	case modeColumns, modeColumnAdd:
		b.WriteString(m.viewColumns())
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: "+m.err.Error()) + "\n")
	} else if m.notice != "" {
		b.WriteString(m.styles.Notice.Render(m.notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTable(v table.View) string {
	if len(v.Columns) == 0 {
		return m.styles.Dim.Render("(no visible columns: press m to manage columns)") + "\n"
	}
	widths := columnWidths(v)
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(pad("#", widths[0])))
	for i, c := range v.Columns {
		b.WriteString(m.styles.Header.Render(pad(c.Label, widths[i+1])))
	}
	b.WriteString("\n")

	if len(v.Rows) == 0 {
		b.WriteString(m.styles.Dim.Render("(no rows)") + "\n")
		return b.String()
	}

	for ri, r := range v.Rows {
		editing := m.edits.IsEditing(r.ID)
		var draft map[string]string
		if editing {
			draft = m.edits.Draft(r.ID)
		}
		marker := strconv.Itoa(r.ID)
		if editing {
			marker += "*"
		}
		b.WriteString(m.styles.Dim.Render(pad(marker, widths[0])))
		for ci, c := range v.Columns {
			text := r.Text(c.ID)
			if editing {
				text = draft[c.ID]
			}
			style := m.styles.Cell
			switch {
			case ri == m.cy && ci == m.cx:
				style = m.styles.Cursor
			case editing:
				style = m.styles.Editing
			}
			b.WriteString(style.Render(pad(text, widths[ci+1])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewAddForm() string {
	draft := m.edits.NewRowDraft()
	var lines []string
	lines = append(lines, m.styles.Selected.Render("Add row")+m.styles.Dim.Render("  tab next · enter commit · esc cancel"))
	for i, id := range m.edits.NewRowFields() {
		if i == m.addField {
			lines = append(lines, m.input.View())
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.columnLabel(id), draft[id]))
	}
	return m.styles.Dialog.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) viewConfirmDelete() string {
	label := strconv.Itoa(m.deleteID)
	for _, r := range m.store.Snapshot().Rows {
		if r.ID == m.deleteID {
			if name := r.Text("name"); name != "" {
				label += " (" + name + ")"
			}
			break
		}
	}
	return m.styles.Dialog.Render("Delete row "+label+"? y/N") + "\n"
}

func (m Model) viewColumns() string {
	lines := []string{
		m.styles.Selected.Render("Columns") + m.styles.Dim.Render("  space show/hide · < > move · a add · esc close"),
	}
	for i, c := range m.store.Snapshot().Columns {
		check := "[x]"
		if !c.Visible {
			check = "[ ]"
		}
		line := fmt.Sprintf("%s %s", check, c.Label)
		if i == m.colCursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if m.mode == modeColumnAdd {
		lines = append(lines, m.input.View())
	}
	return m.styles.Dialog.Render(strings.Join(lines, "\n")) + "\n"
}

// columnWidths sizes the id column and each visible column to its widest cell.
func columnWidths(v table.View) []int {
	widths := make([]int, len(v.Columns)+1)
	widths[0] = 3
	for _, r := range v.Rows {
		widths[0] = max(widths[0], len(strconv.Itoa(r.ID))+2)
	}
	for i, c := range v.Columns {
		w := lipgloss.Width(c.Label)
		for _, r := range v.Rows {
			w = max(w, lipgloss.Width(r.Text(c.ID)))
		}
		widths[i+1] = min(max(w, minColWidth), maxColWidth) + 2
	}
	return widths
}

// pad renders s left aligned in exactly width cells.
func pad(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Inline(true).Render(" " + s)
}
