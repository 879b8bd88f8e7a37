// Package tui implements the interactive terminal table editor.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCell
	modeAdd
	modeConfirmDelete
	modeColumns
	modeColumnAdd
)

// Options configures a Model.
type Options struct {
	// ExportPath is where the export key writes. Empty means table_data.csv.
	ExportPath string
	// Clipboard receives copied cell text. Nil means the system clipboard.
	Clipboard func(string) error
	Logger    *slog.Logger
}

// Model is the bubbletea model of the table editor.
type Model struct {
	store  *table.Store
	edits  *table.EditSession
	coord  *table.Coordinator
	logger *slog.Logger

	keys   KeyMap
	help   help.Model
	styles Styles
	input  textinput.Model

	exportPath string
	copy       func(string) error

	width, height int
	mode          mode
	page          int
	cx, cy        int // cursor within the visible columns and the page window

	editRow   int    // row id of the open cell input
	editCol   string // column id of the open cell input
	addField  int    // index into the add-row fields
	deleteID  int    // row awaiting delete confirmation
	colCursor int    // cursor in the column manager

	notice string
	err    error
}

// New creates a Model editing store.
func New(store *table.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = dataio.DefaultCSVName
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	in := textinput.New()
	in.CharLimit = 256

	return Model{
		store:      store,
		edits:      table.NewEditSession(store),
		coord:      table.NewCoordinator(store),
		logger:     logger,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		styles:     NewStyles(store.Snapshot().Theme),
		input:      in,
		exportPath: exportPath,
		copy:       copyFn,
	}
}

// Edits returns the model's edit session.
func (m Model) Edits() *table.EditSession { return m.edits }

// Page returns the current page index.
func (m Model) Page() int { return m.page }

// Cursor returns the cursor position as (column, row) within the page.
func (m Model) Cursor() (int, int) { return m.cx, m.cy }

// Notice returns the last status message.
func (m Model) Notice() string { return m.notice }

// Err returns the last error shown to the user.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch m.mode {
		case modeSearch:
			m, cmd = m.updateSearch(msg)
		case modeCell:
			m, cmd = m.updateCell(msg)
		case modeAdd:
			m, cmd = m.updateAdd(msg)
		case modeConfirmDelete:
			m = m.updateConfirmDelete(msg)
		case modeColumns:
			m, cmd = m.updateColumns(msg)
		case modeColumnAdd:
			m, cmd = m.updateColumnAdd(msg)
		default:
			m, cmd = m.updateNormal(msg)
		}
		m.clamp()
		return m, cmd
	}
	return m, nil
}

// view derives the current frame from the committed state.
func (m Model) view() table.View {
	return table.Derive(m.store.Snapshot(), m.page)
}

// clamp keeps the page and cursor inside the current view.
func (m *Model) clamp() {
	v := m.view()
	m.page = v.Page
	m.cx = max(0, min(m.cx, len(v.Columns)-1))
	m.cy = max(0, min(m.cy, len(v.Rows)-1))
}

// current returns the row and column under the cursor.
func (m Model) current(v table.View) (table.Row, table.Column, bool) {
	if m.cy >= len(v.Rows) || m.cx >= len(v.Columns) {
		return table.Row{}, table.Column{}, false
	}
	return v.Rows[m.cy], v.Columns[m.cx], true
}

func (m *Model) setNotice(format string, a ...any) {
	m.notice = fmt.Sprintf(format, a...)
	m.err = nil
}

func (m *Model) setErr(err error) {
	m.err = err
	m.notice = ""
}

func (m *Model) openInput(prompt, value string) tea.Cmd {
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	v := m.view()
	row, col, ok := m.current(v)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.cy--
	case key.Matches(msg, m.keys.Down):
		m.cy++
	case key.Matches(msg, m.keys.Left):
		m.cx--
	case key.Matches(msg, m.keys.Right):
		m.cx++
	case key.Matches(msg, m.keys.NextPage):
		m.page++
		m.cy = 0
	case key.Matches(msg, m.keys.PrevPage):
		m.page--
		m.cy = 0
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.openInput("/ ", v.Search)

	case key.Matches(msg, m.keys.Edit):
		if ok {
			m.edits.StartEdit(row.ID)
		}
	case key.Matches(msg, m.keys.EditCell):
		if !ok {
			break
		}
		m.edits.StartEdit(row.ID)
		m.editRow, m.editCol = row.ID, col.ID
		m.mode = modeCell
		return m, m.openInput(col.Label+": ", m.edits.Draft(row.ID)[col.ID])
	case key.Matches(msg, m.keys.SaveRow):
		if ok && m.edits.IsEditing(row.ID) {
			m.edits.SaveRow(row.ID)
			m.setNotice("Saved row %d", row.ID)
		}
	case key.Matches(msg, m.keys.SaveAll):
		if n := len(m.edits.EditingIDs()); n > 0 {
			m.edits.SaveAll()
			m.setNotice("Saved %d row(s)", n)
		}
	case key.Matches(msg, m.keys.CancelRow):
		if ok && m.edits.IsEditing(row.ID) {
			m.edits.CancelRow(row.ID)
			m.setNotice("Discarded edits of row %d", row.ID)
		}
	case key.Matches(msg, m.keys.CancelAll):
		if len(m.edits.EditingIDs()) > 0 {
			m.edits.CancelAll()
			m.setNotice("Discarded all edits")
		}

	case key.Matches(msg, m.keys.AddRow):
		m.edits.StartAdd()
		m.addField = 0
		m.mode = modeAdd
		return m, m.openAddField()
	case key.Matches(msg, m.keys.DeleteRow):
		if ok {
			m.deleteID = row.ID
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Columns):
		m.colCursor = 0
		m.mode = modeColumns

	case key.Matches(msg, m.keys.MoveUp):
		if ok && m.coord.MoveRow(row.ID, -1, v.Rows).Applied() {
			m.cy--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if ok && m.coord.MoveRow(row.ID, 1, v.Rows).Applied() {
			m.cy++
		}
	case key.Matches(msg, m.keys.MoveLeft):
		if ok && m.coord.MoveColumn(col.ID, -1).Applied() {
			m.cx--
		}
	case key.Matches(msg, m.keys.MoveRight):
		if ok && m.coord.MoveColumn(col.ID, 1).Applied() {
			m.cx++
		}

	case key.Matches(msg, m.keys.Theme):
		next := v.Theme.Toggle()
		m.store.SetThemeMode(next)
		m.styles = NewStyles(next)
	case key.Matches(msg, m.keys.Export):
		snap := m.store.Snapshot()
		if err := dataio.WriteFile(m.exportPath, snap.Rows, snap.Columns); err != nil {
			m.setErr(err)
			break
		}
		m.logger.Info("exported rows", "file", m.exportPath, "rows", len(snap.Rows))
		m.setNotice("Exported %d row(s) to %s", len(snap.Rows), m.exportPath)
	case key.Matches(msg, m.keys.Copy):
		if !ok {
			break
		}
		if err := m.copy(row.Text(col.ID)); err != nil {
			m.setErr(fmt.Errorf("failed to copy cell: %w", err))
			break
		}
		m.setNotice("Copied %s of row %d", col.Label, row.ID)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.store.Snapshot().Search {
		m.store.SetSearch(m.input.Value())
		m.cy = 0
	}
	return m, cmd
}

func (m Model) updateCell(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.mode = modeNormal
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.edits.ChangeCell(m.editRow, m.editCol, m.input.Value())
		m.input.Blur()
		m.mode = modeNormal
		return m, nil
	case msg.String() == "tab":
		m.edits.ChangeCell(m.editRow, m.editCol, m.input.Value())
		cols := m.view().Columns
		i := slices.IndexFunc(cols, func(c table.Column) bool { return c.ID == m.editCol })
		if i < 0 || i+1 >= len(cols) {
			m.input.Blur()
			m.mode = modeNormal
			return m, nil
		}
		m.cx = i + 1
		m.editCol = cols[i+1].ID
		return m, m.openInput(cols[i+1].Label+": ", m.edits.Draft(m.editRow)[m.editCol])
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openAddField() tea.Cmd {
	fields := m.edits.NewRowFields()
	if len(fields) == 0 {
		m.input.Blur()
		return nil
	}
	m.addField = max(0, min(m.addField, len(fields)-1))
	id := fields[m.addField]
	return m.openInput(m.columnLabel(id)+": ", m.edits.NewRowDraft()[id])
}

func (m Model) columnLabel(id string) string {
	for _, c := range m.store.Snapshot().Columns {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

func (m Model) updateAdd(msg tea.KeyMsg) (Model, tea.Cmd) {
	fields := m.edits.NewRowFields()
	storeField := func() {
		if m.addField < len(fields) {
			m.edits.ChangeNewCell(fields[m.addField], m.input.Value())
		}
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.edits.CancelAdd()
		m.input.Blur()
		m.mode = modeNormal
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		storeField()
		m.addField++
		return m, m.openAddField()
	case key.Matches(msg, m.keys.PrevField):
		storeField()
		m.addField--
		return m, m.openAddField()
	case key.Matches(msg, m.keys.Confirm):
		storeField()
		row, err := m.edits.CommitAdd()
		if err != nil {
			var verr *table.ValidationError
			if errors.As(err, &verr) {
				// Focus the first blank field.
				m.addField = max(0, slices.Index(fields, verr.Fields[0]))
			}
			m.setErr(err)
			return m, m.openAddField()
		}
		m.input.Blur()
		m.mode = modeNormal
		m.setNotice("Added row %d", row.ID)
		v := m.view()
		m.page = v.Pages - 1
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) Model {
	id := m.deleteID
	m.deleteID = 0
	m.mode = modeNormal
	if !key.Matches(msg, m.keys.ConfirmYes) {
		m.setNotice("Delete cancelled")
		return m
	}
	m.store.DeleteRow(id)
	m.edits.CancelRow(id)
	m.setNotice("Deleted row %d", id)
	return m
}

func (m Model) updateColumns(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.store.Snapshot().Columns
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Columns), key.Matches(msg, m.keys.Quit):
		m.mode = modeNormal
	case key.Matches(msg, m.keys.Up):
		m.colCursor = max(0, m.colCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.colCursor = min(len(cols)-1, m.colCursor+1)
	case key.Matches(msg, m.keys.Toggle):
		if m.colCursor < len(cols) {
			m.store.ToggleColumnVisibility(cols[m.colCursor].ID)
		}
	case key.Matches(msg, m.keys.MoveLeft), key.Matches(msg, m.keys.MoveRight):
		if m.colCursor >= len(cols) {
			break
		}
		delta := 1
		if key.Matches(msg, m.keys.MoveLeft) {
			delta = -1
		}
		id := cols[m.colCursor].ID
		if m.coord.MoveColumn(id, delta).Applied() {
			next := m.store.Snapshot().Columns
			m.colCursor = slices.IndexFunc(next, func(c table.Column) bool { return c.ID == id })
		}
	case key.Matches(msg, m.keys.AddColumn):
		m.mode = modeColumnAdd
		return m, m.openInput("New column: ", "")
	}
	return m, nil
}

func (m Model) updateColumnAdd(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.mode = modeColumns
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		label := trimmed(m.input.Value())
		m.input.Blur()
		m.mode = modeColumns
		if label == "" {
			return m, nil
		}
		m.store.AddColumn(label)
		m.colCursor = len(m.store.Snapshot().Columns) - 1
		m.setNotice("Added column %s", label)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
