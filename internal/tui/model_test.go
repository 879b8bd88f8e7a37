package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tablemgr/internal/testutil"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys to m one at a time.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

// typeText feeds each rune of s as a key press.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func newModel(t *testing.T, opts Options) (Model, *table.Store) {
	t.Helper()
	store := table.NewStore(table.Options{Logger: testutil.NewTestLogger(t)})
	opts.Logger = testutil.NewTestLogger(t)
	return New(store, opts), store
}

func TestModel_Navigation(t *testing.T) {
	m, _ := newModel(t, Options{})

	m = press(t, m, "j", "l", "l")
	cx, cy := m.Cursor()
	assert.Equal(t, 2, cx)
	assert.Equal(t, 1, cy)

	m = press(t, m, "j", "j", "l", "l", "l")
	cx, cy = m.Cursor()
	assert.Equal(t, 3, cx, "clamped to the last visible column")
	assert.Equal(t, 1, cy, "clamped to the last row")

	m = press(t, m, "k", "h", "h", "h", "h")
	cx, cy = m.Cursor()
	assert.Equal(t, 0, cx)
	assert.Equal(t, 0, cy)
}

func TestModel_Search(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "/")
	m = typeText(t, m, "bob")
	assert.Equal(t, "bob", store.Snapshot().Search)
	m = press(t, m, "enter")

	v := m.view()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Bob", v.Rows[0].Text("name"))
	assert.Contains(t, m.View(), "search: bob")

	m = press(t, m, "/", "backspace", "backspace", "backspace", "esc")
	assert.Empty(t, store.Snapshot().Search)
	assert.Len(t, m.view().Rows, 2)
}

func TestModel_EditCellAndSave(t *testing.T) {
	m, store := newModel(t, Options{})

	// Open the name cell of Alice, replace the text and commit the cell.
	m = press(t, m, "enter")
	assert.True(t, m.Edits().IsEditing(1))
	m = press(t, m, "backspace", "backspace", "backspace", "backspace", "backspace")
	m = typeText(t, m, "Alicia")
	m = press(t, m, "enter")

	assert.Equal(t, "Alicia", m.Edits().Draft(1)["name"])
	assert.Equal(t, "Alice", store.Snapshot().Rows[0].Text("name"), "not committed until saved")
	assert.Contains(t, m.View(), "editing 1 row(s)")

	m = press(t, m, "s")
	assert.False(t, m.Edits().IsEditing(1))
	assert.Equal(t, "Alicia", store.Snapshot().Rows[0].Text("name"))
	assert.Equal(t, "Saved row 1", m.Notice())
	assert.NotContains(t, m.View(), "editing 1 row(s)")
}

func TestModel_TabAdvancesCell(t *testing.T) {
	m, _ := newModel(t, Options{})

	m = press(t, m, "enter", "tab")
	m = typeText(t, m, "x")
	m = press(t, m, "enter")

	assert.Equal(t, "alice@example.comx", m.Edits().Draft(1)["email"])
	cx, _ := m.Cursor()
	assert.Equal(t, 1, cx)
}

func TestModel_SaveAllAndCancelAll(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "e", "j", "e")
	assert.Equal(t, []int{1, 2}, m.Edits().EditingIDs())
	m = press(t, m, "C")
	assert.Empty(t, m.Edits().EditingIDs())

	m = press(t, m, "l", "l", "enter", "backspace", "backspace")
	m = typeText(t, m, "31")
	m = press(t, m, "enter", "ctrl+s")

	row := store.Snapshot().Rows[1]
	assert.True(t, row.Get("age").IsNumber())
	assert.InDelta(t, 31, row.Get("age").Float(), 0)
	assert.Equal(t, "Saved 1 row(s)", m.Notice())
}

func TestModel_CancelRow(t *testing.T) {
	m, store := newModel(t, Options{})
	m = press(t, m, "enter")
	m = typeText(t, m, "zzz")
	m = press(t, m, "enter", "c")

	assert.False(t, m.Edits().IsEditing(1))
	assert.Equal(t, "Alice", store.Snapshot().Rows[0].Text("name"))
}

func TestModel_AddRow(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "a")
	m = typeText(t, m, "Carol")
	m = press(t, m, "tab")
	m = typeText(t, m, "carol@example.com")
	m = press(t, m, "enter")

	require.Error(t, m.Err())
	assert.True(t, errors.Is(m.Err(), table.ErrBlankField))
	assert.True(t, m.Edits().IsAdding(), "draft kept after failed validation")
	assert.Len(t, store.Snapshot().Rows, 2)

	// Focus moved to the first blank field (age).
	m = typeText(t, m, "44")
	m = press(t, m, "tab")
	m = typeText(t, m, "Lead")
	m = press(t, m, "enter")

	require.NoError(t, m.Err())
	assert.Equal(t, "Added row 3", m.Notice())
	rows := store.Snapshot().Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Carol", rows[2].Text("name"))
	assert.InDelta(t, 44, rows[2].Get("age").Float(), 0)
	assert.Equal(t, "Lead", rows[2].Text("role"))
}

func TestModel_AddRowCancel(t *testing.T) {
	m, store := newModel(t, Options{})
	m = press(t, m, "a")
	m = typeText(t, m, "Nobody")
	m = press(t, m, "esc")

	assert.False(t, m.Edits().IsAdding())
	assert.Len(t, store.Snapshot().Rows, 2)
}

func TestModel_DeleteConfirmation(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "d")
	assert.Contains(t, m.View(), "Delete row 1 (Alice)? y/N")
	m = press(t, m, "n")
	assert.Len(t, store.Snapshot().Rows, 2)
	assert.Equal(t, "Delete cancelled", m.Notice())

	m = press(t, m, "d", "y")
	rows := store.Snapshot().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ID)
}

func TestModel_ColumnManager(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "m", "j", "space")
	assert.False(t, store.Snapshot().Columns[1].Visible, "email hidden")
	assert.Contains(t, m.View(), "[ ] Email")

	// Blank labels are ignored, others trimmed.
	m = press(t, m, "a")
	m = typeText(t, m, "   ")
	m = press(t, m, "enter")
	assert.Len(t, store.Snapshot().Columns, 4)

	m = press(t, m, "a")
	m = typeText(t, m, " Team ")
	m = press(t, m, "enter")
	cols := store.Snapshot().Columns
	require.Len(t, cols, 5)
	assert.Equal(t, table.Column{ID: "Team", Label: "Team", Visible: true}, cols[4])

	m = press(t, m, "esc")
	assert.NotContains(t, m.View(), "[ ] Email")
}

func TestModel_MoveRowAndColumn(t *testing.T) {
	m, store := newModel(t, Options{})

	m = press(t, m, "J")
	assert.Equal(t, 2, store.Snapshot().Rows[0].ID)
	_, cy := m.Cursor()
	assert.Equal(t, 1, cy, "cursor follows the moved row")

	m = press(t, m, ">")
	assert.Equal(t, "email", store.Snapshot().Columns[0].ID)
	cx, _ := m.Cursor()
	assert.Equal(t, 1, cx)

	m = press(t, m, "K", "<")
	snap := store.Snapshot()
	assert.Equal(t, 1, snap.Rows[0].ID)
	assert.Equal(t, "name", snap.Columns[0].ID)
}

func TestModel_Pagination(t *testing.T) {
	m, store := newModel(t, Options{})
	rows := make([]table.Row, 0, 23)
	for i := 1; i <= 23; i++ {
		rows = append(rows, table.NewRow(i, map[string]table.Value{"name": table.String(fmt.Sprintf("u%d", i))}))
	}
	store.SetRows(rows)

	m = press(t, m, "n", "n", "n")
	assert.Equal(t, 2, m.Page(), "clamped to the last page")
	assert.Contains(t, m.View(), "Showing 21–23 of 23")

	m = press(t, m, "p")
	assert.Equal(t, 1, m.Page())
}

type themeRecorder struct{ modes []table.ThemeMode }

func (r *themeRecorder) SetTheme(mode table.ThemeMode) error {
	r.modes = append(r.modes, mode)
	return nil
}

func TestModel_ThemeToggle(t *testing.T) {
	rec := &themeRecorder{}
	store := table.NewStore(table.Options{Prefs: rec})
	m := New(store, Options{})

	m = press(t, m, "t")
	assert.Equal(t, table.ThemeDark, store.Snapshot().Theme)
	assert.Contains(t, m.View(), "theme Dark")
	m = press(t, m, "t")
	assert.Equal(t, []table.ThemeMode{table.ThemeDark, table.ThemeLight}, rec.modes)
}

func TestModel_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	m, _ := newModel(t, Options{ExportPath: path})

	m = press(t, m, "E")
	require.NoError(t, m.Err())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name,email,age,role\n1,Alice,alice@example.com,25,Developer\n2,Bob,bob@example.com,30,Designer\n", string(data))
}

func TestModel_CopyCell(t *testing.T) {
	var copied string
	m, _ := newModel(t, Options{Clipboard: func(s string) error { copied = s; return nil }})

	m = press(t, m, "l", "y")
	assert.Equal(t, "alice@example.com", copied)
	assert.Equal(t, "Copied Email of row 1", m.Notice())

	m, _ = newModel(t, Options{Clipboard: func(string) error { return errors.New("no clipboard") }})
	m = press(t, m, "y")
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "failed to copy cell")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, Options{})
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// q is text while searching.
	m = press(t, m, "/", "q")
	assert.Equal(t, "q", m.view().Search)
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newModel(t, Options{})
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, next.(Model).width)
}
