package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnIDs(cols []Column) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

func rowIDs(rows []Row) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func namedRows(names ...string) []Row {
	rows := make([]Row, len(names))
	for i, n := range names {
		rows[i] = NewRow(i+1, map[string]Value{"name": String(n)})
	}
	return rows
}

type fakePrefs struct {
	saved []ThemeMode
	err   error
}

func (f *fakePrefs) SetTheme(mode ThemeMode) error {
	f.saved = append(f.saved, mode)
	return f.err
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(Options{})
	st := s.Snapshot()

	assert.Equal(t, []int{1, 2}, rowIDs(st.Rows))
	assert.Equal(t, []string{"name", "email", "age", "role"}, columnIDs(st.Columns))
	assert.Equal(t, ThemeLight, st.Theme)
	assert.Empty(t, st.Search)
	assert.True(t, st.Rows[0].Get("age").IsNumber())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore(Options{})
	st := s.Snapshot()
	st.Rows[0].Fields["name"] = String("Mallory")
	st.Columns[0].Visible = false

	again := s.Snapshot()
	assert.Equal(t, "Alice", again.Rows[0].Text("name"))
	assert.True(t, again.Columns[0].Visible)
}

func TestStore_SetRows(t *testing.T) {
	s := NewStore(Options{})
	rows := namedRows("Zoe")
	s.SetRows(rows)
	rows[0].Fields["name"] = String("changed after call")

	st := s.Snapshot()
	require.Len(t, st.Rows, 1)
	assert.Equal(t, "Zoe", st.Rows[0].Text("name"))
}

func TestStore_AddColumn(t *testing.T) {
	s := NewStore(Options{})
	s.AddColumn("dept")
	s.AddColumn("dept")

	cols := s.Snapshot().Columns
	require.Len(t, cols, 6)
	assert.Equal(t, Column{ID: "dept", Label: "dept", Visible: true}, cols[4])
	assert.Equal(t, cols[4], cols[5], "duplicate labels share a key")
}

func TestStore_ToggleColumnVisibility(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	assert.False(t, s.Snapshot().Columns[1].Visible)

	s.ToggleColumnVisibility("email")
	assert.True(t, s.Snapshot().Columns[1].Visible)

	before := s.Snapshot()
	s.ToggleColumnVisibility("missing")
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_SetSearchVerbatim(t *testing.T) {
	s := NewStore(Options{})
	s.SetSearch("  Al*  ")
	assert.Equal(t, "  Al*  ", s.Snapshot().Search)
}

func TestStore_UpdateRow(t *testing.T) {
	s := NewStore(Options{})
	s.UpdateRow(NewRow(2, map[string]Value{"name": String("Robert")}))

	st := s.Snapshot()
	assert.Equal(t, "Robert", st.Rows[1].Text("name"))
	assert.Empty(t, st.Rows[1].Text("email"), "update replaces the whole row")

	s.UpdateRow(NewRow(99, map[string]Value{"name": String("ghost")}))
	assert.Equal(t, []int{1, 2}, rowIDs(s.Snapshot().Rows))
}

func TestStore_DeleteRowIdempotent(t *testing.T) {
	s := NewStore(Options{})
	s.DeleteRow(1)
	after := s.Snapshot()
	s.DeleteRow(1)

	assert.Equal(t, []int{2}, rowIDs(after.Rows))
	assert.Equal(t, after, s.Snapshot())
}

func TestStore_ReorderColumns(t *testing.T) {
	tests := []struct {
		name     string
		hide     []string
		from, to int
		want     []string
	}{
		{
			name: "move first to last",
			from: 0, to: 3,
			want: []string{"email", "age", "role", "name"},
		},
		{
			name: "move last to first",
			from: 3, to: 0,
			want: []string{"role", "name", "email", "age"},
		},
		{
			name: "hidden columns trail",
			hide: []string{"email"},
			from: 0, to: 1,
			want: []string{"age", "name", "role", "email"},
		},
		{
			name: "hidden columns keep relative order",
			hide: []string{"name", "age"},
			from: 1, to: 0,
			want: []string{"role", "email", "name", "age"},
		},
		{
			name: "out of range is a no-op",
			from: 0, to: 4,
			want: []string{"name", "email", "age", "role"},
		},
		{
			name: "negative index is a no-op",
			from: -1, to: 2,
			want: []string{"name", "email", "age", "role"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(Options{})
			for _, id := range tt.hide {
				s.ToggleColumnVisibility(id)
			}
			s.ReorderColumns(tt.from, tt.to)
			assert.Equal(t, tt.want, columnIDs(s.Snapshot().Columns))
		})
	}
}

func TestStore_ReorderColumnsInverse(t *testing.T) {
	for from := 0; from < 4; from++ {
		for to := 0; to < 4; to++ {
			s := NewStore(Options{})
			before := columnIDs(s.Snapshot().Columns)
			s.ReorderColumns(from, to)
			s.ReorderColumns(to, from)
			assert.Equal(t, before, columnIDs(s.Snapshot().Columns), "from=%d to=%d", from, to)
		}
	}
}

func TestStore_ColumnCountInvariant(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("age")
	s.ReorderColumns(0, 2)
	s.ToggleColumnVisibility("name")
	s.ReorderColumns(1, 0)
	s.ToggleColumnVisibility("age")

	cols := s.Snapshot().Columns
	assert.Len(t, cols, 4)
	assert.ElementsMatch(t, []string{"name", "email", "age", "role"}, columnIDs(cols))

	s.AddColumn("team")
	assert.Len(t, s.Snapshot().Columns, 5)
}

func TestStore_ReorderRows(t *testing.T) {
	s := NewStore(Options{Rows: namedRows("a", "b", "c", "d")})

	s.ReorderRows(0, 2)
	assert.Equal(t, []int{2, 3, 1, 4}, rowIDs(s.Snapshot().Rows))

	s.ReorderRows(3, 0)
	assert.Equal(t, []int{4, 2, 3, 1}, rowIDs(s.Snapshot().Rows))

	s.ReorderRows(0, 4)
	s.ReorderRows(-1, 0)
	assert.Equal(t, []int{4, 2, 3, 1}, rowIDs(s.Snapshot().Rows))
}

func TestStore_SetThemeModePersists(t *testing.T) {
	prefs := &fakePrefs{}
	s := NewStore(Options{Prefs: prefs})

	s.SetThemeMode(ThemeDark)
	assert.Equal(t, ThemeDark, s.Snapshot().Theme)
	assert.Equal(t, []ThemeMode{ThemeDark}, prefs.saved)
}

func TestStore_SetThemeModePersistFailureKeepsState(t *testing.T) {
	prefs := &fakePrefs{err: errors.New("disk full")}
	s := NewStore(Options{Prefs: prefs})

	s.SetThemeMode(ThemeDark)
	assert.Equal(t, ThemeDark, s.Snapshot().Theme)
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore(Options{})
	var seen []int
	s.Subscribe(func(st State) { seen = append(seen, len(st.Rows)) })

	s.DeleteRow(1)
	s.DeleteRow(1) // no-op, no notification
	s.SetRows(nil)

	assert.Equal(t, []int{1, 0}, seen)
}
