package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_StartEditSeedsVisibleColumns(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	e := NewEditSession(s)

	e.StartEdit(1)

	assert.True(t, e.IsEditing(1))
	assert.Equal(t, Editing, e.Mode(1))
	assert.Equal(t, map[string]string{"name": "Alice", "age": "25", "role": "Developer"}, e.Draft(1))
	assert.Equal(t, Viewing, e.Mode(2))
	assert.Nil(t, e.Draft(2))
}

func TestEditSession_StartEditUnknownRow(t *testing.T) {
	e := NewEditSession(NewStore(Options{}))
	e.StartEdit(42)
	assert.False(t, e.IsEditing(42))
	assert.Empty(t, e.EditingIDs())
}

func TestEditSession_StartEditKeepsExistingDraft(t *testing.T) {
	e := NewEditSession(NewStore(Options{}))
	e.StartEdit(1)
	e.ChangeCell(1, "name", "Alicia")
	e.StartEdit(1)
	assert.Equal(t, "Alicia", e.Draft(1)["name"])
}

func TestEditSession_ChangeCellDoesNotCommit(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)

	e.ChangeCell(1, "name", "ignored") // not editing
	assert.Nil(t, e.Draft(1))

	e.StartEdit(1)
	e.ChangeCell(1, "name", "Alicia")
	assert.Equal(t, "Alice", s.Snapshot().Rows[0].Text("name"))
}

func TestEditSession_SaveRowMergesDraft(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	e := NewEditSession(s)

	e.StartEdit(1)
	e.ChangeCell(1, "name", "Alicia")
	e.ChangeCell(1, "age", "26")
	e.SaveRow(1)

	row := s.Snapshot().Rows[0]
	assert.Equal(t, "Alicia", row.Text("name"))
	assert.Equal(t, Number(26), row.Get("age"))
	assert.Equal(t, "alice@example.com", row.Text("email"), "hidden column preserved")
	assert.False(t, e.IsEditing(1))
}

func TestEditSession_HiddenAndUnknownColumnsNotEditable(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	e := NewEditSession(s)

	e.StartEdit(1)
	assert.False(t, e.ChangeCell(1, "email", "hacked@example.com"))
	assert.False(t, e.ChangeCell(1, "bogus", "zzz"))
	assert.True(t, e.ChangeCell(1, "name", "Alicia"))
	e.SaveRow(1)

	row := s.Snapshot().Rows[0]
	assert.Equal(t, "alice@example.com", row.Text("email"))
	assert.Equal(t, "Alicia", row.Text("name"))
	assert.NotContains(t, row.Fields, "bogus")

	e.StartEdit(2)
	e.ChangeCell(2, "email", "hacked@example.com")
	e.SaveAll()
	assert.Equal(t, "bob@example.com", s.Snapshot().Rows[1].Text("email"))
}

func TestEditSession_CancelRow(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)
	before := s.Snapshot()

	e.StartEdit(2)
	e.ChangeCell(2, "role", "Manager")
	e.CancelRow(2)

	assert.False(t, e.IsEditing(2))
	assert.Nil(t, e.Draft(2))
	assert.Equal(t, before, s.Snapshot())
}

func TestEditSession_SaveAllSingleTransition(t *testing.T) {
	rows := append(DefaultRows(), NewRow(3, map[string]Value{
		"name": String("Cara"), "email": String("cara@example.com"),
		"age": Number(41), "role": String("Lead"),
	}))
	s := NewStore(Options{Rows: rows})
	e := NewEditSession(s)
	before := s.Snapshot()

	transitions := 0
	s.Subscribe(func(State) { transitions++ })

	e.StartEdit(1)
	e.StartEdit(3)
	e.ChangeCell(1, "name", "A.")
	e.ChangeCell(3, "role", "Director")
	e.SaveAll()

	after := s.Snapshot()
	assert.Equal(t, 1, transitions)
	assert.Equal(t, "A.", after.Rows[0].Text("name"))
	assert.Equal(t, "alice@example.com", after.Rows[0].Text("email"))
	assert.Equal(t, "Director", after.Rows[2].Text("role"))
	assert.Equal(t, before.Rows[1], after.Rows[1], "non-edited row is untouched")
	assert.Empty(t, e.EditingIDs())
}

func TestEditSession_SaveAllNothingPending(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)
	called := false
	s.Subscribe(func(State) { called = true })

	e.SaveAll()
	assert.False(t, called)
}

func TestEditSession_CancelAll(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)
	before := s.Snapshot()

	e.StartEdit(1)
	e.StartEdit(2)
	e.ChangeCell(1, "name", "x")
	e.CancelAll()

	assert.Empty(t, e.EditingIDs())
	assert.Equal(t, before, s.Snapshot())
}

func TestEditSession_EditingIDsSorted(t *testing.T) {
	e := NewEditSession(NewStore(Options{Rows: namedRows("a", "b", "c")}))
	e.StartEdit(3)
	e.StartEdit(1)
	assert.Equal(t, []int{1, 3}, e.EditingIDs())
}

func TestEditSession_AddRowRejectsBlank(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)

	e.StartAdd()
	e.ChangeNewCell("name", "")
	e.ChangeNewCell("email", "x@y.com")
	e.ChangeNewCell("role", "eng")
	e.ChangeNewCell("age", "5")

	_, err := e.CommitAdd()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlankField))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name"}, verr.Fields)

	assert.Len(t, s.Snapshot().Rows, 2)
	assert.True(t, e.IsAdding(), "input is retained")
	assert.Equal(t, "x@y.com", e.NewRowDraft()["email"])
}

func TestEditSession_AddRowWhitespaceIsBlank(t *testing.T) {
	e := NewEditSession(NewStore(Options{}))
	e.StartAdd()
	for _, id := range e.NewRowFields() {
		e.ChangeNewCell(id, "v")
	}
	e.ChangeNewCell("role", "   ")

	_, err := e.CommitAdd()
	assert.ErrorIs(t, err, ErrBlankField)
}

func TestEditSession_AddRowAssignsMaxPlusOne(t *testing.T) {
	s := NewStore(Options{Rows: []Row{NewRow(1, nil), NewRow(3, nil)}})
	e := NewEditSession(s)

	e.StartAdd()
	assert.Equal(t, []string{"name", "email", "age", "role"}, e.NewRowFields())
	e.ChangeNewCell("name", " Dan ")
	e.ChangeNewCell("email", "dan@example.com")
	e.ChangeNewCell("age", "33")
	e.ChangeNewCell("role", "QA")

	row, err := e.CommitAdd()
	require.NoError(t, err)
	assert.Equal(t, 4, row.ID)
	assert.Equal(t, "Dan", row.Text("name"))
	assert.Equal(t, Number(33), row.Get("age"))

	st := s.Snapshot()
	assert.Equal(t, []int{1, 3, 4}, rowIDs(st.Rows))
	assert.False(t, e.IsAdding())
}

func TestEditSession_AddRowFirstID(t *testing.T) {
	s := NewStore(Options{Rows: []Row{}})
	e := NewEditSession(s)
	e.StartAdd()
	for _, id := range e.NewRowFields() {
		e.ChangeNewCell(id, "x")
	}

	row, err := e.CommitAdd()
	require.NoError(t, err)
	assert.Equal(t, 1, row.ID)
	assert.Equal(t, Number(0), row.Get("age"), "unparseable age becomes 0")
}

func TestEditSession_AddRowOnlyVisibleColumns(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	e := NewEditSession(s)

	e.StartAdd()
	assert.NotContains(t, e.NewRowDraft(), "email")
}

func TestEditSession_CancelAdd(t *testing.T) {
	s := NewStore(Options{})
	e := NewEditSession(s)
	e.StartAdd()
	e.ChangeNewCell("name", "Eve")
	e.CancelAdd()

	assert.False(t, e.IsAdding())
	assert.Nil(t, e.NewRowDraft())
	e.ChangeNewCell("name", "ignored")
	assert.Nil(t, e.NewRowDraft())

	row, err := e.CommitAdd()
	assert.ErrorIs(t, err, ErrNotAdding)
	assert.Zero(t, row.ID)
	assert.Len(t, s.Snapshot().Rows, 2)
}

func TestEditSession_ChangeNewCellOnlyDraftFields(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("email")
	e := NewEditSession(s)
	e.StartAdd()

	assert.False(t, e.ChangeNewCell("email", "x@y.com"))
	assert.False(t, e.ChangeNewCell("bogus", "zzz"))
	assert.True(t, e.ChangeNewCell("name", "Eve"))
	assert.Equal(t, []string{"name", "age", "role"}, e.NewRowFields())
	assert.NotContains(t, e.NewRowDraft(), "bogus")
}

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, NextID(nil))
	assert.Equal(t, 4, NextID([]Row{{ID: 1}, {ID: 3}}))
	assert.Equal(t, 8, NextID([]Row{{ID: 7}, {ID: 2}}))
}
