package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinator_DragColumns(t *testing.T) {
	s := NewStore(Options{})
	c := NewCoordinator(s)

	res := c.DragEnd("name", "role", nil)
	assert.Equal(t, DragResult{Domain: DomainColumns, From: 0, To: 3}, res)
	assert.Equal(t, []string{"email", "age", "role", "name"}, columnIDs(s.Snapshot().Columns))
}

func TestCoordinator_DragHiddenColumnIsNoop(t *testing.T) {
	s := NewStore(Options{})
	s.ToggleColumnVisibility("age")
	c := NewCoordinator(s)

	assert.False(t, c.DragEnd("age", "name", nil).Applied())
	assert.False(t, c.DragEnd("name", "age", nil).Applied())
}

func TestCoordinator_NoopCases(t *testing.T) {
	s := NewStore(Options{})
	c := NewCoordinator(s)
	rendered := s.Snapshot().Rows
	before := s.Snapshot()

	tests := []struct {
		name         string
		active, over string
	}{
		{name: "same item", active: "name", over: "name"},
		{name: "same row", active: RowKey(1), over: RowKey(1)},
		{name: "unknown active", active: "nope", over: RowKey(1)},
		{name: "unknown over row", active: RowKey(1), over: RowKey(9)},
		{name: "empty over", active: RowKey(1), over: ""},
		{name: "column onto row", active: "name", over: RowKey(2)},
		{name: "row onto column", active: RowKey(2), over: "name"},
		{name: "bare row id", active: "1", over: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, c.DragEnd(tt.active, tt.over, rendered).Applied())
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestCoordinator_DragRowsNoFilter(t *testing.T) {
	s := NewStore(Options{Rows: namedRows("a", "b", "c", "d")})
	c := NewCoordinator(s)
	rendered := Derive(s.Snapshot(), 0).Rows

	res := c.DragEnd(RowKey(1), RowKey(3), rendered)
	assert.Equal(t, DragResult{Domain: DomainRows, From: 0, To: 2}, res)
	assert.Equal(t, []int{2, 3, 1, 4}, rowIDs(s.Snapshot().Rows))
}

func TestCoordinator_DragRowsUnderFilterUsesIDs(t *testing.T) {
	s := NewStore(Options{Rows: namedRows("ann", "bob", "andy", "carl", "abe")})
	s.SetSearch("a")
	c := NewCoordinator(s)

	// all but bob match: rendered ids 1,3,4,5
	rendered := Derive(s.Snapshot(), 0).Rows
	assert.Equal(t, []int{1, 3, 4, 5}, rowIDs(rendered))

	res := c.DragEnd(RowKey(5), RowKey(3), rendered)
	assert.Equal(t, DragResult{Domain: DomainRows, From: 4, To: 2}, res)
	assert.Equal(t, []int{1, 2, 5, 3, 4}, rowIDs(s.Snapshot().Rows))
}

func TestCoordinator_RowNotRenderedIsNoop(t *testing.T) {
	s := NewStore(Options{Rows: manyRows(15)})
	c := NewCoordinator(s)
	page0 := Derive(s.Snapshot(), 0).Rows

	assert.False(t, c.DragEnd(RowKey(1), RowKey(12), page0).Applied(), "row 12 is on page 2")
}

func TestCoordinator_MoveHelpers(t *testing.T) {
	s := NewStore(Options{Rows: namedRows("a", "b", "c")})
	c := NewCoordinator(s)

	assert.True(t, c.MoveColumn("email", -1).Applied())
	assert.Equal(t, []string{"email", "name", "age", "role"}, columnIDs(s.Snapshot().Columns))
	assert.False(t, c.MoveColumn("email", -1).Applied())
	assert.False(t, c.MoveColumn("missing", 1).Applied())

	rendered := s.Snapshot().Rows
	assert.True(t, c.MoveRow(1, 1, rendered).Applied())
	assert.Equal(t, []int{2, 1, 3}, rowIDs(s.Snapshot().Rows))

	rendered = s.Snapshot().Rows
	assert.False(t, c.MoveRow(3, 1, rendered).Applied())
}

func TestCoordinator_ColumnNamedLikeRowID(t *testing.T) {
	s := NewStore(Options{Rows: namedRows("a", "b")})
	s.AddColumn("2")
	c := NewCoordinator(s)
	rendered := s.Snapshot().Rows

	res := c.DragEnd(RowKey(2), RowKey(1), rendered)
	assert.Equal(t, DragResult{Domain: DomainRows, From: 1, To: 0}, res)
	assert.Equal(t, []int{2, 1}, rowIDs(s.Snapshot().Rows))

	res = c.MoveRow(2, 1, s.Snapshot().Rows)
	assert.Equal(t, DomainRows, res.Domain)
	assert.Equal(t, []int{1, 2}, rowIDs(s.Snapshot().Rows))

	res = c.DragEnd("2", "name", nil)
	assert.Equal(t, DomainColumns, res.Domain)
	assert.Equal(t, "2", columnIDs(s.Snapshot().Columns)[0])
}

func TestParseRowKey(t *testing.T) {
	id, ok := ParseRowKey(RowKey(42))
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	for _, key := range []string{"42", "row:", "row:x", "name"} {
		_, ok := ParseRowKey(key)
		assert.False(t, ok, key)
	}
}

func TestDomainString(t *testing.T) {
	assert.Equal(t, "columns", DomainColumns.String())
	assert.Equal(t, "rows", DomainRows.String())
	assert.Equal(t, "none", DomainNone.String())
}
