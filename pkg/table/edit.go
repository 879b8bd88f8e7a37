package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrBlankField is returned when a new row is committed with an empty field.
var ErrBlankField = errors.New("all fields are required")

// ErrNotAdding is returned by CommitAdd when the add-row flow is not open.
var ErrNotAdding = errors.New("no new row is open")

// ValidationError lists the fields that failed add-row validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (blank: %s)", ErrBlankField, strings.Join(e.Fields, ", "))
}

// Unwrap lets errors.Is match ErrBlankField.
func (e *ValidationError) Unwrap() error {
	return ErrBlankField
}

// RowMode is the edit state of one row.
type RowMode int

// Row modes.
const (
	Viewing RowMode = iota
	Editing
)

func (m RowMode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// rowState is the tagged state of a row. A draft exists exactly when
// mode is Editing; Viewing rows are not stored at all.
type rowState struct {
	mode  RowMode
	draft map[string]string
}

// EditSession holds uncommitted edits layered on top of a Store.
type EditSession struct {
	mu     sync.Mutex
	store  *Store
	rows   map[int]rowState
	adding map[string]string // nil while idle
	order  []string          // column order of the add-row draft
}

// NewEditSession creates an edit session committing into store.
func NewEditSession(store *Store) *EditSession {
	return &EditSession{
		store: store,
		rows:  make(map[int]rowState),
	}
}

// Mode reports whether rowID is being edited.
func (e *EditSession) Mode(rowID int) RowMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows[rowID].mode
}

// IsEditing reports whether rowID is in edit mode.
func (e *EditSession) IsEditing(rowID int) bool {
	return e.Mode(rowID) == Editing
}

// EditingIDs returns the ids of rows in edit mode, ascending.
func (e *EditSession) EditingIDs() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := slices.Collect(maps.Keys(e.rows))
	slices.Sort(ids)
	return ids
}

// Draft returns a copy of the pending values for rowID, or nil.
func (e *EditSession) Draft(rowID int) map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.rows[rowID]
	if !ok {
		return nil
	}
	return maps.Clone(st.draft)
}

// StartEdit puts rowID in edit mode, seeding the draft with the row's
// current visible-column values. Hidden columns are not part of the draft.
// A row already in edit mode keeps its draft.
func (e *EditSession) StartEdit(rowID int) {
	snap := e.store.Snapshot()
	i := indexOfRow(snap.Rows, rowID)
	if i < 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rows[rowID]; ok {
		return
	}
	row := snap.Rows[i]
	draft := make(map[string]string)
	for _, c := range VisibleColumns(snap.Columns) {
		draft[c.ID] = row.Text(c.ID)
	}
	e.rows[rowID] = rowState{mode: Editing, draft: draft}
}

// ChangeCell updates the draft of a row in edit mode and reports whether
// it did. Only the columns seeded by StartEdit can change, so rows not being
// edited, hidden columns and unknown columns are ignored.
func (e *EditSession) ChangeCell(rowID int, columnID, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.rows[rowID]
	if !ok {
		return false
	}
	if _, ok := st.draft[columnID]; !ok {
		return false
	}
	st.draft[columnID] = value
	return true
}

// SaveRow merges the row's draft onto the committed row and leaves edit mode.
func (e *EditSession) SaveRow(rowID int) {
	e.mu.Lock()
	st, ok := e.rows[rowID]
	delete(e.rows, rowID)
	e.mu.Unlock()
	if !ok {
		return
	}

	snap := e.store.Snapshot()
	i := indexOfRow(snap.Rows, rowID)
	if i < 0 {
		return
	}
	e.store.UpdateRow(snap.Rows[i].Merge(st.draft))
}

// CancelRow discards the row's draft and leaves edit mode.
func (e *EditSession) CancelRow(rowID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rows, rowID)
}

// SaveAll commits every pending draft with a single SetRows, so the store
// observes one transition. Rows not being edited are left untouched.
func (e *EditSession) SaveAll() {
	e.mu.Lock()
	pending := e.rows
	e.rows = make(map[int]rowState)
	e.mu.Unlock()
	if len(pending) == 0 {
		return
	}

	snap := e.store.Snapshot()
	updated := snap.Rows
	for i, r := range updated {
		if st, ok := pending[r.ID]; ok {
			updated[i] = r.Merge(st.draft)
		}
	}
	e.store.SetRows(updated)
}

// CancelAll discards every pending draft.
func (e *EditSession) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.rows)
}

// IsAdding reports whether the add-row flow is open.
func (e *EditSession) IsAdding() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adding != nil
}

// StartAdd opens the add-row flow with an empty draft over the currently
// visible columns. An open flow is reset.
func (e *EditSession) StartAdd() {
	cols := VisibleColumns(e.store.Snapshot().Columns)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.adding = make(map[string]string, len(cols))
	e.order = e.order[:0]
	for _, c := range cols {
		if _, dup := e.adding[c.ID]; dup {
			continue
		}
		e.adding[c.ID] = ""
		e.order = append(e.order, c.ID)
	}
}

// NewRowDraft returns a copy of the add-row draft, or nil while idle.
func (e *EditSession) NewRowDraft() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.adding)
}

// NewRowFields returns the column ids of the add-row draft in column order.
func (e *EditSession) NewRowFields() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.adding == nil {
		return nil
	}
	return slices.Clone(e.order)
}

// ChangeNewCell updates a field of the add-row draft and reports whether it
// did. Fields outside the draft and changes while idle are ignored.
func (e *EditSession) ChangeNewCell(columnID, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.adding[columnID]; !ok {
		return false
	}
	e.adding[columnID] = value
	return true
}

// CommitAdd validates the add-row draft and appends it as a new row with
// id max(existing)+1. A blank field rejects the commit with a
// *ValidationError; the draft is kept and nothing is mutated. ErrNotAdding
// is returned while idle.
func (e *EditSession) CommitAdd() (Row, error) {
	e.mu.Lock()
	if e.adding == nil {
		e.mu.Unlock()
		return Row{}, ErrNotAdding
	}
	var blank []string
	for _, id := range e.order {
		if strings.TrimSpace(e.adding[id]) == "" {
			blank = append(blank, id)
		}
	}
	if len(blank) > 0 {
		e.mu.Unlock()
		return Row{}, &ValidationError{Fields: blank}
	}
	draft := e.adding
	e.adding = nil
	e.order = nil
	e.mu.Unlock()

	snap := e.store.Snapshot()
	fields := make(map[string]Value, len(draft))
	for k, v := range draft {
		fields[k] = FieldValue(k, strings.TrimSpace(v))
	}
	row := NewRow(NextID(snap.Rows), fields)
	e.store.SetRows(append(snap.Rows, row))
	return row.Clone(), nil
}

// CancelAdd closes the add-row flow and discards its draft.
func (e *EditSession) CancelAdd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.adding = nil
	e.order = nil
}

// NextID returns max(ids)+1, or 1 for an empty collection.
func NextID(rows []Row) int {
	next := 1
	for _, r := range rows {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}
