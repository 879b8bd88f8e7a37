package table

import (
	"slices"
	"strconv"
	"strings"
)

// Domain is the ordered list a drag gesture belongs to.
type Domain int

// Drag domains.
const (
	DomainNone Domain = iota
	DomainColumns
	DomainRows
)

func (d Domain) String() string {
	switch d {
	case DomainColumns:
		return "columns"
	case DomainRows:
		return "rows"
	}
	return "none"
}

// DragResult describes the transition a drag gesture produced.
type DragResult struct {
	Domain Domain
	From   int
	To     int
}

// Applied reports whether the drag changed anything.
func (r DragResult) Applied() bool {
	return r.Domain != DomainNone
}

// rowKeyPrefix keeps row drag keys apart from column ids, which are
// arbitrary labels.
const rowKeyPrefix = "row:"

// RowKey is the drag identifier of a row.
func RowKey(id int) string {
	return rowKeyPrefix + strconv.Itoa(id)
}

// ParseRowKey returns the row id encoded in a drag identifier.
func ParseRowKey(key string) (int, bool) {
	raw, ok := strings.CutPrefix(key, rowKeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Coordinator maps drag gestures onto reorder transitions.
type Coordinator struct {
	store *Store
}

// NewCoordinator creates a coordinator applying reorders to store.
func NewCoordinator(store *Store) *Coordinator {
	return &Coordinator{store: store}
}

// DragEnd handles a drag of activeID dropped onto overID. Row keys (see
// RowKey) are matched against the rendered rows (the filtered page window),
// anything else against the visible columns. Unknown ids and drops onto
// the dragged item itself are no-ops.
//
// Row positions are resolved by id against the full row collection, so a
// drag under an active search lands the row exactly where the target row
// is rather than at the target's offset within the filtered view.
func (c *Coordinator) DragEnd(activeID, overID string, rendered []Row) DragResult {
	if activeID == "" || overID == "" || activeID == overID {
		return DragResult{}
	}
	activeRow, activeIsRow := ParseRowKey(activeID)
	overRow, overIsRow := ParseRowKey(overID)
	switch {
	case activeIsRow && overIsRow:
		return c.dragRow(activeRow, overRow, rendered)
	case activeIsRow || overIsRow:
		return DragResult{}
	}
	return c.dragColumn(activeID, overID)
}

// dragColumn moves visible column activeID onto visible column overID.
func (c *Coordinator) dragColumn(activeID, overID string) DragResult {
	visible := VisibleColumns(c.store.Snapshot().Columns)
	from := slices.IndexFunc(visible, func(col Column) bool { return col.ID == activeID })
	to := slices.IndexFunc(visible, func(col Column) bool { return col.ID == overID })
	if from < 0 || to < 0 || from == to {
		return DragResult{}
	}
	c.store.ReorderColumns(from, to)
	return DragResult{Domain: DomainColumns, From: from, To: to}
}

// dragRow moves row activeID onto row overID. Both must be rendered.
func (c *Coordinator) dragRow(activeID, overID int, rendered []Row) DragResult {
	if activeID == overID || indexOfRow(rendered, activeID) < 0 || indexOfRow(rendered, overID) < 0 {
		return DragResult{}
	}
	snap := c.store.Snapshot()
	from := indexOfRow(snap.Rows, activeID)
	to := indexOfRow(snap.Rows, overID)
	if from < 0 || to < 0 {
		return DragResult{}
	}
	c.store.ReorderRows(from, to)
	return DragResult{Domain: DomainRows, From: from, To: to}
}

// MoveColumn drags the visible column id one step by delta (-1 left, +1 right).
func (c *Coordinator) MoveColumn(id string, delta int) DragResult {
	visible := VisibleColumns(c.store.Snapshot().Columns)
	i := slices.IndexFunc(visible, func(col Column) bool { return col.ID == id })
	j := i + delta
	if i < 0 || !inRange(j, len(visible)) {
		return DragResult{}
	}
	return c.dragColumn(id, visible[j].ID)
}

// MoveRow drags row id onto its neighbour by delta within rendered.
func (c *Coordinator) MoveRow(id, delta int, rendered []Row) DragResult {
	i := indexOfRow(rendered, id)
	j := i + delta
	if i < 0 || !inRange(j, len(rendered)) {
		return DragResult{}
	}
	return c.dragRow(id, rendered[j].ID, rendered)
}
