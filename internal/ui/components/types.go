package components

import "github.com/leapstack-labs/tablemgr/pkg/table"

// AppData is everything the table editor renders for one browser.
type AppData struct {
	View table.View
	// AllColumns is the full column list, hidden columns included.
	AllColumns []table.Column
	// Drafts holds the pending values of rows in edit mode.
	Drafts map[int]map[string]string
	// Adding is set while the add-row form is open.
	Adding    bool
	NewFields []string
	NewDraft  map[string]string
	// Notice and Error are one-shot messages for the requesting browser.
	Notice string
	Error  string
}

// Editing reports whether any row is in edit mode.
func (d AppData) Editing() bool {
	return len(d.Drafts) > 0
}

// columnIndex returns the store position of column id, or -1.
func (d AppData) columnIndex(id string) int {
	for i, c := range d.AllColumns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d AppData) columnLabel(id string) string {
	if i := d.columnIndex(id); i >= 0 {
		return d.AllColumns[i].Label
	}
	return id
}
