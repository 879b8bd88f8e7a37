package table

import (
	"log/slog"
	"slices"
	"sync"
)

// ThemeKey is the preference key the theme mode is persisted under.
const ThemeKey = "themeMode"

// ThemeWriter persists the theme preference for the next launch.
type ThemeWriter interface {
	SetTheme(mode ThemeMode) error
}

// Listener is called with a fresh snapshot after every transition.
type Listener func(State)

// Store owns the committed table state. Its transitions are the only way
// to change that state; each runs to completion under one lock.
type Store struct {
	mu        sync.Mutex
	state     State
	prefs     ThemeWriter
	logger    *slog.Logger
	listeners []Listener
}

// Options configures a Store.
type Options struct {
	// Rows and Columns seed the table. Nil means the defaults.
	Rows    []Row
	Columns []Column
	// Theme seeds the theme mode; empty means light.
	Theme ThemeMode
	// Prefs persists SetThemeMode. Nil disables persistence.
	Prefs  ThemeWriter
	Logger *slog.Logger
}

// NewStore creates a store seeded from opts.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rows := opts.Rows
	if rows == nil {
		rows = DefaultRows()
	}
	cols := opts.Columns
	if cols == nil {
		cols = DefaultColumns()
	}
	theme := opts.Theme
	if theme == "" {
		theme = ThemeLight
	}

	return &Store{
		state: State{
			Rows:    cloneRows(rows),
			Columns: cloneColumns(cols),
			Theme:   theme,
		},
		prefs:  opts.Prefs,
		logger: logger,
	}
}

// Snapshot returns a deep copy of the committed state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every transition.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// transition applies fn to a working copy of the state and swaps it in.
// When fn reports no change the state and listeners are left alone.
func (s *Store) transition(name string, fn func(st *State) bool) {
	s.mu.Lock()
	next := s.state.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		s.logger.Debug("transition is a no-op", "transition", name)
		return
	}
	s.state = next
	listeners := slices.Clone(s.listeners)
	snapshot := next.Clone()
	s.mu.Unlock()

	s.logger.Debug("transition applied", "transition", name,
		"rows", len(snapshot.Rows), "columns", len(snapshot.Columns))
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// SetRows replaces the entire row collection. Callers own id uniqueness.
func (s *Store) SetRows(rows []Row) {
	s.transition("setRows", func(st *State) bool {
		st.Rows = cloneRows(rows)
		return true
	})
}

// AddColumn appends a visible column whose id is the label itself.
// Duplicate ids are accepted.
func (s *Store) AddColumn(label string) {
	s.transition("addColumn", func(st *State) bool {
		st.Columns = append(st.Columns, Column{ID: label, Label: label, Visible: true})
		return true
	})
}

// ToggleColumnVisibility flips the visibility of the first column with id.
func (s *Store) ToggleColumnVisibility(id string) {
	s.transition("toggleColumnVisibility", func(st *State) bool {
		i := slices.IndexFunc(st.Columns, func(c Column) bool { return c.ID == id })
		if i < 0 {
			return false
		}
		st.Columns[i].Visible = !st.Columns[i].Visible
		return true
	})
}

// SetSearch stores the search text verbatim.
func (s *Store) SetSearch(text string) {
	s.transition("setSearch", func(st *State) bool {
		st.Search = text
		return true
	})
}

// UpdateRow replaces the row whose id matches row.ID.
func (s *Store) UpdateRow(row Row) {
	s.transition("updateRow", func(st *State) bool {
		i := indexOfRow(st.Rows, row.ID)
		if i < 0 {
			return false
		}
		st.Rows[i] = row.Clone()
		return true
	})
}

// DeleteRow removes the row with id.
func (s *Store) DeleteRow(id int) {
	s.transition("deleteRow", func(st *State) bool {
		i := indexOfRow(st.Rows, id)
		if i < 0 {
			return false
		}
		st.Rows = slices.Delete(st.Rows, i, i+1)
		return true
	})
}

// ReorderColumns moves the visible column at from to position to.
// Both indices refer to the visible-columns subsequence. Hidden columns
// always trail the result in their original relative order.
func (s *Store) ReorderColumns(from, to int) {
	s.transition("reorderColumns", func(st *State) bool {
		visible := make([]Column, 0, len(st.Columns))
		hidden := make([]Column, 0)
		for _, c := range st.Columns {
			if c.Visible {
				visible = append(visible, c)
			} else {
				hidden = append(hidden, c)
			}
		}
		if !inRange(from, len(visible)) || !inRange(to, len(visible)) {
			return false
		}
		st.Columns = append(move(visible, from, to), hidden...)
		return true
	})
}

// ReorderRows moves the row at from to position to within the full sequence.
func (s *Store) ReorderRows(from, to int) {
	s.transition("reorderRows", func(st *State) bool {
		if !inRange(from, len(st.Rows)) || !inRange(to, len(st.Rows)) {
			return false
		}
		st.Rows = move(st.Rows, from, to)
		return true
	})
}

// SetThemeMode sets the theme and persists it. A persistence failure is
// logged and does not undo the change.
func (s *Store) SetThemeMode(mode ThemeMode) {
	s.transition("setThemeMode", func(st *State) bool {
		st.Theme = mode
		return true
	})
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetTheme(mode); err != nil {
		s.logger.Warn("failed to persist theme preference", "theme", string(mode), "error", err)
	}
}

func indexOfRow(rows []Row, id int) int {
	return slices.IndexFunc(rows, func(r Row) bool { return r.ID == id })
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

// move removes the element at from and reinserts it at to.
func move[T any](s []T, from, to int) []T {
	item := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, item)
}
