// Package table defines the editing core of tablemgr.
//
// This package contains:
//   - Domain entities (Row, Column, Value, State)
//   - The Store, whose transitions are the only way to change committed state
//   - Derived view functions (visible columns, search filter, page window)
//   - EditSession, the draft layer for inline row edits and the add-row flow
//   - Coordinator, which turns a drag gesture into a reorder transition
//
// pkg/table imports only the standard library. Surfaces (terminal, web,
// shell) depend on it, not the reverse.
package table
