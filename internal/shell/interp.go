// Package shell implements a line-oriented command interpreter over the
// table core and a readline frontend for it.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/tablemgr/internal/cli/output"
	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// ErrQuit is returned by Exec when the user asks to leave the shell.
var ErrQuit = errors.New("quit")

// Interpreter executes shell commands against a table store. It is not
// safe for concurrent use; the page index is local to the interpreter.
type Interpreter struct {
	store  *table.Store
	edits  *table.EditSession
	coord  *table.Coordinator
	mode   output.Mode
	logger *slog.Logger

	page          int
	pendingDelete int    // row id awaiting confirmation, 0 when none
	rest          string // unsplit text after the verb of the running line
}

// Options configures an Interpreter.
type Options struct {
	// Mode is the output mode used to print views. Empty means text.
	Mode   output.Mode
	Logger *slog.Logger
}

// New creates an interpreter over store.
func New(store *table.Store, opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := opts.Mode
	if mode == "" || mode == output.ModeAuto {
		mode = output.ModeText
	}
	return &Interpreter{
		store:  store,
		edits:  table.NewEditSession(store),
		coord:  table.NewCoordinator(store),
		mode:   mode,
		logger: logger,
	}
}

// Page returns the current page index.
func (in *Interpreter) Page() int { return in.page }

// Edits returns the interpreter's edit session.
func (in *Interpreter) Edits() *table.EditSession { return in.edits }

// command is one shell verb.
type command struct {
	name  string
	usage string
	help  string
	run   func(in *Interpreter, args []string) (string, error)
}

var commands []command

func init() {
	commands = []command{
		{"show", "show", "Print the current page", (*Interpreter).cmdShow},
		{"search", "search [text]", "Filter rows; no text clears the search", (*Interpreter).cmdSearch},
		{"page", "page <n|next|prev>", "Go to a page (1-based)", (*Interpreter).cmdPage},
		{"edit", "edit <id>", "Start editing a row", (*Interpreter).cmdEdit},
		{"set", "set <id> <column> <value>", "Change a cell of a row being edited", (*Interpreter).cmdSet},
		{"save", "save <id|all>", "Commit row edits", (*Interpreter).cmdSave},
		{"cancel", "cancel <id|all>", "Discard row edits", (*Interpreter).cmdCancel},
		{"add", "add [column value | commit | cancel]", "Open, fill, commit or cancel a new row", (*Interpreter).cmdAdd},
		{"delete", "delete <id>", "Delete a row (asks for confirmation)", (*Interpreter).cmdDelete},
		{"col", "col <list|add|toggle|move> ...", "Manage columns", (*Interpreter).cmdCol},
		{"move", "move <id> <up|down>", "Move a row within the current page", (*Interpreter).cmdMove},
		{"drag", "drag <active> <over>", "Drop a column id or row id onto another", (*Interpreter).cmdDrag},
		{"theme", "theme [light|dark|toggle]", "Show or change the theme", (*Interpreter).cmdTheme},
		{"import", "import <file>", "Replace all rows with a CSV or XLSX file", (*Interpreter).cmdImport},
		{"export", "export [file]", "Write all rows to a CSV or XLSX file", (*Interpreter).cmdExport},
		{"help", "help", "Show this help", (*Interpreter).cmdHelp},
		{"quit", "quit", "Leave the shell", func(*Interpreter, []string) (string, error) { return "", ErrQuit }},
	}
}

// CommandNames returns the shell verbs, for completion.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
	}
	return names
}

// Exec runs one command line and returns the text to print.
func (in *Interpreter) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.ToLower(fields[0])

	if in.pendingDelete != 0 {
		id := in.pendingDelete
		in.pendingDelete = 0
		if name == "y" || name == "yes" {
			in.store.DeleteRow(id)
			in.edits.CancelRow(id)
			in.logger.Debug("row deleted", "id", id)
			return fmt.Sprintf("Deleted row %d.", id), nil
		}
		return "Delete cancelled.", nil
	}

	if name == "exit" {
		return "", ErrQuit
	}
	i := slices.IndexFunc(commands, func(c command) bool { return c.name == name })
	if i < 0 {
		return "", fmt.Errorf("unknown command %q (type help for commands)", fields[0])
	}
	in.rest = restAfterVerb(line, fields[0])
	return commands[i].run(in, fields[1:])
}

// view derives the current view and keeps the page index clamped.
func (in *Interpreter) view() table.View {
	v := table.Derive(in.store.Snapshot(), in.page)
	in.page = v.Page
	return v
}

func (in *Interpreter) render(v table.View) (string, error) {
	var buf bytes.Buffer
	r := output.NewRendererWithTTY(&buf, &buf, false, in.mode)
	if err := r.RenderView(v); err != nil {
		return "", err
	}
	if ids := in.edits.EditingIDs(); len(ids) > 0 {
		r.Printf("Editing rows %s (save all / cancel all)\n", joinInts(ids))
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (in *Interpreter) cmdShow([]string) (string, error) {
	return in.render(in.view())
}

// restAfterVerb returns line with the leading verb and one separator
// removed. The remaining whitespace is kept.
func restAfterVerb(line, verb string) string {
	_, rest, _ := strings.Cut(strings.TrimLeft(line, " \t"), verb)
	if rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
		rest = rest[1:]
	}
	return rest
}

func (in *Interpreter) cmdSearch([]string) (string, error) {
	in.store.SetSearch(in.rest)
	return in.render(in.view())
}

func (in *Interpreter) cmdPage(args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError("page")
	}
	switch args[0] {
	case "next":
		in.page++
	case "prev":
		in.page--
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid page %q", args[0])
		}
		in.page = n - 1
	}
	return in.render(in.view())
}

func (in *Interpreter) cmdEdit(args []string) (string, error) {
	id, err := in.rowID(args, "edit")
	if err != nil {
		return "", err
	}
	in.edits.StartEdit(id)
	return in.describeDraft(id), nil
}

func (in *Interpreter) cmdSet(args []string) (string, error) {
	if len(args) < 2 {
		return "", usageError("set")
	}
	id, err := in.rowID(args[:1], "set")
	if err != nil {
		return "", err
	}
	if !in.edits.IsEditing(id) {
		return "", fmt.Errorf("row %d is not being edited (use edit %d)", id, id)
	}
	if !in.edits.ChangeCell(id, args[1], strings.Join(args[2:], " ")) {
		return "", fmt.Errorf("column %q is not editable (visible columns: %s)", args[1], in.visibleColumnIDs())
	}
	return in.describeDraft(id), nil
}

func (in *Interpreter) cmdSave(args []string) (string, error) {
	if len(args) == 1 && args[0] == "all" {
		n := len(in.edits.EditingIDs())
		in.edits.SaveAll()
		return fmt.Sprintf("Saved %d row(s).", n), nil
	}
	id, err := in.rowID(args, "save")
	if err != nil {
		return "", err
	}
	in.edits.SaveRow(id)
	return fmt.Sprintf("Saved row %d.", id), nil
}

func (in *Interpreter) cmdCancel(args []string) (string, error) {
	if len(args) == 1 && args[0] == "all" {
		in.edits.CancelAll()
		return "Discarded all edits.", nil
	}
	id, err := in.rowID(args, "cancel")
	if err != nil {
		return "", err
	}
	in.edits.CancelRow(id)
	return fmt.Sprintf("Discarded edits of row %d.", id), nil
}

func (in *Interpreter) cmdAdd(args []string) (string, error) {
	switch {
	case len(args) == 0:
		in.edits.StartAdd()
		return "New row: fill fields with add <column> <value>, then add commit.\n" + in.describeNewRow(), nil
	case args[0] == "commit":
		row, err := in.edits.CommitAdd()
		if errors.Is(err, table.ErrNotAdding) {
			return "", errors.New("no new row is open (use add)")
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added row %d.", row.ID), nil
	case args[0] == "cancel":
		in.edits.CancelAdd()
		return "New row discarded.", nil
	}
	if !in.edits.IsAdding() {
		return "", errors.New("no new row is open (use add)")
	}
	if !in.edits.ChangeNewCell(args[0], strings.Join(args[1:], " ")) {
		return "", fmt.Errorf("column %q is not part of the new row (fields: %s)", args[0], strings.Join(in.edits.NewRowFields(), ", "))
	}
	return in.describeNewRow(), nil
}

func (in *Interpreter) cmdDelete(args []string) (string, error) {
	id, err := in.rowID(args, "delete")
	if err != nil {
		return "", err
	}
	row, ok := in.findRow(id)
	if !ok {
		return fmt.Sprintf("No row %d.", id), nil
	}
	in.pendingDelete = id
	return fmt.Sprintf("Delete row %d (%s)? [y/N]", id, row.Text("name")), nil
}

func (in *Interpreter) cmdCol(args []string) (string, error) {
	if len(args) == 0 || args[0] == "list" {
		return in.describeColumns(), nil
	}
	switch args[0] {
	case "add":
		label := strings.TrimSpace(strings.Join(args[1:], " "))
		if label == "" {
			return "", usageError("col")
		}
		in.store.AddColumn(label)
		return in.describeColumns(), nil
	case "toggle":
		if len(args) != 2 {
			return "", usageError("col")
		}
		in.store.ToggleColumnVisibility(args[1])
		return in.describeColumns(), nil
	case "move":
		if len(args) != 3 {
			return "", usageError("col")
		}
		delta, err := direction(args[2], "left", "right")
		if err != nil {
			return "", err
		}
		in.coord.MoveColumn(args[1], delta)
		return in.describeColumns(), nil
	}
	return "", usageError("col")
}

func (in *Interpreter) cmdMove(args []string) (string, error) {
	if len(args) != 2 {
		return "", usageError("move")
	}
	id, err := in.rowID(args[:1], "move")
	if err != nil {
		return "", err
	}
	delta, err := direction(args[1], "up", "down")
	if err != nil {
		return "", err
	}
	in.coord.MoveRow(id, delta, in.view().Rows)
	return in.render(in.view())
}

func (in *Interpreter) cmdDrag(args []string) (string, error) {
	if len(args) != 2 {
		return "", usageError("drag")
	}
	res := in.coord.DragEnd(in.dragKey(args[0]), in.dragKey(args[1]), in.view().Rows)
	if !res.Applied() {
		return "Nothing moved.", nil
	}
	return fmt.Sprintf("Moved %s %d to %d.", res.Domain, res.From+1, res.To+1), nil
}

// visibleColumnIDs lists the visible column ids.
func (in *Interpreter) visibleColumnIDs() string {
	cols := table.VisibleColumns(in.store.Snapshot().Columns)
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return strings.Join(ids, ", ")
}

// dragKey maps a typed drag target onto a drag identifier. Visible column
// ids win; other numbers name rows.
func (in *Interpreter) dragKey(arg string) string {
	cols := table.VisibleColumns(in.store.Snapshot().Columns)
	if slices.ContainsFunc(cols, func(c table.Column) bool { return c.ID == arg }) {
		return arg
	}
	if id, err := strconv.Atoi(arg); err == nil {
		return table.RowKey(id)
	}
	return arg
}

func (in *Interpreter) cmdTheme(args []string) (string, error) {
	current := in.store.Snapshot().Theme
	if len(args) == 0 {
		return "Theme: " + output.ThemeLabel(current), nil
	}
	next := current.Toggle()
	if args[0] != "toggle" {
		mode, ok := table.ParseThemeMode(args[0])
		if !ok {
			return "", fmt.Errorf("invalid theme %q: expected light, dark or toggle", args[0])
		}
		next = mode
	}
	in.store.SetThemeMode(next)
	return "Theme: " + output.ThemeLabel(next), nil
}

func (in *Interpreter) cmdImport(args []string) (string, error) {
	if len(args) != 1 {
		return "", usageError("import")
	}
	rows, err := dataio.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	in.store.SetRows(rows)
	in.edits.CancelAll()
	in.page = 0
	in.logger.Info("imported rows", "file", args[0], "rows", len(rows))
	return fmt.Sprintf("Imported %d row(s) from %s.", len(rows), args[0]), nil
}

func (in *Interpreter) cmdExport(args []string) (string, error) {
	path := dataio.DefaultCSVName
	if len(args) == 1 {
		path = args[0]
	} else if len(args) > 1 {
		return "", usageError("export")
	}
	snap := in.store.Snapshot()
	if err := dataio.WriteFile(path, snap.Rows, snap.Columns); err != nil {
		return "", err
	}
	return fmt.Sprintf("Exported %d row(s) to %s.", len(snap.Rows), path), nil
}

func (in *Interpreter) cmdHelp([]string) (string, error) {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-38s %s\n", c.usage, c.help)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (in *Interpreter) rowID(args []string, name string) (int, error) {
	if len(args) != 1 {
		return 0, usageError(name)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid row id %q", args[0])
	}
	return id, nil
}

func (in *Interpreter) findRow(id int) (table.Row, bool) {
	for _, r := range in.store.Snapshot().Rows {
		if r.ID == id {
			return r, true
		}
	}
	return table.Row{}, false
}

func (in *Interpreter) describeDraft(id int) string {
	draft := in.edits.Draft(id)
	if draft == nil {
		return fmt.Sprintf("No row %d.", id)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Editing row %d:", id)
	for _, c := range table.VisibleColumns(in.store.Snapshot().Columns) {
		fmt.Fprintf(&b, "\n  %s = %q", c.ID, draft[c.ID])
	}
	return b.String()
}

func (in *Interpreter) describeNewRow() string {
	draft := in.edits.NewRowDraft()
	var b strings.Builder
	b.WriteString("New row:")
	for _, id := range in.edits.NewRowFields() {
		fmt.Fprintf(&b, "\n  %s = %q", id, draft[id])
	}
	return b.String()
}

func (in *Interpreter) describeColumns() string {
	var b strings.Builder
	b.WriteString("Columns:")
	for i, c := range in.store.Snapshot().Columns {
		mark := "x"
		if !c.Visible {
			mark = " "
		}
		fmt.Fprintf(&b, "\n  %d. [%s] %s (%s)", i+1, mark, c.Label, c.ID)
	}
	return b.String()
}

func usageError(name string) error {
	for _, c := range commands {
		if c.name == name {
			return fmt.Errorf("usage: %s", c.usage)
		}
	}
	return fmt.Errorf("usage: %s", name)
}

func direction(s, back, forward string) (int, error) {
	switch s {
	case back:
		return -1, nil
	case forward:
		return 1, nil
	}
	return 0, fmt.Errorf("invalid direction %q: expected %s or %s", s, back, forward)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
