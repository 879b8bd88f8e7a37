package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/tablemgr/internal/dataio"
	"github.com/leapstack-labs/tablemgr/internal/ui/components"
	"github.com/leapstack-labs/tablemgr/internal/ui/notifier"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// maxImportSize bounds uploaded import files.
const maxImportSize = 32 << 20

// SearchSignals carries the search box.
type SearchSignals struct {
	Search string `json:"search"`
}

// ColumnSignals carries the add-column input.
type ColumnSignals struct {
	NewColumn string `json:"newcolumn"`
}

// DragSignals carries the ids of a finished drag gesture.
type DragSignals struct {
	Active string `json:"active"`
	Over   string `json:"over"`
}

// Handlers provides HTTP handlers for the editor feature.
type Handlers struct {
	store        *table.Store
	edits        *table.EditSession
	coord        *table.Coordinator
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	pages        *clientPages
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *table.Store, edits *table.EditSession, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:        store,
		edits:        edits,
		coord:        table.NewCoordinator(store),
		sessionStore: sessionStore,
		notifier:     notify,
		pages:        newClientPages(),
		logger:       logger,
	}
}

// buildAppData assembles the view of client.
func (h *Handlers) buildAppData(client string) components.AppData {
	snap := h.store.Snapshot()
	v := table.Derive(snap, h.pages.get(client))
	h.pages.set(client, v.Page)

	drafts := make(map[int]map[string]string)
	for _, id := range h.edits.EditingIDs() {
		drafts[id] = h.edits.Draft(id)
	}
	return components.AppData{
		View:       v,
		AllColumns: snap.Columns,
		Drafts:     drafts,
		Adding:     h.edits.IsAdding(),
		NewFields:  h.edits.NewRowFields(),
		NewDraft:   h.edits.NewRowDraft(),
	}
}

// patch renders the requesting browser's app. A non-nil err is shown as a
// blocking notice.
func (h *Handlers) patch(w http.ResponseWriter, r *http.Request, client, notice string, err error) {
	data := h.buildAppData(client)
	data.Notice = notice
	if err != nil {
		data.Error = err.Error()
	}
	sse := datastar.NewSSE(w, r)
	if perr := sse.PatchElementTempl(components.App(data)); perr != nil {
		_ = sse.ConsoleError(perr)
	}
}

// respond patches the requesting browser's app and pings the others.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, client, notice string) {
	h.patch(w, r, client, notice, nil)
	h.notifier.Broadcast()
}

// EditorPage renders the editor page with full content.
func (h *Handlers) EditorPage(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, true)
	if err := components.Page("Table", h.buildAppData(client)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// EditorUpdates is the long-lived SSE endpoint. It re-renders the app each
// time the table or the shared edit session changes; the initial content
// is rendered by EditorPage.
func (h *Handlers) EditorUpdates(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifier.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(components.App(h.buildAppData(client))); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// Search stores the search text and returns to the first page.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	var signals SearchSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.patch(w, r, client, "", fmt.Errorf("failed to read signals: %w", err))
		return
	}
	h.store.SetSearch(signals.Search)
	h.pages.set(client, 0)
	h.respond(w, r, client, "")
}

// GoToPage moves the browser to a page: "next", "prev" or a 1-based number.
func (h *Handlers) GoToPage(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	page := h.pages.get(client)
	switch p := chi.URLParam(r, "page"); p {
	case "next":
		page++
	case "prev":
		page--
	default:
		n, err := strconv.Atoi(p)
		if err != nil {
			h.patch(w, r, client, "", fmt.Errorf("invalid page %q", p))
			return
		}
		page = n - 1
	}
	h.pages.set(client, max(page, 0))
	h.patch(w, r, client, "", nil)
}

// ToggleTheme flips the theme between light and dark.
func (h *Handlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	h.store.SetThemeMode(h.store.Snapshot().Theme.Toggle())
	h.respond(w, r, client, "")
}

// Drag applies a finished drag gesture to columns or rows on the browser's page.
func (h *Handlers) Drag(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	var signals DragSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.patch(w, r, client, "", fmt.Errorf("failed to read signals: %w", err))
		return
	}
	rendered := h.buildAppData(client).View.Rows
	res := h.coord.DragEnd(signals.Active, signals.Over, rendered)
	h.logger.Debug("drag end", "active", signals.Active, "over", signals.Over, "domain", res.Domain.String())
	h.respond(w, r, client, "")
}

// StartEdit puts a row in edit mode.
func (h *Handlers) StartEdit(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		h.edits.StartEdit(id)
		return "", nil
	})
}

// ChangeCell updates a cell of a row in edit mode from the value query parameter.
func (h *Handlers) ChangeCell(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		col, err := h.column(r)
		if err != nil {
			return "", err
		}
		if !h.edits.ChangeCell(id, col.ID, r.URL.Query().Get("value")) {
			return "", fmt.Errorf("column %q is not editable", col.ID)
		}
		return "", nil
	})
}

// SaveRow commits a row's draft.
func (h *Handlers) SaveRow(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		h.edits.SaveRow(id)
		return fmt.Sprintf("Saved row %d", id), nil
	})
}

// CancelRow discards a row's draft.
func (h *Handlers) CancelRow(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		h.edits.CancelRow(id)
		return "", nil
	})
}

// DeleteRow removes a row. The browser asks for confirmation first.
func (h *Handlers) DeleteRow(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		h.store.DeleteRow(id)
		h.edits.CancelRow(id)
		return fmt.Sprintf("Deleted row %d", id), nil
	})
}

// MoveRow moves a row one step within the browser's page (delta -1 or 1).
func (h *Handlers) MoveRow(w http.ResponseWriter, r *http.Request) {
	h.withRow(w, r, func(client string, id int) (string, error) {
		delta, err := parseDelta(r)
		if err != nil {
			return "", err
		}
		h.coord.MoveRow(id, delta, h.buildAppData(client).View.Rows)
		return "", nil
	})
}

// SaveAll commits every pending row draft.
func (h *Handlers) SaveAll(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	n := len(h.edits.EditingIDs())
	h.edits.SaveAll()
	h.respond(w, r, client, fmt.Sprintf("Saved %d row(s)", n))
}

// CancelAll discards every pending row draft.
func (h *Handlers) CancelAll(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	h.edits.CancelAll()
	h.respond(w, r, client, "")
}

// StartAdd opens the add-row form.
func (h *Handlers) StartAdd(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	h.edits.StartAdd()
	h.respond(w, r, client, "")
}

// ChangeNewCell updates a field of the add-row form.
func (h *Handlers) ChangeNewCell(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	col, err := h.column(r)
	if err != nil {
		h.patch(w, r, client, "", err)
		return
	}
	if !h.edits.ChangeNewCell(col.ID, r.URL.Query().Get("value")) {
		h.patch(w, r, client, "", fmt.Errorf("column %q is not part of the new row", col.ID))
		return
	}
	h.respond(w, r, client, "")
}

// CommitAdd validates and appends the new row, then shows its page.
func (h *Handlers) CommitAdd(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	row, err := h.edits.CommitAdd()
	if errors.Is(err, table.ErrNotAdding) {
		h.patch(w, r, client, "", nil)
		return
	}
	if err != nil {
		h.patch(w, r, client, "", err)
		return
	}
	v := table.Derive(h.store.Snapshot(), 0)
	h.pages.set(client, v.Pages-1)
	h.respond(w, r, client, fmt.Sprintf("Added row %d", row.ID))
}

// CancelAdd closes the add-row form.
func (h *Handlers) CancelAdd(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	h.edits.CancelAdd()
	h.respond(w, r, client, "")
}

// AddColumn adds a column labelled with the trimmed input. Blank input is ignored.
func (h *Handlers) AddColumn(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	var signals ColumnSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.patch(w, r, client, "", fmt.Errorf("failed to read signals: %w", err))
		return
	}
	label := strings.TrimSpace(signals.NewColumn)
	if label == "" {
		h.patch(w, r, client, "", nil)
		return
	}
	h.store.AddColumn(label)
	sse := datastar.NewSSE(w, r)
	_ = sse.MarshalAndPatchSignals(map[string]string{"newcolumn": ""})
	data := h.buildAppData(client)
	data.Notice = "Added column " + label
	if err := sse.PatchElementTempl(components.App(data)); err != nil {
		_ = sse.ConsoleError(err)
	}
	h.notifier.Broadcast()
}

// ToggleColumn shows or hides a column.
func (h *Handlers) ToggleColumn(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	col, err := h.column(r)
	if err != nil {
		h.patch(w, r, client, "", err)
		return
	}
	h.store.ToggleColumnVisibility(col.ID)
	h.respond(w, r, client, "")
}

// MoveColumn moves a visible column one step (delta -1 or 1).
func (h *Handlers) MoveColumn(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	col, err := h.column(r)
	if err == nil {
		var delta int
		if delta, err = parseDelta(r); err == nil {
			h.coord.MoveColumn(col.ID, delta)
		}
	}
	if err != nil {
		h.patch(w, r, client, "", err)
		return
	}
	h.respond(w, r, client, "")
}

// ExportCSV downloads the full table as CSV.
func (h *Handlers) ExportCSV(w http.ResponseWriter, _ *http.Request) {
	h.export(w, dataio.FormatCSV, dataio.DefaultCSVName, "text/csv; charset=utf-8")
}

// ExportXLSX downloads the full table as an XLSX workbook.
func (h *Handlers) ExportXLSX(w http.ResponseWriter, _ *http.Request) {
	h.export(w, dataio.FormatXLSX, dataio.DefaultXLSXName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handlers) export(w http.ResponseWriter, format dataio.Format, name, contentType string) {
	snap := h.store.Snapshot()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := dataio.Export(w, format, snap.Rows, snap.Columns); err != nil {
		h.logger.Error("export failed", "format", string(format), "error", err)
	}
}

// Import replaces all rows with an uploaded CSV or XLSX file and
// redirects back to the editor.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	client := h.clientID(w, r, false)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	format, err := dataio.FormatFor(header.Filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := dataio.Import(file, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.store.SetRows(rows)
	h.edits.CancelAll()
	h.pages.set(client, 0)
	h.logger.Info("imported rows", "file", header.Filename, "rows", len(rows))
	h.notifier.Broadcast()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// withRow parses the {id} parameter, runs fn and responds.
func (h *Handlers) withRow(w http.ResponseWriter, r *http.Request, fn func(client string, id int) (string, error)) {
	client := h.clientID(w, r, false)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.patch(w, r, client, "", fmt.Errorf("invalid row id %q", chi.URLParam(r, "id")))
		return
	}
	notice, err := fn(client, id)
	if err != nil {
		h.patch(w, r, client, "", err)
		return
	}
	h.respond(w, r, client, notice)
}

// column resolves the {col} parameter, a position in the full column list.
func (h *Handlers) column(r *http.Request) (table.Column, error) {
	raw := chi.URLParam(r, "col")
	i, err := strconv.Atoi(raw)
	cols := h.store.Snapshot().Columns
	if err != nil || i < 0 || i >= len(cols) {
		return table.Column{}, fmt.Errorf("unknown column %q", raw)
	}
	return cols[i], nil
}

var errDelta = errors.New("delta must be -1 or 1")

func parseDelta(r *http.Request) (int, error) {
	switch r.URL.Query().Get("delta") {
	case "-1":
		return -1, nil
	case "1":
		return 1, nil
	}
	return 0, errDelta
}
