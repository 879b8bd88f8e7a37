// Package editor provides the table editing feature of the web UI.
package editor

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/tablemgr/internal/ui/notifier"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// SetupRoutes configures routes for the editor feature.
func SetupRoutes(
	router chi.Router,
	store *table.Store,
	edits *table.EditSession,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	h := NewHandlers(store, edits, sessionStore, notify, logger)

	router.Get("/", h.EditorPage)
	router.Get("/updates", h.EditorUpdates)
	router.Get("/export.csv", h.ExportCSV)
	router.Get("/export.xlsx", h.ExportXLSX)
	router.Post("/import", h.Import)

	router.Route("/api", func(r chi.Router) {
		r.Post("/search", h.Search)
		r.Post("/page/{page}", h.GoToPage)
		r.Post("/theme", h.ToggleTheme)
		r.Post("/drag", h.Drag)

		r.Post("/rows/{id}/edit", h.StartEdit)
		r.Post("/rows/{id}/cells/{col}", h.ChangeCell)
		r.Post("/rows/{id}/save", h.SaveRow)
		r.Post("/rows/{id}/cancel", h.CancelRow)
		r.Post("/rows/{id}/delete", h.DeleteRow)
		r.Post("/rows/{id}/move", h.MoveRow)
		r.Post("/edits/save", h.SaveAll)
		r.Post("/edits/cancel", h.CancelAll)

		r.Post("/add", h.StartAdd)
		r.Post("/add/cells/{col}", h.ChangeNewCell)
		r.Post("/add/commit", h.CommitAdd)
		r.Post("/add/cancel", h.CancelAdd)

		r.Post("/columns", h.AddColumn)
		r.Post("/columns/{col}/toggle", h.ToggleColumn)
		r.Post("/columns/{col}/move", h.MoveColumn)
	})

	return nil
}
