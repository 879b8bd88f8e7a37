// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	editorFeature "github.com/leapstack-labs/tablemgr/internal/ui/features/editor"
	"github.com/leapstack-labs/tablemgr/internal/ui/notifier"
	"github.com/leapstack-labs/tablemgr/internal/ui/resources"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	store *table.Store,
	edits *table.EditSession,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	return editorFeature.SetupRoutes(router, store, edits, sessionStore, notify, logger)
}
