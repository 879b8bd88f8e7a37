// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/tablemgr/internal/testutil"
	"github.com/leapstack-labs/tablemgr/internal/ui/notifier"
	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *table.Store
	Edits        *table.EditSession
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a fixture around a store seeded with rows.
// No rows means the default sample rows.
func SetupTestFixture(t *testing.T, rows ...table.Row) *TestFixture {
	t.Helper()

	opts := table.Options{Logger: testutil.NewTestLogger(t)}
	if len(rows) > 0 {
		opts.Rows = rows
	}
	store := table.NewStore(opts)

	return &TestFixture{
		Store:        store,
		Edits:        table.NewEditSession(store),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// PersonRows builds n rows with distinct names, emails and ages.
func PersonRows(n int) []table.Row {
	rows := make([]table.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, table.NewRow(i, map[string]table.Value{
			"name":  table.String(fmt.Sprintf("Person %d", i)),
			"email": table.String(fmt.Sprintf("person%d@example.com", i)),
			"age":   table.Number(float64(20 + i)),
			"role":  table.String("Tester"),
		}))
	}
	return rows
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
