package editor

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SessionName is the cookie session holding the browser's client id.
const SessionName = "tablemgr"

const clientKey = "client"

// clientPages tracks the page index of each browser. The session cookie
// only carries a client id so long-lived SSE requests observe page changes
// made by later requests from the same browser.
type clientPages struct {
	mu    sync.Mutex
	pages map[string]int
}

func newClientPages() *clientPages {
	return &clientPages{pages: make(map[string]int)}
}

func (c *clientPages) get(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[id]
}

func (c *clientPages) set(id string, page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[id] = page
}

// clientID returns the browser's client id from its session. When create
// is set and the session has none, a new id is saved into the response;
// this must happen before anything is written to w.
func (h *Handlers) clientID(w http.ResponseWriter, r *http.Request, create bool) string {
	session, err := h.sessionStore.Get(r, SessionName)
	if err != nil && session == nil {
		return ""
	}
	if id, ok := session.Values[clientKey].(string); ok && id != "" {
		return id
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	session.Values[clientKey] = id
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}
	return id
}
