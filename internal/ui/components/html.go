// Package components renders the HTML of the web table editor as templ
// components.
package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// markup accumulates escaped HTML.
type markup struct {
	strings.Builder
}

// raw appends trusted markup.
func (m *markup) raw(parts ...string) {
	for _, p := range parts {
		m.WriteString(p)
	}
}

// text appends escaped text.
func (m *markup) text(s string) {
	m.WriteString(templ.EscapeString(s))
}

// rawf appends formatted trusted markup.
func (m *markup) rawf(format string, a ...any) {
	fmt.Fprintf(m, format, a...)
}

// attr returns ` name="value"` with value escaped.
func attr(name, value string) string {
	return " " + name + `="` + templ.EscapeString(value) + `"`
}

// component wraps a render function over markup as a templ component.
func component(render func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var m markup
		render(&m)
		_, err := io.WriteString(w, m.String())
		return err
	})
}
