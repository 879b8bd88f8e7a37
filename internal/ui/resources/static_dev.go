//go:build dev

package resources

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// staticDir locates the static directory next to this source file so
// stylesheet edits show up without rebuilding.
func staticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler serves static assets from the source tree under /static/.
func Handler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir()))))
}
