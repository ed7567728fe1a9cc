package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// spaFileServer serves static files from an fs.FS, falling back to index.html
// for any path that doesn't match a real file. This supports the React SPA's
// client-side routing for /log-in, /tasks, /trashed, etc.
func spaFileServer(assets fs.FS) http.Handler {
	fileServer := http.FileServerFS(assets)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean the path and strip the leading slash for fs.FS lookup.
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Serve index.html for anything that isn't a real file so the
		// client router can take over.
		if _, err := fs.Stat(assets, path); err != nil {
			r.URL.Path = "/"
		}

		fileServer.ServeHTTP(w, r)
	})
}
