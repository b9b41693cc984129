// Package site serves the embedded signup front end.
package site

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Paths of the front end.
const (
	StaticPrefix = "/static/"
	IndexPath    = StaticPrefix + "index.html"
)

// Register attaches the static front end and the root redirect to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.Handle("GET "+StaticPrefix, http.StripPrefix(StaticPrefix, http.FileServer(FS())))
	// FileServer answers .../index.html with a redirect to .../
	mux.HandleFunc("GET "+IndexPath, root.HandleIndex)
	mux.HandleFunc("GET /{$}", root.HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct {
	index []byte
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	index, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		panic("embedded index.html missing: " + err.Error())
	}
	return &RootHandler{index: index}
}

// HandleRoot redirects GET / to the front end index page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// HandleIndex serves the index page itself.
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(h.index))
}
