package api

import (
	"net/http"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/internal/version"
)

// NewMux registers every API handler and returns the router.
func NewMux(srv server.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/api/v1/documents", DocumentsHandler(srv))
	mux.Handle("/api/v1/documents/", DocumentHandler(srv))
	mux.Handle("/api/v1/folders", FoldersHandler(srv))
	mux.Handle("/api/v1/folders/", FolderHandler(srv))
	mux.Handle("/api/v1/shared-with-me", SharedWithMeHandler(srv))
	mux.Handle("/api/v1/search", SearchHandler(srv))
	mux.Handle("/api/v1/tags", TagsHandler(srv))
	mux.Handle("/api/v1/reindex", ReindexHandler(srv))
	mux.Handle("/api/v1/stats", StatsHandler(srv))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
		}, srv.Logger)
	})

	return mux
}
