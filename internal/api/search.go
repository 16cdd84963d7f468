package api

import (
	"net/http"
	"strconv"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/docstore"
	"github.com/documentiulia/docvault/pkg/models"
)

// SearchHandler runs document search for a tenant. The default mode is the
// deterministic weighted substring scoring; mode=fulltext switches to the
// embedded index when one is configured.
// Endpoint: GET /api/v1/search?q={query}
func SearchHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		query := q.Get("q")
		if query == "" {
			http.Error(w, "Query required", http.StatusBadRequest)
			return
		}

		if q.Get("mode") == "fulltext" {
			limit, _ := strconv.Atoi(q.Get("limit"))
			results, err := srv.Store.SearchFullText(tenantID, query, limit)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, results, srv.Logger)
			return
		}

		opts := docstore.SearchOptions{
			DocType:        models.DocumentType(q.Get("type")),
			Status:         models.DocumentStatus(q.Get("status")),
			IncludeContent: q.Get("content") == "true",
		}
		if q.Get("tags") == "false" {
			noTags := false
			opts.IncludeTags = &noTags
		}

		results, err := srv.Store.SearchDocuments(tenantID, query, opts)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, results, srv.Logger)
	})
}

// TagsHandler returns tag usage counts for a tenant.
// Endpoint: GET /api/v1/tags
func TagsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		tags, err := srv.Store.GetTagsUsed(tenantID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, tags, srv.Logger)
	})
}

// ReindexHandler rebuilds the tenant's full-text index entries.
// Endpoint: POST /api/v1/reindex
func ReindexHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		count, err := srv.Store.Reindex(tenantID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK,
			map[string]int{"indexed": count}, srv.Logger)
	})
}

// StatsHandler returns corpus statistics for a tenant.
// Endpoint: GET /api/v1/stats
func StatsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		stats, err := srv.Store.GetStatistics(tenantID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, stats, srv.Logger)
	})
}
