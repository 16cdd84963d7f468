package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/internal/server"
)

// VersionSaveRequest is the request body for POST .../versions.
type VersionSaveRequest struct {
	Content string `json:"content"`
	Comment string `json:"comment"`
}

// handleVersions serves .../versions, .../versions/{n},
// .../versions/latest and .../versions/{n}/restore.
func handleVersions(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID, userID string, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case "GET":
			versions, err := srv.Store.GetVersions(docID)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, versions, srv.Logger)

		case "POST":
			var req VersionSaveRequest
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request body", http.StatusBadRequest)
				return
			}
			ver, err := srv.Store.SaveNewVersion(docID, req.Content, userID, req.Comment)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusCreated, ver, srv.Logger)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if rest[0] == "latest" {
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ver, err := srv.Store.GetLatestVersion(docID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, ver, srv.Logger)
		return
	}

	n, err := strconv.Atoi(rest[0])
	if err != nil || n < 1 {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}

	if len(rest) > 1 && rest[1] == "restore" {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ver, err := srv.Store.RestoreVersion(docID, n, userID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusCreated, ver, srv.Logger)
		return
	}

	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ver, err := srv.Store.GetVersion(docID, n)
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, ver, srv.Logger)
}

// handleCompare serves GET .../compare?from={n}&to={m}.
func handleCompare(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	from, err := strconv.Atoi(r.URL.Query().Get("from"))
	if err != nil || from < 1 {
		http.Error(w, "Invalid from version", http.StatusBadRequest)
		return
	}
	to, err := strconv.Atoi(r.URL.Query().Get("to"))
	if err != nil || to < 1 {
		http.Error(w, "Invalid to version", http.StatusBadRequest)
		return
	}

	cmp, err := srv.Store.CompareVersions(docID, from, to)
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, cmp, srv.Logger)
}
