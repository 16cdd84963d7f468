package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/internal/server"
)

// FolderCreateRequest is the request body for POST /api/v1/folders.
type FolderCreateRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId"`
}

// FoldersHandler handles the folder collection.
// Endpoint: /api/v1/folders
func FoldersHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}

		switch r.Method {
		case "POST":
			var req FolderCreateRequest
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request body", http.StatusBadRequest)
				return
			}
			folder, err := srv.Store.CreateFolder(tenantID, req.Name, userID, req.ParentID)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusCreated, folder, srv.Logger)

		case "GET":
			folders, err := srv.Store.ListFolders(tenantID)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, folders, srv.Logger)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// FolderHandler handles a single folder.
// Endpoint: /api/v1/folders/{id}
func FolderHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := requireIdentity(w, r, srv.Logger); !ok {
			return
		}

		idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/folders/"), "/")
		id, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "Invalid folder ID", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case "GET":
			folder, err := srv.Store.GetFolder(id)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, folder, srv.Logger)

		case "DELETE":
			deleted, err := srv.Store.DeleteFolder(id)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			if !deleted {
				respondJSON(w, http.StatusConflict,
					errorResponse{Error: "folder is not empty"}, srv.Logger)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
