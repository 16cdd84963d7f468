package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/models"
)

// ShareRequest is the request body for POST .../shares.
type ShareRequest struct {
	SharedWith string     `json:"sharedWith"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// handleShares serves .../shares and .../shares/{userID}.
func handleShares(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID, userID string, rest []string) {
	if len(rest) > 0 {
		if r.Method != "DELETE" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		revoked, err := srv.Store.RevokeShare(docID, rest[0])
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK,
			map[string]bool{"revoked": revoked}, srv.Logger)
		return
	}

	switch r.Method {
	case "POST":
		var req ShareRequest
		if err := decodeRequest(r, &req); err != nil {
			http.Error(w, "Bad request body", http.StatusBadRequest)
			return
		}
		if req.SharedWith == "" {
			http.Error(w, "sharedWith required", http.StatusBadRequest)
			return
		}
		perm := models.SharePermission(req.Permission)
		if req.Permission != "" && !perm.IsValid() {
			http.Error(w, "Invalid permission", http.StatusBadRequest)
			return
		}

		share, err := srv.Store.ShareDocument(docID, req.SharedWith, userID, perm, req.ExpiresAt)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusCreated, share, srv.Logger)

	case "GET":
		shares, err := srv.Store.ListShares(docID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, shares, srv.Logger)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// PermissionResponse is the response for GET .../permission.
type PermissionResponse struct {
	Permission models.SharePermission `json:"permission"`
	HasAccess  bool                   `json:"hasAccess"`
}

// handlePermission resolves the caller's effective permission on a document.
func handlePermission(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID, userID string) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	perm, err := srv.Store.CheckPermission(docID, userID)
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, PermissionResponse{
		Permission: perm,
		HasAccess:  perm != "",
	}, srv.Logger)
}

// SharedWithMeHandler lists the live shares granted to the caller.
// Endpoint: GET /api/v1/shared-with-me
func SharedWithMeHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		shares, err := srv.Store.ListSharedWithMe(userID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, shares, srv.Logger)
	})
}
