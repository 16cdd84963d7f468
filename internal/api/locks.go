package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/docstore"
	"github.com/documentiulia/docvault/pkg/models"
)

// LockRequest is the request body for POST .../lock.
type LockRequest struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`

	// DurationSeconds overrides the default lock lifetime.
	DurationSeconds int `json:"durationSeconds"`
}

// LockDeniedResponse is returned with 423 when another user holds the lock.
type LockDeniedResponse struct {
	Acquired  bool      `json:"acquired"`
	Holder    string    `json:"holder"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleLock serves POST (acquire/renew), DELETE (release) and GET (inspect)
// on .../lock.
func handleLock(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID, userID string) {
	switch r.Method {
	case "POST":
		var req LockRequest
		if err := decodeRequest(r, &req); err != nil {
			http.Error(w, "Bad request body", http.StatusBadRequest)
			return
		}
		opts := docstore.LockOptions{
			Type:   models.LockType(req.Type),
			Reason: req.Reason,
		}
		if req.DurationSeconds > 0 {
			opts.Duration = time.Duration(req.DurationSeconds) * time.Second
		}

		lock, err := srv.Store.AcquireLock(docID, userID, opts)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		if lock == nil {
			// Someone else holds it; report who and until when.
			current, err := srv.Store.GetDocumentLock(docID)
			if err != nil || current == nil {
				respondJSON(w, StatusLocked,
					errorResponse{Error: "document is locked"}, srv.Logger)
				return
			}
			respondJSON(w, StatusLocked, LockDeniedResponse{
				Acquired:  false,
				Holder:    current.UserID,
				ExpiresAt: current.ExpiresAt,
			}, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, lock, srv.Logger)

	case "DELETE":
		released, err := srv.Store.ReleaseLock(docID, userID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK,
			map[string]bool{"released": released}, srv.Logger)

	case "GET":
		lock, err := srv.Store.GetDocumentLock(docID)
		if err != nil {
			respondError(w, err, srv.Logger)
			return
		}
		if lock == nil {
			respondJSON(w, http.StatusOK,
				map[string]bool{"locked": false}, srv.Logger)
			return
		}
		respondJSON(w, http.StatusOK, lock, srv.Logger)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
