// Package api implements the HTTP handlers for the document store. Handlers
// trust the X-User-Id and X-Tenant-Id headers; authenticating callers is the
// job of whatever sits in front of this server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/documentiulia/docvault/pkg/docstore"
)

const (
	headerUserID   = "X-User-Id"
	headerTenantID = "X-Tenant-Id"
)

// StatusLocked is 423, the WebDAV code for a held resource lock.
const StatusLocked = 423

// identity extracts the caller's user and tenant from the request headers.
func identity(r *http.Request) (userID, tenantID string) {
	return r.Header.Get(headerUserID), r.Header.Get(headerTenantID)
}

// requireIdentity writes a 401 and returns false when the identity headers
// are missing.
func requireIdentity(w http.ResponseWriter, r *http.Request, log hclog.Logger) (userID, tenantID string, ok bool) {
	userID, tenantID = identity(r)
	if userID == "" || tenantID == "" {
		log.Warn("request missing identity headers",
			"path", r.URL.Path, "method", r.Method)
		http.Error(w, "Missing identity headers", http.StatusUnauthorized)
		return "", "", false
	}
	return userID, tenantID, true
}

// decodeRequest decodes a JSON request body into v, rejecting unknown fields.
func decodeRequest(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any, log hclog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`

	// Holder and ExpiresAt are set for 423 responses so a caller can decide
	// whether waiting out the lock is worthwhile.
	Holder    string     `json:"holder,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// respondError maps store errors to status codes: absent targets to 404, a
// held lock to 423, rejected lifecycle transitions to 409, anything else to
// 500.
func respondError(w http.ResponseWriter, err error, log hclog.Logger) {
	var lockedErr *docstore.LockedError
	var stateErr *docstore.InvalidStateError
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()}, log)

	case errors.Is(err, docstore.ErrDocumentNotFound),
		errors.Is(err, docstore.ErrVersionNotFound),
		errors.Is(err, docstore.ErrFolderNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()}, log)

	case errors.As(err, &lockedErr):
		respondJSON(w, StatusLocked, errorResponse{
			Error:     lockedErr.Error(),
			Holder:    lockedErr.Holder,
			ExpiresAt: &lockedErr.ExpiresAt,
		}, log)

	case errors.As(err, &stateErr):
		respondJSON(w, http.StatusConflict, errorResponse{Error: stateErr.Error()}, log)

	default:
		log.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError,
			errorResponse{Error: "Internal server error"}, log)
	}
}

// parseDocumentPath splits a URL path of the form
// "/api/v1/documents/{id}[/{rest...}]" into the document ID and the remaining
// segments.
func parseDocumentPath(path string) (uuid.UUID, []string, error) {
	trimmed := strings.TrimPrefix(path, "/api/v1/documents/")
	parts := strings.Split(trimmed, "/")
	var segments []string
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) == 0 {
		return uuid.Nil, nil, errors.New("document ID required")
	}
	id, err := uuid.Parse(segments[0])
	if err != nil {
		return uuid.Nil, nil, errors.New("invalid document ID")
	}
	return id, segments[1:], nil
}
