package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/docstore"
	"github.com/documentiulia/docvault/pkg/models"
)

// DocumentCreateRequest is the request body for POST /api/v1/documents.
type DocumentCreateRequest struct {
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Description  string         `json:"description"`
	Content      string         `json:"content"`
	CustomFields map[string]any `json:"customFields"`
	Tags         []string       `json:"tags"`
	FolderID     *uuid.UUID     `json:"folderId"`
}

// DocumentUpdateRequest is the request body for PATCH /api/v1/documents/{id}.
type DocumentUpdateRequest struct {
	Name         *string        `json:"name"`
	Description  *string        `json:"description"`
	Type         *string        `json:"type"`
	FolderID     *uuid.UUID     `json:"folderId"`
	ClearFolder  bool           `json:"clearFolder"`
	CustomFields map[string]any `json:"customFields"`
}

// TagRequest is the request body for tag add/remove.
type TagRequest struct {
	Tag string `json:"tag"`
}

// DocumentsHandler handles the document collection.
// Endpoint: /api/v1/documents
func DocumentsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, tenantID, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}

		switch r.Method {
		case "POST":
			var req DocumentCreateRequest
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request body", http.StatusBadRequest)
				return
			}

			doc, err := srv.Store.CreateDocument(docstore.CreateDocumentInput{
				TenantID:     tenantID,
				Name:         req.Name,
				DocType:      models.DocumentType(req.Type),
				CreatedBy:    userID,
				Description:  req.Description,
				Content:      req.Content,
				CustomFields: req.CustomFields,
				Tags:         req.Tags,
				FolderID:     req.FolderID,
			})
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusCreated, doc, srv.Logger)

		case "GET":
			q := r.URL.Query()
			opts := docstore.ListDocumentsOptions{
				DocType:   models.DocumentType(q.Get("type")),
				Status:    models.DocumentStatus(q.Get("status")),
				CreatedBy: q.Get("createdBy"),
				Tags:      q["tag"],
			}
			if folder := q.Get("folderId"); folder != "" {
				id, err := uuid.Parse(folder)
				if err != nil {
					http.Error(w, "Invalid folder ID", http.StatusBadRequest)
					return
				}
				opts.FolderID = &id
			}

			docs, err := srv.Store.ListDocuments(tenantID, opts)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, docs, srv.Logger)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// DocumentHandler handles a single document and its subresources.
// Endpoint: /api/v1/documents/{id}[/versions|/lock|/shares|...]
func DocumentHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requireIdentity(w, r, srv.Logger)
		if !ok {
			return
		}

		docID, rest, err := parseDocumentPath(r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if len(rest) > 0 {
			switch rest[0] {
			case "versions":
				handleVersions(srv, w, r, docID, userID, rest[1:])
			case "compare":
				handleCompare(srv, w, r, docID)
			case "lock":
				handleLock(srv, w, r, docID, userID)
			case "shares":
				handleShares(srv, w, r, docID, userID, rest[1:])
			case "permission":
				handlePermission(srv, w, r, docID, userID)
			case "restore":
				handleDocumentRestore(srv, w, r, docID)
			case "archive":
				handleDocumentArchive(srv, w, r, docID)
			case "tags":
				handleTags(srv, w, r, docID)
			default:
				http.Error(w, "Not found", http.StatusNotFound)
			}
			return
		}

		switch r.Method {
		case "GET":
			doc, err := srv.Store.GetDocument(docID)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, doc, srv.Logger)

		case "PATCH":
			var req DocumentUpdateRequest
			if err := decodeRequest(r, &req); err != nil {
				http.Error(w, "Bad request body", http.StatusBadRequest)
				return
			}
			in := docstore.UpdateDocumentInput{
				Name:         req.Name,
				Description:  req.Description,
				FolderID:     req.FolderID,
				ClearFolder:  req.ClearFolder,
				CustomFields: req.CustomFields,
			}
			if req.Type != nil {
				docType := models.DocumentType(*req.Type)
				in.DocType = &docType
			}
			doc, err := srv.Store.UpdateDocument(docID, in)
			if err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			respondJSON(w, http.StatusOK, doc, srv.Logger)

		case "DELETE":
			permanent := r.URL.Query().Get("permanent") == "true"
			if err := srv.Store.DeleteDocument(docID, permanent); err != nil {
				respondError(w, err, srv.Logger)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func handleDocumentRestore(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := srv.Store.RestoreDocument(docID)
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, doc, srv.Logger)
}

func handleDocumentArchive(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := srv.Store.ArchiveDocument(docID)
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, doc, srv.Logger)
}

func handleTags(srv server.Server, w http.ResponseWriter, r *http.Request, docID uuid.UUID) {
	var req TagRequest
	if err := decodeRequest(r, &req); err != nil || req.Tag == "" {
		http.Error(w, "Tag required", http.StatusBadRequest)
		return
	}

	var doc *models.Document
	var err error
	switch r.Method {
	case "POST":
		doc, err = srv.Store.AddTag(docID, req.Tag)
	case "DELETE":
		doc, err = srv.Store.RemoveTag(docID, req.Tag)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		respondError(w, err, srv.Logger)
		return
	}
	respondJSON(w, http.StatusOK, doc, srv.Logger)
}
