package docstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/models"
)

// CreateDocumentInput carries the fields accepted at document creation.
type CreateDocumentInput struct {
	TenantID     string
	Name         string
	DocType      models.DocumentType
	CreatedBy    string
	Description  string
	Content      string
	CustomFields map[string]any
	Tags         []string
	FolderID     *uuid.UUID
}

// CreateDocument registers a new document and writes version 1 in the same
// transaction, so a document row without a version chain can never be
// observed. The document starts in draft status.
func (s *Store) CreateDocument(in CreateDocumentInput) (*models.Document, error) {
	if in.DocType == "" {
		in.DocType = models.DocumentTypeOther
	}
	if !in.DocType.IsValid() {
		return nil, fmt.Errorf("invalid document type %q", in.DocType)
	}

	customFields, err := marshalCustomFields(in.CustomFields)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		TenantID:     in.TenantID,
		Name:         in.Name,
		DocType:      in.DocType,
		Status:       models.DocumentStatusDraft,
		CreatedBy:    in.CreatedBy,
		Description:  in.Description,
		Size:         int64(len(in.Content)),
		Checksum:     models.HashContent(in.Content),
		CustomFields: customFields,
		FolderID:     in.FolderID,
	}
	for _, tag := range in.Tags {
		doc.AddTag(tag)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.FolderID != nil {
			var folder models.DocumentFolder
			if err := folder.Get(tx, *in.FolderID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("folder %s: %w", in.FolderID, ErrFolderNotFound)
				}
				return fmt.Errorf("error getting folder: %w", err)
			}
		}

		if err := doc.Create(tx); err != nil {
			return fmt.Errorf("error creating document: %w", err)
		}

		ver := &models.DocumentVersion{
			DocumentID:  doc.ID,
			Version:     1,
			Content:     in.Content,
			ContentHash: doc.Checksum,
			Size:        doc.Size,
			CreatedBy:   in.CreatedBy,
			Comment:     "Initial version",
		}
		if err := ver.Create(tx); err != nil {
			return fmt.Errorf("error creating initial version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("created document",
		"document_id", doc.ID, "tenant_id", doc.TenantID, "type", doc.DocType)
	s.indexDocument(doc, in.Content)

	return doc, nil
}

// GetDocument retrieves a document by ID. Soft-deleted documents are still
// returned; callers decide whether deleted is acceptable for their operation.
func (s *Store) GetDocument(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := doc.Get(s.db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("error getting document: %w", err)
	}
	return &doc, nil
}

// ListDocumentsOptions filters ListDocuments. Zero values mean "no filter".
type ListDocumentsOptions struct {
	DocType   models.DocumentType
	Status    models.DocumentStatus
	FolderID  *uuid.UUID
	Tags      []string
	CreatedBy string

	// Limit truncates the result; 0 means DefaultListLimit.
	Limit int
}

// ListDocuments returns a tenant's documents, most recently updated first,
// truncated to the limit. The tag filter requires every requested tag to be
// present and is applied after the database query because tags are stored as
// a JSON array column.
func (s *Store) ListDocuments(tenantID string, opts ListDocumentsOptions) ([]models.Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := s.db.Where("tenant_id = ?", tenantID)
	if opts.DocType != "" {
		q = q.Where("doc_type = ?", opts.DocType)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.FolderID != nil {
		q = q.Where("folder_id = ?", *opts.FolderID)
	}
	if opts.CreatedBy != "" {
		q = q.Where("created_by = ?", opts.CreatedBy)
	}

	var docs []models.Document
	if err := q.Order("updated_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	if len(opts.Tags) > 0 {
		filtered := docs[:0]
		for _, d := range docs {
			if hasAllTags(d.Tags, opts.Tags) {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func marshalCustomFields(fields map[string]any) (models.JSON, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("error encoding custom fields: %w", err)
	}
	return models.JSON(b), nil
}

func hasAllTags(have models.StringSlice, want []string) bool {
	for _, tag := range want {
		if !have.Contains(tag) {
			return false
		}
	}
	return true
}

// UpdateDocumentInput carries the metadata fields that may be changed without
// creating a new version. Nil pointers leave the field untouched;
// CustomFields are merged key-by-key into the existing object.
type UpdateDocumentInput struct {
	Name         *string
	Description  *string
	DocType      *models.DocumentType
	FolderID     *uuid.UUID
	ClearFolder  bool
	CustomFields map[string]any
}

// UpdateDocument applies a shallow metadata merge. Content is never touched
// here; that is SaveNewVersion's job.
func (s *Store) UpdateDocument(id uuid.UUID, in UpdateDocumentInput) (*models.Document, error) {
	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		doc.Name = *in.Name
	}
	if in.Description != nil {
		doc.Description = *in.Description
	}
	if in.DocType != nil {
		if !in.DocType.IsValid() {
			return nil, fmt.Errorf("invalid document type %q", *in.DocType)
		}
		doc.DocType = *in.DocType
	}
	if in.ClearFolder {
		doc.FolderID = nil
	} else if in.FolderID != nil {
		var folder models.DocumentFolder
		if err := folder.Get(s.db, *in.FolderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("folder %s: %w", in.FolderID, ErrFolderNotFound)
			}
			return nil, fmt.Errorf("error getting folder: %w", err)
		}
		doc.FolderID = in.FolderID
	}
	if len(in.CustomFields) > 0 {
		merged := make(map[string]any)
		if len(doc.CustomFields) > 0 {
			if err := json.Unmarshal(doc.CustomFields, &merged); err != nil {
				return nil, fmt.Errorf("error decoding custom fields: %w", err)
			}
			if merged == nil {
				merged = make(map[string]any)
			}
		}
		for k, v := range in.CustomFields {
			merged[k] = v
		}
		customFields, err := marshalCustomFields(merged)
		if err != nil {
			return nil, err
		}
		doc.CustomFields = customFields
	}

	if err := s.db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("error updating document: %w", err)
	}

	s.reindexLatest(doc)
	return doc, nil
}

// DeleteDocument removes a document. Soft deletion flips the status to
// deleted and keeps every version, share and lock row. Permanent deletion
// removes the document together with its versions, shares and locks in one
// transaction; the cleanup errors are aggregated so a partial failure reports
// everything that went wrong.
func (s *Store) DeleteDocument(id uuid.UUID, permanent bool) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}

	if !permanent {
		doc.Status = models.DocumentStatusDeleted
		if err := s.db.Save(doc).Error; err != nil {
			return fmt.Errorf("error soft-deleting document: %w", err)
		}
		s.log.Debug("soft-deleted document", "document_id", id)
		s.deleteFromIndex(id)
		return nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var result *multierror.Error
		if err := tx.Where("document_id = ?", id).
			Delete(&models.DocumentVersion{}).Error; err != nil {
			result = multierror.Append(result, fmt.Errorf("error deleting versions: %w", err))
		}
		if err := tx.Where("document_id = ?", id).
			Delete(&models.DocumentShare{}).Error; err != nil {
			result = multierror.Append(result, fmt.Errorf("error deleting shares: %w", err))
		}
		if err := tx.Where("document_id = ?", id).
			Delete(&models.DocumentLock{}).Error; err != nil {
			result = multierror.Append(result, fmt.Errorf("error deleting locks: %w", err))
		}
		if err := tx.Delete(&models.Document{}, "id = ?", id).Error; err != nil {
			result = multierror.Append(result, fmt.Errorf("error deleting document: %w", err))
		}
		return result.ErrorOrNil()
	})
	if err != nil {
		return err
	}

	s.log.Debug("permanently deleted document", "document_id", id)
	s.deleteFromIndex(id)
	return nil
}

// RestoreDocument brings a soft-deleted document back as active. Restoring a
// document that is not deleted is rejected before anything is written.
func (s *Store) RestoreDocument(id uuid.UUID) (*models.Document, error) {
	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.IsDeleted() {
		return nil, &InvalidStateError{
			DocumentID: id,
			Status:     doc.Status,
			Operation:  "restore",
		}
	}

	doc.Status = models.DocumentStatusActive
	if err := s.db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("error restoring document: %w", err)
	}

	s.reindexLatest(doc)
	return doc, nil
}

// ArchiveDocument moves a document to archived. Archiving an archived
// document is an idempotent success; a deleted document must be restored
// first.
func (s *Store) ArchiveDocument(id uuid.UUID) (*models.Document, error) {
	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted() {
		return nil, &InvalidStateError{
			DocumentID: id,
			Status:     doc.Status,
			Operation:  "archive",
		}
	}
	if doc.Status == models.DocumentStatusArchived {
		return doc, nil
	}

	doc.Status = models.DocumentStatusArchived
	if err := s.db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("error archiving document: %w", err)
	}

	s.reindexLatest(doc)
	return doc, nil
}

// AddTag attaches a tag to a document with set semantics: adding an already
// present tag succeeds without changing anything.
func (s *Store) AddTag(id uuid.UUID, tag string) (*models.Document, error) {
	if tag == "" {
		return nil, errors.New("tag must not be empty")
	}

	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.AddTag(tag) {
		return doc, nil
	}
	if err := s.db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("error adding tag: %w", err)
	}

	s.reindexLatest(doc)
	return doc, nil
}

// RemoveTag detaches a tag from a document. Removing an absent tag succeeds
// without changing anything.
func (s *Store) RemoveTag(id uuid.UUID, tag string) (*models.Document, error) {
	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if !doc.RemoveTag(tag) {
		return doc, nil
	}
	if err := s.db.Save(doc).Error; err != nil {
		return nil, fmt.Errorf("error removing tag: %w", err)
	}

	s.reindexLatest(doc)
	return doc, nil
}
