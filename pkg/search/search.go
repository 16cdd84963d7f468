// Package search defines the embedded full-text index boundary. The document
// store's own SearchDocuments implements deterministic weighted substring
// scoring; an Index is the explicitly opt-in upgrade path for relevance-ranked
// full-text queries over latest-version content.
package search

import "github.com/google/uuid"

// IndexableDocument is the flattened view of a document that gets indexed.
// Content is always the latest version's payload.
type IndexableDocument struct {
	ID          uuid.UUID `json:"id"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DocType     string    `json:"docType"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	Content     string    `json:"content"`
}

// Hit is a single full-text match.
type Hit struct {
	ID    uuid.UUID
	Score float64
}

// Index is implemented by embedded full-text backends (bleve).
type Index interface {
	// Name identifies the backend.
	Name() string

	// Index adds or replaces a document in the index.
	Index(doc *IndexableDocument) error

	// Delete removes a document from the index.
	Delete(id uuid.UUID) error

	// Search runs a full-text query scoped to a tenant and returns hits in
	// descending relevance order, truncated to limit.
	Search(tenantID, query string, limit int) ([]Hit, error)

	// Close releases index resources.
	Close() error
}
