// Package bleve provides an embedded full-text search.Index backed by a
// Bleve index on disk.
package bleve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/documentiulia/docvault/pkg/search"
)

// Adapter implements search.Index over a single Bleve index holding every
// tenant's documents; queries are always conjoined with a tenant filter.
type Adapter struct {
	index bleve.Index
	path  string
}

// Config contains Bleve configuration.
type Config struct {
	// IndexPath is the directory holding the index (e.g. "./data/fts.index").
	IndexPath string
}

// NewAdapter opens or creates the Bleve index at cfg.IndexPath.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg.IndexPath == "" {
		return nil, fmt.Errorf("bleve index path required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	idx, err := openOrCreateIndex(cfg.IndexPath, createDocumentMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return &Adapter{index: idx, path: cfg.IndexPath}, nil
}

// openOrCreateIndex opens an existing Bleve index or creates a new one.
func openOrCreateIndex(path string, indexMapping mapping.IndexMapping) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return bleve.New(path, indexMapping)
	}
	return idx, err
}

// createDocumentMapping creates the index mapping for documents.
func createDocumentMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en" // English analyzer with stemming

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()

	// Searchable text fields
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("tags", textFieldMapping)

	// Keyword fields for exact matching
	docMapping.AddFieldMappingsAt("tenantId", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("docType", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("status", keywordFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Name returns the backend name.
func (a *Adapter) Name() string {
	return "bleve"
}

// Index adds or replaces a document in the index, keyed by its UUID.
func (a *Adapter) Index(doc *search.IndexableDocument) error {
	return a.index.Index(doc.ID.String(), doc)
}

// Delete removes a document from the index.
func (a *Adapter) Delete(id uuid.UUID) error {
	return a.index.Delete(id.String())
}

// Search runs a match query scoped to a tenant, returning up to limit hits in
// descending relevance order.
func (a *Adapter) Search(tenantID, queryStr string, limit int) ([]search.Hit, error) {
	var q query.Query
	if queryStr == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		q = bleve.NewMatchQuery(queryStr)
	}

	tenantQuery := bleve.NewMatchPhraseQuery(tenantID)
	tenantQuery.SetField("tenantId")
	q = bleve.NewConjunctionQuery(q, tenantQuery)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = limit

	searchResult, err := a.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]search.Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			// Skip foreign keys that predate the current scheme.
			continue
		}
		hits = append(hits, search.Hit{ID: id, Score: hit.Score})
	}
	return hits, nil
}

// Close closes the Bleve index.
func (a *Adapter) Close() error {
	return a.index.Close()
}
