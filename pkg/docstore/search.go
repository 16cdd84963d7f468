package docstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/documentiulia/docvault/pkg/models"
)

// Field weights for SearchDocuments scoring. A document's score is the sum of
// the weights of the fields the query matched in.
const (
	searchWeightName        = 10
	searchWeightDescription = 5
	searchWeightTag         = 3
	searchWeightContent     = 1
)

// SearchOptions filters and tunes SearchDocuments.
type SearchOptions struct {
	DocType models.DocumentType
	Status  models.DocumentStatus

	// IncludeTags controls tag matching; nil means true.
	IncludeTags *bool

	// IncludeContent opts in to matching against latest-version content.
	// Off by default because it is the one search path that has to read the
	// version store.
	IncludeContent bool
}

// SearchResult is one scored search match.
type SearchResult struct {
	Document models.Document `json:"document"`
	Score    int             `json:"score"`

	// Matched lists the fields the query matched in, in weight order.
	Matched []string `json:"matched"`
}

// SearchDocuments runs a case-insensitive substring search over a tenant's
// non-deleted documents. Matches in the name weigh 10, description 5, any tag
// 3 and latest content 1; results come back sorted by descending score.
// Ties keep the underlying listing order (most recently updated first).
func (s *Store) SearchDocuments(tenantID, query string, opts SearchOptions) ([]SearchResult, error) {
	q := s.db.Where("tenant_id = ? AND status <> ?",
		tenantID, models.DocumentStatusDeleted)
	if opts.DocType != "" {
		q = q.Where("doc_type = ?", opts.DocType)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var docs []models.Document
	if err := q.Order("updated_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	needle := strings.ToLower(query)
	includeTags := opts.IncludeTags == nil || *opts.IncludeTags

	var results []SearchResult
	for _, doc := range docs {
		score := 0
		var matched []string

		if strings.Contains(strings.ToLower(doc.Name), needle) {
			score += searchWeightName
			matched = append(matched, "name")
		}
		if doc.Description != "" &&
			strings.Contains(strings.ToLower(doc.Description), needle) {
			score += searchWeightDescription
			matched = append(matched, "description")
		}
		if includeTags {
			for _, tag := range doc.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					score += searchWeightTag
					matched = append(matched, "tags")
					break
				}
			}
		}
		if opts.IncludeContent {
			var ver models.DocumentVersion
			if err := ver.GetByNumber(s.db, doc.ID, doc.CurrentVersion); err != nil {
				return nil, fmt.Errorf("error getting version %d of document %s: %w",
					doc.CurrentVersion, doc.ID, err)
			}
			if strings.Contains(strings.ToLower(ver.Content), needle) {
				score += searchWeightContent
				matched = append(matched, "content")
			}
		}

		if score > 0 {
			results = append(results, SearchResult{
				Document: doc,
				Score:    score,
				Matched:  matched,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// TagCount is one entry of the tag usage index.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// GetTagsUsed returns every tag used by a tenant's non-deleted documents with
// its usage count, most used first. Ties order alphabetically so the result
// is deterministic.
func (s *Store) GetTagsUsed(tenantID string) ([]TagCount, error) {
	var docs []models.Document
	err := s.db.
		Where("tenant_id = ? AND status <> ?", tenantID, models.DocumentStatusDeleted).
		Find(&docs).
		Error
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	counts := make(map[string]int)
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}
