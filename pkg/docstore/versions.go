package docstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/models"
)

// SaveNewVersion appends the next immutable version of a document and bumps
// CurrentVersion by exactly one. The whole operation runs inside the
// document's keyed mutex plus a transaction, so concurrent writers can never
// mint the same version number or leave a gap.
//
// A live exclusive lock held by a different user rejects the write with a
// *LockedError carrying the holder and expiry; the caller is expected to
// treat that as negotiation, not failure.
func (s *Store) SaveNewVersion(documentID uuid.UUID, content, userID, comment string) (*models.DocumentVersion, error) {
	unlock := s.docMu.Lock(documentID)
	defer unlock()

	var ver *models.DocumentVersion
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := doc.Get(tx, documentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("document %s: %w", documentID, ErrDocumentNotFound)
			}
			return fmt.Errorf("error getting document: %w", err)
		}

		lock, err := models.GetLiveLock(tx, documentID, s.now())
		if err != nil {
			return fmt.Errorf("error checking lock: %w", err)
		}
		if lock != nil && lock.LockType == models.LockTypeExclusive && lock.UserID != userID {
			return &LockedError{
				DocumentID: documentID,
				Holder:     lock.UserID,
				ExpiresAt:  lock.ExpiresAt,
			}
		}

		var prev models.DocumentVersion
		if err := prev.GetByNumber(tx, documentID, doc.CurrentVersion); err != nil {
			return fmt.Errorf("error getting version %d: %w", doc.CurrentVersion, err)
		}

		size := int64(len(content))
		delta := size - prev.Size
		ver = &models.DocumentVersion{
			DocumentID:  documentID,
			Version:     doc.CurrentVersion + 1,
			Content:     content,
			ContentHash: models.HashContent(content),
			Size:        size,
			CreatedBy:   userID,
			Comment:     comment,
			SizeDelta:   &delta,
		}
		if err := ver.Create(tx); err != nil {
			return fmt.Errorf("error creating version: %w", err)
		}

		doc.CurrentVersion = ver.Version
		doc.Size = size
		doc.Checksum = ver.ContentHash
		if err := tx.Save(&doc).Error; err != nil {
			return fmt.Errorf("error updating document head: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("saved new version",
		"document_id", documentID, "version", ver.Version, "user_id", userID)

	if doc, err := s.GetDocument(documentID); err == nil {
		s.indexDocument(doc, content)
	}

	return ver, nil
}

// GetVersion retrieves a specific version of a document. The document is
// resolved first so an absent document and an absent version report
// distinctly.
func (s *Store) GetVersion(documentID uuid.UUID, version int) (*models.DocumentVersion, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}

	var ver models.DocumentVersion
	if err := ver.GetByNumber(s.db, documentID, version); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s version %d: %w",
				documentID, version, ErrVersionNotFound)
		}
		return nil, fmt.Errorf("error getting version: %w", err)
	}
	return &ver, nil
}

// GetLatestVersion retrieves the version at CurrentVersion.
func (s *Store) GetLatestVersion(documentID uuid.UUID) (*models.DocumentVersion, error) {
	doc, err := s.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	return s.GetVersion(documentID, doc.CurrentVersion)
}

// GetVersions returns the full version history of a document, newest first.
func (s *Store) GetVersions(documentID uuid.UUID) ([]models.DocumentVersion, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}
	versions, err := models.GetVersionsByDocument(s.db, documentID)
	if err != nil {
		return nil, fmt.Errorf("error listing versions: %w", err)
	}
	return versions, nil
}

// RestoreVersion makes a historical version's content current by appending it
// as a brand new version. History is never rewritten: restoring version 2 of
// a five-version document produces version 6 with version 2's content.
func (s *Store) RestoreVersion(documentID uuid.UUID, version int, userID string) (*models.DocumentVersion, error) {
	old, err := s.GetVersion(documentID, version)
	if err != nil {
		return nil, err
	}
	return s.SaveNewVersion(documentID, old.Content,
		userID, fmt.Sprintf("Restored from version %d", version))
}

// DiffKind classifies a single line-level difference.
type DiffKind string

// DiffKind constants
const (
	DiffKindAddition     DiffKind = "addition"
	DiffKindDeletion     DiffKind = "deletion"
	DiffKindModification DiffKind = "modification"
)

// LineDiff is one differing line position between two versions.
type LineDiff struct {
	// Line is the 1-based line number.
	Line int `json:"line"`

	Kind DiffKind `json:"kind"`

	// Old is the line in the older operand; empty for additions.
	Old string `json:"old,omitempty"`

	// New is the line in the newer operand; empty for deletions.
	New string `json:"new,omitempty"`
}

// VersionComparison summarizes the positional line diff between two versions.
type VersionComparison struct {
	DocumentID    uuid.UUID  `json:"documentId"`
	FromVersion   int        `json:"fromVersion"`
	ToVersion     int        `json:"toVersion"`
	Diffs         []LineDiff `json:"diffs"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
	Modifications int        `json:"modifications"`
}

// CompareVersions computes a positional line diff between two versions of the
// same document. Lines are compared index by index: a line present in both
// but different is a modification, one past the end of the shorter version is
// an addition or deletion. This is intentionally not a minimal-edit diff; a
// single line inserted at the top reports every subsequent line as modified.
// Comparing a version with itself yields zero diffs.
func (s *Store) CompareVersions(documentID uuid.UUID, from, to int) (*VersionComparison, error) {
	fromVer, err := s.GetVersion(documentID, from)
	if err != nil {
		return nil, err
	}
	toVer, err := s.GetVersion(documentID, to)
	if err != nil {
		return nil, err
	}

	cmp := &VersionComparison{
		DocumentID:  documentID,
		FromVersion: from,
		ToVersion:   to,
	}

	oldLines := splitLines(fromVer.Content)
	newLines := splitLines(toVer.Content)
	max := len(oldLines)
	if len(newLines) > max {
		max = len(newLines)
	}

	for i := 0; i < max; i++ {
		switch {
		case i >= len(oldLines):
			cmp.Diffs = append(cmp.Diffs, LineDiff{
				Line: i + 1, Kind: DiffKindAddition, New: newLines[i],
			})
			cmp.Additions++
		case i >= len(newLines):
			cmp.Diffs = append(cmp.Diffs, LineDiff{
				Line: i + 1, Kind: DiffKindDeletion, Old: oldLines[i],
			})
			cmp.Deletions++
		case oldLines[i] != newLines[i]:
			cmp.Diffs = append(cmp.Diffs, LineDiff{
				Line: i + 1, Kind: DiffKindModification,
				Old: oldLines[i], New: newLines[i],
			})
			cmp.Modifications++
		}
	}

	return cmp, nil
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
