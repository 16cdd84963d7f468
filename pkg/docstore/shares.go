package docstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/models"
)

// ShareDocument grants sharedWith a permission level on a document. A live
// share already held by sharedWith is overwritten in place, keeping the same
// share identity, so at most one live share exists per (document, grantee)
// pair. The check-then-write runs under the document's keyed mutex.
func (s *Store) ShareDocument(documentID uuid.UUID, sharedWith, sharedBy string, permission models.SharePermission, expiresAt *time.Time) (*models.DocumentShare, error) {
	if permission == "" {
		permission = models.SharePermissionView
	}
	if !permission.IsValid() {
		return nil, fmt.Errorf("invalid permission %q", permission)
	}

	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}

	unlock := s.docMu.Lock(documentID)
	defer unlock()

	now := s.now()

	var share *models.DocumentShare
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := models.GetLiveShare(tx, documentID, sharedWith, now)
		if err != nil {
			return fmt.Errorf("error checking share: %w", err)
		}
		if existing != nil {
			existing.SharedBy = sharedBy
			existing.Permission = permission
			existing.SharedAt = now
			existing.ExpiresAt = expiresAt
			if err := tx.Save(existing).Error; err != nil {
				return fmt.Errorf("error updating share: %w", err)
			}
			share = existing
			return nil
		}

		share = &models.DocumentShare{
			DocumentID: documentID,
			SharedWith: sharedWith,
			SharedBy:   sharedBy,
			Permission: permission,
			SharedAt:   now,
			ExpiresAt:  expiresAt,
		}
		return share.Create(tx)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("shared document",
		"document_id", documentID, "shared_with", sharedWith,
		"permission", permission)
	return share, nil
}

// RevokeShare removes sharedWith's share on a document. Returns true when a
// share row was removed, false when none existed.
func (s *Store) RevokeShare(documentID uuid.UUID, sharedWith string) (bool, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return false, err
	}

	res := s.db.
		Where("document_id = ? AND shared_with = ?", documentID, sharedWith).
		Delete(&models.DocumentShare{})
	if res.Error != nil {
		return false, fmt.Errorf("error revoking share: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListShares returns the live shares on a document.
func (s *Store) ListShares(documentID uuid.UUID) ([]models.DocumentShare, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}
	shares, err := models.GetLiveSharesByDocument(s.db, documentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("error listing shares: %w", err)
	}
	return shares, nil
}

// ListSharedWithMe returns the live shares granted to a user across all
// documents.
func (s *Store) ListSharedWithMe(userID string) ([]models.DocumentShare, error) {
	shares, err := models.GetLiveSharesForUser(s.db, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("error listing shares: %w", err)
	}
	return shares, nil
}

// CheckPermission resolves a user's effective permission on a document. The
// owner always resolves to admin, independent of any share rows. Otherwise
// the live share's stored level is returned verbatim; the levels are not
// expanded hierarchically here. No access resolves to the empty permission.
func (s *Store) CheckPermission(documentID uuid.UUID, userID string) (models.SharePermission, error) {
	doc, err := s.GetDocument(documentID)
	if err != nil {
		return "", err
	}
	if doc.CreatedBy == userID {
		return models.SharePermissionAdmin, nil
	}

	share, err := models.GetLiveShare(s.db, documentID, userID, s.now())
	if err != nil {
		return "", fmt.Errorf("error checking share: %w", err)
	}
	if share == nil {
		return "", nil
	}
	return share.Permission, nil
}
