package docstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/models"
)

// LockOptions tunes AcquireLock. The zero value requests an exclusive lock
// for DefaultLockDuration with no reason recorded.
type LockOptions struct {
	Type     models.LockType
	Reason   string
	Duration time.Duration
}

// AcquireLock attempts to take or renew a time-bounded advisory lock on a
// document. The outcomes are:
//
//   - no live lock exists: a new lock is created and returned;
//   - the caller already holds the live lock: its expiry is pushed forward in
//     place, keeping the same lock identity;
//   - another user holds a live exclusive lock: (nil, nil), the existing lock
//     is untouched. This is an expected negotiation outcome, not an error.
//
// A live shared lock held by someone else does not block; it is superseded
// so the document keeps at most one live lock row. Expired rows never block
// and are swept here as a side effect; liveness is always decided by the
// read-time expiry check, never by whether a sweep already ran.
func (s *Store) AcquireLock(documentID uuid.UUID, userID string, opts LockOptions) (*models.DocumentLock, error) {
	if opts.Type == "" {
		opts.Type = models.LockTypeExclusive
	}
	if !opts.Type.IsValid() {
		return nil, fmt.Errorf("invalid lock type %q", opts.Type)
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultLockDuration
	}

	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}

	unlock := s.docMu.Lock(documentID)
	defer unlock()

	now := s.now()

	var lock *models.DocumentLock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := models.DeleteExpiredLocks(tx, documentID, now); err != nil {
			return fmt.Errorf("error sweeping expired locks: %w", err)
		}

		existing, err := models.GetLiveLock(tx, documentID, now)
		if err != nil {
			return fmt.Errorf("error checking lock: %w", err)
		}

		if existing != nil {
			if existing.UserID == userID {
				existing.ExpiresAt = now.Add(opts.Duration)
				existing.LockType = opts.Type
				if opts.Reason != "" {
					existing.Reason = opts.Reason
				}
				if err := tx.Save(existing).Error; err != nil {
					return fmt.Errorf("error renewing lock: %w", err)
				}
				lock = existing
				return nil
			}
			if existing.LockType == models.LockTypeExclusive {
				// Denied. lock stays nil.
				return nil
			}
			// Foreign shared lock: supersede it.
			if err := tx.Delete(existing).Error; err != nil {
				return fmt.Errorf("error superseding shared lock: %w", err)
			}
		}

		lock = &models.DocumentLock{
			DocumentID: documentID,
			UserID:     userID,
			LockType:   opts.Type,
			AcquiredAt: now,
			ExpiresAt:  now.Add(opts.Duration),
			Reason:     opts.Reason,
		}
		return lock.Create(tx)
	})
	if err != nil {
		return nil, err
	}

	if lock == nil {
		s.log.Debug("lock denied",
			"document_id", documentID, "user_id", userID)
		return nil, nil
	}

	s.log.Debug("lock acquired",
		"document_id", documentID, "user_id", userID,
		"type", lock.LockType, "expires_at", lock.ExpiresAt)
	return lock, nil
}

// ReleaseLock releases the document's live lock if the caller holds it.
// Returns true only when a live lock held by userID was removed; releasing an
// absent, expired or foreign lock returns false and changes nothing.
func (s *Store) ReleaseLock(documentID uuid.UUID, userID string) (bool, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return false, err
	}

	unlock := s.docMu.Lock(documentID)
	defer unlock()

	released := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lock, err := models.GetLiveLock(tx, documentID, s.now())
		if err != nil {
			return fmt.Errorf("error checking lock: %w", err)
		}
		if lock == nil || lock.UserID != userID {
			return nil
		}
		if err := tx.Delete(lock).Error; err != nil {
			return fmt.Errorf("error releasing lock: %w", err)
		}
		released = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if released {
		s.log.Debug("lock released", "document_id", documentID, "user_id", userID)
	}
	return released, nil
}

// GetDocumentLock returns the document's live lock, or nil when the document
// is effectively unlocked. Expired rows are invisible here even if a sweep
// has not yet removed them.
func (s *Store) GetDocumentLock(documentID uuid.UUID) (*models.DocumentLock, error) {
	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}
	lock, err := models.GetLiveLock(s.db, documentID, s.now())
	if err != nil {
		return nil, fmt.Errorf("error getting lock: %w", err)
	}
	return lock, nil
}
