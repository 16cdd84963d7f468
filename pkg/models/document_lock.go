package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LockType distinguishes exclusive edit locks from shared ones. Only
// exclusive locks block other writers; the shared variant is accepted and
// stored but carries no multi-holder bookkeeping.
type LockType string

// LockType constants
const (
	LockTypeExclusive LockType = "exclusive"
	LockTypeShared    LockType = "shared"
)

// IsValid reports whether t is a known lock type.
func (t LockType) IsValid() bool {
	return t == LockTypeExclusive || t == LockTypeShared
}

// DocumentLock is a time-bounded advisory lock on a document. Liveness is
// decided purely by ExpiresAt at read time (lazy expiry); expired rows are
// inert and reaped opportunistically on the next acquire.
type DocumentLock struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_document_locks_doc" json:"documentId"`

	// UserID is the holder. Only the holder may release or renew the lock.
	UserID string `gorm:"type:varchar(100);not null" json:"userId"`

	LockType LockType `gorm:"type:varchar(20);not null;default:'exclusive'" json:"type"`

	AcquiredAt time.Time `json:"acquiredAt"`

	// ExpiresAt bounds the lock lifetime. Renewal moves it forward in place,
	// keeping the same lock identity.
	ExpiresAt time.Time `gorm:"not null;index:idx_document_locks_expires" json:"expiresAt"`

	// Reason optionally records why the lock was taken.
	Reason string `gorm:"type:text" json:"reason,omitempty"`
}

// TableName specifies the table name.
func (DocumentLock) TableName() string {
	return "document_locks"
}

// BeforeCreate hook to ensure ID and defaults are set.
func (l *DocumentLock) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LockType == "" {
		l.LockType = LockTypeExclusive
	}
	return nil
}

// Create creates the lock row.
func (l *DocumentLock) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(l,
		validation.Field(&l.DocumentID, validation.Required),
		validation.Field(&l.UserID, validation.Required),
		validation.Field(&l.ExpiresAt, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(&l).Error
}

// IsLive reports whether the lock is still in force at the given instant.
func (l *DocumentLock) IsLive(now time.Time) bool {
	return l.ExpiresAt.After(now)
}

// GetLiveLock retrieves the live lock for a document, or nil if the document
// is effectively unlocked. Expired rows are ignored, not deleted.
func GetLiveLock(db *gorm.DB, documentID uuid.UUID, now time.Time) (*DocumentLock, error) {
	var lock DocumentLock
	err := db.
		Where("document_id = ? AND expires_at > ?", documentID, now).
		Order("expires_at DESC").
		First(&lock).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// DeleteExpiredLocks reaps expired lock rows for a document. This is purely
// storage reclamation; the read-time liveness check remains authoritative.
func DeleteExpiredLocks(db *gorm.DB, documentID uuid.UUID, now time.Time) error {
	return db.
		Where("document_id = ? AND expires_at <= ?", documentID, now).
		Delete(&DocumentLock{}).
		Error
}
