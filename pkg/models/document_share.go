package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharePermission is the level granted by a share. Permission resolution
// returns the stored level verbatim; callers that need the ordering
// view < edit < admin should use AtLeast rather than re-encoding it.
type SharePermission string

// SharePermission constants
const (
	SharePermissionView  SharePermission = "view"
	SharePermissionEdit  SharePermission = "edit"
	SharePermissionAdmin SharePermission = "admin"
)

var permissionRank = map[SharePermission]int{
	SharePermissionView:  1,
	SharePermissionEdit:  2,
	SharePermissionAdmin: 3,
}

// IsValid reports whether p is a known permission level.
func (p SharePermission) IsValid() bool {
	_, ok := permissionRank[p]
	return ok
}

// AtLeast reports whether p grants at least the level of other, using the
// ordering view < edit < admin. An empty permission satisfies nothing.
func (p SharePermission) AtLeast(other SharePermission) bool {
	return permissionRank[p] >= permissionRank[other] && permissionRank[p] > 0
}

// DocumentShare grants a permission level on a document to another user.
// There is at most one live share per (document, sharedWith) pair; re-sharing
// overwrites the existing row in place rather than creating a second one.
type DocumentShare struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_document_shares_doc" json:"documentId"`

	// SharedWith is the grantee.
	SharedWith string `gorm:"type:varchar(100);not null;index:idx_document_shares_with" json:"sharedWith"`

	// SharedBy is the granting user.
	SharedBy string `gorm:"type:varchar(100);not null" json:"sharedBy"`

	Permission SharePermission `gorm:"type:varchar(20);not null;default:'view'" json:"permission"`

	SharedAt time.Time `json:"sharedAt"`

	// ExpiresAt optionally bounds the grant (nil = no expiration). Expired
	// shares are treated as absent at read time, same as locks.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// TableName specifies the table name.
func (DocumentShare) TableName() string {
	return "document_shares"
}

// BeforeCreate hook to ensure ID and defaults are set.
func (s *DocumentShare) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Permission == "" {
		s.Permission = SharePermissionView
	}
	return nil
}

// Create creates the share row.
func (s *DocumentShare) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.DocumentID, validation.Required),
		validation.Field(&s.SharedWith, validation.Required),
		validation.Field(&s.SharedBy, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(&s).Error
}

// IsLive reports whether the share is in force at the given instant.
func (s *DocumentShare) IsLive(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// liveShareCondition matches rows whose expiry has not yet passed.
const liveShareCondition = "(expires_at IS NULL OR expires_at > ?)"

// GetLiveShare retrieves the live share for (document, sharedWith), or nil.
func GetLiveShare(db *gorm.DB, documentID uuid.UUID, sharedWith string, now time.Time) (*DocumentShare, error) {
	var share DocumentShare
	err := db.
		Where("document_id = ? AND shared_with = ? AND "+liveShareCondition,
			documentID, sharedWith, now).
		First(&share).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// GetLiveSharesByDocument retrieves all live shares for a document.
func GetLiveSharesByDocument(db *gorm.DB, documentID uuid.UUID, now time.Time) ([]DocumentShare, error) {
	var shares []DocumentShare
	err := db.
		Where("document_id = ? AND "+liveShareCondition, documentID, now).
		Order("shared_at DESC").
		Find(&shares).
		Error
	return shares, err
}

// GetLiveSharesForUser retrieves all live shares granted to a user.
func GetLiveSharesForUser(db *gorm.DB, userID string, now time.Time) ([]DocumentShare, error) {
	var shares []DocumentShare
	err := db.
		Where("shared_with = ? AND "+liveShareCondition, userID, now).
		Order("shared_at DESC").
		Find(&shares).
		Error
	return shares, err
}
