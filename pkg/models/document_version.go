package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentVersion is one immutable snapshot in a document's version chain.
// Version numbers start at 1 and increase by exactly 1 per successful write;
// no number is ever skipped or reused, including after restores. Once
// written, Content, ContentHash and Version never change.
type DocumentVersion struct {
	// ID is the unique version row identifier.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// DocumentID plus Version form the natural key of the snapshot.
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_document_versions_doc;uniqueIndex:idx_document_versions_doc_version" json:"documentId"`
	Version    int       `gorm:"not null;uniqueIndex:idx_document_versions_doc_version" json:"version"`

	// Content is the opaque text payload of this snapshot.
	Content string `gorm:"type:text" json:"content"`

	// ContentHash is the SHA-256 hex digest of Content.
	ContentHash string `gorm:"type:varchar(64);not null;index:idx_document_versions_hash" json:"contentHash"`

	// Size is len(Content) in bytes.
	Size int64 `json:"size"`

	CreatedBy string    `gorm:"type:varchar(100);not null" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`

	// Comment is an optional note recorded at write time. Restores carry a
	// synthesized "Restored from version N" comment.
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	// SizeDelta is the byte-length change against the immediately preceding
	// version. Nil for version 1, which has no predecessor.
	SizeDelta *int64 `json:"sizeDelta,omitempty"`
}

// TableName specifies the table name.
func (DocumentVersion) TableName() string {
	return "document_versions"
}

// BeforeCreate hook to ensure ID is set.
func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Create appends the version row.
func (v *DocumentVersion) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(v,
		validation.Field(&v.DocumentID, validation.Required),
		validation.Field(&v.Version, validation.Required, validation.Min(1)),
		validation.Field(&v.ContentHash, validation.Required),
		validation.Field(&v.CreatedBy, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(&v).Error
}

// GetByNumber retrieves the version at an exact number for a document.
func (v *DocumentVersion) GetByNumber(db *gorm.DB, documentID uuid.UUID, version int) error {
	return db.
		Where("document_id = ? AND version = ?", documentID, version).
		First(&v).
		Error
}

// GetVersionsByDocument retrieves all versions of a document, newest first.
func GetVersionsByDocument(db *gorm.DB, documentID uuid.UUID) ([]DocumentVersion, error) {
	var versions []DocumentVersion
	err := db.
		Where("document_id = ?", documentID).
		Order("version DESC").
		Find(&versions).
		Error
	return versions, err
}

// HashContent returns the SHA-256 hex digest used for version checksums.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
