package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType classifies a document. The set is closed; anything that does
// not fit one of the business categories is stored as "other".
type DocumentType string

// DocumentType constants
const (
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeReport   DocumentType = "report"
	DocumentTypePolicy   DocumentType = "policy"
	DocumentTypeForm     DocumentType = "form"
	DocumentTypeOther    DocumentType = "other"
)

// IsValid reports whether t is one of the known document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeContract, DocumentTypeReport,
		DocumentTypePolicy, DocumentTypeForm, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle status of a document.
type DocumentStatus string

// DocumentStatus constants
const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
	DocumentStatusDeleted  DocumentStatus = "deleted"
)

// IsValid reports whether s is one of the known statuses.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusActive,
		DocumentStatusArchived, DocumentStatusDeleted:
		return true
	}
	return false
}

// Document is the mutable head record of a version chain. Content itself
// lives in DocumentVersion rows; CurrentVersion always equals the highest
// version number stored for the document, with no gaps in 1..CurrentVersion.
type Document struct {
	// ID is the unique document identifier.
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// TenantID partitions documents between customers.
	TenantID string `gorm:"type:varchar(100);not null;index:idx_documents_tenant" json:"tenantId"`

	// Name is the display name of the document.
	Name string `gorm:"type:varchar(500);not null" json:"name"`

	// DocType is the business classification (invoice, contract, ...).
	DocType DocumentType `gorm:"type:varchar(20);not null;default:'other';index:idx_documents_type" json:"type"`

	// Status is the lifecycle status. Soft deletion sets this to "deleted"
	// rather than removing rows.
	Status DocumentStatus `gorm:"type:varchar(20);not null;default:'draft';index:idx_documents_status" json:"status"`

	// CurrentVersion is the highest version number that exists for this
	// document. Starts at 1 and only ever increases by exactly 1.
	CurrentVersion int `gorm:"not null;default:1" json:"currentVersion"`

	// CreatedBy is the user that created the document. Ownership always
	// resolves to admin permission, independent of shares.
	CreatedBy string `gorm:"type:varchar(100);not null;index:idx_documents_created_by" json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index:idx_documents_updated" json:"updatedAt"`

	// Description is free-form metadata, searchable at weight 5.
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Size is the byte size of the latest version's content.
	Size int64 `json:"size"`

	// Checksum is the SHA-256 hex digest of the latest version's content.
	Checksum string `gorm:"type:varchar(64)" json:"checksum"`

	// CustomFields holds caller-defined metadata as a JSON object.
	CustomFields JSON `gorm:"type:jsonb" json:"customFields,omitempty"`

	// Tags is a set of labels; insertion order is irrelevant and duplicates
	// are never stored.
	Tags StringSlice `gorm:"type:text" json:"tags"`

	// FolderID optionally places the document in a folder. The folder does
	// not own the document.
	FolderID *uuid.UUID `gorm:"type:uuid;index:idx_documents_folder" json:"folderId,omitempty"`
}

// TableName specifies the table name.
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate hook to ensure ID and defaults are set.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DocumentStatusDraft
	}
	if d.DocType == "" {
		d.DocType = DocumentTypeOther
	}
	if d.CurrentVersion == 0 {
		d.CurrentVersion = 1
	}
	return nil
}

// Create creates the document.
func (d *Document) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(d,
		validation.Field(&d.TenantID, validation.Required),
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.CreatedBy, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(&d).Error
}

// Get retrieves a document by ID.
func (d *Document) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(&d, "id = ?", id).Error
}

// IsDeleted reports whether the document has been soft-deleted.
func (d *Document) IsDeleted() bool {
	return d.Status == DocumentStatusDeleted
}

// AddTag adds a tag with set semantics; adding an existing tag is a no-op.
// Returns true if the tag set changed.
func (d *Document) AddTag(tag string) bool {
	if d.Tags.Contains(tag) {
		return false
	}
	d.Tags = append(d.Tags, tag)
	return true
}

// RemoveTag removes a tag if present. Returns true if the tag set changed.
func (d *Document) RemoveTag(tag string) bool {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return true
		}
	}
	return false
}
