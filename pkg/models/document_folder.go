package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentFolder is a node in the hierarchical namespace. Path is
// materialized from the parent chain once at creation time and is not
// recomputed if an ancestor is later renamed (known staleness limitation;
// renames would need a cascading path update or lazy path computation).
type DocumentFolder struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	TenantID string `gorm:"type:varchar(100);not null;index:idx_document_folders_tenant" json:"tenantId"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	// ParentID is nil for root-level folders.
	ParentID *uuid.UUID `gorm:"type:uuid;index:idx_document_folders_parent" json:"parentId,omitempty"`

	// Path is the parent's path + "/" + Name, or "/" + Name at the root.
	Path string `gorm:"type:varchar(2000);not null" json:"path"`

	CreatedBy string    `gorm:"type:varchar(100);not null" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name.
func (DocumentFolder) TableName() string {
	return "document_folders"
}

// BeforeCreate hook to ensure ID is set.
func (f *DocumentFolder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Create creates the folder row.
func (f *DocumentFolder) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(f,
		validation.Field(&f.TenantID, validation.Required),
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Path, validation.Required),
		validation.Field(&f.CreatedBy, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(&f).Error
}

// Get retrieves a folder by ID.
func (f *DocumentFolder) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(&f, "id = ?", id).Error
}

// GetFoldersByTenant retrieves all folders for a tenant, ordered by path.
func GetFoldersByTenant(db *gorm.DB, tenantID string) ([]DocumentFolder, error) {
	var folders []DocumentFolder
	err := db.
		Where("tenant_id = ?", tenantID).
		Order("path ASC").
		Find(&folders).
		Error
	return folders, err
}

// CountFolderChildren counts direct child documents and direct child
// subfolders. Both must be zero before the folder may be deleted; the check
// is deliberately non-recursive.
func CountFolderChildren(db *gorm.DB, folderID uuid.UUID) (docs int64, subfolders int64, err error) {
	if err = db.Model(&Document{}).
		Where("folder_id = ?", folderID).
		Count(&docs).
		Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&DocumentFolder{}).
		Where("parent_id = ?", folderID).
		Count(&subfolders).
		Error; err != nil {
		return 0, 0, err
	}
	return docs, subfolders, nil
}
