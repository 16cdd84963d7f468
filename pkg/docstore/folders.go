package docstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/models"
)

// CreateFolder adds a folder to a tenant's namespace. The folder's path is
// materialized once at creation from the parent chain; renaming an ancestor
// later does not rewrite descendant paths.
func (s *Store) CreateFolder(tenantID, name, createdBy string, parentID *uuid.UUID) (*models.DocumentFolder, error) {
	path := "/" + name
	if parentID != nil {
		var parent models.DocumentFolder
		if err := parent.Get(s.db, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("folder %s: %w", parentID, ErrFolderNotFound)
			}
			return nil, fmt.Errorf("error getting parent folder: %w", err)
		}
		path = parent.Path + "/" + name
	}

	folder := &models.DocumentFolder{
		TenantID:  tenantID,
		Name:      name,
		ParentID:  parentID,
		Path:      path,
		CreatedBy: createdBy,
	}
	if err := folder.Create(s.db); err != nil {
		return nil, fmt.Errorf("error creating folder: %w", err)
	}

	s.log.Debug("created folder",
		"folder_id", folder.ID, "tenant_id", tenantID, "path", path)
	return folder, nil
}

// GetFolder retrieves a folder by ID.
func (s *Store) GetFolder(id uuid.UUID) (*models.DocumentFolder, error) {
	var folder models.DocumentFolder
	if err := folder.Get(s.db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("folder %s: %w", id, ErrFolderNotFound)
		}
		return nil, fmt.Errorf("error getting folder: %w", err)
	}
	return &folder, nil
}

// ListFolders returns all of a tenant's folders ordered by path, which yields
// a depth-first walk of the tree.
func (s *Store) ListFolders(tenantID string) ([]models.DocumentFolder, error) {
	folders, err := models.GetFoldersByTenant(s.db, tenantID)
	if err != nil {
		return nil, fmt.Errorf("error listing folders: %w", err)
	}
	return folders, nil
}

// DeleteFolder removes an empty folder. Returns false without deleting when
// the folder still has direct child documents or subfolders; the emptiness
// check is deliberately non-recursive and there is no recursive delete.
func (s *Store) DeleteFolder(id uuid.UUID) (bool, error) {
	if _, err := s.GetFolder(id); err != nil {
		return false, err
	}

	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		docs, subfolders, err := models.CountFolderChildren(tx, id)
		if err != nil {
			return fmt.Errorf("error counting folder children: %w", err)
		}
		if docs > 0 || subfolders > 0 {
			return nil
		}
		if err := tx.Delete(&models.DocumentFolder{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("error deleting folder: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.log.Debug("deleted folder", "folder_id", id)
	}
	return deleted, nil
}
