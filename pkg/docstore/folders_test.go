package docstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	s := newTestStore(t)

	root, err := s.CreateFolder("tenant-1", "finance", "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "/finance", root.Path)

	child, err := s.CreateFolder("tenant-1", "invoices", "alice", &root.ID)
	require.NoError(t, err)
	assert.Equal(t, "/finance/invoices", child.Path)

	t.Run("missing parent", func(t *testing.T) {
		missing := uuid.New()
		_, err := s.CreateFolder("tenant-1", "orphan", "alice", &missing)
		require.ErrorIs(t, err, ErrFolderNotFound)
	})
}

func TestListFolders(t *testing.T) {
	s := newTestStore(t)

	root, err := s.CreateFolder("tenant-1", "b", "alice", nil)
	require.NoError(t, err)
	_, err = s.CreateFolder("tenant-1", "a", "alice", nil)
	require.NoError(t, err)
	_, err = s.CreateFolder("tenant-1", "sub", "alice", &root.ID)
	require.NoError(t, err)
	_, err = s.CreateFolder("tenant-2", "elsewhere", "alice", nil)
	require.NoError(t, err)

	folders, err := s.ListFolders("tenant-1")
	require.NoError(t, err)
	require.Len(t, folders, 3)

	// Path order gives a depth-first walk.
	assert.Equal(t, "/a", folders[0].Path)
	assert.Equal(t, "/b", folders[1].Path)
	assert.Equal(t, "/b/sub", folders[2].Path)
}

func TestDeleteFolder(t *testing.T) {
	s := newTestStore(t)

	root, err := s.CreateFolder("tenant-1", "docs", "alice", nil)
	require.NoError(t, err)
	child, err := s.CreateFolder("tenant-1", "archive", "alice", &root.ID)
	require.NoError(t, err)

	t.Run("refuses folder with subfolders", func(t *testing.T) {
		deleted, err := s.DeleteFolder(root.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("refuses folder with documents", func(t *testing.T) {
		createTestDocument(t, s, CreateDocumentInput{FolderID: &child.ID})
		deleted, err := s.DeleteFolder(child.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("deletes empty folder", func(t *testing.T) {
		empty, err := s.CreateFolder("tenant-1", "empty", "alice", nil)
		require.NoError(t, err)

		deleted, err := s.DeleteFolder(empty.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = s.GetFolder(empty.ID)
		require.ErrorIs(t, err, ErrFolderNotFound)
	})

	t.Run("absent folder", func(t *testing.T) {
		_, err := s.DeleteFolder(uuid.New())
		require.ErrorIs(t, err, ErrFolderNotFound)
	})
}
