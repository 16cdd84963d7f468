package docstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentiulia/docvault/pkg/models"
)

func TestShareDocument(t *testing.T) {
	t.Run("creates a share", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})

		share, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionEdit, nil)
		require.NoError(t, err)
		assert.Equal(t, models.SharePermissionEdit, share.Permission)
		assert.Equal(t, "bob", share.SharedWith)
	})

	t.Run("re-share upserts in place", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})

		first, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionView, nil)
		require.NoError(t, err)
		second, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionAdmin, nil)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.SharePermissionAdmin, second.Permission)

		var rows int64
		require.NoError(t, s.db.Model(&models.DocumentShare{}).
			Where("document_id = ?", doc.ID).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("defaults to view", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})

		share, err := s.ShareDocument(doc.ID, "bob", "alice", "", nil)
		require.NoError(t, err)
		assert.Equal(t, models.SharePermissionView, share.Permission)
	})
}

func TestRevokeShare(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})

	_, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionView, nil)
	require.NoError(t, err)

	revoked, err := s.RevokeShare(doc.ID, "bob")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.RevokeShare(doc.ID, "bob")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestListShares(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})
	other := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice", Name: "other"})

	start := time.Now()
	atTime(s, start)

	_, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionView, nil)
	require.NoError(t, err)
	expiry := start.Add(time.Hour)
	_, err = s.ShareDocument(doc.ID, "carol", "alice", models.SharePermissionEdit, &expiry)
	require.NoError(t, err)
	_, err = s.ShareDocument(other.ID, "bob", "alice", models.SharePermissionEdit, nil)
	require.NoError(t, err)

	shares, err := s.ListShares(doc.ID)
	require.NoError(t, err)
	assert.Len(t, shares, 2)

	mine, err := s.ListSharedWithMe("bob")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Expired shares drop out of both views.
	atTime(s, start.Add(2*time.Hour))
	shares, err = s.ListShares(doc.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "bob", shares[0].SharedWith)
}

func TestCheckPermission(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{CreatedBy: "alice"})

	t.Run("owner is always admin", func(t *testing.T) {
		perm, err := s.CheckPermission(doc.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, models.SharePermissionAdmin, perm)
	})

	t.Run("share permission is returned verbatim", func(t *testing.T) {
		_, err := s.ShareDocument(doc.ID, "bob", "alice", models.SharePermissionEdit, nil)
		require.NoError(t, err)

		perm, err := s.CheckPermission(doc.ID, "bob")
		require.NoError(t, err)
		assert.Equal(t, models.SharePermissionEdit, perm)
	})

	t.Run("no access resolves to empty", func(t *testing.T) {
		perm, err := s.CheckPermission(doc.ID, "mallory")
		require.NoError(t, err)
		assert.Empty(t, perm)
	})

	t.Run("expired share grants nothing", func(t *testing.T) {
		start := time.Now()
		atTime(s, start)
		expiry := start.Add(time.Minute)
		_, err := s.ShareDocument(doc.ID, "dave", "alice", models.SharePermissionView, &expiry)
		require.NoError(t, err)

		atTime(s, start.Add(2*time.Minute))
		perm, err := s.CheckPermission(doc.ID, "dave")
		require.NoError(t, err)
		assert.Empty(t, perm)
	})

	t.Run("absent document", func(t *testing.T) {
		_, err := s.CheckPermission(uuid.New(), "alice")
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})
}
