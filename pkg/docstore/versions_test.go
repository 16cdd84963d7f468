package docstore

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentiulia/docvault/pkg/models"
)

func TestSaveNewVersion(t *testing.T) {
	t.Run("appends with incremented number", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{Content: "hello"})

		ver, err := s.SaveNewVersion(doc.ID, "hello world", "user-1", "expanded")
		require.NoError(t, err)

		assert.Equal(t, 2, ver.Version)
		assert.Equal(t, "expanded", ver.Comment)
		require.NotNil(t, ver.SizeDelta)
		assert.Equal(t, int64(len("hello world")-len("hello")), *ver.SizeDelta)

		got, err := s.GetDocument(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CurrentVersion)
		assert.Equal(t, int64(len("hello world")), got.Size)
		assert.Equal(t, models.HashContent("hello world"), got.Checksum)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.SaveNewVersion(uuid.New(), "content", "user-1", "")
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("rejected while foreign exclusive lock is live", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{})

		lock, err := s.AcquireLock(doc.ID, "bob", LockOptions{})
		require.NoError(t, err)
		require.NotNil(t, lock)

		_, err = s.SaveNewVersion(doc.ID, "new", "alice", "")
		var lockedErr *LockedError
		require.ErrorAs(t, err, &lockedErr)
		assert.Equal(t, "bob", lockedErr.Holder)
		assert.Equal(t, lock.ExpiresAt.Unix(), lockedErr.ExpiresAt.Unix())

		// The holder can still write.
		_, err = s.SaveNewVersion(doc.ID, "new", "bob", "")
		require.NoError(t, err)
	})

	t.Run("allowed after lock expiry", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{})

		start := time.Now()
		atTime(s, start)
		_, err := s.AcquireLock(doc.ID, "bob", LockOptions{Duration: time.Minute})
		require.NoError(t, err)

		atTime(s, start.Add(2*time.Minute))
		_, err = s.SaveNewVersion(doc.ID, "new", "alice", "")
		require.NoError(t, err)
	})

	t.Run("concurrent writers never mint the same number", func(t *testing.T) {
		s := newTestStore(t)
		doc := createTestDocument(t, s, CreateDocumentInput{Content: "v1"})

		const writers = 8
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.SaveNewVersion(doc.ID, "content", "user-1", "")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := s.GetDocument(doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1+writers, got.CurrentVersion)

		versions, err := s.GetVersions(doc.ID)
		require.NoError(t, err)
		require.Len(t, versions, 1+writers)
		// Newest first, contiguous from CurrentVersion down to 1.
		for i, ver := range versions {
			assert.Equal(t, got.CurrentVersion-i, ver.Version)
		}
	})
}

func TestGetVersion(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{Content: "v1"})

	_, err := s.GetVersion(doc.ID, 7)
	require.ErrorIs(t, err, ErrVersionNotFound)

	_, err = s.GetVersion(uuid.New(), 1)
	require.ErrorIs(t, err, ErrDocumentNotFound)

	latest, err := s.GetLatestVersion(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, latest.Version)
	assert.Equal(t, "v1", latest.Content)
}

func TestRestoreVersion(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{Content: "first"})
	_, err := s.SaveNewVersion(doc.ID, "second", "user-1", "")
	require.NoError(t, err)
	_, err = s.SaveNewVersion(doc.ID, "third", "user-1", "")
	require.NoError(t, err)

	restored, err := s.RestoreVersion(doc.ID, 1, "user-1")
	require.NoError(t, err)

	// History is appended to, never rewritten.
	assert.Equal(t, 4, restored.Version)
	assert.Equal(t, "first", restored.Content)
	assert.Equal(t, "Restored from version 1", restored.Comment)

	versions, err := s.GetVersions(doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 4)
}

func TestCompareVersions(t *testing.T) {
	s := newTestStore(t)
	doc := createTestDocument(t, s, CreateDocumentInput{Content: "a\nb\nc"})
	_, err := s.SaveNewVersion(doc.ID, "a\nB\nc\nd", "user-1", "")
	require.NoError(t, err)

	t.Run("positional diff", func(t *testing.T) {
		cmp, err := s.CompareVersions(doc.ID, 1, 2)
		require.NoError(t, err)

		require.Len(t, cmp.Diffs, 2)
		assert.Equal(t, LineDiff{Line: 2, Kind: DiffKindModification, Old: "b", New: "B"}, cmp.Diffs[0])
		assert.Equal(t, LineDiff{Line: 4, Kind: DiffKindAddition, New: "d"}, cmp.Diffs[1])
		assert.Equal(t, 1, cmp.Additions)
		assert.Equal(t, 1, cmp.Modifications)
		assert.Equal(t, 0, cmp.Deletions)
	})

	t.Run("deletions when newer operand is shorter", func(t *testing.T) {
		cmp, err := s.CompareVersions(doc.ID, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, cmp.Deletions)
		assert.Equal(t, 1, cmp.Modifications)
	})

	t.Run("self compare yields no diffs", func(t *testing.T) {
		cmp, err := s.CompareVersions(doc.ID, 2, 2)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diffs)
	})

	t.Run("missing operand", func(t *testing.T) {
		_, err := s.CompareVersions(doc.ID, 1, 9)
		require.ErrorIs(t, err, ErrVersionNotFound)
	})
}
