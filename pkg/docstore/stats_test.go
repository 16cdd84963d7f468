package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentiulia/docvault/pkg/models"
)

func TestGetStatistics(t *testing.T) {
	s := newTestStore(t)

	t.Run("empty tenant", func(t *testing.T) {
		stats, err := s.GetStatistics("tenant-1")
		require.NoError(t, err)
		assert.Zero(t, stats.TotalDocuments)
		assert.Zero(t, stats.AverageVersions)
	})

	doc1 := createTestDocument(t, s, CreateDocumentInput{
		DocType: models.DocumentTypeInvoice, Content: "abcd",
	})
	_, err := s.SaveNewVersion(doc1.ID, "abcdef", "user-1", "")
	require.NoError(t, err)
	_, err = s.SaveNewVersion(doc1.ID, "ab", "user-1", "")
	require.NoError(t, err)

	doc2 := createTestDocument(t, s, CreateDocumentInput{
		DocType: models.DocumentTypeContract, Content: "xyz",
	})
	_, err = s.ArchiveDocument(doc2.ID)
	require.NoError(t, err)

	createTestDocument(t, s, CreateDocumentInput{TenantID: "tenant-2"})

	t.Run("counts and sizes", func(t *testing.T) {
		stats, err := s.GetStatistics("tenant-1")
		require.NoError(t, err)

		assert.Equal(t, int64(2), stats.TotalDocuments)
		assert.Equal(t, int64(1), stats.ByType[models.DocumentTypeInvoice])
		assert.Equal(t, int64(1), stats.ByType[models.DocumentTypeContract])
		assert.Equal(t, int64(1), stats.ByStatus[models.DocumentStatusDraft])
		assert.Equal(t, int64(1), stats.ByStatus[models.DocumentStatusArchived])
		assert.Equal(t, int64(4), stats.TotalVersions)
		assert.Equal(t, 2.0, stats.AverageVersions)
		// Latest sizes: len("ab") + len("xyz").
		assert.Equal(t, int64(5), stats.TotalSizeBytes)
	})

	t.Run("only live locks count", func(t *testing.T) {
		start := time.Now()
		atTime(s, start)
		_, err := s.AcquireLock(doc1.ID, "alice", LockOptions{})
		require.NoError(t, err)
		_, err = s.AcquireLock(doc2.ID, "bob", LockOptions{Duration: time.Minute})
		require.NoError(t, err)

		// doc2's one-minute lock has expired; doc1's default lock is live.
		atTime(s, start.Add(2*time.Minute))
		stats, err := s.GetStatistics("tenant-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.LockedDocuments)
	})
}
