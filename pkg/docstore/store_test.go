package docstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/documentiulia/docvault/pkg/models"
)

// newTestStore opens a fresh in-memory SQLite database for a test and returns
// a Store over it.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive for the
	// whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))

	return New(db)
}

// createTestDocument creates a document with sensible defaults.
func createTestDocument(t *testing.T, s *Store, in CreateDocumentInput) *models.Document {
	t.Helper()

	if in.TenantID == "" {
		in.TenantID = "tenant-1"
	}
	if in.Name == "" {
		in.Name = "Test Document"
	}
	if in.CreatedBy == "" {
		in.CreatedBy = "user-1"
	}
	doc, err := s.CreateDocument(in)
	require.NoError(t, err)
	return doc
}

// atTime pins the store clock to a fixed instant and returns it.
func atTime(s *Store, at time.Time) {
	s.now = func() time.Time { return at }
}
