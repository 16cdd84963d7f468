// Package docstore implements the versioned document store: an append-only
// chain of immutable versions per document, time-bounded advisory locks,
// permission grants, a folder namespace and scored search.
//
// The store answers permission and lock questions; enforcing them before a
// write is the caller's responsibility. The only hard guarantee is that a
// live exclusive lock held by another user rejects SaveNewVersion, and that
// version numbers are assigned atomically per document.
package docstore

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/documentiulia/docvault/pkg/search"
)

// DefaultLockDuration is used when AcquireLock is called without an explicit
// duration.
const DefaultLockDuration = 30 * time.Minute

// DefaultListLimit bounds ListDocuments when the caller does not set one.
const DefaultListLimit = 50

// Store is the document store over a GORM-backed database. All methods are
// safe for concurrent use; per-document critical sections are serialized
// with a keyed mutex in addition to running inside transactions.
type Store struct {
	db    *gorm.DB
	log   hclog.Logger
	docMu *keyedMutex

	// index is the optional embedded full-text index. When nil, only the
	// built-in weighted substring search is available. Index maintenance is
	// best effort and never fails a write.
	index search.Index

	// now is swapped in tests to exercise lazy expiry deterministically.
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(log hclog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithSearchIndex attaches an embedded full-text index. The index is an
// opt-in upgrade surface; the default SearchDocuments scoring is unaffected.
func WithSearchIndex(idx search.Index) Option {
	return func(s *Store) {
		s.index = idx
	}
}

// New creates a Store over db.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		log:   hclog.NewNullLogger(),
		docMu: newKeyedMutex(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying database handle, mainly for callers that need to
// compose store reads with their own queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}
