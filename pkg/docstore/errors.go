package docstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/documentiulia/docvault/pkg/models"
)

// Sentinel errors for absent targets. Read paths return these wrapped so
// callers can branch with errors.Is; mutation paths treat them as failures.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrVersionNotFound  = errors.New("version not found")
	ErrFolderNotFound   = errors.New("folder not found")
)

// LockedError is returned when a write is attempted by a non-holder while a
// live exclusive lock exists. It carries the holder and expiry so the caller
// can decide whether to back off and retry; this is expected control flow,
// not a fatal error.
type LockedError struct {
	DocumentID uuid.UUID
	Holder     string
	ExpiresAt  time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("document %s is locked by %s until %s",
		e.DocumentID, e.Holder, e.ExpiresAt.Format(time.RFC3339))
}

// InvalidStateError is returned when a lifecycle transition is rejected
// before anything is mutated, e.g. restoring a non-deleted document or
// archiving a deleted one.
type InvalidStateError struct {
	DocumentID uuid.UUID
	Status     models.DocumentStatus
	Operation  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s document %s in status %q",
		e.Operation, e.DocumentID, e.Status)
}
