package docstore

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex provides per-document mutual exclusion. Version number
// assignment, lock read-modify-write and share upsert each run under the
// document's key so two concurrent writers cannot interleave, regardless of
// whether the caller bothered with an advisory lock.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*keyedMutexEntry
}

type keyedMutexEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		entries: make(map[uuid.UUID]*keyedMutexEntry),
	}
}

// Lock acquires the mutex for key and returns the matching unlock function.
// Entries are refcounted and removed when the last holder releases, so the
// map does not grow with the number of documents ever touched.
func (k *keyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &keyedMutexEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
