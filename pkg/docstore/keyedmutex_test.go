package docstore

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("serializes holders of the same key", func(t *testing.T) {
		km := newKeyedMutex()
		key := uuid.New()

		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := km.Lock(key)
				defer unlock()
				counter++
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, counter)
	})

	t.Run("different keys do not block each other", func(t *testing.T) {
		km := newKeyedMutex()

		unlockA := km.Lock(uuid.New())
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlockB := km.Lock(uuid.New())
			unlockB()
			close(done)
		}()
		<-done
	})

	t.Run("entries are reclaimed after release", func(t *testing.T) {
		km := newKeyedMutex()
		key := uuid.New()

		unlock := km.Lock(key)
		unlock()

		km.mu.Lock()
		defer km.mu.Unlock()
		assert.Empty(t, km.entries)
	})
}
