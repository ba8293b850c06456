package sync

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// OwnerLocker serializes sync submissions per owner. Two concurrent batches
// for the same owner racing to create the same local id would produce
// duplicates; the lock forces the second batch to wait for the first.
type OwnerLocker interface {
	// Lock blocks until the owner's lock is held or ctx is done. The
	// returned func releases the lock.
	Lock(ctx context.Context, ownerID uuid.UUID) (func(), error)
}

// MemoryLocker serializes owners within a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[uuid.UUID]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	for {
		l.mu.Lock()
		held, ok := l.locks[ownerID]
		if !ok {
			ch := make(chan struct{})
			l.locks[ownerID] = ch
			l.mu.Unlock()
			release := func() {
				l.mu.Lock()
				delete(l.locks, ownerID)
				l.mu.Unlock()
				close(ch)
			}
			return release, nil
		}
		l.mu.Unlock()

		select {
		case <-held:
			// holder released, try again
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
