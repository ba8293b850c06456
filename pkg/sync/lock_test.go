package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryLockerSerializesSameOwner(t *testing.T) {
	l := NewMemoryLocker()
	owner := uuid.New()

	release, err := l.Lock(context.Background(), owner)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		r, err := l.Lock(context.Background(), owner)
		if err != nil {
			t.Errorf("second lock: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestMemoryLockerIndependentOwners(t *testing.T) {
	l := NewMemoryLocker()

	releaseA, err := l.Lock(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("lock A: %v", err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := l.Lock(ctx, uuid.New())
	if err != nil {
		t.Fatalf("lock B blocked on a different owner: %v", err)
	}
	releaseB()
}

func TestMemoryLockerHonorsContext(t *testing.T) {
	l := NewMemoryLocker()
	owner := uuid.New()

	release, err := l.Lock(context.Background(), owner)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, owner); err == nil {
		t.Fatal("lock succeeded despite held owner and expired context")
	}
}
