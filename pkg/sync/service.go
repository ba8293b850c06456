package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the sync surface: batch submission, incremental pull and the
// pending summary. Batch submissions for the same owner serialize through the
// locker; pulls and summaries are plain reads and take no lock.
type Service struct {
	store      Store
	reconciler *Reconciler
	locker     OwnerLocker
	now        func() time.Time
}

func NewService(store Store, locker OwnerLocker, events EventPublisher) *Service {
	return &Service{
		store:      store,
		reconciler: NewReconciler(store, events),
		locker:     locker,
		now:        time.Now,
	}
}

// Sync reconciles one batch under the owner's lock. The Result is meaningful
// even when err is non-nil: kinds committed before a store failure stay
// committed and their counts are reported.
func (s *Service) Sync(ctx context.Context, ownerID uuid.UUID, batch Batch) (Result, error) {
	release, err := s.locker.Lock(ctx, ownerID)
	if err != nil {
		return Result{}, err
	}
	defer release()

	return s.reconciler.Reconcile(ctx, ownerID, batch)
}

// Pull returns every owned entity modified strictly after since. A zero since
// returns everything.
func (s *Service) Pull(ctx context.Context, ownerID uuid.UUID, since time.Time) (PullResult, error) {
	return pull(ctx, s.store, ownerID, since, s.now().UTC())
}

// PendingSummary counts entities still awaiting sync, per kind.
func (s *Service) PendingSummary(ctx context.Context, ownerID uuid.UUID) (PendingSummary, error) {
	return pendingSummary(ctx, s.store, ownerID)
}
