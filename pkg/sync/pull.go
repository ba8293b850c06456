package sync

import (
	"context"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// PullResult carries everything modified after the client's watermark.
// Timestamp is the moment the pull executed; the client feeds it back as the
// next watermark, which keeps successive pulls monotonic and loss-free.
type PullResult struct {
	Patients  []models.Patient       `json:"patients"`
	Records   []models.MedicalRecord `json:"records"`
	Reminders []models.Reminder      `json:"reminders"`
	Timestamp time.Time              `json:"timestamp"`
}

// PendingSummary counts entities still tagged pending by offline edits.
type PendingSummary struct {
	Patients  int64 `json:"patients"`
	Records   int64 `json:"records"`
	Reminders int64 `json:"reminders"`
	Total     int64 `json:"total"`
}

// pull selects every owned entity whose updated_at is strictly greater than
// since. A zero since means everything.
func pull(ctx context.Context, store Store, ownerID uuid.UUID, since, now time.Time) (PullResult, error) {
	patients, err := store.Patients().ListModifiedSince(ctx, ownerID, since)
	if err != nil {
		return PullResult{}, storeErr("pull patients", err)
	}
	records, err := store.Records().ListModifiedSince(ctx, ownerID, since)
	if err != nil {
		return PullResult{}, storeErr("pull records", err)
	}
	reminders, err := store.Reminders().ListModifiedSince(ctx, ownerID, since)
	if err != nil {
		return PullResult{}, storeErr("pull reminders", err)
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	if records == nil {
		records = []models.MedicalRecord{}
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	return PullResult{
		Patients:  patients,
		Records:   records,
		Reminders: reminders,
		Timestamp: now,
	}, nil
}

func pendingSummary(ctx context.Context, store Store, ownerID uuid.UUID) (PendingSummary, error) {
	patients, err := store.Patients().CountPending(ctx, ownerID)
	if err != nil {
		return PendingSummary{}, storeErr("count pending patients", err)
	}
	records, err := store.Records().CountPending(ctx, ownerID)
	if err != nil {
		return PendingSummary{}, storeErr("count pending records", err)
	}
	reminders, err := store.Reminders().CountPending(ctx, ownerID)
	if err != nil {
		return PendingSummary{}, storeErr("count pending reminders", err)
	}
	return PendingSummary{
		Patients:  patients,
		Records:   records,
		Reminders: reminders,
		Total:     patients + records + reminders,
	}, nil
}
