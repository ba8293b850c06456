package sync

import (
	"context"
	"testing"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *memStore) *Service {
	s := NewService(store, NewMemoryLocker(), nil)
	s.now = store.now
	return s
}

func TestPullZeroWatermarkReturnsEverything(t *testing.T) {
	store := newMemStore()
	s := newTestService(store)
	owner := uuid.New()

	_, err := s.Sync(context.Background(), owner, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
		Records: []RecordPayload{{
			LocalID:        "r1",
			PatientLocalID: "loc1",
		}},
	})
	require.NoError(t, err)

	res, err := s.Pull(context.Background(), owner, time.Time{})
	require.NoError(t, err)
	assert.Len(t, res.Patients, 1)
	assert.Len(t, res.Records, 1)
	assert.Empty(t, res.Reminders)
	assert.False(t, res.Timestamp.IsZero())
}

func TestPullMonotonicity(t *testing.T) {
	store := newMemStore()
	s := newTestService(store)
	owner := uuid.New()

	_, err := s.Sync(context.Background(), owner, Batch{
		Patients: []PatientPayload{
			patientPayload("loc1", "A", "B", 30, "female"),
			patientPayload("loc2", "C", "D", 25, "female"),
		},
	})
	require.NoError(t, err)

	first, err := s.Pull(context.Background(), owner, time.Time{})
	require.NoError(t, err)
	require.Len(t, first.Patients, 2)

	// modify loc2 only, then pull from the previous serverTimestamp
	update := patientPayload("loc2", "C", "D", 26, "female")
	_, err = s.Sync(context.Background(), owner, Batch{Patients: []PatientPayload{update}})
	require.NoError(t, err)

	second, err := s.Pull(context.Background(), owner, first.Timestamp)
	require.NoError(t, err)
	require.Len(t, second.Patients, 1)
	assert.Equal(t, "loc2", second.Patients[0].LocalID)
	assert.Equal(t, 26, second.Patients[0].Age)

	// nothing changed since, so the next pull is empty
	third, err := s.Pull(context.Background(), owner, second.Timestamp)
	require.NoError(t, err)
	assert.Empty(t, third.Patients)
	assert.Empty(t, third.Records)
	assert.Empty(t, third.Reminders)
}

func TestPullIsOwnerScoped(t *testing.T) {
	store := newMemStore()
	s := newTestService(store)
	ownerA := uuid.New()
	ownerB := uuid.New()

	_, err := s.Sync(context.Background(), ownerA, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
	})
	require.NoError(t, err)

	res, err := s.Pull(context.Background(), ownerB, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, res.Patients)
}

func TestPendingSummaryCountsPerKind(t *testing.T) {
	store := newMemStore()
	s := newTestService(store)
	owner := uuid.New()

	seedPatient := models.Patient{ID: uuid.New(), OwnerID: owner, SyncStatus: models.SyncStatusPending}
	store.patients[seedPatient.ID] = seedPatient
	seedRecord := models.MedicalRecord{ID: uuid.New(), OwnerID: owner, SyncStatus: models.SyncStatusPending}
	store.records[seedRecord.ID] = seedRecord
	syncedRecord := models.MedicalRecord{ID: uuid.New(), OwnerID: owner, SyncStatus: models.SyncStatusSynced}
	store.records[syncedRecord.ID] = syncedRecord

	summary, err := s.PendingSummary(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Patients)
	assert.Equal(t, int64(1), summary.Records)
	assert.Equal(t, int64(0), summary.Reminders)
	assert.Equal(t, int64(2), summary.Total)
}
