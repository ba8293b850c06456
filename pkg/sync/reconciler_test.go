package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func patientPayload(localID, first, last string, age int, gender string) PatientPayload {
	return PatientPayload{
		LocalID:   localID,
		FirstName: strPtr(first),
		LastName:  strPtr(last),
		Age:       intPtr(age),
		Gender:    strPtr(gender),
	}
}

func TestReconcileCreatesPatientAndLinkedRecord(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	batch := Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
		Records: []RecordPayload{{
			LocalID:        "r1",
			PatientLocalID: "loc1",
			BPSystolic:     intPtr(150),
		}},
	}

	res, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Patients.Created)
	assert.Equal(t, 1, res.Records.Created)
	assert.Empty(t, res.Patients.Errors)
	assert.Empty(t, res.Records.Errors)

	patient, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
	require.NoError(t, err)
	require.NotNil(t, patient)
	assert.True(t, strings.HasPrefix(patient.PatientUID, "ASHA-"))
	assert.Equal(t, models.SyncStatusSynced, patient.SyncStatus)

	rec, err := store.Records().FindByLocalID(context.Background(), owner, "r1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, patient.ID, rec.PatientID)
	require.NotNil(t, rec.BPSystolic)
	assert.Equal(t, 150, *rec.BPSystolic)
}

func TestReconcileIdempotent(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	batch := Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
		Records: []RecordPayload{{
			LocalID:        "r1",
			PatientLocalID: "loc1",
			BPSystolic:     intPtr(150),
		}},
		Reminders: []ReminderPayload{{
			LocalID:        "rem1",
			PatientLocalID: "loc1",
			Title:          strPtr("ANC visit"),
			DueDate:        strPtr("2025-07-01"),
		}},
	}

	first, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Patients.Created)
	assert.Equal(t, 1, first.Records.Created)
	assert.Equal(t, 1, first.Reminders.Created)

	uidBefore := func() string {
		p, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
		require.NoError(t, err)
		require.NotNil(t, p)
		return p.PatientUID
	}()

	second, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Patients.Created)
	assert.Equal(t, 0, second.Records.Created)
	assert.Equal(t, 0, second.Reminders.Created)
	assert.Equal(t, 1, second.Patients.Updated)
	assert.Equal(t, 1, second.Records.Updated)
	assert.Equal(t, 1, second.Reminders.Updated)

	assert.Len(t, store.patients, 1)
	assert.Len(t, store.records, 1)
	assert.Len(t, store.reminders, 1)

	// patient_uid is generated once and never rewritten by sync
	p, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
	require.NoError(t, err)
	assert.Equal(t, uidBefore, p.PatientUID)
}

func TestReconcileIsolatesItemFailures(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	bad := patientPayload("p2", "Bad", "Date", 25, "female")
	bad.LastMenstrualDate = strPtr("not-a-date")

	batch := Batch{Patients: []PatientPayload{
		patientPayload("p1", "First", "One", 20, "female"),
		bad,
		patientPayload("p3", "Third", "Three", 40, "male"),
	}}

	res, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Patients.Created)
	require.Len(t, res.Patients.Errors, 1)
	assert.Equal(t, "p2", res.Patients.Errors[0].LocalID)

	for _, localID := range []string{"p1", "p3"} {
		p, err := store.Patients().FindByLocalID(context.Background(), owner, localID)
		require.NoError(t, err)
		assert.NotNil(t, p, "patient %s should be committed", localID)
	}
	p2, err := store.Patients().FindByLocalID(context.Background(), owner, "p2")
	require.NoError(t, err)
	assert.Nil(t, p2)
}

func TestReconcileOwnerScoping(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	ownerA := uuid.New()
	ownerB := uuid.New()

	batch := Batch{Patients: []PatientPayload{patientPayload("X", "Shared", "LocalID", 30, "female")}}

	resA, err := r.Reconcile(context.Background(), ownerA, batch)
	require.NoError(t, err)
	resB, err := r.Reconcile(context.Background(), ownerB, batch)
	require.NoError(t, err)

	// same local id under two owners never collides
	assert.Equal(t, 1, resA.Patients.Created)
	assert.Equal(t, 1, resB.Patients.Created)
	assert.Len(t, store.patients, 2)

	pa, err := store.Patients().FindByLocalID(context.Background(), ownerA, "X")
	require.NoError(t, err)
	pb, err := store.Patients().FindByLocalID(context.Background(), ownerB, "X")
	require.NoError(t, err)
	require.NotNil(t, pa)
	require.NotNil(t, pb)
	assert.NotEqual(t, pa.ID, pb.ID)
}

func TestReconcileRecordParentNotFound(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	batch := Batch{Records: []RecordPayload{{
		LocalID:        "r2",
		PatientLocalID: "nonexistent",
	}}}

	res, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Records.Created)
	require.Len(t, res.Records.Errors, 1)
	assert.Equal(t, "r2", res.Records.Errors[0].LocalID)
	assert.Equal(t, "Patient not found", res.Records.Errors[0].Reason)
}

func TestReconcileParentByServerID(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	_, err := r.Reconcile(context.Background(), owner, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
	})
	require.NoError(t, err)
	patient, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
	require.NoError(t, err)
	require.NotNil(t, patient)

	res, err := r.Reconcile(context.Background(), owner, Batch{
		Records: []RecordPayload{{
			LocalID:   "r1",
			PatientID: &patient.ID,
			HeartRate: intPtr(88),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Records.Created)
	assert.Empty(t, res.Records.Errors)
}

func TestReconcileParentIDOwnedByOtherAccount(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	ownerA := uuid.New()
	ownerB := uuid.New()

	_, err := r.Reconcile(context.Background(), ownerA, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
	})
	require.NoError(t, err)
	patient, err := store.Patients().FindByLocalID(context.Background(), ownerA, "loc1")
	require.NoError(t, err)
	require.NotNil(t, patient)

	res, err := r.Reconcile(context.Background(), ownerB, Batch{
		Records: []RecordPayload{{LocalID: "r1", PatientID: &patient.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Records.Created)
	require.Len(t, res.Records.Errors, 1)
	assert.Equal(t, "Patient not found", res.Records.Errors[0].Reason)
}

func TestReconcileReminderRequiresDueDate(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	res, err := r.Reconcile(context.Background(), owner, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
		Reminders: []ReminderPayload{{
			LocalID:        "rem1",
			PatientLocalID: "loc1",
			Title:          strPtr("Follow up"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reminders.Created)
	require.Len(t, res.Reminders.Errors, 1)
	assert.Equal(t, "rem1", res.Reminders.Errors[0].LocalID)
	assert.Contains(t, res.Reminders.Errors[0].Reason, "due_date")
}

func TestReconcileStoreErrorAbortsKindOnly(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	store.createRecordErr = errors.New("connection reset")

	res, err := r.Reconcile(context.Background(), owner, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
		Records: []RecordPayload{{
			LocalID:        "r1",
			PatientLocalID: "loc1",
		}},
		Reminders: []ReminderPayload{{
			LocalID:        "rem1",
			PatientLocalID: "loc1",
			Title:          strPtr("Follow up"),
			DueDate:        strPtr("2025-07-01"),
		}},
	})

	// the store failure surfaces batch-level, not as a per-item error
	require.Error(t, err)
	var se *StoreError
	assert.ErrorAs(t, err, &se)

	// patients committed before the failure stay committed
	assert.Equal(t, 1, res.Patients.Created)
	assert.Len(t, store.patients, 1)

	// the failing kind rolled back
	assert.Len(t, store.records, 0)

	// later kinds are still attempted
	assert.Equal(t, 1, res.Reminders.Created)
	assert.Len(t, store.reminders, 1)
}

func TestReconcileEmptyLocalIDAlwaysCreates(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	batch := Batch{Patients: []PatientPayload{patientPayload("", "No", "LocalID", 30, "female")}}

	first, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), owner, batch)
	require.NoError(t, err)

	// no idempotency key means no dedup is possible
	assert.Equal(t, 1, first.Patients.Created)
	assert.Equal(t, 1, second.Patients.Created)
	assert.Len(t, store.patients, 2)
}
