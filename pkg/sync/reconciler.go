package sync

import (
	"context"

	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// EventPublisher pushes record events onto the bus so the alerts worker can
// classify records written through sync; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type KindResult struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Errors  []ItemError `json:"errors"`
}

type Result struct {
	Patients  KindResult `json:"patients"`
	Records   KindResult `json:"records"`
	Reminders KindResult `json:"reminders"`
}

func newKindResult() KindResult {
	return KindResult{Errors: []ItemError{}}
}

// Reconciler merges one client batch into the store. Kinds run in a fixed
// order, patients then records then reminders, each kind committed as its own
// unit of work so dependents can resolve parents created earlier in the same
// batch. Item failures are recorded and skipped; a store failure aborts the
// rest of the current kind, rolls back its uncommitted writes, and surfaces
// batch-level while later kinds are still attempted.
type Reconciler struct {
	store  Store
	events EventPublisher
}

func NewReconciler(store Store, events EventPublisher) *Reconciler {
	return &Reconciler{store: store, events: events}
}

func (r *Reconciler) Reconcile(ctx context.Context, ownerID uuid.UUID, batch Batch) (Result, error) {
	res := Result{
		Patients:  newKindResult(),
		Records:   newKindResult(),
		Reminders: newKindResult(),
	}

	var batchErr error
	if err := r.reconcilePatients(ctx, ownerID, batch.Patients, &res.Patients); err != nil {
		batchErr = err
	}
	if err := r.reconcileRecords(ctx, ownerID, batch.Records, &res.Records); err != nil && batchErr == nil {
		batchErr = err
	}
	if err := r.reconcileReminders(ctx, ownerID, batch.Reminders, &res.Reminders); err != nil && batchErr == nil {
		batchErr = err
	}
	return res, batchErr
}

func (r *Reconciler) reconcilePatients(ctx context.Context, ownerID uuid.UUID, items []PatientPayload, out *KindResult) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return storeErr("begin patients", err)
	}
	st := tx.Patients()

	for _, in := range items {
		localID := in.localID()

		existing, err := resolvePatient(ctx, st, ownerID, localID)
		if err != nil {
			tx.Rollback()
			return storeErr("resolve patient", err)
		}

		if existing == nil {
			p := models.Patient{
				ID:         uuid.New(),
				PatientUID: models.NewPatientUID(),
				LocalID:    localID,
				OwnerID:    ownerID,
			}
			if err := applyPatient(&p, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Create(ctx, &p); err != nil {
				tx.Rollback()
				return storeErr("create patient", err)
			}
			out.Created++
		} else {
			if err := applyPatient(existing, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Update(ctx, existing); err != nil {
				tx.Rollback()
				return storeErr("update patient", err)
			}
			out.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit patients", err)
	}
	return nil
}

func (r *Reconciler) reconcileRecords(ctx context.Context, ownerID uuid.UUID, items []RecordPayload, out *KindResult) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return storeErr("begin records", err)
	}
	st := tx.Records()

	var synced []models.MedicalRecord
	for _, in := range items {
		localID := in.localID()

		existing, err := resolveRecord(ctx, st, ownerID, localID)
		if err != nil {
			tx.Rollback()
			return storeErr("resolve record", err)
		}

		if existing == nil {
			// Parents resolve against the committed store: the patients
			// unit of work finished before this one started.
			parent, err := linkParent(ctx, r.store.Patients(), ownerID, in.parentID(), in.parentLocalID())
			if err != nil {
				if se, ok := err.(*StoreError); ok {
					tx.Rollback()
					return se
				}
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			rec := models.MedicalRecord{
				ID:        uuid.New(),
				PatientID: parent.ID,
				LocalID:   localID,
				OwnerID:   ownerID,
			}
			if err := applyRecord(&rec, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Create(ctx, &rec); err != nil {
				tx.Rollback()
				return storeErr("create record", err)
			}
			out.Created++
			synced = append(synced, rec)
		} else {
			if err := applyRecord(existing, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Update(ctx, existing); err != nil {
				tx.Rollback()
				return storeErr("update record", err)
			}
			out.Updated++
			synced = append(synced, *existing)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit records", err)
	}
	for _, rec := range synced {
		r.publishSynced(ctx, rec)
	}
	return nil
}

func (r *Reconciler) reconcileReminders(ctx context.Context, ownerID uuid.UUID, items []ReminderPayload, out *KindResult) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.store.Begin(ctx)
	if err != nil {
		return storeErr("begin reminders", err)
	}
	st := tx.Reminders()

	for _, in := range items {
		localID := in.localID()

		existing, err := resolveReminder(ctx, st, ownerID, localID)
		if err != nil {
			tx.Rollback()
			return storeErr("resolve reminder", err)
		}

		if existing == nil {
			parent, err := linkParent(ctx, r.store.Patients(), ownerID, in.parentID(), in.parentLocalID())
			if err != nil {
				if se, ok := err.(*StoreError); ok {
					tx.Rollback()
					return se
				}
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if pick(in.DueDate, in.DueDateCamel) == nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: "due_date is required"})
				continue
			}
			rem := models.Reminder{
				ID:        uuid.New(),
				PatientID: parent.ID,
				Type:      "followup",
				Priority:  "medium",
				LocalID:   localID,
				OwnerID:   ownerID,
			}
			if err := applyReminder(&rem, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Create(ctx, &rem); err != nil {
				tx.Rollback()
				return storeErr("create reminder", err)
			}
			out.Created++
		} else {
			if err := applyReminder(existing, in); err != nil {
				out.Errors = append(out.Errors, ItemError{LocalID: localID, Reason: err.Error()})
				continue
			}
			if err := st.Update(ctx, existing); err != nil {
				tx.Rollback()
				return storeErr("update reminder", err)
			}
			out.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit reminders", err)
	}
	return nil
}

func (r *Reconciler) publishSynced(ctx context.Context, rec models.MedicalRecord) {
	if r.events == nil {
		return
	}
	err := r.events.PublishEvent(ctx, "record.synced", "care-service", map[string]interface{}{
		"record_id":  rec.ID.String(),
		"patient_id": rec.PatientID.String(),
	})
	if err != nil {
		logger.Log.WithError(err).Warn("failed to publish record.synced event")
	}
}
