package sync

import (
	"context"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// The resolver decides create vs update for an incoming item: an empty local
// id never matches (pure create), otherwise the lookup is scoped strictly to
// the owner so a local id from another account can never collide. Lookups are
// pure reads; the reconciler acts on the result.

func resolvePatient(ctx context.Context, st PatientStore, ownerID uuid.UUID, localID string) (*models.Patient, error) {
	if localID == "" {
		return nil, nil
	}
	return st.FindByLocalID(ctx, ownerID, localID)
}

func resolveRecord(ctx context.Context, st RecordStore, ownerID uuid.UUID, localID string) (*models.MedicalRecord, error) {
	if localID == "" {
		return nil, nil
	}
	return st.FindByLocalID(ctx, ownerID, localID)
}

func resolveReminder(ctx context.Context, st ReminderStore, ownerID uuid.UUID, localID string) (*models.Reminder, error) {
	if localID == "" {
		return nil, nil
	}
	return st.FindByLocalID(ctx, ownerID, localID)
}
