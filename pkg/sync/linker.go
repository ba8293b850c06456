package sync

import (
	"context"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// linkParent resolves a dependent item's parent patient. A server-side parent
// id wins and must belong to the owner; otherwise the parent's local id is
// resolved through the idempotency lookup. Patients are committed before
// dependents run, so a parent introduced earlier in the same batch resolves
// here. Returns ErrParentNotFound when neither reference resolves; store read
// failures escalate as StoreError.
func linkParent(ctx context.Context, st PatientStore, ownerID uuid.UUID, parentID *uuid.UUID, parentLocalID string) (*models.Patient, error) {
	if parentID != nil {
		patient, err := st.FindByID(ctx, *parentID)
		if err != nil {
			return nil, storeErr("find patient by id", err)
		}
		if patient == nil || patient.OwnerID != ownerID {
			return nil, ErrParentNotFound
		}
		return patient, nil
	}

	if parentLocalID != "" {
		patient, err := st.FindByLocalID(ctx, ownerID, parentLocalID)
		if err != nil {
			return nil, storeErr("find patient by local id", err)
		}
		if patient == nil {
			return nil, ErrParentNotFound
		}
		return patient, nil
	}

	return nil, ErrParentNotFound
}
