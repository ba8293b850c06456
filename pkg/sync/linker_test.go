package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

func TestLinkParentByServerID(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	p := models.Patient{ID: uuid.New(), OwnerID: owner, LocalID: "loc1"}
	store.patients[p.ID] = p

	got, err := linkParent(context.Background(), store.Patients(), owner, &p.ID, "")
	if err != nil {
		t.Fatalf("linkParent: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("resolved %v, want %v", got.ID, p.ID)
	}
}

func TestLinkParentByServerIDWrongOwner(t *testing.T) {
	store := newMemStore()
	p := models.Patient{ID: uuid.New(), OwnerID: uuid.New(), LocalID: "loc1"}
	store.patients[p.ID] = p

	_, err := linkParent(context.Background(), store.Patients(), uuid.New(), &p.ID, "")
	if !errors.Is(err, ErrParentNotFound) {
		t.Errorf("err = %v, want ErrParentNotFound", err)
	}
}

func TestLinkParentByLocalID(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	p := models.Patient{ID: uuid.New(), OwnerID: owner, LocalID: "loc1"}
	store.patients[p.ID] = p

	got, err := linkParent(context.Background(), store.Patients(), owner, nil, "loc1")
	if err != nil {
		t.Fatalf("linkParent: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("resolved %v, want %v", got.ID, p.ID)
	}
}

// The server id wins over the local id when both are present.
func TestLinkParentServerIDTakesPrecedence(t *testing.T) {
	store := newMemStore()
	owner := uuid.New()
	byID := models.Patient{ID: uuid.New(), OwnerID: owner, LocalID: "loc1"}
	byLocal := models.Patient{ID: uuid.New(), OwnerID: owner, LocalID: "loc2"}
	store.patients[byID.ID] = byID
	store.patients[byLocal.ID] = byLocal

	got, err := linkParent(context.Background(), store.Patients(), owner, &byID.ID, "loc2")
	if err != nil {
		t.Fatalf("linkParent: %v", err)
	}
	if got.ID != byID.ID {
		t.Errorf("resolved %v, want the server-id parent %v", got.ID, byID.ID)
	}
}

func TestLinkParentNoReference(t *testing.T) {
	store := newMemStore()
	_, err := linkParent(context.Background(), store.Patients(), uuid.New(), nil, "")
	if !errors.Is(err, ErrParentNotFound) {
		t.Errorf("err = %v, want ErrParentNotFound", err)
	}
}
