package sync

import (
	"context"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// PatientStore is the slice of patient persistence the reconciler needs.
// FindByID and FindByLocalID return (nil, nil) when no entity matches.
type PatientStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Patient, error)
	Create(ctx context.Context, p *models.Patient) error
	Update(ctx context.Context, p *models.Patient) error
	ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Patient, error)
	CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type RecordStore interface {
	FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.MedicalRecord, error)
	Create(ctx context.Context, rec *models.MedicalRecord) error
	Update(ctx context.Context, rec *models.MedicalRecord) error
	ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.MedicalRecord, error)
	CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type ReminderStore interface {
	FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Reminder, error)
	Create(ctx context.Context, rem *models.Reminder) error
	Update(ctx context.Context, rem *models.Reminder) error
	ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Reminder, error)
	CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// Store is the entity store the sync core runs against. Begin opens a unit of
// work; the reconciler opens one per entity kind so that patients are durably
// committed and visible before records and reminders are processed.
type Store interface {
	Patients() PatientStore
	Records() RecordStore
	Reminders() ReminderStore
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one unit of work. Writes through it become visible to plain Store
// reads only after Commit.
type Tx interface {
	Patients() PatientStore
	Records() RecordStore
	Reminders() ReminderStore
	Commit() error
	Rollback() error
}
