package sync

import (
	"context"

	"github.com/asha-care/platform/pkg/patients"
	"github.com/asha-care/platform/pkg/records"
	"github.com/asha-care/platform/pkg/reminders"
	"gorm.io/gorm"
)

// GormStore adapts the domain repositories to the sync Store. Begin opens a
// database transaction and hands out repositories bound to it.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Patients() PatientStore {
	return patients.NewRepository(s.db)
}

func (s *GormStore) Records() RecordStore {
	return records.NewRepository(s.db)
}

func (s *GormStore) Reminders() ReminderStore {
	return reminders.NewRepository(s.db)
}

func (s *GormStore) Begin(ctx context.Context) (Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{tx: tx}, nil
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Patients() PatientStore {
	return patients.NewRepository(t.tx)
}

func (t *gormTx) Records() RecordStore {
	return records.NewRepository(t.tx)
}

func (t *gormTx) Reminders() ReminderStore {
	return reminders.NewRepository(t.tx)
}

func (t *gormTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTx) Rollback() error {
	return t.tx.Rollback().Error
}
