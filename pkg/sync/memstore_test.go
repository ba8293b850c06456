package sync

import (
	"context"
	"sort"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for tests, with an injectable clock and
// per-op failure injection. Transactions stage writes on a deep copy and only
// publish them on Commit, mirroring the visibility rules the reconciler
// relies on.
type memStore struct {
	patients  map[uuid.UUID]models.Patient
	records   map[uuid.UUID]models.MedicalRecord
	reminders map[uuid.UUID]models.Reminder

	now func() time.Time

	createRecordErr   error
	createReminderErr error
}

func newMemStore() *memStore {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	return &memStore{
		patients:  make(map[uuid.UUID]models.Patient),
		records:   make(map[uuid.UUID]models.MedicalRecord),
		reminders: make(map[uuid.UUID]models.Reminder),
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (s *memStore) Patients() PatientStore   { return memPatients{s} }
func (s *memStore) Records() RecordStore     { return memRecords{s} }
func (s *memStore) Reminders() ReminderStore { return memReminders{s} }

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	staged := &memStore{
		patients:          make(map[uuid.UUID]models.Patient, len(s.patients)),
		records:           make(map[uuid.UUID]models.MedicalRecord, len(s.records)),
		reminders:         make(map[uuid.UUID]models.Reminder, len(s.reminders)),
		now:               s.now,
		createRecordErr:   s.createRecordErr,
		createReminderErr: s.createReminderErr,
	}
	for k, v := range s.patients {
		staged.patients[k] = v
	}
	for k, v := range s.records {
		staged.records[k] = v
	}
	for k, v := range s.reminders {
		staged.reminders[k] = v
	}
	return &memTx{store: s, staged: staged}, nil
}

type memTx struct {
	store  *memStore
	staged *memStore
	done   bool
}

func (t *memTx) Patients() PatientStore   { return memPatients{t.staged} }
func (t *memTx) Records() RecordStore     { return memRecords{t.staged} }
func (t *memTx) Reminders() ReminderStore { return memReminders{t.staged} }

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.patients = t.staged.patients
	t.store.records = t.staged.records
	t.store.reminders = t.staged.reminders
	return nil
}

func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

type memPatients struct{ s *memStore }

func (m memPatients) FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	if p, ok := m.s.patients[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m memPatients) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Patient, error) {
	for _, p := range m.s.patients {
		if p.OwnerID == ownerID && p.LocalID == localID {
			return &p, nil
		}
	}
	return nil, nil
}

func (m memPatients) Create(ctx context.Context, p *models.Patient) error {
	now := m.s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.s.patients[p.ID] = *p
	return nil
}

func (m memPatients) Update(ctx context.Context, p *models.Patient) error {
	p.UpdatedAt = m.s.now()
	m.s.patients[p.ID] = *p
	return nil
}

func (m memPatients) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range m.s.patients {
		if p.OwnerID == ownerID && p.UpdatedAt.After(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (m memPatients) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range m.s.patients {
		if p.OwnerID == ownerID && p.SyncStatus == models.SyncStatusPending {
			n++
		}
	}
	return n, nil
}

type memRecords struct{ s *memStore }

func (m memRecords) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.MedicalRecord, error) {
	for _, rec := range m.s.records {
		if rec.OwnerID == ownerID && rec.LocalID == localID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m memRecords) Create(ctx context.Context, rec *models.MedicalRecord) error {
	if m.s.createRecordErr != nil {
		return m.s.createRecordErr
	}
	now := m.s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.s.records[rec.ID] = *rec
	return nil
}

func (m memRecords) Update(ctx context.Context, rec *models.MedicalRecord) error {
	rec.UpdatedAt = m.s.now()
	m.s.records[rec.ID] = *rec
	return nil
}

func (m memRecords) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	for _, rec := range m.s.records {
		if rec.OwnerID == ownerID && rec.UpdatedAt.After(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (m memRecords) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, rec := range m.s.records {
		if rec.OwnerID == ownerID && rec.SyncStatus == models.SyncStatusPending {
			n++
		}
	}
	return n, nil
}

type memReminders struct{ s *memStore }

func (m memReminders) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Reminder, error) {
	for _, rem := range m.s.reminders {
		if rem.OwnerID == ownerID && rem.LocalID == localID {
			return &rem, nil
		}
	}
	return nil, nil
}

func (m memReminders) Create(ctx context.Context, rem *models.Reminder) error {
	if m.s.createReminderErr != nil {
		return m.s.createReminderErr
	}
	now := m.s.now()
	rem.CreatedAt = now
	rem.UpdatedAt = now
	m.s.reminders[rem.ID] = *rem
	return nil
}

func (m memReminders) Update(ctx context.Context, rem *models.Reminder) error {
	rem.UpdatedAt = m.s.now()
	m.s.reminders[rem.ID] = *rem
	return nil
}

func (m memReminders) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Reminder, error) {
	var out []models.Reminder
	for _, rem := range m.s.reminders {
		if rem.OwnerID == ownerID && rem.UpdatedAt.After(since) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

func (m memReminders) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, rem := range m.s.reminders {
		if rem.OwnerID == ownerID && rem.SyncStatus == models.SyncStatusPending {
			n++
		}
	}
	return n, nil
}
