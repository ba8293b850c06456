package reminders

import (
	"context"
	"errors"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReminderNotFound = errors.New("reminder not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ReminderModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `gorm:"type:uuid;index"`

	Type        string `gorm:"size:30;index"`
	Title       string `gorm:"size:200"`
	Description string

	DueDate time.Time `gorm:"index"`
	DueTime string    `gorm:"size:5"`

	Completed   bool `gorm:"index"`
	CompletedAt *time.Time

	Priority string `gorm:"size:20"`

	IsRecurring       bool
	RecurrencePattern string `gorm:"size:20"`
	RecurrenceEndDate *time.Time

	SyncStatus string    `gorm:"size:20;index"`
	LocalID    string    `gorm:"size:50;index:idx_reminders_owner_local"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index:idx_reminders_owner_local;index"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (ReminderModel) TableName() string {
	return "reminders"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ReminderModel{})
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	var m ReminderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rem := mapReminderModel(m)
	return &rem, nil
}

func (r *Repository) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Reminder, error) {
	var m ReminderModel
	err := r.db.WithContext(ctx).Where("owner_id = ? AND local_id = ?", ownerID, localID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rem := mapReminderModel(m)
	return &rem, nil
}

func (r *Repository) Create(ctx context.Context, rem *models.Reminder) error {
	m := toReminderModel(*rem)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rem.CreatedAt = m.CreatedAt
	rem.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, rem *models.Reminder) error {
	m := toReminderModel(*rem)
	m.UpdatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	rem.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&ReminderModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

type ListQuery struct {
	PatientID *uuid.UUID
	Type      string
	Completed *bool
}

func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]models.Reminder, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if q.PatientID != nil {
		query = query.Where("patient_id = ?", *q.PatientID)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Completed != nil {
		query = query.Where("completed = ?", *q.Completed)
	}

	var items []ReminderModel
	if err := query.Order("due_date ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]models.Reminder, 0, len(items))
	for _, m := range items {
		out = append(out, mapReminderModel(m))
	}
	return out, nil
}

func (r *Repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Reminder, error) {
	var items []ReminderModel
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("due_date ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Reminder, 0, len(items))
	for _, m := range items {
		out = append(out, mapReminderModel(m))
	}
	return out, nil
}

func (r *Repository) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Reminder, error) {
	var items []ReminderModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND updated_at > ?", ownerID, since).
		Order("updated_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Reminder, 0, len(items))
	for _, m := range items {
		out = append(out, mapReminderModel(m))
	}
	return out, nil
}

func (r *Repository) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReminderModel{}).
		Where("owner_id = ? AND sync_status = ?", ownerID, models.SyncStatusPending).
		Count(&count).Error
	return count, err
}

func toReminderModel(rem models.Reminder) ReminderModel {
	return ReminderModel{
		ID:                rem.ID,
		PatientID:         rem.PatientID,
		Type:              rem.Type,
		Title:             rem.Title,
		Description:       rem.Description,
		DueDate:           rem.DueDate,
		DueTime:           rem.DueTime,
		Completed:         rem.Completed,
		CompletedAt:       rem.CompletedAt,
		Priority:          rem.Priority,
		IsRecurring:       rem.IsRecurring,
		RecurrencePattern: rem.RecurrencePattern,
		RecurrenceEndDate: rem.RecurrenceEndDate,
		SyncStatus:        rem.SyncStatus,
		LocalID:           rem.LocalID,
		OwnerID:           rem.OwnerID,
		CreatedAt:         rem.CreatedAt,
		UpdatedAt:         rem.UpdatedAt,
	}
}

func mapReminderModel(m ReminderModel) models.Reminder {
	return models.Reminder{
		ID:                m.ID,
		PatientID:         m.PatientID,
		Type:              m.Type,
		Title:             m.Title,
		Description:       m.Description,
		DueDate:           m.DueDate,
		DueTime:           m.DueTime,
		Completed:         m.Completed,
		CompletedAt:       m.CompletedAt,
		Priority:          m.Priority,
		IsRecurring:       m.IsRecurring,
		RecurrencePattern: m.RecurrencePattern,
		RecurrenceEndDate: m.RecurrenceEndDate,
		SyncStatus:        m.SyncStatus,
		LocalID:           m.LocalID,
		OwnerID:           m.OwnerID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
