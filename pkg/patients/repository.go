package patients

import (
	"context"
	"errors"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPatientNotFound = errors.New("patient not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type PatientModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientUID string    `gorm:"uniqueIndex;size:20"`

	FirstName string `gorm:"size:80"`
	LastName  string `gorm:"size:80"`
	Age       int
	Gender    string `gorm:"size:20"`
	Contact   string `gorm:"size:20"`
	Address   string

	Height     *float64
	Weight     *float64
	BloodGroup string `gorm:"size:10"`

	PregnancyStatus      bool
	LastMenstrualDate    *time.Time
	ExpectedDeliveryDate *time.Time

	SyncStatus string    `gorm:"size:20;index"`
	LocalID    string    `gorm:"size:50;index:idx_patients_owner_local"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index:idx_patients_owner_local;index"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (PatientModel) TableName() string {
	return "patients"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PatientModel{})
}

// FindByID looks a patient up by server id. Returns (nil, nil) when absent;
// owner checks are the caller's concern.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var m PatientModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := mapPatientModel(m)
	return &p, nil
}

// FindByLocalID resolves the sync idempotency key. Lookup is scoped strictly
// to the owner; returns (nil, nil) when no patient matches.
func (r *Repository) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.Patient, error) {
	var m PatientModel
	err := r.db.WithContext(ctx).Where("owner_id = ? AND local_id = ?", ownerID, localID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := mapPatientModel(m)
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *models.Patient) error {
	m := toPatientModel(*p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, p *models.Patient) error {
	m := toPatientModel(*p)
	m.UpdatedAt = time.Time{} // let gorm stamp it
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&PatientModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPatientNotFound
	}
	return nil
}

type ListQuery struct {
	Search    string
	Gender    string
	MinAge    *int
	MaxAge    *int
	Pregnancy *bool
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

var sortableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"first_name": "first_name",
	"last_name":  "last_name",
	"age":        "age",
}

func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]models.Patient, int64, error) {
	query := r.db.WithContext(ctx).Model(&PatientModel{}).Where("owner_id = ?", ownerID)

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR patient_uid ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Gender != "" {
		query = query.Where("gender = ?", q.Gender)
	}
	if q.MinAge != nil {
		query = query.Where("age >= ?", *q.MinAge)
	}
	if q.MaxAge != nil {
		query = query.Where("age <= ?", *q.MaxAge)
	}
	if q.Pregnancy != nil {
		query = query.Where("pregnancy_status = ?", *q.Pregnancy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortableColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if q.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(column + " " + order)

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 20
	}
	query = query.Offset((page - 1) * perPage).Limit(perPage)

	var items []PatientModel
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	out := make([]models.Patient, 0, len(items))
	for _, m := range items {
		out = append(out, mapPatientModel(m))
	}
	return out, total, nil
}

func (r *Repository) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.Patient, error) {
	var items []PatientModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND updated_at > ?", ownerID, since).
		Order("updated_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Patient, 0, len(items))
	for _, m := range items {
		out = append(out, mapPatientModel(m))
	}
	return out, nil
}

func (r *Repository) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PatientModel{}).
		Where("owner_id = ? AND sync_status = ?", ownerID, models.SyncStatusPending).
		Count(&count).Error
	return count, err
}

func toPatientModel(p models.Patient) PatientModel {
	return PatientModel{
		ID:                   p.ID,
		PatientUID:           p.PatientUID,
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		Age:                  p.Age,
		Gender:               p.Gender,
		Contact:              p.Contact,
		Address:              p.Address,
		Height:               p.Height,
		Weight:               p.Weight,
		BloodGroup:           p.BloodGroup,
		PregnancyStatus:      p.PregnancyStatus,
		LastMenstrualDate:    p.LastMenstrualDate,
		ExpectedDeliveryDate: p.ExpectedDeliveryDate,
		SyncStatus:           p.SyncStatus,
		LocalID:              p.LocalID,
		OwnerID:              p.OwnerID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func mapPatientModel(m PatientModel) models.Patient {
	return models.Patient{
		ID:                   m.ID,
		PatientUID:           m.PatientUID,
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Age:                  m.Age,
		Gender:               m.Gender,
		Contact:              m.Contact,
		Address:              m.Address,
		Height:               m.Height,
		Weight:               m.Weight,
		BloodGroup:           m.BloodGroup,
		PregnancyStatus:      m.PregnancyStatus,
		LastMenstrualDate:    m.LastMenstrualDate,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		SyncStatus:           m.SyncStatus,
		LocalID:              m.LocalID,
		OwnerID:              m.OwnerID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
