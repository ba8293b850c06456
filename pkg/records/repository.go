package records

import (
	"context"
	"errors"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type RecordModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PatientID uuid.UUID `gorm:"type:uuid;index"`

	BPSystolic  *int
	BPDiastolic *int
	HeartRate   *int
	Temperature *float64
	BloodSugar  *int
	Hemoglobin  *float64

	Fever          bool
	Cough          bool
	CoughDuration  *int
	Fatigue        bool
	WeightLoss     bool
	NightSweats    bool
	Breathlessness bool
	Headache       bool
	BodyPain       bool

	Symptoms           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Diagnosis          string
	Notes              string
	VaccinationHistory datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	RiskLevel   string                      `gorm:"size:20"`
	RiskFactors datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	RecordDate time.Time

	SyncStatus string    `gorm:"size:20;index"`
	LocalID    string    `gorm:"size:50;index:idx_records_owner_local"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index:idx_records_owner_local;index"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

func (RecordModel) TableName() string {
	return "medical_records"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RecordModel{})
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MedicalRecord, error) {
	var m RecordModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := mapRecordModel(m)
	return &rec, nil
}

func (r *Repository) FindByLocalID(ctx context.Context, ownerID uuid.UUID, localID string) (*models.MedicalRecord, error) {
	var m RecordModel
	err := r.db.WithContext(ctx).Where("owner_id = ? AND local_id = ?", ownerID, localID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec := mapRecordModel(m)
	return &rec, nil
}

func (r *Repository) Create(ctx context.Context, rec *models.MedicalRecord) error {
	m := toRecordModel(*rec)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rec.CreatedAt = m.CreatedAt
	rec.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, rec *models.MedicalRecord) error {
	m := toRecordModel(*rec)
	m.UpdatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	rec.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&RecordModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]models.MedicalRecord, error) {
	query := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("record_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []RecordModel
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]models.MedicalRecord, 0, len(items))
	for _, m := range items {
		out = append(out, mapRecordModel(m))
	}
	return out, nil
}

func (r *Repository) ListModifiedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]models.MedicalRecord, error) {
	var items []RecordModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND updated_at > ?", ownerID, since).
		Order("updated_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.MedicalRecord, 0, len(items))
	for _, m := range items {
		out = append(out, mapRecordModel(m))
	}
	return out, nil
}

func (r *Repository) CountPending(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecordModel{}).
		Where("owner_id = ? AND sync_status = ?", ownerID, models.SyncStatusPending).
		Count(&count).Error
	return count, err
}

func toRecordModel(rec models.MedicalRecord) RecordModel {
	return RecordModel{
		ID:                 rec.ID,
		PatientID:          rec.PatientID,
		BPSystolic:         rec.BPSystolic,
		BPDiastolic:        rec.BPDiastolic,
		HeartRate:          rec.HeartRate,
		Temperature:        rec.Temperature,
		BloodSugar:         rec.BloodSugar,
		Hemoglobin:         rec.Hemoglobin,
		Fever:              rec.Fever,
		Cough:              rec.Cough,
		CoughDuration:      rec.CoughDuration,
		Fatigue:            rec.Fatigue,
		WeightLoss:         rec.WeightLoss,
		NightSweats:        rec.NightSweats,
		Breathlessness:     rec.Breathlessness,
		Headache:           rec.Headache,
		BodyPain:           rec.BodyPain,
		Symptoms:           datatypes.NewJSONSlice(rec.Symptoms),
		Diagnosis:          rec.Diagnosis,
		Notes:              rec.Notes,
		VaccinationHistory: datatypes.NewJSONSlice(rec.VaccinationHistory),
		RiskLevel:          rec.RiskLevel,
		RiskFactors:        datatypes.NewJSONSlice(rec.RiskFactors),
		RecordDate:         rec.RecordDate,
		SyncStatus:         rec.SyncStatus,
		LocalID:            rec.LocalID,
		OwnerID:            rec.OwnerID,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}
}

func mapRecordModel(m RecordModel) models.MedicalRecord {
	return models.MedicalRecord{
		ID:                 m.ID,
		PatientID:          m.PatientID,
		BPSystolic:         m.BPSystolic,
		BPDiastolic:        m.BPDiastolic,
		HeartRate:          m.HeartRate,
		Temperature:        m.Temperature,
		BloodSugar:         m.BloodSugar,
		Hemoglobin:         m.Hemoglobin,
		Fever:              m.Fever,
		Cough:              m.Cough,
		CoughDuration:      m.CoughDuration,
		Fatigue:            m.Fatigue,
		WeightLoss:         m.WeightLoss,
		NightSweats:        m.NightSweats,
		Breathlessness:     m.Breathlessness,
		Headache:           m.Headache,
		BodyPain:           m.BodyPain,
		Symptoms:           []string(m.Symptoms),
		Diagnosis:          m.Diagnosis,
		Notes:              m.Notes,
		VaccinationHistory: []string(m.VaccinationHistory),
		RiskLevel:          m.RiskLevel,
		RiskFactors:        []string(m.RiskFactors),
		RecordDate:         m.RecordDate,
		SyncStatus:         m.SyncStatus,
		LocalID:            m.LocalID,
		OwnerID:            m.OwnerID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
