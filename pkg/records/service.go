package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asha-care/platform/pkg/alerts"
	"github.com/asha-care/platform/pkg/common/logger"
	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

var ErrPatientNotFound = errors.New("Patient not found")

// PatientSource verifies parent patients when records are created directly.
type PatientSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
}

// EventPublisher pushes record events onto the bus; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

type Service struct {
	repo     *Repository
	patients PatientSource
	engine   *alerts.Engine
	events   EventPublisher
}

func NewService(repo *Repository, patients PatientSource, engine *alerts.Engine, events EventPublisher) *Service {
	return &Service{repo: repo, patients: patients, engine: engine, events: events}
}

type CreateRecordRequest struct {
	PatientID uuid.UUID `json:"patient_id"`

	BPSystolic  *int     `json:"bp_systolic"`
	BPDiastolic *int     `json:"bp_diastolic"`
	HeartRate   *int     `json:"heart_rate"`
	Temperature *float64 `json:"temperature"`
	BloodSugar  *int     `json:"blood_sugar"`
	Hemoglobin  *float64 `json:"hemoglobin"`

	Fever          bool `json:"fever"`
	Cough          bool `json:"cough"`
	CoughDuration  *int `json:"cough_duration"`
	Fatigue        bool `json:"fatigue"`
	WeightLoss     bool `json:"weight_loss"`
	NightSweats    bool `json:"night_sweats"`
	Breathlessness bool `json:"breathlessness"`
	Headache       bool `json:"headache"`
	BodyPain       bool `json:"body_pain"`

	Symptoms           []string `json:"symptoms_list"`
	Diagnosis          string   `json:"diagnosis"`
	Notes              string   `json:"notes"`
	VaccinationHistory []string `json:"vaccination_history"`

	RecordDate string `json:"record_date"`
	LocalID    string `json:"local_id"`
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateRecordRequest) (models.MedicalRecord, error) {
	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return models.MedicalRecord{}, err
	}
	if patient == nil || patient.OwnerID != ownerID {
		return models.MedicalRecord{}, ErrPatientNotFound
	}

	rec := models.MedicalRecord{
		ID:                 uuid.New(),
		PatientID:          patient.ID,
		BPSystolic:         req.BPSystolic,
		BPDiastolic:        req.BPDiastolic,
		HeartRate:          req.HeartRate,
		Temperature:        req.Temperature,
		BloodSugar:         req.BloodSugar,
		Hemoglobin:         req.Hemoglobin,
		Fever:              req.Fever,
		Cough:              req.Cough,
		CoughDuration:      req.CoughDuration,
		Fatigue:            req.Fatigue,
		WeightLoss:         req.WeightLoss,
		NightSweats:        req.NightSweats,
		Breathlessness:     req.Breathlessness,
		Headache:           req.Headache,
		BodyPain:           req.BodyPain,
		Symptoms:           req.Symptoms,
		Diagnosis:          req.Diagnosis,
		Notes:              req.Notes,
		VaccinationHistory: req.VaccinationHistory,
		RecordDate:         time.Now().UTC(),
		SyncStatus:         models.SyncStatusSynced,
		LocalID:            req.LocalID,
		OwnerID:            ownerID,
	}

	if req.RecordDate != "" {
		d, err := time.Parse(time.RFC3339, req.RecordDate)
		if err != nil {
			return models.MedicalRecord{}, fmt.Errorf("invalid record_date: %v", err)
		}
		rec.RecordDate = d
	}

	s.classify(&rec)

	if err := s.repo.Create(ctx, &rec); err != nil {
		return models.MedicalRecord{}, err
	}
	s.publish(ctx, "record.created", rec)
	return rec, nil
}

type UpdateRecordRequest struct {
	BPSystolic  *int     `json:"bp_systolic"`
	BPDiastolic *int     `json:"bp_diastolic"`
	HeartRate   *int     `json:"heart_rate"`
	Temperature *float64 `json:"temperature"`
	BloodSugar  *int     `json:"blood_sugar"`
	Hemoglobin  *float64 `json:"hemoglobin"`

	Fever          *bool `json:"fever"`
	Cough          *bool `json:"cough"`
	CoughDuration  *int  `json:"cough_duration"`
	Fatigue        *bool `json:"fatigue"`
	WeightLoss     *bool `json:"weight_loss"`
	NightSweats    *bool `json:"night_sweats"`
	Breathlessness *bool `json:"breathlessness"`
	Headache       *bool `json:"headache"`
	BodyPain       *bool `json:"body_pain"`

	Symptoms           []string `json:"symptoms_list"`
	Diagnosis          *string  `json:"diagnosis"`
	Notes              *string  `json:"notes"`
	VaccinationHistory []string `json:"vaccination_history"`
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateRecordRequest) (models.MedicalRecord, error) {
	rec, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return models.MedicalRecord{}, err
	}

	if req.BPSystolic != nil {
		rec.BPSystolic = req.BPSystolic
	}
	if req.BPDiastolic != nil {
		rec.BPDiastolic = req.BPDiastolic
	}
	if req.HeartRate != nil {
		rec.HeartRate = req.HeartRate
	}
	if req.Temperature != nil {
		rec.Temperature = req.Temperature
	}
	if req.BloodSugar != nil {
		rec.BloodSugar = req.BloodSugar
	}
	if req.Hemoglobin != nil {
		rec.Hemoglobin = req.Hemoglobin
	}
	if req.Fever != nil {
		rec.Fever = *req.Fever
	}
	if req.Cough != nil {
		rec.Cough = *req.Cough
	}
	if req.CoughDuration != nil {
		rec.CoughDuration = req.CoughDuration
	}
	if req.Fatigue != nil {
		rec.Fatigue = *req.Fatigue
	}
	if req.WeightLoss != nil {
		rec.WeightLoss = *req.WeightLoss
	}
	if req.NightSweats != nil {
		rec.NightSweats = *req.NightSweats
	}
	if req.Breathlessness != nil {
		rec.Breathlessness = *req.Breathlessness
	}
	if req.Headache != nil {
		rec.Headache = *req.Headache
	}
	if req.BodyPain != nil {
		rec.BodyPain = *req.BodyPain
	}
	if req.Symptoms != nil {
		rec.Symptoms = req.Symptoms
	}
	if req.Diagnosis != nil {
		rec.Diagnosis = *req.Diagnosis
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if req.VaccinationHistory != nil {
		rec.VaccinationHistory = req.VaccinationHistory
	}

	s.classify(rec)

	if err := s.repo.Update(ctx, rec); err != nil {
		return models.MedicalRecord{}, err
	}
	s.publish(ctx, "record.updated", *rec)
	return *rec, nil
}

func (s *Service) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]models.MedicalRecord, error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil || patient.OwnerID != ownerID {
		return nil, ErrPatientNotFound
	}
	return s.repo.ListByPatient(ctx, patientID, 0)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// Classify recomputes the risk classification for an already stored record.
// Used by the alerts worker for records written through sync.
func (s *Service) Classify(ctx context.Context, id uuid.UUID) (models.MedicalRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.MedicalRecord{}, err
	}
	if rec == nil {
		return models.MedicalRecord{}, ErrRecordNotFound
	}
	s.classify(rec)
	if err := s.repo.Update(ctx, rec); err != nil {
		return models.MedicalRecord{}, err
	}
	return *rec, nil
}

func (s *Service) classify(rec *models.MedicalRecord) {
	found := s.engine.Analyze(*rec)
	rec.RiskLevel = alerts.RiskLevel(found)
	rec.RiskFactors = alerts.RiskFactors(found)
}

func (s *Service) publish(ctx context.Context, eventType string, rec models.MedicalRecord) {
	if s.events == nil {
		return
	}
	err := s.events.PublishEvent(ctx, eventType, "care-service", map[string]interface{}{
		"record_id":  rec.ID.String(),
		"patient_id": rec.PatientID.String(),
		"risk_level": rec.RiskLevel,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("failed to publish record event")
	}
}

func (s *Service) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.MedicalRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.OwnerID != ownerID {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}
