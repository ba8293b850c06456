package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/asha-care/platform/pkg/alerts"
	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

// RecordSource and ReminderSource provide the related entities shown on the
// patient detail view.
type RecordSource interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]models.MedicalRecord, error)
}

type ReminderSource interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]models.Reminder, error)
}

type Service struct {
	repo      *Repository
	records   RecordSource
	reminders ReminderSource
	engine    *alerts.Engine
}

func NewService(repo *Repository, records RecordSource, reminders ReminderSource, engine *alerts.Engine) *Service {
	return &Service{repo: repo, records: records, reminders: reminders, engine: engine}
}

type CreatePatientRequest struct {
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	Age                  *int     `json:"age"`
	Gender               string   `json:"gender"`
	Contact              string   `json:"contact"`
	Address              string   `json:"address"`
	Height               *float64 `json:"height"`
	Weight               *float64 `json:"weight"`
	BloodGroup           string   `json:"blood_group"`
	PregnancyStatus      bool     `json:"pregnancy_status"`
	LastMenstrualDate    string   `json:"last_menstrual_date"`
	ExpectedDeliveryDate string   `json:"expected_delivery_date"`
	LocalID              string   `json:"local_id"`
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreatePatientRequest) (models.Patient, error) {
	if req.FirstName == "" || req.LastName == "" {
		return models.Patient{}, fmt.Errorf("first_name and last_name are required")
	}
	if req.Age == nil {
		return models.Patient{}, fmt.Errorf("age is required")
	}
	if req.Gender == "" {
		return models.Patient{}, fmt.Errorf("gender is required")
	}

	p := models.Patient{
		ID:              uuid.New(),
		PatientUID:      models.NewPatientUID(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             *req.Age,
		Gender:          req.Gender,
		Contact:         req.Contact,
		Address:         req.Address,
		Height:          req.Height,
		Weight:          req.Weight,
		BloodGroup:      req.BloodGroup,
		PregnancyStatus: req.PregnancyStatus,
		SyncStatus:      models.SyncStatusSynced,
		LocalID:         req.LocalID,
		OwnerID:         ownerID,
	}

	if req.LastMenstrualDate != "" {
		d, err := parseDate(req.LastMenstrualDate)
		if err != nil {
			return models.Patient{}, fmt.Errorf("invalid last_menstrual_date: %w", err)
		}
		p.LastMenstrualDate = &d
	}
	if req.ExpectedDeliveryDate != "" {
		d, err := parseDate(req.ExpectedDeliveryDate)
		if err != nil {
			return models.Patient{}, fmt.Errorf("invalid expected_delivery_date: %w", err)
		}
		p.ExpectedDeliveryDate = &d
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return models.Patient{}, err
	}
	return p, nil
}

type UpdatePatientRequest struct {
	FirstName            *string  `json:"first_name"`
	LastName             *string  `json:"last_name"`
	Age                  *int     `json:"age"`
	Gender               *string  `json:"gender"`
	Contact              *string  `json:"contact"`
	Address              *string  `json:"address"`
	Height               *float64 `json:"height"`
	Weight               *float64 `json:"weight"`
	BloodGroup           *string  `json:"blood_group"`
	PregnancyStatus      *bool    `json:"pregnancy_status"`
	LastMenstrualDate    *string  `json:"last_menstrual_date"`
	ExpectedDeliveryDate *string  `json:"expected_delivery_date"`
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdatePatientRequest) (models.Patient, error) {
	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return models.Patient{}, err
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Contact != nil {
		p.Contact = *req.Contact
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Weight != nil {
		p.Weight = req.Weight
	}
	if req.BloodGroup != nil {
		p.BloodGroup = *req.BloodGroup
	}
	if req.PregnancyStatus != nil {
		p.PregnancyStatus = *req.PregnancyStatus
	}
	if req.LastMenstrualDate != nil && *req.LastMenstrualDate != "" {
		d, err := parseDate(*req.LastMenstrualDate)
		if err != nil {
			return models.Patient{}, fmt.Errorf("invalid last_menstrual_date: %w", err)
		}
		p.LastMenstrualDate = &d
	}
	if req.ExpectedDeliveryDate != nil && *req.ExpectedDeliveryDate != "" {
		d, err := parseDate(*req.ExpectedDeliveryDate)
		if err != nil {
			return models.Patient{}, fmt.Errorf("invalid expected_delivery_date: %w", err)
		}
		p.ExpectedDeliveryDate = &d
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return models.Patient{}, err
	}
	return *p, nil
}

// Detail bundles the patient with recent records, their alerts, and reminders.
type Detail struct {
	Patient   models.Patient         `json:"patient"`
	BMI       *float64               `json:"bmi,omitempty"`
	Records   []models.MedicalRecord `json:"records"`
	Alerts    []alerts.Alert         `json:"alerts"`
	Reminders []models.Reminder      `json:"reminders"`
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (Detail, error) {
	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return Detail{}, err
	}

	records, err := s.records.ListByPatient(ctx, p.ID, 10)
	if err != nil {
		return Detail{}, err
	}
	reminders, err := s.reminders.ListByPatient(ctx, p.ID)
	if err != nil {
		return Detail{}, err
	}

	all := make([]alerts.Alert, 0)
	for _, rec := range records {
		all = append(all, s.engine.Analyze(rec)...)
	}

	return Detail{
		Patient:   *p,
		BMI:       p.BMI(),
		Records:   records,
		Alerts:    all,
		Reminders: reminders,
	}, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]models.Patient, int64, error) {
	return s.repo.List(ctx, ownerID, q)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *Service) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Patient, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.OwnerID != ownerID {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}
