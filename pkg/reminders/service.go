package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

var ErrPatientNotFound = errors.New("Patient not found")

const dueDateLayout = "2006-01-02"

// PatientSource verifies parent patients when reminders are created directly.
type PatientSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
}

type Service struct {
	repo     *Repository
	patients PatientSource
}

func NewService(repo *Repository, patients PatientSource) *Service {
	return &Service{repo: repo, patients: patients}
}

type CreateReminderRequest struct {
	PatientID   uuid.UUID `json:"patient_id"`
	Type        string    `json:"reminder_type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	DueTime     string    `json:"due_time"`
	Priority    string    `json:"priority"`

	IsRecurring       bool   `json:"is_recurring"`
	RecurrencePattern string `json:"recurrence_pattern"`
	RecurrenceEndDate string `json:"recurrence_end_date"`

	LocalID string `json:"local_id"`
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateReminderRequest) (models.Reminder, error) {
	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return models.Reminder{}, err
	}
	if patient == nil || patient.OwnerID != ownerID {
		return models.Reminder{}, ErrPatientNotFound
	}
	if req.Title == "" {
		return models.Reminder{}, errors.New("title is required")
	}
	if req.DueDate == "" {
		return models.Reminder{}, errors.New("due_date is required")
	}
	due, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("invalid due_date: %v", err)
	}

	rem := models.Reminder{
		ID:                uuid.New(),
		PatientID:         patient.ID,
		Type:              req.Type,
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           due,
		DueTime:           req.DueTime,
		Priority:          req.Priority,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		SyncStatus:        models.SyncStatusSynced,
		LocalID:           req.LocalID,
		OwnerID:           ownerID,
	}
	if rem.Type == "" {
		rem.Type = "followup"
	}
	if rem.Priority == "" {
		rem.Priority = "medium"
	}
	if req.RecurrenceEndDate != "" {
		end, err := time.Parse(dueDateLayout, req.RecurrenceEndDate)
		if err != nil {
			return models.Reminder{}, fmt.Errorf("invalid recurrence_end_date: %v", err)
		}
		rem.RecurrenceEndDate = &end
	}

	if err := s.repo.Create(ctx, &rem); err != nil {
		return models.Reminder{}, err
	}
	return rem, nil
}

// ListFilter narrows List results. Status is one of "", "pending",
// "completed", "overdue", "upcoming".
type ListFilter struct {
	PatientID *uuid.UUID
	Type      string
	Status    string
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, f ListFilter) ([]models.Reminder, error) {
	q := ListQuery{PatientID: f.PatientID, Type: f.Type}

	switch f.Status {
	case "pending":
		completed := false
		q.Completed = &completed
	case "completed":
		completed := true
		q.Completed = &completed
	}

	items, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch f.Status {
	case "overdue":
		filtered := make([]models.Reminder, 0, len(items))
		for _, rem := range items {
			if rem.IsOverdue(now) {
				filtered = append(filtered, rem)
			}
		}
		items = filtered
	case "upcoming":
		filtered := make([]models.Reminder, 0, len(items))
		for _, rem := range items {
			if rem.IsDueToday(now) || rem.IsUpcoming(now, 7) {
				filtered = append(filtered, rem)
			}
		}
		items = filtered
	}
	return items, nil
}

type UpdateReminderRequest struct {
	Type        *string `json:"reminder_type"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	DueTime     *string `json:"due_time"`
	Priority    *string `json:"priority"`
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateReminderRequest) (models.Reminder, error) {
	rem, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return models.Reminder{}, err
	}

	if req.Type != nil {
		rem.Type = *req.Type
	}
	if req.Title != nil {
		rem.Title = *req.Title
	}
	if req.Description != nil {
		rem.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return models.Reminder{}, fmt.Errorf("invalid due_date: %v", err)
		}
		rem.DueDate = due
	}
	if req.DueTime != nil {
		rem.DueTime = *req.DueTime
	}
	if req.Priority != nil {
		rem.Priority = *req.Priority
	}

	if err := s.repo.Update(ctx, rem); err != nil {
		return models.Reminder{}, err
	}
	return *rem, nil
}

// Complete marks a reminder done and stamps the completion time.
func (s *Service) Complete(ctx context.Context, ownerID, id uuid.UUID) (models.Reminder, error) {
	rem, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return models.Reminder{}, err
	}
	now := time.Now().UTC()
	rem.Completed = true
	rem.CompletedAt = &now
	if err := s.repo.Update(ctx, rem); err != nil {
		return models.Reminder{}, err
	}
	return *rem, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *Service) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Reminder, error) {
	rem, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rem == nil || rem.OwnerID != ownerID {
		return nil, ErrReminderNotFound
	}
	return rem, nil
}
