package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sync status values carried by every syncable entity. "pending" is set by
// offline-edit flows on the client, "synced" by the server after reconciliation.
const (
	SyncStatusPending  = "pending"
	SyncStatusSynced   = "synced"
	SyncStatusConflict = "conflict"
)

// Risk levels. The numeric class mapping is fixed to 0=low, 1=medium, 2=high
// across the whole platform.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

type User struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Role      string                 `json:"role"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Patient is the canonical server-side patient. ID is server-assigned and
// stable; LocalID is assigned once by the originating client and unique per
// owner. PatientUID is the human-facing identifier, generated at creation and
// never rewritten by sync.
type Patient struct {
	ID         uuid.UUID `json:"id"`
	PatientUID string    `json:"patient_uid"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Contact   string `json:"contact,omitempty"`
	Address   string `json:"address,omitempty"`

	Height     *float64 `json:"height,omitempty"` // cm
	Weight     *float64 `json:"weight,omitempty"` // kg
	BloodGroup string   `json:"blood_group,omitempty"`

	PregnancyStatus      bool       `json:"pregnancy_status"`
	LastMenstrualDate    *time.Time `json:"last_menstrual_date,omitempty"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`

	SyncStatus string    `json:"sync_status"`
	LocalID    string    `json:"local_id,omitempty"`
	OwnerID    uuid.UUID `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// BMI returns nil when height or weight is missing.
func (p Patient) BMI() *float64 {
	if p.Height == nil || p.Weight == nil || *p.Height <= 0 {
		return nil
	}
	heightM := *p.Height / 100
	bmi := *p.Weight / (heightM * heightM)
	bmi = float64(int(bmi*10+0.5)) / 10
	return &bmi
}

// NewPatientUID generates the human-facing patient identifier.
func NewPatientUID() string {
	return "ASHA-" + strings.ToUpper(uuid.NewString()[:8])
}

// MedicalRecord holds one visit's vitals, symptoms and assessment for a
// patient. PatientID always references a committed Patient.
type MedicalRecord struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`

	BPSystolic  *int     `json:"bp_systolic,omitempty"`  // mmHg
	BPDiastolic *int     `json:"bp_diastolic,omitempty"` // mmHg
	HeartRate   *int     `json:"heart_rate,omitempty"`   // bpm
	Temperature *float64 `json:"temperature,omitempty"`  // Celsius
	BloodSugar  *int     `json:"blood_sugar,omitempty"`  // mg/dL
	Hemoglobin  *float64 `json:"hemoglobin,omitempty"`   // g/dL

	Fever          bool `json:"fever"`
	Cough          bool `json:"cough"`
	CoughDuration  *int `json:"cough_duration,omitempty"` // days
	Fatigue        bool `json:"fatigue"`
	WeightLoss     bool `json:"weight_loss"`
	NightSweats    bool `json:"night_sweats"`
	Breathlessness bool `json:"breathlessness"`
	Headache       bool `json:"headache"`
	BodyPain       bool `json:"body_pain"`

	Symptoms           []string `json:"symptoms_list,omitempty"`
	Diagnosis          string   `json:"diagnosis,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	VaccinationHistory []string `json:"vaccination_history,omitempty"`

	RiskLevel   string   `json:"risk_level,omitempty"`
	RiskFactors []string `json:"risk_factors,omitempty"`

	RecordDate time.Time `json:"record_date"`

	SyncStatus string    `json:"sync_status"`
	LocalID    string    `json:"local_id,omitempty"`
	OwnerID    uuid.UUID `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reminder schedules a follow-up, vaccination, ANC visit or medicine intake
// for a patient.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`

	Type        string `json:"reminder_type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	DueDate time.Time `json:"due_date"`
	DueTime string    `json:"due_time,omitempty"` // HH:MM, optional

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Priority string `json:"priority"`

	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern string     `json:"recurrence_pattern,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date,omitempty"`

	SyncStatus string    `json:"sync_status"`
	LocalID    string    `json:"local_id,omitempty"`
	OwnerID    uuid.UUID `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Reminder) IsOverdue(now time.Time) bool {
	if r.Completed {
		return false
	}
	return r.DueDate.Before(truncateToDay(now))
}

func (r Reminder) IsDueToday(now time.Time) bool {
	return !r.Completed && r.DueDate.Equal(truncateToDay(now))
}

func (r Reminder) IsUpcoming(now time.Time, days int) bool {
	if r.Completed {
		return false
	}
	today := truncateToDay(now)
	delta := int(r.DueDate.Sub(today).Hours() / 24)
	return delta > 0 && delta <= days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Event is the envelope published to the event bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // record.synced, patient.synced, ...
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Identity requests.
type RegisterRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
