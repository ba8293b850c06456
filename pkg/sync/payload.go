package sync

import "github.com/google/uuid"

// Batch is one sync submission. Each item carries a client-assigned local_id
// used as the idempotency key; entity fields are accepted under both their
// snake_case and camelCase spellings, with snake_case winning when both are
// present. Control fields (server id, owner, patient_uid) are never read from
// payloads.
type Batch struct {
	Patients  []PatientPayload  `json:"patients"`
	Records   []RecordPayload   `json:"records"`
	Reminders []ReminderPayload `json:"reminders"`
}

type PatientPayload struct {
	LocalID      string `json:"local_id"`
	LocalIDCamel string `json:"localId"`

	FirstName      *string `json:"first_name"`
	FirstNameCamel *string `json:"firstName"`
	LastName       *string `json:"last_name"`
	LastNameCamel  *string `json:"lastName"`

	Age     *int    `json:"age"`
	Gender  *string `json:"gender"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`

	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	BloodGroup      *string  `json:"blood_group"`
	BloodGroupCamel *string  `json:"bloodGroup"`

	PregnancyStatus           *bool   `json:"pregnancy_status"`
	PregnancyStatusCamel      *bool   `json:"pregnancyStatus"`
	LastMenstrualDate         *string `json:"last_menstrual_date"`
	LastMenstrualDateCamel    *string `json:"lastMenstrualDate"`
	ExpectedDeliveryDate      *string `json:"expected_delivery_date"`
	ExpectedDeliveryDateCamel *string `json:"expectedDeliveryDate"`
}

func (p PatientPayload) localID() string {
	if p.LocalID != "" {
		return p.LocalID
	}
	return p.LocalIDCamel
}

type RecordPayload struct {
	LocalID      string `json:"local_id"`
	LocalIDCamel string `json:"localId"`

	// Parent reference, by server id or by the parent's local id.
	PatientID           *uuid.UUID `json:"patient_id"`
	PatientIDCamel      *uuid.UUID `json:"patientId"`
	PatientLocalID      string     `json:"patient_local_id"`
	PatientLocalIDCamel string     `json:"patientLocalId"`

	BPSystolic       *int     `json:"bp_systolic"`
	BPSystolicCamel  *int     `json:"bpSystolic"`
	BPDiastolic      *int     `json:"bp_diastolic"`
	BPDiastolicCamel *int     `json:"bpDiastolic"`
	HeartRate        *int     `json:"heart_rate"`
	HeartRateCamel   *int     `json:"heartRate"`
	Temperature      *float64 `json:"temperature"`
	BloodSugar       *int     `json:"blood_sugar"`
	BloodSugarCamel  *int     `json:"bloodSugar"`
	Hemoglobin       *float64 `json:"hemoglobin"`

	Fever              *bool `json:"fever"`
	Cough              *bool `json:"cough"`
	CoughDuration      *int  `json:"cough_duration"`
	CoughDurationCamel *int  `json:"coughDuration"`
	Fatigue            *bool `json:"fatigue"`
	WeightLoss         *bool `json:"weight_loss"`
	WeightLossCamel    *bool `json:"weightLoss"`
	NightSweats        *bool `json:"night_sweats"`
	NightSweatsCamel   *bool `json:"nightSweats"`
	Breathlessness     *bool `json:"breathlessness"`
	Headache           *bool `json:"headache"`
	BodyPain           *bool `json:"body_pain"`
	BodyPainCamel      *bool `json:"bodyPain"`

	Symptoms                []string `json:"symptoms_list"`
	SymptomsCamel           []string `json:"symptomsList"`
	Diagnosis               *string  `json:"diagnosis"`
	Notes                   *string  `json:"notes"`
	VaccinationHistory      []string `json:"vaccination_history"`
	VaccinationHistoryCamel []string `json:"vaccinationHistory"`

	RecordDate      *string `json:"record_date"`
	RecordDateCamel *string `json:"recordDate"`
}

func (p RecordPayload) localID() string {
	if p.LocalID != "" {
		return p.LocalID
	}
	return p.LocalIDCamel
}

func (p RecordPayload) parentID() *uuid.UUID {
	if p.PatientID != nil {
		return p.PatientID
	}
	return p.PatientIDCamel
}

func (p RecordPayload) parentLocalID() string {
	if p.PatientLocalID != "" {
		return p.PatientLocalID
	}
	return p.PatientLocalIDCamel
}

type ReminderPayload struct {
	LocalID      string `json:"local_id"`
	LocalIDCamel string `json:"localId"`

	PatientID           *uuid.UUID `json:"patient_id"`
	PatientIDCamel      *uuid.UUID `json:"patientId"`
	PatientLocalID      string     `json:"patient_local_id"`
	PatientLocalIDCamel string     `json:"patientLocalId"`

	Type        *string `json:"reminder_type"`
	TypeCamel   *string `json:"reminderType"`
	Title       *string `json:"title"`
	Description *string `json:"description"`

	DueDate      *string `json:"due_date"`
	DueDateCamel *string `json:"dueDate"`
	DueTime      *string `json:"due_time"`
	DueTimeCamel *string `json:"dueTime"`

	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`

	IsRecurring            *bool   `json:"is_recurring"`
	IsRecurringCamel       *bool   `json:"isRecurring"`
	RecurrencePattern      *string `json:"recurrence_pattern"`
	RecurrencePatternCamel *string `json:"recurrencePattern"`
	RecurrenceEndDate      *string `json:"recurrence_end_date"`
	RecurrenceEndDateCamel *string `json:"recurrenceEndDate"`
}

func (p ReminderPayload) localID() string {
	if p.LocalID != "" {
		return p.LocalID
	}
	return p.LocalIDCamel
}

func (p ReminderPayload) parentID() *uuid.UUID {
	if p.PatientID != nil {
		return p.PatientID
	}
	return p.PatientIDCamel
}

func (p ReminderPayload) parentLocalID() string {
	if p.PatientLocalID != "" {
		return p.PatientLocalID
	}
	return p.PatientLocalIDCamel
}

// pick canonicalizes a dual-spelled field: the snake_case value wins, then the
// camelCase one, then nil (field untouched).
func pick[T any](snake, camel *T) *T {
	if snake != nil {
		return snake
	}
	return camel
}

// pickSlice is pick for slice-valued fields, where presence is non-nil.
func pickSlice[T any](snake, camel []T) []T {
	if snake != nil {
		return snake
	}
	return camel
}
