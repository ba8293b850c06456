package sync

import (
	"fmt"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
)

// The field merger applies incoming payload fields onto a fresh or existing
// entity. Only the fields enumerated here are mutable through sync; control
// fields (server id, local id, owner, patient_uid, parent reference) are not
// read from payloads at all, so a client supplying them is silently ignored.
// A field absent under both spellings is left untouched. Every successful
// apply tags the entity synced; the store stamps updated_at on commit.

const dateLayout = "2006-01-02"

func parseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s: %q", field, raw)
}

func applyPatient(p *models.Patient, in PatientPayload) error {
	if v := pick(in.FirstName, in.FirstNameCamel); v != nil {
		p.FirstName = *v
	}
	if v := pick(in.LastName, in.LastNameCamel); v != nil {
		p.LastName = *v
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Contact != nil {
		p.Contact = *in.Contact
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Height != nil {
		p.Height = in.Height
	}
	if in.Weight != nil {
		p.Weight = in.Weight
	}
	if v := pick(in.BloodGroup, in.BloodGroupCamel); v != nil {
		p.BloodGroup = *v
	}
	if v := pick(in.PregnancyStatus, in.PregnancyStatusCamel); v != nil {
		p.PregnancyStatus = *v
	}
	if v := pick(in.LastMenstrualDate, in.LastMenstrualDateCamel); v != nil {
		d, err := parseDate("last_menstrual_date", *v)
		if err != nil {
			return err
		}
		p.LastMenstrualDate = &d
	}
	if v := pick(in.ExpectedDeliveryDate, in.ExpectedDeliveryDateCamel); v != nil {
		d, err := parseDate("expected_delivery_date", *v)
		if err != nil {
			return err
		}
		p.ExpectedDeliveryDate = &d
	}
	p.SyncStatus = models.SyncStatusSynced
	return nil
}

func applyRecord(rec *models.MedicalRecord, in RecordPayload) error {
	if v := pick(in.BPSystolic, in.BPSystolicCamel); v != nil {
		rec.BPSystolic = v
	}
	if v := pick(in.BPDiastolic, in.BPDiastolicCamel); v != nil {
		rec.BPDiastolic = v
	}
	if v := pick(in.HeartRate, in.HeartRateCamel); v != nil {
		rec.HeartRate = v
	}
	if in.Temperature != nil {
		rec.Temperature = in.Temperature
	}
	if v := pick(in.BloodSugar, in.BloodSugarCamel); v != nil {
		rec.BloodSugar = v
	}
	if in.Hemoglobin != nil {
		rec.Hemoglobin = in.Hemoglobin
	}
	if in.Fever != nil {
		rec.Fever = *in.Fever
	}
	if in.Cough != nil {
		rec.Cough = *in.Cough
	}
	if v := pick(in.CoughDuration, in.CoughDurationCamel); v != nil {
		rec.CoughDuration = v
	}
	if in.Fatigue != nil {
		rec.Fatigue = *in.Fatigue
	}
	if v := pick(in.WeightLoss, in.WeightLossCamel); v != nil {
		rec.WeightLoss = *v
	}
	if v := pick(in.NightSweats, in.NightSweatsCamel); v != nil {
		rec.NightSweats = *v
	}
	if in.Breathlessness != nil {
		rec.Breathlessness = *in.Breathlessness
	}
	if in.Headache != nil {
		rec.Headache = *in.Headache
	}
	if v := pick(in.BodyPain, in.BodyPainCamel); v != nil {
		rec.BodyPain = *v
	}
	if v := pickSlice(in.Symptoms, in.SymptomsCamel); v != nil {
		rec.Symptoms = v
	}
	if in.Diagnosis != nil {
		rec.Diagnosis = *in.Diagnosis
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	if v := pickSlice(in.VaccinationHistory, in.VaccinationHistoryCamel); v != nil {
		rec.VaccinationHistory = v
	}
	if v := pick(in.RecordDate, in.RecordDateCamel); v != nil {
		d, err := parseDate("record_date", *v)
		if err != nil {
			return err
		}
		rec.RecordDate = d
	}
	rec.SyncStatus = models.SyncStatusSynced
	return nil
}

func applyReminder(rem *models.Reminder, in ReminderPayload) error {
	if v := pick(in.Type, in.TypeCamel); v != nil {
		rem.Type = *v
	}
	if in.Title != nil {
		rem.Title = *in.Title
	}
	if in.Description != nil {
		rem.Description = *in.Description
	}
	if v := pick(in.DueDate, in.DueDateCamel); v != nil {
		d, err := parseDate("due_date", *v)
		if err != nil {
			return err
		}
		rem.DueDate = d
	}
	if v := pick(in.DueTime, in.DueTimeCamel); v != nil {
		rem.DueTime = *v
	}
	if in.Completed != nil {
		rem.Completed = *in.Completed
		if rem.Completed && rem.CompletedAt == nil {
			now := time.Now().UTC()
			rem.CompletedAt = &now
		}
	}
	if in.Priority != nil {
		rem.Priority = *in.Priority
	}
	if v := pick(in.IsRecurring, in.IsRecurringCamel); v != nil {
		rem.IsRecurring = *v
	}
	if v := pick(in.RecurrencePattern, in.RecurrencePatternCamel); v != nil {
		rem.RecurrencePattern = *v
	}
	if v := pick(in.RecurrenceEndDate, in.RecurrenceEndDateCamel); v != nil {
		d, err := parseDate("recurrence_end_date", *v)
		if err != nil {
			return err
		}
		rem.RecurrenceEndDate = &d
	}
	rem.SyncStatus = models.SyncStatusSynced
	return nil
}
