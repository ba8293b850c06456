package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/asha-care/platform/pkg/common/models"
	"github.com/google/uuid"
)

func TestApplyPatientSnakeCaseWins(t *testing.T) {
	in := PatientPayload{
		FirstName:      strPtr("Snake"),
		FirstNameCamel: strPtr("Camel"),
	}
	var p models.Patient
	if err := applyPatient(&p, in); err != nil {
		t.Fatalf("applyPatient: %v", err)
	}
	if p.FirstName != "Snake" {
		t.Errorf("FirstName = %q, want %q", p.FirstName, "Snake")
	}
}

func TestApplyPatientCamelFallback(t *testing.T) {
	in := PatientPayload{
		FirstNameCamel:       strPtr("Camel"),
		BloodGroupCamel:      strPtr("O+"),
		PregnancyStatusCamel: boolPtr(true),
	}
	var p models.Patient
	if err := applyPatient(&p, in); err != nil {
		t.Fatalf("applyPatient: %v", err)
	}
	if p.FirstName != "Camel" {
		t.Errorf("FirstName = %q, want %q", p.FirstName, "Camel")
	}
	if p.BloodGroup != "O+" {
		t.Errorf("BloodGroup = %q, want %q", p.BloodGroup, "O+")
	}
	if !p.PregnancyStatus {
		t.Error("PregnancyStatus = false, want true")
	}
}

func TestApplyPatientLeavesAbsentFieldsUntouched(t *testing.T) {
	p := models.Patient{
		FirstName: "Existing",
		Age:       42,
		Gender:    "female",
	}
	in := PatientPayload{Contact: strPtr("9876543210")}
	if err := applyPatient(&p, in); err != nil {
		t.Fatalf("applyPatient: %v", err)
	}
	if p.FirstName != "Existing" || p.Age != 42 || p.Gender != "female" {
		t.Errorf("absent fields were modified: %+v", p)
	}
	if p.Contact != "9876543210" {
		t.Errorf("Contact = %q, want %q", p.Contact, "9876543210")
	}
	if p.SyncStatus != models.SyncStatusSynced {
		t.Errorf("SyncStatus = %q, want %q", p.SyncStatus, models.SyncStatusSynced)
	}
}

func TestApplyPatientMalformedDate(t *testing.T) {
	var p models.Patient
	in := PatientPayload{LastMenstrualDate: strPtr("06/01/2025")}
	if err := applyPatient(&p, in); err == nil {
		t.Fatal("applyPatient accepted a malformed date")
	}
}

func TestParseDateLayouts(t *testing.T) {
	if _, err := parseDate("record_date", "2025-06-01"); err != nil {
		t.Errorf("date-only layout rejected: %v", err)
	}
	if _, err := parseDate("record_date", "2025-06-01T10:30:00Z"); err != nil {
		t.Errorf("RFC3339 layout rejected: %v", err)
	}
	if _, err := parseDate("record_date", "yesterday"); err == nil {
		t.Error("malformed value accepted")
	}
}

func TestApplyRecordVitalsAndSymptoms(t *testing.T) {
	var rec models.MedicalRecord
	in := RecordPayload{
		BPSystolicCamel: intPtr(145),
		Hemoglobin:      func() *float64 { v := 9.5; return &v }(),
		Cough:           boolPtr(true),
		CoughDuration:   intPtr(16),
		SymptomsCamel:   []string{"fever", "fatigue"},
		RecordDate:      strPtr("2025-06-01"),
	}
	if err := applyRecord(&rec, in); err != nil {
		t.Fatalf("applyRecord: %v", err)
	}
	if rec.BPSystolic == nil || *rec.BPSystolic != 145 {
		t.Errorf("BPSystolic = %v, want 145", rec.BPSystolic)
	}
	if !rec.Cough || rec.CoughDuration == nil || *rec.CoughDuration != 16 {
		t.Errorf("cough fields not applied: %+v", rec)
	}
	if len(rec.Symptoms) != 2 {
		t.Errorf("Symptoms = %v, want 2 entries", rec.Symptoms)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !rec.RecordDate.Equal(want) {
		t.Errorf("RecordDate = %v, want %v", rec.RecordDate, want)
	}
}

func TestApplyReminderCompletedStampsTime(t *testing.T) {
	var rem models.Reminder
	in := ReminderPayload{
		Title:     strPtr("TB medicine"),
		DueDate:   strPtr("2025-06-15"),
		Completed: boolPtr(true),
	}
	if err := applyReminder(&rem, in); err != nil {
		t.Fatalf("applyReminder: %v", err)
	}
	if !rem.Completed || rem.CompletedAt == nil {
		t.Errorf("completion not stamped: %+v", rem)
	}
}

// Control fields arriving in the raw payload (server id, patient_uid, owner)
// must be silently ignored, and unknown fields must not break decoding.
func TestControlAndUnknownFieldsIgnored(t *testing.T) {
	store := newMemStore()
	r := NewReconciler(store, nil)
	owner := uuid.New()

	if _, err := r.Reconcile(context.Background(), owner, Batch{
		Patients: []PatientPayload{patientPayload("loc1", "A", "B", 30, "female")},
	}); err != nil {
		t.Fatalf("seed reconcile: %v", err)
	}
	before, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
	if err != nil || before == nil {
		t.Fatalf("seed patient missing: %v", err)
	}

	raw := `{
		"patients": [{
			"local_id": "loc1",
			"id": "11111111-1111-1111-1111-111111111111",
			"patient_uid": "ASHA-HACKED",
			"created_by": "22222222-2222-2222-2222-222222222222",
			"first_name": "Updated",
			"favourite_color": "green"
		}]
	}`
	var batch Batch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	res, err := r.Reconcile(context.Background(), owner, batch)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Patients.Updated != 1 || len(res.Patients.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", res.Patients)
	}

	after, err := store.Patients().FindByLocalID(context.Background(), owner, "loc1")
	if err != nil || after == nil {
		t.Fatalf("patient missing after update: %v", err)
	}
	if after.ID != before.ID {
		t.Error("server id was overwritten by payload")
	}
	if after.PatientUID != before.PatientUID {
		t.Errorf("patient_uid overwritten: %q", after.PatientUID)
	}
	if after.OwnerID != owner {
		t.Error("owner was overwritten by payload")
	}
	if after.FirstName != "Updated" {
		t.Errorf("FirstName = %q, want %q", after.FirstName, "Updated")
	}
}
