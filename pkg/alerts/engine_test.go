package alerts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asha-care/platform/pkg/common/models"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func alertTypes(alerts []Alert) map[string]bool {
	types := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		types[a.Type] = true
	}
	return types
}

func TestAnalyzeTBRisk(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	rec := models.MedicalRecord{Fever: true, Cough: true, CoughDuration: intPtr(16)}
	if !alertTypes(e.Analyze(rec))["tb_risk"] {
		t.Error("expected tb_risk for fever with 16-day cough")
	}

	// cough at exactly the threshold does not fire
	rec.CoughDuration = intPtr(14)
	if alertTypes(e.Analyze(rec))["tb_risk"] {
		t.Error("tb_risk fired at the threshold boundary")
	}

	// cough without fever does not fire
	rec = models.MedicalRecord{Cough: true, CoughDuration: intPtr(20)}
	if alertTypes(e.Analyze(rec))["tb_risk"] {
		t.Error("tb_risk fired without fever")
	}
}

func TestAnalyzeAnemiaBands(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	cases := []struct {
		hb   float64
		want string
	}{
		{6.5, "anemia_severe"},
		{8.5, "anemia_moderate"},
	}
	for _, tc := range cases {
		types := alertTypes(e.Analyze(models.MedicalRecord{Hemoglobin: floatPtr(tc.hb)}))
		if !types[tc.want] {
			t.Errorf("hb %.1f: expected %s, got %v", tc.hb, tc.want, types)
		}
	}

	if len(e.Analyze(models.MedicalRecord{Hemoglobin: floatPtr(12)})) != 0 {
		t.Error("normal hemoglobin produced alerts")
	}
}

func TestAnalyzeBloodPressureBands(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	cases := []struct {
		systolic int
		want     string
	}{
		{170, "hypertension_severe"},
		{145, "hypertension"},
		{85, "hypotension"},
	}
	for _, tc := range cases {
		types := alertTypes(e.Analyze(models.MedicalRecord{BPSystolic: intPtr(tc.systolic)}))
		if !types[tc.want] {
			t.Errorf("systolic %d: expected %s, got %v", tc.systolic, tc.want, types)
		}
	}
}

func TestAnalyzeHeartRateAndFever(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	if !alertTypes(e.Analyze(models.MedicalRecord{HeartRate: intPtr(45)}))["bradycardia"] {
		t.Error("expected bradycardia at 45 bpm")
	}
	if !alertTypes(e.Analyze(models.MedicalRecord{HeartRate: intPtr(120)}))["tachycardia"] {
		t.Error("expected tachycardia at 120 bpm")
	}
	if !alertTypes(e.Analyze(models.MedicalRecord{Temperature: floatPtr(39.5)}))["fever_high"] {
		t.Error("expected fever_high at 39.5 C")
	}
	if !alertTypes(e.Analyze(models.MedicalRecord{Temperature: floatPtr(38.2)}))["fever_moderate"] {
		t.Error("expected fever_moderate at 38.2 C")
	}
}

func TestAnalyzeSkipsAbsentMeasurements(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	if got := e.Analyze(models.MedicalRecord{}); len(got) != 0 {
		t.Errorf("empty record produced %d alerts", len(got))
	}
}

func TestRiskLevelReduction(t *testing.T) {
	if got := RiskLevel(nil); got != models.RiskLow {
		t.Errorf("no alerts: got %q, want low", got)
	}
	medium := []Alert{{Severity: SeverityMedium}}
	if got := RiskLevel(medium); got != models.RiskMedium {
		t.Errorf("medium alert: got %q", got)
	}
	mixed := []Alert{{Severity: SeverityMedium}, {Severity: SeverityHigh}}
	if got := RiskLevel(mixed); got != models.RiskHigh {
		t.Errorf("mixed alerts: got %q, want high", got)
	}
}

func TestRiskClassMapping(t *testing.T) {
	cases := map[string]int{
		models.RiskLow:    0,
		models.RiskMedium: 1,
		models.RiskHigh:   2,
		"unknown":         0,
	}
	for level, want := range cases {
		if got := RiskClass(level); got != want {
			t.Errorf("RiskClass(%q) = %d, want %d", level, got, want)
		}
	}
}

func TestLoadThresholdsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "tb_cough_days: 21\nhemoglobin_low: 11\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds: %v", err)
	}
	if got.TBCoughDays != 21 {
		t.Errorf("TBCoughDays = %d, want 21", got.TBCoughDays)
	}
	if got.HemoglobinLow != 11 {
		t.Errorf("HemoglobinLow = %v, want 11", got.HemoglobinLow)
	}
	// untouched keys keep their defaults
	if got.BPSystolicSevere != 160 {
		t.Errorf("BPSystolicSevere = %d, want 160", got.BPSystolicSevere)
	}
}
