package alerts

import (
	"testing"

	"github.com/asha-care/platform/pkg/common/models"
)

func TestPredictMaternalRiskLow(t *testing.T) {
	got := PredictMaternalRisk(MaternalInput{
		Age: 26, SystolicBP: 110, DiastolicBP: 70,
		BloodSugar: 90, BodyTemp: 36.8, HeartRate: 78,
	})
	if got.Level != models.RiskLow {
		t.Errorf("level = %q, want low", got.Level)
	}
	if got.Emergency {
		t.Error("low risk flagged as emergency")
	}
	if got.Class != 0 {
		t.Errorf("class = %d, want 0", got.Class)
	}
}

func TestPredictMaternalRiskMedium(t *testing.T) {
	// elevated BP plus mild tachycardia scores 2
	got := PredictMaternalRisk(MaternalInput{
		Age: 26, SystolicBP: 145, DiastolicBP: 92,
		BloodSugar: 95, BodyTemp: 36.8, HeartRate: 105,
	})
	if got.Level != models.RiskMedium {
		t.Errorf("level = %q, want medium", got.Level)
	}
	if got.FollowUpDays != 7 {
		t.Errorf("follow_up_days = %d, want 7", got.FollowUpDays)
	}
}

func TestPredictMaternalRiskHigh(t *testing.T) {
	got := PredictMaternalRisk(MaternalInput{
		Age: 14, SystolicBP: 165, DiastolicBP: 112,
		BloodSugar: 210, BodyTemp: 39.2, HeartRate: 125,
	})
	if got.Level != models.RiskHigh {
		t.Errorf("level = %q, want high", got.Level)
	}
	if !got.Emergency {
		t.Error("high risk not flagged as emergency")
	}
	if got.Class != 2 {
		t.Errorf("class = %d, want 2", got.Class)
	}
	if len(got.Recommendations) == 0 {
		t.Error("high risk without recommendations")
	}
}

func TestValidateMaternalInputMissingField(t *testing.T) {
	v := 100.0
	raw := map[string]*float64{
		"age": &v, "systolic_bp": &v, "diastolic_bp": &v,
		"blood_sugar": &v, "heart_rate": &v,
		// body_temp missing
	}
	if _, err := validateMaternalInput(raw); err == nil {
		t.Fatal("missing body_temp accepted")
	}

	raw["body_temp"] = &v
	if _, err := validateMaternalInput(raw); err != nil {
		t.Fatalf("complete input rejected: %v", err)
	}
}
