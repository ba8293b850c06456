package alerts

import (
	"fmt"

	"github.com/asha-care/platform/pkg/common/models"
)

// MaternalInput carries the six measurements the maternal risk rules score.
type MaternalInput struct {
	Age         float64 `json:"age"`
	SystolicBP  float64 `json:"systolic_bp"`
	DiastolicBP float64 `json:"diastolic_bp"`
	BloodSugar  float64 `json:"blood_sugar"`
	BodyTemp    float64 `json:"body_temp"`
	HeartRate   float64 `json:"heart_rate"`
}

type MaternalRisk struct {
	Level           string   `json:"risk_level"`
	Name            string   `json:"risk_name"`
	Class           int      `json:"risk_class"`
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
	Emergency       bool     `json:"emergency"`
	FollowUpDays    int      `json:"follow_up_days,omitempty"`
}

// PredictMaternalRisk scores pregnancy risk from vitals. Each out-of-range
// measurement adds to the score; extreme values add twice.
func PredictMaternalRisk(in MaternalInput) MaternalRisk {
	score := 0

	if in.Age < 18 || in.Age > 35 {
		score++
	}
	if in.Age < 15 || in.Age > 40 {
		score++
	}

	if in.SystolicBP >= 140 || in.DiastolicBP >= 90 {
		score++
	}
	if in.SystolicBP >= 160 || in.DiastolicBP >= 110 {
		score += 2
	}

	if in.BloodSugar > 140 {
		score++
	}
	if in.BloodSugar > 200 {
		score++
	}

	if in.HeartRate > 100 || in.HeartRate < 60 {
		score++
	}
	if in.HeartRate > 120 || in.HeartRate < 50 {
		score++
	}

	if in.BodyTemp > 38 || in.BodyTemp < 36 {
		score++
	}

	switch {
	case score >= 4:
		return MaternalRisk{
			Level:   models.RiskHigh,
			Name:    "High Risk",
			Class:   RiskClass(models.RiskHigh),
			Message: "URGENT: This pregnancy requires immediate medical attention.",
			Recommendations: []string{
				"Seek immediate medical care",
				"Do not delay - visit the nearest hospital or call emergency services",
				"Keep the patient calm and rested",
				"Monitor vital signs continuously",
				"Prepare for possible hospitalization",
			},
			Emergency: true,
		}
	case score >= 2:
		return MaternalRisk{
			Level:   models.RiskMedium,
			Name:    "Medium Risk",
			Class:   RiskClass(models.RiskMedium),
			Message: "Some health indicators require monitoring.",
			Recommendations: []string{
				"Schedule more frequent prenatal visits",
				"Monitor blood pressure regularly",
				"Watch for warning signs (headache, swelling, bleeding)",
				"Avoid strenuous activities",
				"Contact healthcare provider if symptoms worsen",
			},
			FollowUpDays: 7,
		}
	default:
		return MaternalRisk{
			Level:   models.RiskLow,
			Name:    "Low Risk",
			Class:   RiskClass(models.RiskLow),
			Message: "The pregnancy appears to be progressing normally.",
			Recommendations: []string{
				"Continue regular prenatal checkups",
				"Maintain a balanced diet",
				"Take prescribed vitamins and supplements",
				"Get adequate rest and sleep",
			},
		}
	}
}

func validateMaternalInput(raw map[string]*float64) (MaternalInput, error) {
	required := []string{"age", "systolic_bp", "diastolic_bp", "blood_sugar", "body_temp", "heart_rate"}
	for _, field := range required {
		if raw[field] == nil {
			return MaternalInput{}, fmt.Errorf("missing required field: %s", field)
		}
	}
	return MaternalInput{
		Age:         *raw["age"],
		SystolicBP:  *raw["systolic_bp"],
		DiastolicBP: *raw["diastolic_bp"],
		BloodSugar:  *raw["blood_sugar"],
		BodyTemp:    *raw["body_temp"],
		HeartRate:   *raw["heart_rate"],
	}, nil
}
