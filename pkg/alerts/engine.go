package alerts

import (
	"fmt"

	"github.com/asha-care/platform/pkg/common/models"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

type Alert struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	BodyPart       string `json:"body_part"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Engine evaluates rule-based vital-sign and symptom alerts.
type Engine struct {
	t Thresholds
}

func NewEngine(t Thresholds) *Engine {
	return &Engine{t: t}
}

// Analyze evaluates every rule against a record. Rules only fire when the
// relevant measurement is present.
func (e *Engine) Analyze(rec models.MedicalRecord) []Alert {
	alerts := make([]Alert, 0)

	// TB risk: fever plus persistent cough
	if rec.Fever && rec.Cough && rec.CoughDuration != nil && *rec.CoughDuration > e.t.TBCoughDays {
		alerts = append(alerts, Alert{
			Type:           "tb_risk",
			Name:           "TB Risk",
			Severity:       SeverityHigh,
			Message:        fmt.Sprintf("TB Risk - Persistent cough (%d days) with fever. Refer for testing.", *rec.CoughDuration),
			BodyPart:       "lungs",
			Recommendation: "Refer to TB testing center immediately",
		})
	}

	if rec.Hemoglobin != nil && *rec.Hemoglobin < e.t.HemoglobinLow {
		if *rec.Hemoglobin < e.t.HemoglobinSevere {
			alerts = append(alerts, Alert{
				Type:           "anemia_severe",
				Name:           "Severe Anemia",
				Severity:       SeverityHigh,
				Message:        fmt.Sprintf("Severe Anemia - Hb: %.1f g/dL", *rec.Hemoglobin),
				BodyPart:       "blood",
				Recommendation: "Urgent referral for blood transfusion evaluation",
			})
		} else {
			alerts = append(alerts, Alert{
				Type:           "anemia_moderate",
				Name:           "Moderate Anemia",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("Moderate Anemia - Hb: %.1f g/dL", *rec.Hemoglobin),
				BodyPart:       "blood",
				Recommendation: "Iron and folic acid supplementation, diet counseling",
			})
		}
	}

	if rec.BPSystolic != nil {
		diastolic := 0
		if rec.BPDiastolic != nil {
			diastolic = *rec.BPDiastolic
		}
		switch {
		case *rec.BPSystolic >= e.t.BPSystolicSevere:
			alerts = append(alerts, Alert{
				Type:           "hypertension_severe",
				Name:           "Severe Hypertension",
				Severity:       SeverityHigh,
				Message:        fmt.Sprintf("Severe Hypertension - BP: %d/%d", *rec.BPSystolic, diastolic),
				BodyPart:       "heart",
				Recommendation: "Immediate medical referral required",
			})
		case *rec.BPSystolic >= e.t.BPSystolicHigh:
			alerts = append(alerts, Alert{
				Type:           "hypertension",
				Name:           "Hypertension",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("Hypertension - BP: %d/%d", *rec.BPSystolic, diastolic),
				BodyPart:       "heart",
				Recommendation: "Lifestyle modification, regular monitoring",
			})
		case *rec.BPSystolic < e.t.BPSystolicLow:
			alerts = append(alerts, Alert{
				Type:           "hypotension",
				Name:           "Low Blood Pressure",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("Low BP Alert - BP: %d/%d", *rec.BPSystolic, diastolic),
				BodyPart:       "heart",
				Recommendation: "Hydration, monitor for dizziness",
			})
		}
	}

	if rec.BloodSugar != nil && *rec.BloodSugar > e.t.BloodSugarHigh {
		alerts = append(alerts, Alert{
			Type:           "diabetes_risk",
			Name:           "High Blood Sugar",
			Severity:       SeverityHigh,
			Message:        fmt.Sprintf("Diabetes Risk - Blood Sugar: %d mg/dL", *rec.BloodSugar),
			BodyPart:       "pancreas",
			Recommendation: "Refer for diabetes evaluation",
		})
	}

	if rec.Temperature != nil && *rec.Temperature >= e.t.TemperatureHigh {
		if *rec.Temperature > e.t.TemperatureSevere {
			alerts = append(alerts, Alert{
				Type:           "fever_high",
				Name:           "High Fever",
				Severity:       SeverityHigh,
				Message:        fmt.Sprintf("High Fever - Temperature: %.1f C", *rec.Temperature),
				BodyPart:       "head",
				Recommendation: "Immediate medical attention, check for infection",
			})
		} else {
			alerts = append(alerts, Alert{
				Type:           "fever_moderate",
				Name:           "Fever",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("Fever - Temperature: %.1f C", *rec.Temperature),
				BodyPart:       "head",
				Recommendation: "Monitor, paracetamol, fluids",
			})
		}
	}

	if rec.HeartRate != nil {
		if *rec.HeartRate < e.t.HeartRateLow {
			alerts = append(alerts, Alert{
				Type:           "bradycardia",
				Name:           "Low Heart Rate",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("Low Heart Rate - %d bpm", *rec.HeartRate),
				BodyPart:       "heart",
				Recommendation: "Monitor, refer if symptomatic",
			})
		} else if *rec.HeartRate > e.t.HeartRateHigh {
			alerts = append(alerts, Alert{
				Type:           "tachycardia",
				Name:           "High Heart Rate",
				Severity:       SeverityMedium,
				Message:        fmt.Sprintf("High Heart Rate - %d bpm", *rec.HeartRate),
				BodyPart:       "heart",
				Recommendation: "Monitor, refer if symptomatic",
			})
		}
	}

	return alerts
}

// RiskLevel reduces a set of alerts to the record-level classification.
func RiskLevel(alerts []Alert) string {
	level := models.RiskLow
	for _, a := range alerts {
		switch a.Severity {
		case SeverityHigh:
			return models.RiskHigh
		case SeverityMedium:
			level = models.RiskMedium
		}
	}
	return level
}

// RiskClass maps a level to its numeric class: 0=low, 1=medium, 2=high.
func RiskClass(level string) int {
	switch level {
	case models.RiskHigh:
		return 2
	case models.RiskMedium:
		return 1
	default:
		return 0
	}
}

// RiskFactors lists the alert types contributing to the classification.
func RiskFactors(alerts []Alert) []string {
	factors := make([]string, 0, len(alerts))
	for _, a := range alerts {
		factors = append(factors, a.Type)
	}
	return factors
}
