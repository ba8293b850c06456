package alerts

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Thresholds hold the clinical cutoffs the rule engine evaluates against.
// They can be overridden from a YAML file for field deployments with
// different protocols.
type Thresholds struct {
	TBCoughDays       int     `yaml:"tb_cough_days" json:"tb_cough_days"`
	HemoglobinSevere  float64 `yaml:"hemoglobin_severe" json:"hemoglobin_severe"`
	HemoglobinLow     float64 `yaml:"hemoglobin_low" json:"hemoglobin_low"`
	BPSystolicSevere  int     `yaml:"bp_systolic_severe" json:"bp_systolic_severe"`
	BPSystolicHigh    int     `yaml:"bp_systolic_high" json:"bp_systolic_high"`
	BPSystolicLow     int     `yaml:"bp_systolic_low" json:"bp_systolic_low"`
	BloodSugarHigh    int     `yaml:"blood_sugar_high" json:"blood_sugar_high"`
	TemperatureSevere float64 `yaml:"temperature_severe" json:"temperature_severe"`
	TemperatureHigh   float64 `yaml:"temperature_high" json:"temperature_high"`
	HeartRateLow      int     `yaml:"heart_rate_low" json:"heart_rate_low"`
	HeartRateHigh     int     `yaml:"heart_rate_high" json:"heart_rate_high"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TBCoughDays:       14,
		HemoglobinSevere:  7,
		HemoglobinLow:     10,
		BPSystolicSevere:  160,
		BPSystolicHigh:    140,
		BPSystolicLow:     90,
		BloodSugarHigh:    200,
		TemperatureSevere: 39,
		TemperatureHigh:   38,
		HeartRateLow:      60,
		HeartRateHigh:     100,
	}
}

func LoadThresholds(path string) (Thresholds, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultThresholds(), err
	}

	cfg := DefaultThresholds()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Thresholds{}, err
	}
	return cfg, nil
}
