package models

import "time"

// DefaultDefectType is the defect type of an importance ranking computed
// against pass/fail only.
const DefaultDefectType = "overall"

// DefaultCalculationMethod labels importance rows when none is given.
const DefaultCalculationMethod = "correlation"

// FeatureMeta describes one sensor channel of the process.
type FeatureMeta struct {
	ID              int       `json:"feature_id"`
	Code            string    `json:"feature_code" validate:"required,max=20"`
	Name            string    `json:"feature_name" validate:"required,max=100"`
	Category        string    `json:"feature_category" validate:"required,max=50"`
	ProcessStage    *string   `json:"process_stage" validate:"omitempty,max=50"`
	MeasurementType *string   `json:"measurement_type" validate:"omitempty,max=50"`
	Unit            *string   `json:"unit" validate:"omitempty,max=20"`
	NormalRangeMin  *float64  `json:"normal_range_min"`
	NormalRangeMax  *float64  `json:"normal_range_max"`
	Description     *string   `json:"description"`
	IsCritical      bool      `json:"is_critical"`
	CreatedAt       time.Time `json:"created_at"`
}

// InRange reports whether v lies inside the feature's normal range.
// A feature without both bounds accepts every value.
func (f *FeatureMeta) InRange(v float64) bool {
	if f.NormalRangeMin == nil || f.NormalRangeMax == nil {
		return true
	}
	return v >= *f.NormalRangeMin && v <= *f.NormalRangeMax
}

// FeatureImportance scores how strongly a feature predicts a defect type.
// Metadata is a JSON document.
type FeatureImportance struct {
	ID                     int       `json:"importance_id"`
	FeatureID              int       `json:"feature_id"`
	DefectType             string    `json:"defect_type"`
	ImportanceScore        float64   `json:"importance_score"`
	CorrelationCoefficient *float64  `json:"correlation_coefficient"`
	SampleCount            int       `json:"sample_count"`
	CalculatedAt           time.Time `json:"calculated_at"`
	CalculationMethod      string    `json:"calculation_method"`
	Metadata               *string   `json:"metadata"`
}
