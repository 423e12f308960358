package models

import "time"

// Classification values of a quality result.
const (
	ClassificationPass = -1
	ClassificationFail = 1
)

// Disposition values
const (
	DispositionReleased = "released"
	DispositionRework   = "rework"
	DispositionScrap    = "scrap"
	DispositionPending  = "pending"
)

// QualityResult is the final test outcome of a lot, one per lot.
// RiskFactors is a JSON document.
type QualityResult struct {
	ID               int        `json:"result_id"`
	LotID            int        `json:"lot_id" validate:"required,gt=0"`
	Classification   int        `json:"classification" validate:"oneof=-1 1"`
	TestTimestampRaw string     `json:"test_timestamp_raw" validate:"required,max=50"`
	TestDatetime     *time.Time `json:"test_datetime"`
	PredictedRisk    *float64   `json:"predicted_risk" validate:"omitempty,gte=0,lte=1"`
	RiskScore        *float64   `json:"risk_score" validate:"omitempty,gte=0,lte=100"`
	RiskFactors      *string    `json:"risk_factors" validate:"omitempty,json"`
	ModelVersion     *string    `json:"model_version" validate:"omitempty,max=20"`
	QualityScore     *float64   `json:"quality_score" validate:"omitempty,gte=0,lte=100"`
	DefectType       *string    `json:"defect_type" validate:"omitempty,max=100"`
	DefectCode       *string    `json:"defect_code" validate:"omitempty,max=50"`
	DefectLocation   *string    `json:"defect_location" validate:"omitempty,max=100"`
	InspectorID      *int       `json:"inspector_id" validate:"omitempty,gt=0"`
	Notes            *string    `json:"notes"`
	ReviewedBy       *int       `json:"reviewed_by" validate:"omitempty,gt=0"`
	ReviewedAt       *time.Time `json:"reviewed_at"`
	Disposition      string     `json:"disposition" validate:"omitempty,oneof=released rework scrap pending"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Failed reports whether the lot failed final test.
func (q *QualityResult) Failed() bool {
	return q.Classification == ClassificationFail
}
