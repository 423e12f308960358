package models

import "time"

// LotMeasurement is one sensor reading for one lot.
type LotMeasurement struct {
	ID          int64      `json:"measurement_id"`
	LotID       int        `json:"lot_id" validate:"required,gt=0"`
	FeatureID   int        `json:"feature_id" validate:"required,gt=0"`
	Value       *float64   `json:"measurement_value"`
	IsOutOfSpec bool       `json:"is_out_of_spec"`
	MeasuredAt  *time.Time `json:"measured_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
