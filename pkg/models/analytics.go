package models

import "time"

// ProductionSummary is the plant-wide KPI row.
type ProductionSummary struct {
	TotalLots            int64      `json:"total_lots"`
	ActiveEquipmentCount int64      `json:"active_equipment_count"`
	ActiveOperatorCount  int64      `json:"active_operator_count"`
	PassCount            int64      `json:"pass_count"`
	FailCount            int64      `json:"fail_count"`
	FailRatePct          float64    `json:"fail_rate_pct"`
	AvgQualityScore      float64    `json:"avg_quality_score"`
	FirstProductionDate  *time.Time `json:"first_production_date"`
	LastProductionDate   *time.Time `json:"last_production_date"`
}

// EquipmentHealth is one row of the equipment health view. DaysOperated and
// HealthScore are computed by the view.
type EquipmentHealth struct {
	EquipmentID          int     `json:"equipment_id"`
	EquipmentCode        string  `json:"equipment_code"`
	EquipmentName        string  `json:"equipment_name"`
	EquipmentType        string  `json:"equipment_type"`
	EquipmentStatus      string  `json:"equipment_status"`
	TotalLotsProcessed   int64   `json:"total_lots_processed"`
	FailedLots           int64   `json:"failed_lots"`
	EquipmentFailRatePct float64 `json:"equipment_fail_rate_pct"`
	AvgQualityScore      float64 `json:"avg_quality_score"`
	DaysOperated         int64   `json:"days_operated"`
	LotsBetweenFailures  float64 `json:"lots_between_failures"`
	HealthScore          float64 `json:"health_score"`
}

// ShiftPerformance compares outcomes across shifts.
type ShiftPerformance struct {
	ShiftID         int     `json:"shift_id"`
	ShiftCode       string  `json:"shift_code"`
	ShiftName       string  `json:"shift_name"`
	TotalLots       int64   `json:"total_lots"`
	PassCount       int64   `json:"pass_count"`
	FailCount       int64   `json:"fail_count"`
	FailRatePct     float64 `json:"fail_rate_pct"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	OperatorCount   int64   `json:"operator_count"`
	EquipmentUsed   int64   `json:"equipment_used"`
}

// QualityDefectSummary aggregates failures of one defect type. The affected
// lists are comma-joined.
type QualityDefectSummary struct {
	DefectType              string  `json:"defect_type"`
	OccurrenceCount         int64   `json:"occurrence_count"`
	PctOfFailures           float64 `json:"pct_of_failures"`
	AvgQualityScore         float64 `json:"avg_quality_score"`
	AffectedProductFamilies string  `json:"affected_product_families"`
	AffectedEquipmentTypes  string  `json:"affected_equipment_types"`
}

// FeatureImportanceRank is one entry of a feature ranking.
type FeatureImportanceRank struct {
	FeatureCode            string  `json:"feature_code"`
	FeatureName            string  `json:"feature_name"`
	FeatureCategory        string  `json:"feature_category"`
	ImportanceScore        float64 `json:"importance_score"`
	CorrelationCoefficient float64 `json:"correlation_coefficient"`
	CalculationMethod      string  `json:"calculation_method"`
}

// HighRiskLot is a lot whose predicted risk reached the requested threshold.
type HighRiskLot struct {
	LotNumber            string     `json:"lot_number"`
	ProductName          string     `json:"product_name"`
	EquipmentCode        string     `json:"equipment_code"`
	PredictedRisk        float64    `json:"predicted_risk"`
	RiskScore            float64    `json:"risk_score"`
	TestDatetime         *time.Time `json:"test_datetime"`
	ActualClassification int        `json:"actual_classification"`
}

// DefectDistribution is the share of one defect type among failed lots.
type DefectDistribution struct {
	DefectType string  `json:"defect_type"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RiskBucket is one 0.1-wide bin of the predicted risk histogram.
type RiskBucket struct {
	RiskBucket     float64 `json:"risk_bucket"`
	LotCount       int64   `json:"lot_count"`
	ActualFailures int64   `json:"actual_failures"`
}

// HighRiskParams parameterizes the high-risk lot query.
type HighRiskParams struct {
	Threshold float64
	Limit     int
}

// FeatureImportanceParams parameterizes the feature ranking.
type FeatureImportanceParams struct {
	DefectType string
	Limit      int
}
