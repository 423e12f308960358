package repositories

import (
	"context"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// AnalyticsRepository runs the fixed analytics queries over the reporting views.
type AnalyticsRepository interface {
	ProductionSummary(ctx context.Context) (*models.ProductionSummary, error)
	EquipmentHealth(ctx context.Context) ([]*models.EquipmentHealth, error)
	ShiftPerformance(ctx context.Context) ([]*models.ShiftPerformance, error)
	QualitySummary(ctx context.Context) ([]*models.QualityDefectSummary, error)
	FeatureImportance(ctx context.Context, params models.FeatureImportanceParams) ([]*models.FeatureImportanceRank, error)
	HighRiskLots(ctx context.Context, params models.HighRiskParams) ([]*models.HighRiskLot, error)
	DefectDistribution(ctx context.Context) ([]*models.DefectDistribution, error)
	RiskDistribution(ctx context.Context) ([]*models.RiskBucket, error)
}

type analyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *database.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

var _ AnalyticsRepository = (*analyticsRepository)(nil)

var productionSummaryProjection = newProjection("production summary",
	[]string{
		"total_lots", "active_equipment_count", "active_operator_count", "pass_count",
		"fail_count", "fail_rate_pct", "avg_quality_score", "first_production_date",
		"last_production_date",
	},
	"production_summary",
	func(r *models.ProductionSummary) []any {
		return []any{
			(*zeroInt)(&r.TotalLots),
			(*zeroInt)(&r.ActiveEquipmentCount),
			(*zeroInt)(&r.ActiveOperatorCount),
			(*zeroInt)(&r.PassCount),
			(*zeroInt)(&r.FailCount),
			(*zeroFloat)(&r.FailRatePct),
			(*zeroFloat)(&r.AvgQualityScore),
			&r.FirstProductionDate,
			&r.LastProductionDate,
		}
	})

var equipmentHealthProjection = newProjection("equipment health",
	[]string{
		"equipment_id", "equipment_code", "equipment_name", "equipment_type", "equipment_status",
		"total_lots_processed", "failed_lots", "equipment_fail_rate_pct", "avg_quality_score",
		"days_operated", "lots_between_failures", "health_score",
	},
	"equipment_health_stats",
	func(r *models.EquipmentHealth) []any {
		return []any{
			&r.EquipmentID,
			&r.EquipmentCode,
			&r.EquipmentName,
			&r.EquipmentType,
			(*emptyText)(&r.EquipmentStatus),
			(*zeroInt)(&r.TotalLotsProcessed),
			(*zeroInt)(&r.FailedLots),
			(*zeroFloat)(&r.EquipmentFailRatePct),
			(*zeroFloat)(&r.AvgQualityScore),
			(*zeroInt)(&r.DaysOperated),
			(*zeroFloat)(&r.LotsBetweenFailures),
			(*zeroFloat)(&r.HealthScore),
		}
	})

var shiftPerformanceProjection = newProjection("shift performance",
	[]string{
		"shift_id", "shift_code", "shift_name", "total_lots", "pass_count", "fail_count",
		"fail_rate_pct", "avg_quality_score", "operator_count", "equipment_used",
	},
	"shift_performance_comparison",
	func(r *models.ShiftPerformance) []any {
		return []any{
			&r.ShiftID,
			&r.ShiftCode,
			&r.ShiftName,
			(*zeroInt)(&r.TotalLots),
			(*zeroInt)(&r.PassCount),
			(*zeroInt)(&r.FailCount),
			(*zeroFloat)(&r.FailRatePct),
			(*zeroFloat)(&r.AvgQualityScore),
			(*zeroInt)(&r.OperatorCount),
			(*zeroInt)(&r.EquipmentUsed),
		}
	})

var qualitySummaryProjection = newProjection("quality summary",
	[]string{
		"defect_type", "occurrence_count", "pct_of_failures", "avg_quality_score",
		"affected_product_families", "affected_equipment_types",
	},
	"quality_analytics_summary",
	func(r *models.QualityDefectSummary) []any {
		return []any{
			(*emptyText)(&r.DefectType),
			(*zeroInt)(&r.OccurrenceCount),
			(*zeroFloat)(&r.PctOfFailures),
			(*zeroFloat)(&r.AvgQualityScore),
			(*emptyText)(&r.AffectedProductFamilies),
			(*emptyText)(&r.AffectedEquipmentTypes),
		}
	})

// $1 defect type, $2 limit.
var featureImportanceProjection = newProjection("feature importance",
	[]string{
		"fm.feature_code", "fm.feature_name", "fm.feature_category", "fi.importance_score",
		"fi.correlation_coefficient", "fi.calculation_method",
	},
	`feature_importance fi
		JOIN feature_meta fm ON fi.feature_id = fm.feature_id
		WHERE fi.defect_type = $1
		ORDER BY fi.importance_score DESC
		LIMIT $2`,
	func(r *models.FeatureImportanceRank) []any {
		return []any{
			&r.FeatureCode,
			&r.FeatureName,
			&r.FeatureCategory,
			(*zeroFloat)(&r.ImportanceScore),
			(*zeroFloat)(&r.CorrelationCoefficient),
			(*emptyText)(&r.CalculationMethod),
		}
	})

// $1 threshold, $2 limit.
var highRiskLotsProjection = newProjection("high-risk lots",
	[]string{
		"l.lot_number", "pt.product_name", "e.equipment_code", "qr.predicted_risk",
		"qr.risk_score", "qr.test_datetime", "qr.classification",
	},
	`quality_result qr
		JOIN lot l ON qr.lot_id = l.lot_id
		JOIN product_type pt ON l.product_type_id = pt.product_type_id
		JOIN equipment e ON l.equipment_id = e.equipment_id
		WHERE qr.predicted_risk >= $1
		ORDER BY qr.predicted_risk DESC
		LIMIT $2`,
	func(r *models.HighRiskLot) []any {
		return []any{
			&r.LotNumber,
			&r.ProductName,
			&r.EquipmentCode,
			(*zeroFloat)(&r.PredictedRisk),
			(*zeroFloat)(&r.RiskScore),
			&r.TestDatetime,
			&r.ActualClassification,
		}
	})

var defectDistributionProjection = newProjection("defect distribution",
	[]string{
		"defect_type",
		"COUNT(*) AS count",
		"ROUND(COUNT(*) * 100.0 / NULLIF((SELECT COUNT(*) FROM quality_result WHERE classification = 1), 0), 2) AS percentage",
	},
	`quality_result
		WHERE classification = 1 AND defect_type IS NOT NULL
		GROUP BY defect_type
		ORDER BY count DESC`,
	func(r *models.DefectDistribution) []any {
		return []any{
			&r.DefectType,
			(*zeroInt)(&r.Count),
			(*zeroFloat)(&r.Percentage),
		}
	})

var riskDistributionProjection = newProjection("risk distribution",
	[]string{
		"FLOOR(predicted_risk * 10) / 10 AS risk_bucket",
		"COUNT(*) AS lot_count",
		"SUM(CASE WHEN classification = 1 THEN 1 ELSE 0 END) AS actual_failures",
	},
	`quality_result
		WHERE predicted_risk IS NOT NULL
		GROUP BY risk_bucket
		ORDER BY risk_bucket`,
	func(r *models.RiskBucket) []any {
		return []any{
			(*zeroFloat)(&r.RiskBucket),
			(*zeroInt)(&r.LotCount),
			(*zeroInt)(&r.ActualFailures),
		}
	})

func (r *analyticsRepository) ProductionSummary(ctx context.Context) (*models.ProductionSummary, error) {
	return productionSummaryProjection.one(ctx, r.db.Querier(ctx))
}

func (r *analyticsRepository) EquipmentHealth(ctx context.Context) ([]*models.EquipmentHealth, error) {
	return equipmentHealthProjection.all(ctx, r.db.Querier(ctx))
}

func (r *analyticsRepository) ShiftPerformance(ctx context.Context) ([]*models.ShiftPerformance, error) {
	return shiftPerformanceProjection.all(ctx, r.db.Querier(ctx))
}

func (r *analyticsRepository) QualitySummary(ctx context.Context) ([]*models.QualityDefectSummary, error) {
	return qualitySummaryProjection.all(ctx, r.db.Querier(ctx))
}

func (r *analyticsRepository) FeatureImportance(ctx context.Context, params models.FeatureImportanceParams) ([]*models.FeatureImportanceRank, error) {
	return featureImportanceProjection.all(ctx, r.db.Querier(ctx), params.DefectType, params.Limit)
}

func (r *analyticsRepository) HighRiskLots(ctx context.Context, params models.HighRiskParams) ([]*models.HighRiskLot, error) {
	return highRiskLotsProjection.all(ctx, r.db.Querier(ctx), params.Threshold, params.Limit)
}

func (r *analyticsRepository) DefectDistribution(ctx context.Context) ([]*models.DefectDistribution, error) {
	return defectDistributionProjection.all(ctx, r.db.Querier(ctx))
}

func (r *analyticsRepository) RiskDistribution(ctx context.Context) ([]*models.RiskBucket, error) {
	return riskDistributionProjection.all(ctx, r.db.Querier(ctx))
}
