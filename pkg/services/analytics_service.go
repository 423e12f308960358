package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// AnalyticsService serves the read-only analytics projections. Optional
// parameters are nil when the client omitted them.
type AnalyticsService interface {
	Summary(ctx context.Context) (*models.ProductionSummary, error)
	EquipmentHealth(ctx context.Context) ([]*models.EquipmentHealth, error)
	ShiftPerformance(ctx context.Context) ([]*models.ShiftPerformance, error)
	QualitySummary(ctx context.Context) ([]*models.QualityDefectSummary, error)
	FeatureImportance(ctx context.Context, defectType *string, limit *int) ([]*models.FeatureImportanceRank, error)
	HighRiskLots(ctx context.Context, threshold *float64, limit *int) ([]*models.HighRiskLot, error)
	DefectDistribution(ctx context.Context) ([]*models.DefectDistribution, error)
	RiskDistribution(ctx context.Context) ([]*models.RiskBucket, error)
}

type analyticsService struct {
	repo   repositories.AnalyticsRepository
	cfg    config.AnalyticsConfig
	logger *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo repositories.AnalyticsRepository, cfg config.AnalyticsConfig, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("analytics-service"),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) Summary(ctx context.Context) (*models.ProductionSummary, error) {
	summary, err := s.repo.ProductionSummary(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load production summary", err)
		return nil, err
	}
	return summary, nil
}

func (s *analyticsService) EquipmentHealth(ctx context.Context) ([]*models.EquipmentHealth, error) {
	rows, err := s.repo.EquipmentHealth(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load equipment health", err)
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) ShiftPerformance(ctx context.Context) ([]*models.ShiftPerformance, error) {
	rows, err := s.repo.ShiftPerformance(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load shift performance", err)
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) QualitySummary(ctx context.Context) ([]*models.QualityDefectSummary, error) {
	rows, err := s.repo.QualitySummary(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load quality summary", err)
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) FeatureImportance(ctx context.Context, defectType *string, limit *int) ([]*models.FeatureImportanceRank, error) {
	params := models.FeatureImportanceParams{DefectType: s.cfg.DefaultDefectType}
	if defectType != nil && strings.TrimSpace(*defectType) != "" {
		params.DefectType = strings.TrimSpace(*defectType)
	}

	n, err := s.resolveLimit(limit, s.cfg.FeatureImportanceLimit)
	if err != nil {
		return nil, err
	}
	params.Limit = n

	rows, err := s.repo.FeatureImportance(ctx, params)
	if err != nil {
		logFailure(s.logger, "Failed to load feature importance", err,
			zap.String("defect_type", params.DefectType),
			zap.Int("limit", params.Limit))
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) HighRiskLots(ctx context.Context, threshold *float64, limit *int) ([]*models.HighRiskLot, error) {
	t, err := resolveThreshold(threshold, s.cfg.DefaultRiskThreshold)
	if err != nil {
		return nil, err
	}
	n, err := s.resolveLimit(limit, s.cfg.HighRiskLimit)
	if err != nil {
		return nil, err
	}

	params := models.HighRiskParams{Threshold: t, Limit: n}
	rows, err := s.repo.HighRiskLots(ctx, params)
	if err != nil {
		logFailure(s.logger, "Failed to load high-risk lots", err,
			zap.Float64("threshold", params.Threshold),
			zap.Int("limit", params.Limit))
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) DefectDistribution(ctx context.Context) ([]*models.DefectDistribution, error) {
	rows, err := s.repo.DefectDistribution(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load defect distribution", err)
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) RiskDistribution(ctx context.Context) ([]*models.RiskBucket, error) {
	rows, err := s.repo.RiskDistribution(ctx)
	if err != nil {
		logFailure(s.logger, "Failed to load risk distribution", err)
		return nil, err
	}
	return rows, nil
}

// resolveLimit applies the default and enforces 1..MaxLimit.
func (s *analyticsService) resolveLimit(limit *int, def int) (int, error) {
	if limit == nil {
		return def, nil
	}
	if *limit < 1 || *limit > s.cfg.MaxLimit {
		return 0, validationError("limit must be in [1, %d], got %d", s.cfg.MaxLimit, *limit)
	}
	return *limit, nil
}

// resolveThreshold applies the default and enforces [0, 1].
func resolveThreshold(threshold *float64, def float64) (float64, error) {
	if threshold == nil {
		return def, nil
	}
	if *threshold < 0 || *threshold > 1 {
		return 0, validationError("threshold must be in [0, 1], got %v", *threshold)
	}
	return *threshold, nil
}
