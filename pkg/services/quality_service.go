package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// QualityService manages final-test quality results.
type QualityService interface {
	List(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error)
	ListFailed(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error)
	ListPassed(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error)
	Get(ctx context.Context, id int) (*models.QualityResult, error)
	GetByLot(ctx context.Context, lotID int) (*models.QualityResult, error)
	// HighRisk lists results at or above threshold; nil uses the configured default.
	HighRisk(ctx context.Context, threshold *float64) ([]*models.QualityResult, error)
	ListByDefectType(ctx context.Context, defectType string) ([]*models.QualityResult, error)
	Create(ctx context.Context, q *models.QualityResult) error
	Update(ctx context.Context, q *models.QualityResult) error
	Delete(ctx context.Context, id int) error
}

type qualityService struct {
	repo   repositories.QualityResultRepository
	cfg    config.AnalyticsConfig
	logger *zap.Logger
}

// NewQualityService creates a new QualityService.
func NewQualityService(repo repositories.QualityResultRepository, cfg config.AnalyticsConfig, logger *zap.Logger) QualityService {
	return &qualityService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("quality-service"),
	}
}

var _ QualityService = (*qualityService)(nil)

func (s *qualityService) List(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	return s.repo.ListPage(ctx, page)
}

func (s *qualityService) ListFailed(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	return s.repo.ListByClassification(ctx, models.ClassificationFail, page)
}

func (s *qualityService) ListPassed(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	return s.repo.ListByClassification(ctx, models.ClassificationPass, page)
}

func (s *qualityService) Get(ctx context.Context, id int) (*models.QualityResult, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *qualityService) GetByLot(ctx context.Context, lotID int) (*models.QualityResult, error) {
	return s.repo.GetByLot(ctx, lotID)
}

func (s *qualityService) HighRisk(ctx context.Context, threshold *float64) ([]*models.QualityResult, error) {
	t, err := resolveThreshold(threshold, s.cfg.DefaultRiskThreshold)
	if err != nil {
		return nil, err
	}
	return s.repo.ListHighRisk(ctx, t)
}

func (s *qualityService) ListByDefectType(ctx context.Context, defectType string) ([]*models.QualityResult, error) {
	return s.repo.ListByDefectType(ctx, defectType)
}

func (s *qualityService) Create(ctx context.Context, q *models.QualityResult) error {
	applyQualityDefaults(q)

	if err := s.repo.Create(ctx, q); err != nil {
		logFailure(s.logger, "Failed to create quality result", err, zap.Int("lot_id", q.LotID))
		return err
	}

	s.logger.Info("Created quality result",
		zap.Int("result_id", q.ID),
		zap.Int("lot_id", q.LotID),
		zap.Int("classification", q.Classification))
	return nil
}

func (s *qualityService) Update(ctx context.Context, q *models.QualityResult) error {
	applyQualityDefaults(q)

	if err := s.repo.Update(ctx, q); err != nil {
		logFailure(s.logger, "Failed to update quality result", err, zap.Int("result_id", q.ID))
		return err
	}

	s.logger.Info("Updated quality result",
		zap.Int("result_id", q.ID),
		zap.String("disposition", q.Disposition))
	return nil
}

func (s *qualityService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete quality result", err, zap.Int("result_id", id))
		return err
	}

	s.logger.Info("Deleted quality result", zap.Int("result_id", id))
	return nil
}

func applyQualityDefaults(q *models.QualityResult) {
	if q.Disposition == "" {
		q.Disposition = models.DispositionPending
	}
}
