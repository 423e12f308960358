package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// FeatureService manages the sensor feature catalog.
type FeatureService interface {
	List(ctx context.Context, page models.PageRequest) (*models.Page[*models.FeatureMeta], error)
	Get(ctx context.Context, id int) (*models.FeatureMeta, error)
	GetByCode(ctx context.Context, code string) (*models.FeatureMeta, error)
	ListByCategory(ctx context.Context, category string) ([]*models.FeatureMeta, error)
	ListCritical(ctx context.Context) ([]*models.FeatureMeta, error)
	// Search matches term against feature names and categories. A blank
	// term is a validation error.
	Search(ctx context.Context, term string) ([]*models.FeatureMeta, error)
	// Importance lists the importance scores of one feature. An unknown
	// feature is apperrors.ErrNotFound.
	Importance(ctx context.Context, featureID int) ([]*models.FeatureImportance, error)
	Create(ctx context.Context, f *models.FeatureMeta) error
	Update(ctx context.Context, f *models.FeatureMeta) error
	Delete(ctx context.Context, id int) error
}

type featureService struct {
	repo           repositories.FeatureMetaRepository
	importanceRepo repositories.FeatureImportanceRepository
	logger         *zap.Logger
}

// NewFeatureService creates a new FeatureService.
func NewFeatureService(repo repositories.FeatureMetaRepository, importanceRepo repositories.FeatureImportanceRepository, logger *zap.Logger) FeatureService {
	return &featureService{
		repo:           repo,
		importanceRepo: importanceRepo,
		logger:         logger.Named("feature-service"),
	}
}

var _ FeatureService = (*featureService)(nil)

func (s *featureService) List(ctx context.Context, page models.PageRequest) (*models.Page[*models.FeatureMeta], error) {
	return s.repo.ListPage(ctx, page)
}

func (s *featureService) Get(ctx context.Context, id int) (*models.FeatureMeta, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *featureService) GetByCode(ctx context.Context, code string) (*models.FeatureMeta, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *featureService) ListByCategory(ctx context.Context, category string) ([]*models.FeatureMeta, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *featureService) ListCritical(ctx context.Context) ([]*models.FeatureMeta, error) {
	return s.repo.ListCritical(ctx)
}

func (s *featureService) Search(ctx context.Context, term string) ([]*models.FeatureMeta, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationError("search term is required")
	}
	return s.repo.Search(ctx, term)
}

func (s *featureService) Importance(ctx context.Context, featureID int) ([]*models.FeatureImportance, error) {
	if _, err := s.repo.GetByID(ctx, featureID); err != nil {
		return nil, err
	}
	return s.importanceRepo.ListByFeature(ctx, featureID)
}

func (s *featureService) Create(ctx context.Context, f *models.FeatureMeta) error {
	if err := checkRange(f); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		logFailure(s.logger, "Failed to create feature", err, zap.String("feature_code", f.Code))
		return err
	}

	s.logger.Info("Created feature",
		zap.Int("feature_id", f.ID),
		zap.String("feature_code", f.Code))
	return nil
}

func (s *featureService) Update(ctx context.Context, f *models.FeatureMeta) error {
	if err := checkRange(f); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		logFailure(s.logger, "Failed to update feature", err, zap.Int("feature_id", f.ID))
		return err
	}

	s.logger.Info("Updated feature", zap.Int("feature_id", f.ID))
	return nil
}

func (s *featureService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete feature", err, zap.Int("feature_id", id))
		return err
	}

	s.logger.Info("Deleted feature", zap.Int("feature_id", id))
	return nil
}

func checkRange(f *models.FeatureMeta) error {
	if f.NormalRangeMin != nil && f.NormalRangeMax != nil && *f.NormalRangeMin > *f.NormalRangeMax {
		return validationError("normal_range_min %v exceeds normal_range_max %v", *f.NormalRangeMin, *f.NormalRangeMax)
	}
	return nil
}
