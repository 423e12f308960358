package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// MaxMeasurementBatch caps one batch insert. A full SECOM lot is 590 rows.
const MaxMeasurementBatch = 10000

// MeasurementService manages lot sensor measurements.
type MeasurementService interface {
	Get(ctx context.Context, id int64) (*models.LotMeasurement, error)
	ListByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error)
	ListAnomaliesByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error)
	ListByFeature(ctx context.Context, featureID int) ([]*models.LotMeasurement, error)
	ListAnomalies(ctx context.Context, page models.PageRequest) (*models.Page[*models.LotMeasurement], error)
	Create(ctx context.Context, m *models.LotMeasurement) error
	// CreateBatch stores 1..MaxMeasurementBatch measurements and returns
	// how many were written.
	CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type measurementService struct {
	repo   repositories.MeasurementRepository
	logger *zap.Logger
}

// NewMeasurementService creates a new MeasurementService.
func NewMeasurementService(repo repositories.MeasurementRepository, logger *zap.Logger) MeasurementService {
	return &measurementService{
		repo:   repo,
		logger: logger.Named("measurement-service"),
	}
}

var _ MeasurementService = (*measurementService)(nil)

func (s *measurementService) Get(ctx context.Context, id int64) (*models.LotMeasurement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *measurementService) ListByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error) {
	return s.repo.ListByLot(ctx, lotID)
}

func (s *measurementService) ListAnomaliesByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error) {
	return s.repo.ListAnomaliesByLot(ctx, lotID)
}

func (s *measurementService) ListByFeature(ctx context.Context, featureID int) ([]*models.LotMeasurement, error) {
	return s.repo.ListByFeature(ctx, featureID)
}

func (s *measurementService) ListAnomalies(ctx context.Context, page models.PageRequest) (*models.Page[*models.LotMeasurement], error) {
	return s.repo.ListAnomalies(ctx, page)
}

func (s *measurementService) Create(ctx context.Context, m *models.LotMeasurement) error {
	if err := s.repo.Create(ctx, m); err != nil {
		logFailure(s.logger, "Failed to create measurement", err,
			zap.Int("lot_id", m.LotID),
			zap.Int("feature_id", m.FeatureID))
		return err
	}
	return nil
}

func (s *measurementService) CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error) {
	if len(measurements) == 0 {
		return 0, validationError("batch must contain at least one measurement")
	}
	if len(measurements) > MaxMeasurementBatch {
		return 0, validationError("batch of %d exceeds the maximum of %d", len(measurements), MaxMeasurementBatch)
	}

	n, err := s.repo.CreateBatch(ctx, measurements)
	if err != nil {
		logFailure(s.logger, "Failed to create measurement batch", err, zap.Int("count", len(measurements)))
		return 0, err
	}

	s.logger.Info("Created measurement batch", zap.Int64("count", n))
	return n, nil
}

func (s *measurementService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete measurement", err, zap.Int64("measurement_id", id))
		return err
	}
	return nil
}
