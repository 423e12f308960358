package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// LotService manages production lots.
type LotService interface {
	// List returns one page of lots matching every given filter.
	List(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error)
	Get(ctx context.Context, id int) (*models.Lot, error)
	GetByNumber(ctx context.Context, lotNumber string) (*models.Lot, error)
	Create(ctx context.Context, l *models.Lot) error
	Update(ctx context.Context, l *models.Lot) error
	Delete(ctx context.Context, id int) error
}

type lotService struct {
	repo   repositories.LotRepository
	logger *zap.Logger
}

// NewLotService creates a new LotService.
func NewLotService(repo repositories.LotRepository, logger *zap.Logger) LotService {
	return &lotService{
		repo:   repo,
		logger: logger.Named("lot-service"),
	}
}

var _ LotService = (*lotService)(nil)

func (s *lotService) List(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error) {
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		s.logger.Debug("Lot filter with empty date range",
			zap.Time("start_date", *filters.StartDate),
			zap.Time("end_date", *filters.EndDate))
	}

	result, err := s.repo.ListByFilters(ctx, filters, page)
	if err != nil {
		logFailure(s.logger, "Failed to list lots", err)
		return nil, err
	}
	return result, nil
}

func (s *lotService) Get(ctx context.Context, id int) (*models.Lot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *lotService) GetByNumber(ctx context.Context, lotNumber string) (*models.Lot, error) {
	return s.repo.GetByNumber(ctx, lotNumber)
}

func (s *lotService) Create(ctx context.Context, l *models.Lot) error {
	applyLotDefaults(l)

	if err := s.repo.Create(ctx, l); err != nil {
		logFailure(s.logger, "Failed to create lot", err, zap.String("lot_number", l.LotNumber))
		return err
	}

	s.logger.Info("Created lot",
		zap.Int("lot_id", l.ID),
		zap.String("lot_number", l.LotNumber))
	return nil
}

func (s *lotService) Update(ctx context.Context, l *models.Lot) error {
	applyLotDefaults(l)

	if err := s.repo.Update(ctx, l); err != nil {
		logFailure(s.logger, "Failed to update lot", err, zap.Int("lot_id", l.ID))
		return err
	}

	s.logger.Info("Updated lot", zap.Int("lot_id", l.ID), zap.String("status", l.Status))
	return nil
}

func (s *lotService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete lot", err, zap.Int("lot_id", id))
		return err
	}

	s.logger.Info("Deleted lot", zap.Int("lot_id", id))
	return nil
}

// applyLotDefaults fills the values the schema would default. A zero wafer
// count is treated as absent.
func applyLotDefaults(l *models.Lot) {
	if l.WaferCount == 0 {
		l.WaferCount = models.DefaultWaferCount
	}
	if l.Status == "" {
		l.Status = models.LotStatusInProgress
	}
}
