package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// OperatorService manages operators and their lot history.
type OperatorService interface {
	List(ctx context.Context) ([]*models.Operator, error)
	Get(ctx context.Context, id int) (*models.Operator, error)
	GetByCode(ctx context.Context, code string) (*models.Operator, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Operator, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Operator, error)
	// Lots returns every lot run by the operator. An unknown operator is
	// apperrors.ErrNotFound, not an empty list.
	Lots(ctx context.Context, operatorID int) ([]*models.Lot, error)
	Create(ctx context.Context, o *models.Operator) error
	Update(ctx context.Context, o *models.Operator) error
	Delete(ctx context.Context, id int) error
}

type operatorService struct {
	repo    repositories.OperatorRepository
	lotRepo repositories.LotRepository
	logger  *zap.Logger
}

// NewOperatorService creates a new OperatorService.
func NewOperatorService(repo repositories.OperatorRepository, lotRepo repositories.LotRepository, logger *zap.Logger) OperatorService {
	return &operatorService{
		repo:    repo,
		lotRepo: lotRepo,
		logger:  logger.Named("operator-service"),
	}
}

var _ OperatorService = (*operatorService)(nil)

func (s *operatorService) List(ctx context.Context) ([]*models.Operator, error) {
	return s.repo.List(ctx)
}

func (s *operatorService) Get(ctx context.Context, id int) (*models.Operator, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *operatorService) GetByCode(ctx context.Context, code string) (*models.Operator, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *operatorService) ListByDepartment(ctx context.Context, department string) ([]*models.Operator, error) {
	return s.repo.ListByDepartment(ctx, department)
}

func (s *operatorService) ListByStatus(ctx context.Context, status string) ([]*models.Operator, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *operatorService) Lots(ctx context.Context, operatorID int) ([]*models.Lot, error) {
	if _, err := s.repo.GetByID(ctx, operatorID); err != nil {
		return nil, err
	}
	return s.lotRepo.ListByOperator(ctx, operatorID)
}

func (s *operatorService) Create(ctx context.Context, o *models.Operator) error {
	applyOperatorDefaults(o)

	if err := s.repo.Create(ctx, o); err != nil {
		logFailure(s.logger, "Failed to create operator", err, zap.String("operator_code", o.Code))
		return err
	}

	s.logger.Info("Created operator",
		zap.Int("operator_id", o.ID),
		zap.String("operator_code", o.Code))
	return nil
}

func (s *operatorService) Update(ctx context.Context, o *models.Operator) error {
	applyOperatorDefaults(o)

	if err := s.repo.Update(ctx, o); err != nil {
		logFailure(s.logger, "Failed to update operator", err, zap.Int("operator_id", o.ID))
		return err
	}

	s.logger.Info("Updated operator", zap.Int("operator_id", o.ID))
	return nil
}

func (s *operatorService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete operator", err, zap.Int("operator_id", id))
		return err
	}

	s.logger.Info("Deleted operator", zap.Int("operator_id", id))
	return nil
}

func applyOperatorDefaults(o *models.Operator) {
	if o.Status == "" {
		o.Status = models.OperatorStatusActive
	}
}
