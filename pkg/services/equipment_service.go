package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// EquipmentService manages production equipment.
type EquipmentService interface {
	List(ctx context.Context) ([]*models.Equipment, error)
	Get(ctx context.Context, id int) (*models.Equipment, error)
	GetByCode(ctx context.Context, code string) (*models.Equipment, error)
	ListByType(ctx context.Context, equipmentType string) ([]*models.Equipment, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Equipment, error)
	Create(ctx context.Context, e *models.Equipment) error
	Update(ctx context.Context, e *models.Equipment) error
	Delete(ctx context.Context, id int) error
}

type equipmentService struct {
	repo   repositories.EquipmentRepository
	logger *zap.Logger
}

// NewEquipmentService creates a new EquipmentService.
func NewEquipmentService(repo repositories.EquipmentRepository, logger *zap.Logger) EquipmentService {
	return &equipmentService{
		repo:   repo,
		logger: logger.Named("equipment-service"),
	}
}

var _ EquipmentService = (*equipmentService)(nil)

func (s *equipmentService) List(ctx context.Context) ([]*models.Equipment, error) {
	return s.repo.List(ctx)
}

func (s *equipmentService) Get(ctx context.Context, id int) (*models.Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *equipmentService) GetByCode(ctx context.Context, code string) (*models.Equipment, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *equipmentService) ListByType(ctx context.Context, equipmentType string) ([]*models.Equipment, error) {
	return s.repo.ListByType(ctx, equipmentType)
}

func (s *equipmentService) ListByStatus(ctx context.Context, status string) ([]*models.Equipment, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *equipmentService) Create(ctx context.Context, e *models.Equipment) error {
	applyEquipmentDefaults(e)

	if err := s.repo.Create(ctx, e); err != nil {
		logFailure(s.logger, "Failed to create equipment", err, zap.String("equipment_code", e.Code))
		return err
	}

	s.logger.Info("Created equipment",
		zap.Int("equipment_id", e.ID),
		zap.String("equipment_code", e.Code))
	return nil
}

func (s *equipmentService) Update(ctx context.Context, e *models.Equipment) error {
	applyEquipmentDefaults(e)

	if err := s.repo.Update(ctx, e); err != nil {
		logFailure(s.logger, "Failed to update equipment", err, zap.Int("equipment_id", e.ID))
		return err
	}

	s.logger.Info("Updated equipment", zap.Int("equipment_id", e.ID))
	return nil
}

func (s *equipmentService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete equipment", err, zap.Int("equipment_id", id))
		return err
	}

	s.logger.Info("Deleted equipment", zap.Int("equipment_id", id))
	return nil
}

func applyEquipmentDefaults(e *models.Equipment) {
	if e.Status == "" {
		e.Status = models.EquipmentStatusActive
	}
}
