package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// ShiftService manages shift definitions.
type ShiftService interface {
	List(ctx context.Context) ([]*models.Shift, error)
	Get(ctx context.Context, id int) (*models.Shift, error)
	GetByCode(ctx context.Context, code string) (*models.Shift, error)
	Create(ctx context.Context, sh *models.Shift) error
	Update(ctx context.Context, sh *models.Shift) error
	Delete(ctx context.Context, id int) error
}

type shiftService struct {
	repo   repositories.ShiftRepository
	logger *zap.Logger
}

// NewShiftService creates a new ShiftService.
func NewShiftService(repo repositories.ShiftRepository, logger *zap.Logger) ShiftService {
	return &shiftService{
		repo:   repo,
		logger: logger.Named("shift-service"),
	}
}

var _ ShiftService = (*shiftService)(nil)

func (s *shiftService) List(ctx context.Context) ([]*models.Shift, error) {
	return s.repo.List(ctx)
}

func (s *shiftService) Get(ctx context.Context, id int) (*models.Shift, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *shiftService) GetByCode(ctx context.Context, code string) (*models.Shift, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *shiftService) Create(ctx context.Context, sh *models.Shift) error {
	if err := s.repo.Create(ctx, sh); err != nil {
		logFailure(s.logger, "Failed to create shift", err, zap.String("shift_code", sh.Code))
		return err
	}
	s.logger.Info("Created shift", zap.Int("shift_id", sh.ID), zap.String("shift_code", sh.Code))
	return nil
}

func (s *shiftService) Update(ctx context.Context, sh *models.Shift) error {
	if err := s.repo.Update(ctx, sh); err != nil {
		logFailure(s.logger, "Failed to update shift", err, zap.Int("shift_id", sh.ID))
		return err
	}
	s.logger.Info("Updated shift", zap.Int("shift_id", sh.ID))
	return nil
}

func (s *shiftService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete shift", err, zap.Int("shift_id", id))
		return err
	}
	s.logger.Info("Deleted shift", zap.Int("shift_id", id))
	return nil
}

// ProductService manages product types.
type ProductService interface {
	List(ctx context.Context) ([]*models.ProductType, error)
	Get(ctx context.Context, id int) (*models.ProductType, error)
	GetByCode(ctx context.Context, code string) (*models.ProductType, error)
	ListByFamily(ctx context.Context, family string) ([]*models.ProductType, error)
	Create(ctx context.Context, p *models.ProductType) error
	Update(ctx context.Context, p *models.ProductType) error
	Delete(ctx context.Context, id int) error
}

type productService struct {
	repo   repositories.ProductTypeRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductTypeRepository, logger *zap.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.Named("product-service"),
	}
}

var _ ProductService = (*productService)(nil)

func (s *productService) List(ctx context.Context) ([]*models.ProductType, error) {
	return s.repo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id int) (*models.ProductType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *productService) GetByCode(ctx context.Context, code string) (*models.ProductType, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *productService) ListByFamily(ctx context.Context, family string) ([]*models.ProductType, error) {
	return s.repo.ListByFamily(ctx, family)
}

func (s *productService) Create(ctx context.Context, p *models.ProductType) error {
	if err := s.repo.Create(ctx, p); err != nil {
		logFailure(s.logger, "Failed to create product type", err, zap.String("product_code", p.Code))
		return err
	}
	s.logger.Info("Created product type", zap.Int("product_type_id", p.ID), zap.String("product_code", p.Code))
	return nil
}

func (s *productService) Update(ctx context.Context, p *models.ProductType) error {
	if err := s.repo.Update(ctx, p); err != nil {
		logFailure(s.logger, "Failed to update product type", err, zap.Int("product_type_id", p.ID))
		return err
	}
	s.logger.Info("Updated product type", zap.Int("product_type_id", p.ID))
	return nil
}

func (s *productService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		logFailure(s.logger, "Failed to delete product type", err, zap.Int("product_type_id", id))
		return err
	}
	s.logger.Info("Deleted product type", zap.Int("product_type_id", id))
	return nil
}
