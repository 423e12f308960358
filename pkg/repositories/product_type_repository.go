package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// ProductTypeRepository provides data access for product types.
type ProductTypeRepository interface {
	List(ctx context.Context) ([]*models.ProductType, error)
	GetByID(ctx context.Context, id int) (*models.ProductType, error)
	GetByCode(ctx context.Context, code string) (*models.ProductType, error)
	ListByFamily(ctx context.Context, family string) ([]*models.ProductType, error)
	Create(ctx context.Context, p *models.ProductType) error
	Update(ctx context.Context, p *models.ProductType) error
	Delete(ctx context.Context, id int) error
}

type productTypeRepository struct {
	db *database.DB
}

// NewProductTypeRepository creates a new ProductTypeRepository.
func NewProductTypeRepository(db *database.DB) ProductTypeRepository {
	return &productTypeRepository{db: db}
}

var _ ProductTypeRepository = (*productTypeRepository)(nil)

const productTypeColumns = `product_type_id, product_code, product_name, product_family,
	target_yield, specification_version, created_at`

func (r *productTypeRepository) List(ctx context.Context) ([]*models.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_type ORDER BY product_type_id`
	return queryList(ctx, r.db.Querier(ctx), "product types", scanProductType, query)
}

func (r *productTypeRepository) GetByID(ctx context.Context, id int) (*models.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_type WHERE product_type_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "product type", scanProductType, query, id)
}

func (r *productTypeRepository) GetByCode(ctx context.Context, code string) (*models.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_type WHERE product_code = $1`
	return queryOne(ctx, r.db.Querier(ctx), "product type", scanProductType, query, code)
}

func (r *productTypeRepository) ListByFamily(ctx context.Context, family string) ([]*models.ProductType, error) {
	query := `SELECT ` + productTypeColumns + ` FROM product_type WHERE product_family = $1 ORDER BY product_type_id`
	return queryList(ctx, r.db.Querier(ctx), "product types", scanProductType, query, family)
}

func (r *productTypeRepository) Create(ctx context.Context, p *models.ProductType) error {
	query := `
		INSERT INTO product_type (
			product_code, product_name, product_family, target_yield, specification_version
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING product_type_id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		p.Code,
		p.Name,
		p.Family,
		p.TargetYield,
		p.SpecificationVersion,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return writeError("create product type", err)
	}

	return nil
}

func (r *productTypeRepository) Update(ctx context.Context, p *models.ProductType) error {
	query := `
		UPDATE product_type
		SET product_code = $2, product_name = $3, product_family = $4, target_yield = $5,
		    specification_version = $6
		WHERE product_type_id = $1
		RETURNING created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		p.ID,
		p.Code,
		p.Name,
		p.Family,
		p.TargetYield,
		p.SpecificationVersion,
	).Scan(&p.CreatedAt)
	if err != nil {
		return writeError("update product type", err)
	}

	return nil
}

func (r *productTypeRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "product type", "product_type", "product_type_id", id)
}

func scanProductType(row pgx.Row) (*models.ProductType, error) {
	var p models.ProductType
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.Family,
		&p.TargetYield,
		&p.SpecificationVersion,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
