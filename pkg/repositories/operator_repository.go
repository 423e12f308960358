package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// OperatorRepository provides data access for operators.
type OperatorRepository interface {
	List(ctx context.Context) ([]*models.Operator, error)
	GetByID(ctx context.Context, id int) (*models.Operator, error)
	GetByCode(ctx context.Context, code string) (*models.Operator, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Operator, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Operator, error)
	Create(ctx context.Context, o *models.Operator) error
	Update(ctx context.Context, o *models.Operator) error
	Delete(ctx context.Context, id int) error
}

type operatorRepository struct {
	db *database.DB
}

// NewOperatorRepository creates a new OperatorRepository.
func NewOperatorRepository(db *database.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

var _ OperatorRepository = (*operatorRepository)(nil)

const operatorColumns = `operator_id, operator_code, operator_name, employee_number,
	department, hire_date, email, status, created_at, updated_at`

func (r *operatorRepository) List(ctx context.Context) ([]*models.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operator ORDER BY operator_id`
	return queryList(ctx, r.db.Querier(ctx), "operators", scanOperator, query)
}

func (r *operatorRepository) GetByID(ctx context.Context, id int) (*models.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operator WHERE operator_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "operator", scanOperator, query, id)
}

func (r *operatorRepository) GetByCode(ctx context.Context, code string) (*models.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operator WHERE operator_code = $1`
	return queryOne(ctx, r.db.Querier(ctx), "operator", scanOperator, query, code)
}

func (r *operatorRepository) ListByDepartment(ctx context.Context, department string) ([]*models.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operator WHERE department = $1 ORDER BY operator_id`
	return queryList(ctx, r.db.Querier(ctx), "operators", scanOperator, query, department)
}

func (r *operatorRepository) ListByStatus(ctx context.Context, status string) ([]*models.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operator WHERE status = $1 ORDER BY operator_id`
	return queryList(ctx, r.db.Querier(ctx), "operators", scanOperator, query, status)
}

func (r *operatorRepository) Create(ctx context.Context, o *models.Operator) error {
	query := `
		INSERT INTO operator (
			operator_code, operator_name, employee_number, department,
			hire_date, email, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING operator_id, created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		o.Code,
		o.Name,
		o.EmployeeNumber,
		o.Department,
		o.HireDate,
		o.Email,
		o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return writeError("create operator", err)
	}

	return nil
}

func (r *operatorRepository) Update(ctx context.Context, o *models.Operator) error {
	query := `
		UPDATE operator
		SET operator_code = $2, operator_name = $3, employee_number = $4, department = $5,
		    hire_date = $6, email = $7, status = $8, updated_at = NOW()
		WHERE operator_id = $1
		RETURNING created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		o.ID,
		o.Code,
		o.Name,
		o.EmployeeNumber,
		o.Department,
		o.HireDate,
		o.Email,
		o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return writeError("update operator", err)
	}

	return nil
}

func (r *operatorRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "operator", "operator", "operator_id", id)
}

func scanOperator(row pgx.Row) (*models.Operator, error) {
	var o models.Operator
	err := row.Scan(
		&o.ID,
		&o.Code,
		&o.Name,
		&o.EmployeeNumber,
		&o.Department,
		&o.HireDate,
		&o.Email,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
