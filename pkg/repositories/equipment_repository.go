package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// EquipmentRepository provides data access for production equipment.
type EquipmentRepository interface {
	List(ctx context.Context) ([]*models.Equipment, error)
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	GetByCode(ctx context.Context, code string) (*models.Equipment, error)
	ListByType(ctx context.Context, equipmentType string) ([]*models.Equipment, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Equipment, error)
	Create(ctx context.Context, e *models.Equipment) error
	Update(ctx context.Context, e *models.Equipment) error
	Delete(ctx context.Context, id int) error
}

type equipmentRepository struct {
	db *database.DB
}

// NewEquipmentRepository creates a new EquipmentRepository.
func NewEquipmentRepository(db *database.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

var _ EquipmentRepository = (*equipmentRepository)(nil)

const equipmentColumns = `equipment_id, equipment_code, equipment_name, equipment_type,
	location, manufacturer, install_date, status, created_at, updated_at`

func (r *equipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY equipment_id`
	return queryList(ctx, r.db.Querier(ctx), "equipment", scanEquipment, query)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE equipment_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "equipment", scanEquipment, query, id)
}

func (r *equipmentRepository) GetByCode(ctx context.Context, code string) (*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE equipment_code = $1`
	return queryOne(ctx, r.db.Querier(ctx), "equipment", scanEquipment, query, code)
}

func (r *equipmentRepository) ListByType(ctx context.Context, equipmentType string) ([]*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE equipment_type = $1 ORDER BY equipment_id`
	return queryList(ctx, r.db.Querier(ctx), "equipment", scanEquipment, query, equipmentType)
}

func (r *equipmentRepository) ListByStatus(ctx context.Context, status string) ([]*models.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE status = $1 ORDER BY equipment_id`
	return queryList(ctx, r.db.Querier(ctx), "equipment", scanEquipment, query, status)
}

func (r *equipmentRepository) Create(ctx context.Context, e *models.Equipment) error {
	query := `
		INSERT INTO equipment (
			equipment_code, equipment_name, equipment_type, location,
			manufacturer, install_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING equipment_id, created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		e.Code,
		e.Name,
		e.Type,
		e.Location,
		e.Manufacturer,
		e.InstallDate,
		e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return writeError("create equipment", err)
	}

	return nil
}

func (r *equipmentRepository) Update(ctx context.Context, e *models.Equipment) error {
	query := `
		UPDATE equipment
		SET equipment_code = $2, equipment_name = $3, equipment_type = $4, location = $5,
		    manufacturer = $6, install_date = $7, status = $8, updated_at = NOW()
		WHERE equipment_id = $1
		RETURNING created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		e.ID,
		e.Code,
		e.Name,
		e.Type,
		e.Location,
		e.Manufacturer,
		e.InstallDate,
		e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return writeError("update equipment", err)
	}

	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "equipment", "equipment", "equipment_id", id)
}

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.Name,
		&e.Type,
		&e.Location,
		&e.Manufacturer,
		&e.InstallDate,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
