package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// LotRepository provides data access for production lots.
type LotRepository interface {
	// ListByFilters returns one page of the lots matching every non-nil filter,
	// ordered by lot_id, together with the total number of matching lots.
	ListByFilters(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error)
	GetByID(ctx context.Context, id int) (*models.Lot, error)
	GetByNumber(ctx context.Context, lotNumber string) (*models.Lot, error)
	ListByOperator(ctx context.Context, operatorID int) ([]*models.Lot, error)
	Create(ctx context.Context, l *models.Lot) error
	Update(ctx context.Context, l *models.Lot) error
	Delete(ctx context.Context, id int) error
}

type lotRepository struct {
	db *database.DB
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(db *database.DB) LotRepository {
	return &lotRepository{db: db}
}

var _ LotRepository = (*lotRepository)(nil)

const lotColumns = `lot_id, lot_number, product_type_id, equipment_id, operator_id, shift_id,
	production_start, production_end, wafer_count, status, created_at, updated_at`

// lotPageQuery translates filters into WHERE conditions. Absent filters add nothing.
func lotPageQuery(filters models.LotFilters) pageQuery {
	pq := pageQuery{
		what:    "lots",
		columns: lotColumns,
		from:    "lot",
		orderBy: "lot_id ASC",
	}

	if filters.EquipmentID != nil {
		pq.add("equipment_id = $%d", *filters.EquipmentID)
	}
	if filters.OperatorID != nil {
		pq.add("operator_id = $%d", *filters.OperatorID)
	}
	if filters.Status != nil {
		pq.add("status = $%d", *filters.Status)
	}
	if filters.StartDate != nil {
		pq.add("production_start >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		pq.add("production_start <= $%d", *filters.EndDate)
	}

	return pq
}

func (r *lotRepository) ListByFilters(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error) {
	return queryPage(ctx, r.db.Querier(ctx), lotPageQuery(filters), page, scanLot)
}

func (r *lotRepository) GetByID(ctx context.Context, id int) (*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lot WHERE lot_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "lot", scanLot, query, id)
}

func (r *lotRepository) GetByNumber(ctx context.Context, lotNumber string) (*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lot WHERE lot_number = $1`
	return queryOne(ctx, r.db.Querier(ctx), "lot", scanLot, query, lotNumber)
}

func (r *lotRepository) ListByOperator(ctx context.Context, operatorID int) ([]*models.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lot WHERE operator_id = $1 ORDER BY lot_id`
	return queryList(ctx, r.db.Querier(ctx), "lots", scanLot, query, operatorID)
}

func (r *lotRepository) Create(ctx context.Context, l *models.Lot) error {
	query := `
		INSERT INTO lot (
			lot_number, product_type_id, equipment_id, operator_id, shift_id,
			production_start, production_end, wafer_count, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING lot_id, created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		l.LotNumber,
		l.ProductTypeID,
		l.EquipmentID,
		l.OperatorID,
		l.ShiftID,
		l.ProductionStart,
		l.ProductionEnd,
		l.WaferCount,
		l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return writeError("create lot", err)
	}

	return nil
}

func (r *lotRepository) Update(ctx context.Context, l *models.Lot) error {
	query := `
		UPDATE lot
		SET lot_number = $2, product_type_id = $3, equipment_id = $4, operator_id = $5,
		    shift_id = $6, production_start = $7, production_end = $8, wafer_count = $9,
		    status = $10, updated_at = NOW()
		WHERE lot_id = $1
		RETURNING created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		l.ID,
		l.LotNumber,
		l.ProductTypeID,
		l.EquipmentID,
		l.OperatorID,
		l.ShiftID,
		l.ProductionStart,
		l.ProductionEnd,
		l.WaferCount,
		l.Status,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return writeError("update lot", err)
	}

	return nil
}

func (r *lotRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "lot", "lot", "lot_id", id)
}

func scanLot(row pgx.Row) (*models.Lot, error) {
	var l models.Lot
	err := row.Scan(
		&l.ID,
		&l.LotNumber,
		&l.ProductTypeID,
		&l.EquipmentID,
		&l.OperatorID,
		&l.ShiftID,
		&l.ProductionStart,
		&l.ProductionEnd,
		&l.WaferCount,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
