package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// ShiftRepository provides data access for shifts.
type ShiftRepository interface {
	List(ctx context.Context) ([]*models.Shift, error)
	GetByID(ctx context.Context, id int) (*models.Shift, error)
	GetByCode(ctx context.Context, code string) (*models.Shift, error)
	Create(ctx context.Context, s *models.Shift) error
	Update(ctx context.Context, s *models.Shift) error
	Delete(ctx context.Context, id int) error
}

type shiftRepository struct {
	db *database.DB
}

// NewShiftRepository creates a new ShiftRepository.
func NewShiftRepository(db *database.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

var _ ShiftRepository = (*shiftRepository)(nil)

// TIME columns are read as text so they round-trip as "HH:MM:SS".
const shiftColumns = `shift_id, shift_code, shift_name, start_time::text, end_time::text,
	description, created_at`

func (r *shiftRepository) List(ctx context.Context) ([]*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shift ORDER BY shift_id`
	return queryList(ctx, r.db.Querier(ctx), "shifts", scanShift, query)
}

func (r *shiftRepository) GetByID(ctx context.Context, id int) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shift WHERE shift_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "shift", scanShift, query, id)
}

func (r *shiftRepository) GetByCode(ctx context.Context, code string) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shift WHERE shift_code = $1`
	return queryOne(ctx, r.db.Querier(ctx), "shift", scanShift, query, code)
}

func (r *shiftRepository) Create(ctx context.Context, s *models.Shift) error {
	query := `
		INSERT INTO shift (shift_code, shift_name, start_time, end_time, description)
		VALUES ($1, $2, $3::time, $4::time, $5)
		RETURNING shift_id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		s.Code,
		s.Name,
		s.StartTime,
		s.EndTime,
		s.Description,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return writeError("create shift", err)
	}

	return nil
}

func (r *shiftRepository) Update(ctx context.Context, s *models.Shift) error {
	query := `
		UPDATE shift
		SET shift_code = $2, shift_name = $3, start_time = $4::time, end_time = $5::time,
		    description = $6
		WHERE shift_id = $1
		RETURNING created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		s.ID,
		s.Code,
		s.Name,
		s.StartTime,
		s.EndTime,
		s.Description,
	).Scan(&s.CreatedAt)
	if err != nil {
		return writeError("update shift", err)
	}

	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "shift", "shift", "shift_id", id)
}

func scanShift(row pgx.Row) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID,
		&s.Code,
		&s.Name,
		&s.StartTime,
		&s.EndTime,
		&s.Description,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
