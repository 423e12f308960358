package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// MeasurementRepository provides data access for lot measurements.
type MeasurementRepository interface {
	GetByID(ctx context.Context, id int64) (*models.LotMeasurement, error)
	ListByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error)
	ListAnomaliesByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error)
	ListByFeature(ctx context.Context, featureID int) ([]*models.LotMeasurement, error)
	ListAnomalies(ctx context.Context, page models.PageRequest) (*models.Page[*models.LotMeasurement], error)
	Create(ctx context.Context, m *models.LotMeasurement) error
	// CreateBatch bulk-loads measurements with COPY and returns the row count.
	// IDs and created_at are not populated on the inputs.
	CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type measurementRepository struct {
	db *database.DB
}

// NewMeasurementRepository creates a new MeasurementRepository.
func NewMeasurementRepository(db *database.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

var _ MeasurementRepository = (*measurementRepository)(nil)

const measurementColumns = `measurement_id, lot_id, feature_id, measurement_value, is_out_of_spec,
	measured_at, created_at`

var measurementCopyColumns = []string{"lot_id", "feature_id", "measurement_value", "is_out_of_spec", "measured_at"}

func (r *measurementRepository) GetByID(ctx context.Context, id int64) (*models.LotMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM lot_measurement WHERE measurement_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "measurement", scanMeasurement, query, id)
}

func (r *measurementRepository) ListByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM lot_measurement WHERE lot_id = $1 ORDER BY measurement_id`
	return queryList(ctx, r.db.Querier(ctx), "measurements", scanMeasurement, query, lotID)
}

func (r *measurementRepository) ListAnomaliesByLot(ctx context.Context, lotID int) ([]*models.LotMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM lot_measurement
		WHERE lot_id = $1 AND is_out_of_spec ORDER BY measurement_id`
	return queryList(ctx, r.db.Querier(ctx), "measurements", scanMeasurement, query, lotID)
}

func (r *measurementRepository) ListByFeature(ctx context.Context, featureID int) ([]*models.LotMeasurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM lot_measurement WHERE feature_id = $1 ORDER BY measurement_id`
	return queryList(ctx, r.db.Querier(ctx), "measurements", scanMeasurement, query, featureID)
}

func (r *measurementRepository) ListAnomalies(ctx context.Context, page models.PageRequest) (*models.Page[*models.LotMeasurement], error) {
	pq := pageQuery{
		what:       "anomalies",
		columns:    measurementColumns,
		from:       "lot_measurement",
		conditions: []string{"is_out_of_spec"},
		orderBy:    "measurement_id ASC",
	}
	return queryPage(ctx, r.db.Querier(ctx), pq, page, scanMeasurement)
}

func (r *measurementRepository) Create(ctx context.Context, m *models.LotMeasurement) error {
	query := `
		INSERT INTO lot_measurement (lot_id, feature_id, measurement_value, is_out_of_spec, measured_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING measurement_id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		m.LotID,
		m.FeatureID,
		m.Value,
		m.IsOutOfSpec,
		m.MeasuredAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return writeError("create measurement", err)
	}

	return nil
}

func (r *measurementRepository) CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error) {
	if len(measurements) == 0 {
		return 0, nil
	}

	n, err := r.db.Querier(ctx).CopyFrom(ctx,
		pgx.Identifier{"lot_measurement"},
		measurementCopyColumns,
		pgx.CopyFromSlice(len(measurements), func(i int) ([]any, error) {
			m := measurements[i]
			return []any{m.LotID, m.FeatureID, m.Value, m.IsOutOfSpec, m.MeasuredAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d measurements: %w", len(measurements), database.TranslateError(err))
	}

	return n, nil
}

func (r *measurementRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db.Querier(ctx), "measurement", "lot_measurement", "measurement_id", id)
}

func scanMeasurement(row pgx.Row) (*models.LotMeasurement, error) {
	var m models.LotMeasurement
	err := row.Scan(
		&m.ID,
		&m.LotID,
		&m.FeatureID,
		&m.Value,
		&m.IsOutOfSpec,
		&m.MeasuredAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
