package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// FeatureMetaRepository provides data access for the sensor feature catalog.
type FeatureMetaRepository interface {
	ListPage(ctx context.Context, page models.PageRequest) (*models.Page[*models.FeatureMeta], error)
	ListAll(ctx context.Context) ([]*models.FeatureMeta, error)
	GetByID(ctx context.Context, id int) (*models.FeatureMeta, error)
	GetByCode(ctx context.Context, code string) (*models.FeatureMeta, error)
	ListByCategory(ctx context.Context, category string) ([]*models.FeatureMeta, error)
	ListCritical(ctx context.Context) ([]*models.FeatureMeta, error)
	// Search matches term case-insensitively as a substring of the feature
	// name or category.
	Search(ctx context.Context, term string) ([]*models.FeatureMeta, error)
	Create(ctx context.Context, f *models.FeatureMeta) error
	Update(ctx context.Context, f *models.FeatureMeta) error
	Delete(ctx context.Context, id int) error
}

type featureMetaRepository struct {
	db *database.DB
}

// NewFeatureMetaRepository creates a new FeatureMetaRepository.
func NewFeatureMetaRepository(db *database.DB) FeatureMetaRepository {
	return &featureMetaRepository{db: db}
}

var _ FeatureMetaRepository = (*featureMetaRepository)(nil)

const featureMetaColumns = `feature_id, feature_code, feature_name, feature_category, process_stage,
	measurement_type, unit, normal_range_min, normal_range_max, description, is_critical, created_at`

func (r *featureMetaRepository) ListPage(ctx context.Context, page models.PageRequest) (*models.Page[*models.FeatureMeta], error) {
	pq := pageQuery{
		what:    "features",
		columns: featureMetaColumns,
		from:    "feature_meta",
		orderBy: "feature_id ASC",
	}
	return queryPage(ctx, r.db.Querier(ctx), pq, page, scanFeatureMeta)
}

func (r *featureMetaRepository) ListAll(ctx context.Context) ([]*models.FeatureMeta, error) {
	query := `SELECT ` + featureMetaColumns + ` FROM feature_meta ORDER BY feature_id`
	return queryList(ctx, r.db.Querier(ctx), "features", scanFeatureMeta, query)
}

func (r *featureMetaRepository) GetByID(ctx context.Context, id int) (*models.FeatureMeta, error) {
	query := `SELECT ` + featureMetaColumns + ` FROM feature_meta WHERE feature_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "feature", scanFeatureMeta, query, id)
}

func (r *featureMetaRepository) GetByCode(ctx context.Context, code string) (*models.FeatureMeta, error) {
	query := `SELECT ` + featureMetaColumns + ` FROM feature_meta WHERE feature_code = $1`
	return queryOne(ctx, r.db.Querier(ctx), "feature", scanFeatureMeta, query, code)
}

func (r *featureMetaRepository) ListByCategory(ctx context.Context, category string) ([]*models.FeatureMeta, error) {
	query := `SELECT ` + featureMetaColumns + ` FROM feature_meta WHERE feature_category = $1 ORDER BY feature_id`
	return queryList(ctx, r.db.Querier(ctx), "features", scanFeatureMeta, query, category)
}

func (r *featureMetaRepository) ListCritical(ctx context.Context) ([]*models.FeatureMeta, error) {
	query := `SELECT ` + featureMetaColumns + ` FROM feature_meta WHERE is_critical ORDER BY feature_id`
	return queryList(ctx, r.db.Querier(ctx), "features", scanFeatureMeta, query)
}

func (r *featureMetaRepository) Search(ctx context.Context, term string) ([]*models.FeatureMeta, error) {
	query := `
		SELECT ` + featureMetaColumns + `
		FROM feature_meta
		WHERE feature_name ILIKE $1 ESCAPE '\' OR feature_category ILIKE $1 ESCAPE '\'
		ORDER BY feature_id`
	return queryList(ctx, r.db.Querier(ctx), "features", scanFeatureMeta, query, containsPattern(term))
}

func (r *featureMetaRepository) Create(ctx context.Context, f *models.FeatureMeta) error {
	query := `
		INSERT INTO feature_meta (
			feature_code, feature_name, feature_category, process_stage, measurement_type,
			unit, normal_range_min, normal_range_max, description, is_critical
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING feature_id, created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		f.Code,
		f.Name,
		f.Category,
		f.ProcessStage,
		f.MeasurementType,
		f.Unit,
		f.NormalRangeMin,
		f.NormalRangeMax,
		f.Description,
		f.IsCritical,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return writeError("create feature", err)
	}

	return nil
}

func (r *featureMetaRepository) Update(ctx context.Context, f *models.FeatureMeta) error {
	query := `
		UPDATE feature_meta
		SET feature_code = $2, feature_name = $3, feature_category = $4, process_stage = $5,
		    measurement_type = $6, unit = $7, normal_range_min = $8, normal_range_max = $9,
		    description = $10, is_critical = $11
		WHERE feature_id = $1
		RETURNING created_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		f.ID,
		f.Code,
		f.Name,
		f.Category,
		f.ProcessStage,
		f.MeasurementType,
		f.Unit,
		f.NormalRangeMin,
		f.NormalRangeMax,
		f.Description,
		f.IsCritical,
	).Scan(&f.CreatedAt)
	if err != nil {
		return writeError("update feature", err)
	}

	return nil
}

func (r *featureMetaRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "feature", "feature_meta", "feature_id", id)
}

// containsPattern builds an ILIKE pattern matching term literally anywhere.
func containsPattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func scanFeatureMeta(row pgx.Row) (*models.FeatureMeta, error) {
	var f models.FeatureMeta
	err := row.Scan(
		&f.ID,
		&f.Code,
		&f.Name,
		&f.Category,
		&f.ProcessStage,
		&f.MeasurementType,
		&f.Unit,
		&f.NormalRangeMin,
		&f.NormalRangeMax,
		&f.Description,
		&f.IsCritical,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
