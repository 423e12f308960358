package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// FeatureImportanceRepository provides data access for feature importance scores.
type FeatureImportanceRepository interface {
	ListByFeature(ctx context.Context, featureID int) ([]*models.FeatureImportance, error)
	// Replace deletes every score with a matching calculation method and
	// loads the given records in their place, atomically.
	Replace(ctx context.Context, method string, records []*models.FeatureImportance) (int64, error)
}

type featureImportanceRepository struct {
	db *database.DB
}

// NewFeatureImportanceRepository creates a new FeatureImportanceRepository.
func NewFeatureImportanceRepository(db *database.DB) FeatureImportanceRepository {
	return &featureImportanceRepository{db: db}
}

var _ FeatureImportanceRepository = (*featureImportanceRepository)(nil)

const featureImportanceColumns = `importance_id, feature_id, defect_type, importance_score,
	correlation_coefficient, sample_count, calculated_at, calculation_method, metadata::text`

var featureImportanceCopyColumns = []string{
	"feature_id", "defect_type", "importance_score", "correlation_coefficient",
	"sample_count", "calculation_method", "metadata",
}

func (r *featureImportanceRepository) ListByFeature(ctx context.Context, featureID int) ([]*models.FeatureImportance, error) {
	query := `SELECT ` + featureImportanceColumns + ` FROM feature_importance
		WHERE feature_id = $1 ORDER BY importance_score DESC, importance_id`
	return queryList(ctx, r.db.Querier(ctx), "feature importance", scanFeatureImportance, query, featureID)
}

func (r *featureImportanceRepository) Replace(ctx context.Context, method string, records []*models.FeatureImportance) (int64, error) {
	var n int64
	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.Querier(ctx)

		if _, err := q.Exec(ctx, `DELETE FROM feature_importance WHERE calculation_method = $1`, method); err != nil {
			return fmt.Errorf("failed to clear feature importance: %w", err)
		}

		copied, err := q.CopyFrom(ctx,
			pgx.Identifier{"feature_importance"},
			featureImportanceCopyColumns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				rec := records[i]
				return []any{
					rec.FeatureID, rec.DefectType, rec.ImportanceScore, rec.CorrelationCoefficient,
					rec.SampleCount, method, rec.Metadata,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy feature importance: %w", database.TranslateError(err))
		}
		n = copied
		return nil
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func scanFeatureImportance(row pgx.Row) (*models.FeatureImportance, error) {
	var fi models.FeatureImportance
	err := row.Scan(
		&fi.ID,
		&fi.FeatureID,
		&fi.DefectType,
		&fi.ImportanceScore,
		&fi.CorrelationCoefficient,
		&fi.SampleCount,
		&fi.CalculatedAt,
		&fi.CalculationMethod,
		&fi.Metadata,
	)
	if err != nil {
		return nil, err
	}
	return &fi, nil
}
