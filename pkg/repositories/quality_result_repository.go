package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// QualityResultRepository provides data access for final test results.
type QualityResultRepository interface {
	ListPage(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error)
	ListByClassification(ctx context.Context, classification int, page models.PageRequest) (*models.Page[*models.QualityResult], error)
	GetByID(ctx context.Context, id int) (*models.QualityResult, error)
	GetByLot(ctx context.Context, lotID int) (*models.QualityResult, error)
	// ListHighRisk returns results with predicted_risk >= threshold, riskiest first.
	ListHighRisk(ctx context.Context, threshold float64) ([]*models.QualityResult, error)
	ListByDefectType(ctx context.Context, defectType string) ([]*models.QualityResult, error)
	Create(ctx context.Context, q *models.QualityResult) error
	Update(ctx context.Context, q *models.QualityResult) error
	Delete(ctx context.Context, id int) error
}

type qualityResultRepository struct {
	db *database.DB
}

// NewQualityResultRepository creates a new QualityResultRepository.
func NewQualityResultRepository(db *database.DB) QualityResultRepository {
	return &qualityResultRepository{db: db}
}

var _ QualityResultRepository = (*qualityResultRepository)(nil)

const qualityResultColumns = `result_id, lot_id, classification, test_timestamp_raw, test_datetime,
	predicted_risk, risk_score, risk_factors::text, model_version, quality_score, defect_type,
	defect_code, defect_location, inspector_id, notes, reviewed_by, reviewed_at, disposition,
	created_at, updated_at`

func (r *qualityResultRepository) ListPage(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	pq := pageQuery{
		what:    "quality results",
		columns: qualityResultColumns,
		from:    "quality_result",
		orderBy: "result_id ASC",
	}
	return queryPage(ctx, r.db.Querier(ctx), pq, page, scanQualityResult)
}

func (r *qualityResultRepository) ListByClassification(ctx context.Context, classification int, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	pq := pageQuery{
		what:    "quality results",
		columns: qualityResultColumns,
		from:    "quality_result",
		orderBy: "result_id ASC",
	}
	pq.add("classification = $%d", classification)
	return queryPage(ctx, r.db.Querier(ctx), pq, page, scanQualityResult)
}

func (r *qualityResultRepository) GetByID(ctx context.Context, id int) (*models.QualityResult, error) {
	query := `SELECT ` + qualityResultColumns + ` FROM quality_result WHERE result_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "quality result", scanQualityResult, query, id)
}

func (r *qualityResultRepository) GetByLot(ctx context.Context, lotID int) (*models.QualityResult, error) {
	query := `SELECT ` + qualityResultColumns + ` FROM quality_result WHERE lot_id = $1`
	return queryOne(ctx, r.db.Querier(ctx), "quality result", scanQualityResult, query, lotID)
}

func (r *qualityResultRepository) ListHighRisk(ctx context.Context, threshold float64) ([]*models.QualityResult, error) {
	query := `SELECT ` + qualityResultColumns + ` FROM quality_result
		WHERE predicted_risk >= $1 ORDER BY predicted_risk DESC, result_id`
	return queryList(ctx, r.db.Querier(ctx), "quality results", scanQualityResult, query, threshold)
}

func (r *qualityResultRepository) ListByDefectType(ctx context.Context, defectType string) ([]*models.QualityResult, error) {
	query := `SELECT ` + qualityResultColumns + ` FROM quality_result WHERE defect_type = $1 ORDER BY result_id`
	return queryList(ctx, r.db.Querier(ctx), "quality results", scanQualityResult, query, defectType)
}

func (r *qualityResultRepository) Create(ctx context.Context, q *models.QualityResult) error {
	query := `
		INSERT INTO quality_result (
			lot_id, classification, test_timestamp_raw, test_datetime, predicted_risk,
			risk_score, risk_factors, model_version, quality_score, defect_type,
			defect_code, defect_location, inspector_id, notes, reviewed_by,
			reviewed_at, disposition
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING result_id, created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		q.LotID,
		q.Classification,
		q.TestTimestampRaw,
		q.TestDatetime,
		q.PredictedRisk,
		q.RiskScore,
		q.RiskFactors,
		q.ModelVersion,
		q.QualityScore,
		q.DefectType,
		q.DefectCode,
		q.DefectLocation,
		q.InspectorID,
		q.Notes,
		q.ReviewedBy,
		q.ReviewedAt,
		q.Disposition,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return writeError("create quality result", err)
	}

	return nil
}

func (r *qualityResultRepository) Update(ctx context.Context, q *models.QualityResult) error {
	query := `
		UPDATE quality_result
		SET lot_id = $2, classification = $3, test_timestamp_raw = $4, test_datetime = $5,
		    predicted_risk = $6, risk_score = $7, risk_factors = $8, model_version = $9,
		    quality_score = $10, defect_type = $11, defect_code = $12, defect_location = $13,
		    inspector_id = $14, notes = $15, reviewed_by = $16, reviewed_at = $17,
		    disposition = $18, updated_at = NOW()
		WHERE result_id = $1
		RETURNING created_at, updated_at`

	err := r.db.Querier(ctx).QueryRow(ctx, query,
		q.ID,
		q.LotID,
		q.Classification,
		q.TestTimestampRaw,
		q.TestDatetime,
		q.PredictedRisk,
		q.RiskScore,
		q.RiskFactors,
		q.ModelVersion,
		q.QualityScore,
		q.DefectType,
		q.DefectCode,
		q.DefectLocation,
		q.InspectorID,
		q.Notes,
		q.ReviewedBy,
		q.ReviewedAt,
		q.Disposition,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return writeError("update quality result", err)
	}

	return nil
}

func (r *qualityResultRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db.Querier(ctx), "quality result", "quality_result", "result_id", id)
}

func scanQualityResult(row pgx.Row) (*models.QualityResult, error) {
	var q models.QualityResult
	err := row.Scan(
		&q.ID,
		&q.LotID,
		&q.Classification,
		&q.TestTimestampRaw,
		&q.TestDatetime,
		&q.PredictedRisk,
		&q.RiskScore,
		&q.RiskFactors,
		&q.ModelVersion,
		&q.QualityScore,
		&q.DefectType,
		&q.DefectCode,
		&q.DefectLocation,
		&q.InspectorID,
		&q.Notes,
		&q.ReviewedBy,
		&q.ReviewedAt,
		&q.Disposition,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
