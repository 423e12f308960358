package repositories

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secom-mes/mes-engine/pkg/models"
)

var allProjections = []projectionShape{
	productionSummaryProjection,
	equipmentHealthProjection,
	shiftPerformanceProjection,
	qualitySummaryProjection,
	featureImportanceProjection,
	highRiskLotsProjection,
	defectDistributionProjection,
	riskDistributionProjection,
}

func TestProjections_ColumnsMatchDestinations(t *testing.T) {
	require.Len(t, allProjections, 8)

	for _, p := range allProjections {
		t.Run(p.queryName(), func(t *testing.T) {
			assert.Positive(t, p.columnCount())
			assert.Equal(t, p.columnCount(), p.destCount())
		})
	}
}

func TestNewProjection_PanicsOnMismatch(t *testing.T) {
	assert.Panics(t, func() {
		newProjection("broken", []string{"a", "b"}, "t", func(r *models.DefectDistribution) []any {
			return []any{&r.DefectType}
		})
	})
}

func TestProjection_SQL(t *testing.T) {
	sql := riskDistributionProjection.sql()

	assert.True(t, strings.HasPrefix(sql, "SELECT FLOOR(predicted_risk * 10) / 10 AS risk_bucket, COUNT(*) AS lot_count"))
	assert.Contains(t, sql, "FROM quality_result")
	assert.Contains(t, sql, "ORDER BY risk_bucket")

	assert.Equal(t,
		"SELECT total_lots, active_equipment_count, active_operator_count, pass_count, fail_count, "+
			"fail_rate_pct, avg_quality_score, first_production_date, last_production_date FROM production_summary",
		productionSummaryProjection.sql())
}

func TestProjection_ParameterizedQueries(t *testing.T) {
	assert.Contains(t, featureImportanceProjection.sql(), "WHERE fi.defect_type = $1")
	assert.Contains(t, featureImportanceProjection.sql(), "LIMIT $2")
	assert.Contains(t, highRiskLotsProjection.sql(), "qr.predicted_risk >= $1")
	assert.Contains(t, highRiskLotsProjection.sql(), "ORDER BY qr.predicted_risk DESC")
}

func TestZeroScanners_NullBecomesZero(t *testing.T) {
	f := 12.5
	require.NoError(t, (*zeroFloat)(&f).ScanFloat64(pgtype.Float8{}))
	assert.Equal(t, 0.0, f)
	require.NoError(t, (*zeroFloat)(&f).ScanFloat64(pgtype.Float8{Float64: 0.75, Valid: true}))
	assert.Equal(t, 0.75, f)

	var n int64 = 7
	require.NoError(t, (*zeroInt)(&n).ScanInt64(pgtype.Int8{}))
	assert.Equal(t, int64(0), n)
	require.NoError(t, (*zeroInt)(&n).ScanInt64(pgtype.Int8{Int64: 42, Valid: true}))
	assert.Equal(t, int64(42), n)

	s := "stale"
	require.NoError(t, (*emptyText)(&s).ScanText(pgtype.Text{}))
	assert.Equal(t, "", s)
	require.NoError(t, (*emptyText)(&s).ScanText(pgtype.Text{String: "particle", Valid: true}))
	assert.Equal(t, "particle", s)
}

func TestProjectionDest_PointsIntoRecord(t *testing.T) {
	var rec models.RiskBucket
	dests := riskDistributionProjection.dest(&rec)
	require.Len(t, dests, 3)

	require.NoError(t, dests[0].(pgtype.Float64Scanner).ScanFloat64(pgtype.Float8{Float64: 0.7, Valid: true}))
	require.NoError(t, dests[1].(pgtype.Int64Scanner).ScanInt64(pgtype.Int8{Int64: 3, Valid: true}))
	require.NoError(t, dests[2].(pgtype.Int64Scanner).ScanInt64(pgtype.Int8{}))

	assert.Equal(t, models.RiskBucket{RiskBucket: 0.7, LotCount: 3, ActualFailures: 0}, rec)
}
