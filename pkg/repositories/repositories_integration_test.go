//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/testhelpers"
)

// lotTestContext holds a freshly truncated database with reference data.
type lotTestContext struct {
	t   *testing.T
	tdb *testhelpers.TestDB
	fx  *testhelpers.Fixture
	ctx context.Context
}

func setupRepoTest(t *testing.T, equipmentCount int) *lotTestContext {
	tdb := testhelpers.GetTestDB(t)
	tdb.Truncate(t)
	return &lotTestContext{
		t:   t,
		tdb: tdb,
		fx:  tdb.SeedReference(t, equipmentCount),
		ctx: context.Background(),
	}
}

var sept = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func day(n int) time.Time { return sept.AddDate(0, 0, n-1) }

func TestLotRepository_ListByFilters(t *testing.T) {
	tc := setupRepoTest(t, 2)
	eq1, eq2 := tc.fx.EquipmentIDs[0], tc.fx.EquipmentIDs[1]

	tc.tdb.InsertLot(t, tc.fx, "LOT-A", eq1, models.LotStatusCompleted, day(1))
	tc.tdb.InsertLot(t, tc.fx, "LOT-B", eq1, models.LotStatusInProgress, day(5))
	tc.tdb.InsertLot(t, tc.fx, "LOT-C", eq2, models.LotStatusCompleted, day(10))
	tc.tdb.InsertLot(t, tc.fx, "LOT-D", eq2, models.LotStatusCompleted, day(20))
	op1 := tc.fx.OperatorID
	op2 := tc.tdb.InsertOperator(t, "OP-T2")
	tc.tdb.InsertLotBy(t, tc.fx, "LOT-E", eq2, op2, models.LotStatusCompleted, day(8))

	repo := NewLotRepository(tc.tdb.DB)
	all := models.PageRequest{Page: 0, Size: 100}

	numbers := func(p *models.Page[*models.Lot]) []string {
		out := []string{}
		for _, l := range p.Items {
			out = append(out, l.LotNumber)
		}
		return out
	}

	completed := models.LotStatusCompleted
	start, end := day(5), day(10)

	tests := []struct {
		name    string
		filters models.LotFilters
		want    []string
	}{
		{"no filters", models.LotFilters{}, []string{"LOT-A", "LOT-B", "LOT-C", "LOT-D", "LOT-E"}},
		{"equipment", models.LotFilters{EquipmentID: &eq1}, []string{"LOT-A", "LOT-B"}},
		{"status", models.LotFilters{Status: &completed}, []string{"LOT-A", "LOT-C", "LOT-D", "LOT-E"}},
		{"equipment and status", models.LotFilters{EquipmentID: &eq2, Status: &completed}, []string{"LOT-C", "LOT-D", "LOT-E"}},
		{"inclusive date range", models.LotFilters{StartDate: &start, EndDate: &end}, []string{"LOT-B", "LOT-C", "LOT-E"}},
		{"start only", models.LotFilters{StartDate: &end}, []string{"LOT-C", "LOT-D"}},
		{"end only", models.LotFilters{EndDate: &start}, []string{"LOT-A", "LOT-B"}},
		{"operator", models.LotFilters{OperatorID: &op1}, []string{"LOT-A", "LOT-B", "LOT-C", "LOT-D"}},
		{"second operator", models.LotFilters{OperatorID: &op2}, []string{"LOT-E"}},
		{"all five filters", models.LotFilters{
			EquipmentID: &eq2, OperatorID: &op1, Status: &completed, StartDate: &start, EndDate: &end,
		}, []string{"LOT-C"}},
		{"all five filters without a match", models.LotFilters{
			EquipmentID: &eq1, OperatorID: &op2, Status: &completed, StartDate: &start, EndDate: &end,
		}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.ListByFilters(tc.ctx, tt.filters, all)
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbers(page))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestLotRepository_PagesConcatenateToFullSet(t *testing.T) {
	tc := setupRepoTest(t, 1)
	for i := 1; i <= 7; i++ {
		tc.tdb.InsertLot(t, tc.fx, fmt.Sprintf("LOT-%02d", i), tc.fx.EquipmentIDs[0], models.LotStatusCompleted, day(i))
	}

	repo := NewLotRepository(tc.tdb.DB)

	var ids []int
	for p := 0; p < 3; p++ {
		page, err := repo.ListByFilters(tc.ctx, models.LotFilters{}, models.PageRequest{Page: p, Size: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		for _, l := range page.Items {
			ids = append(ids, l.ID)
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, ids)

	page, err := repo.ListByFilters(tc.ctx, models.LotFilters{}, models.PageRequest{Page: 5, Size: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestLotRepository_CreateAndLookup(t *testing.T) {
	tc := setupRepoTest(t, 1)
	repo := NewLotRepository(tc.tdb.DB)

	lot := &models.Lot{
		LotNumber:       "LOT-202509-0001",
		ProductTypeID:   tc.fx.ProductTypeID,
		EquipmentID:     tc.fx.EquipmentIDs[0],
		OperatorID:      tc.fx.OperatorID,
		ShiftID:         tc.fx.ShiftID,
		ProductionStart: day(1),
		WaferCount:      models.DefaultWaferCount,
		Status:          models.LotStatusInProgress,
	}
	require.NoError(t, repo.Create(tc.ctx, lot))
	assert.NotZero(t, lot.ID)

	got, err := repo.GetByNumber(tc.ctx, "LOT-202509-0001")
	require.NoError(t, err)
	assert.Equal(t, lot.ID, got.ID)
	assert.Nil(t, got.ProductionEnd)

	dup := *lot
	err = repo.Create(tc.ctx, &dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	bad := *lot
	bad.LotNumber = "LOT-BAD"
	bad.EquipmentID = 9999
	err = repo.Create(tc.ctx, &bad)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestRepositories_MissingLookupsAreNotFound(t *testing.T) {
	tc := setupRepoTest(t, 0)
	db := tc.tdb.DB

	_, err := NewEquipmentRepository(db).GetByCode(tc.ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewOperatorRepository(db).GetByCode(tc.ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewShiftRepository(db).GetByCode(tc.ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewProductTypeRepository(db).GetByCode(tc.ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewFeatureMetaRepository(db).GetByCode(tc.ctx, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewLotRepository(db).GetByID(tc.ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = NewQualityResultRepository(db).GetByLot(tc.ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = NewLotRepository(db).Delete(tc.ctx, 12345)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentRepository_DeleteReferencedIsConflict(t *testing.T) {
	tc := setupRepoTest(t, 1)
	tc.tdb.InsertLot(t, tc.fx, "LOT-A", tc.fx.EquipmentIDs[0], models.LotStatusCompleted, day(1))

	err := NewEquipmentRepository(tc.tdb.DB).Delete(tc.ctx, tc.fx.EquipmentIDs[0])
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMeasurementRepository_CreateBatchAndAnomalies(t *testing.T) {
	tc := setupRepoTest(t, 1)
	lotID := tc.tdb.InsertLot(t, tc.fx, "LOT-A", tc.fx.EquipmentIDs[0], models.LotStatusCompleted, day(1))
	f1 := tc.tdb.InsertFeature(t, "F001", "Temperature")
	f2 := tc.tdb.InsertFeature(t, "F002", "Pressure")

	v1, v2 := 12.5, 250.0
	repo := NewMeasurementRepository(tc.tdb.DB)
	n, err := repo.CreateBatch(tc.ctx, []*models.LotMeasurement{
		{LotID: lotID, FeatureID: f1, Value: &v1},
		{LotID: lotID, FeatureID: f2, Value: &v2, IsOutOfSpec: true},
		{LotID: lotID, FeatureID: f2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	byLot, err := repo.ListByLot(tc.ctx, lotID)
	require.NoError(t, err)
	assert.Len(t, byLot, 3)

	anomalies, err := repo.ListAnomaliesByLot(tc.ctx, lotID)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, f2, anomalies[0].FeatureID)

	page, err := repo.ListAnomalies(tc.ctx, models.PageRequest{Page: 0, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestFeatureMetaRepository_Search(t *testing.T) {
	tc := setupRepoTest(t, 0)
	tc.tdb.InsertFeature(t, "F001", "Temperature")
	tc.tdb.InsertFeature(t, "F002", "Pressure")
	tc.tdb.InsertFeature(t, "F003", "Temperature")

	repo := NewFeatureMetaRepository(tc.tdb.DB)

	got, err := repo.Search(tc.ctx, "temper")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.Search(tc.ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalyticsRepository_ProductionSummaryEmpty(t *testing.T) {
	tc := setupRepoTest(t, 2)

	summary, err := NewAnalyticsRepository(tc.tdb.DB).ProductionSummary(tc.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalLots)
	assert.Equal(t, int64(2), summary.ActiveEquipmentCount)
	assert.Equal(t, 0.0, summary.FailRatePct)
	assert.Equal(t, 0.0, summary.AvgQualityScore)
	assert.Nil(t, summary.FirstProductionDate)
	assert.Nil(t, summary.LastProductionDate)
}

func TestAnalyticsRepository_EquipmentHealthIdleEquipmentIsZero(t *testing.T) {
	tc := setupRepoTest(t, 2)
	busy, idle := tc.fx.EquipmentIDs[0], tc.fx.EquipmentIDs[1]

	lotA := tc.tdb.InsertLot(t, tc.fx, "LOT-A", busy, models.LotStatusCompleted, day(1))
	lotB := tc.tdb.InsertLot(t, tc.fx, "LOT-B", busy, models.LotStatusCompleted, day(2))
	tc.tdb.InsertQualityResult(t, lotA, models.ClassificationPass, 0.10, "")
	tc.tdb.InsertQualityResult(t, lotB, models.ClassificationFail, 0.90, "PARTICLE")

	rows, err := NewAnalyticsRepository(tc.tdb.DB).EquipmentHealth(tc.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[int]*models.EquipmentHealth{}
	for _, r := range rows {
		byID[r.EquipmentID] = r
	}

	assert.Equal(t, int64(2), byID[busy].TotalLotsProcessed)
	assert.Equal(t, int64(1), byID[busy].FailedLots)
	assert.Equal(t, 50.0, byID[busy].EquipmentFailRatePct)
	assert.Equal(t, int64(2), byID[busy].DaysOperated)
	assert.Equal(t, 2.0, byID[busy].LotsBetweenFailures)

	zero := byID[idle]
	require.NotNil(t, zero)
	assert.Equal(t, int64(0), zero.TotalLotsProcessed)
	assert.Equal(t, int64(0), zero.FailedLots)
	assert.Equal(t, 0.0, zero.EquipmentFailRatePct)
	assert.Equal(t, 0.0, zero.AvgQualityScore)
	assert.Equal(t, int64(0), zero.DaysOperated)
	assert.Equal(t, 0.0, zero.LotsBetweenFailures)
	assert.Equal(t, 0.0, zero.HealthScore)
}

func TestAnalyticsRepository_FeatureImportanceLimitAndOrder(t *testing.T) {
	tc := setupRepoTest(t, 0)
	for i, score := range []float64{0.20, 0.95, 0.50, 0.75, 0.10} {
		id := tc.tdb.InsertFeature(t, fmt.Sprintf("F%03d", i+1), "Temperature")
		tc.tdb.InsertImportance(t, id, models.DefaultDefectType, score)
	}
	other := tc.tdb.InsertFeature(t, "F900", "Pressure")
	tc.tdb.InsertImportance(t, other, "PARTICLE", 0.99)

	rows, err := NewAnalyticsRepository(tc.tdb.DB).FeatureImportance(tc.ctx,
		models.FeatureImportanceParams{DefectType: models.DefaultDefectType, Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []float64{0.95, 0.75, 0.50},
		[]float64{rows[0].ImportanceScore, rows[1].ImportanceScore, rows[2].ImportanceScore})
	assert.Equal(t, "F002", rows[0].FeatureCode)
	assert.Equal(t, models.DefaultCalculationMethod, rows[0].CalculationMethod)
}

func TestAnalyticsRepository_HighRiskThresholdIsInclusive(t *testing.T) {
	tc := setupRepoTest(t, 1)
	eq := tc.fx.EquipmentIDs[0]

	for i, risk := range []float64{0.69, 0.70, 0.85} {
		lotID := tc.tdb.InsertLot(t, tc.fx, fmt.Sprintf("LOT-%d", i), eq, models.LotStatusCompleted, day(i+1))
		tc.tdb.InsertQualityResult(t, lotID, models.ClassificationFail, risk, "PARTICLE")
	}

	rows, err := NewAnalyticsRepository(tc.tdb.DB).HighRiskLots(tc.ctx,
		models.HighRiskParams{Threshold: 0.70, Limit: 50})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0.85, rows[0].PredictedRisk)
	assert.Equal(t, 0.70, rows[1].PredictedRisk)
	assert.Equal(t, models.ClassificationFail, rows[0].ActualClassification)
	assert.NotNil(t, rows[0].TestDatetime)
	assert.Equal(t, "EQ-TA", rows[0].EquipmentCode)
}

func TestAnalyticsRepository_RiskDistributionBuckets(t *testing.T) {
	tc := setupRepoTest(t, 1)
	eq := tc.fx.EquipmentIDs[0]

	risks := []struct {
		risk           float64
		classification int
	}{
		{0.75, models.ClassificationFail},
		{0.70, models.ClassificationPass},
		{0.05, models.ClassificationPass},
	}
	for i, r := range risks {
		lotID := tc.tdb.InsertLot(t, tc.fx, fmt.Sprintf("LOT-%d", i), eq, models.LotStatusCompleted, day(i+1))
		tc.tdb.InsertQualityResult(t, lotID, r.classification, r.risk, "")
	}

	rows, err := NewAnalyticsRepository(tc.tdb.DB).RiskDistribution(tc.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.RiskBucket{RiskBucket: 0.0, LotCount: 1, ActualFailures: 0}, *rows[0])
	assert.Equal(t, models.RiskBucket{RiskBucket: 0.7, LotCount: 2, ActualFailures: 1}, *rows[1])
}

func TestAnalyticsRepository_DefectDistribution(t *testing.T) {
	tc := setupRepoTest(t, 1)
	eq := tc.fx.EquipmentIDs[0]

	defects := []string{"PARTICLE", "PARTICLE", "PARTICLE", "SCRATCH"}
	for i, d := range defects {
		lotID := tc.tdb.InsertLot(t, tc.fx, fmt.Sprintf("LOT-%d", i), eq, models.LotStatusCompleted, day(i+1))
		tc.tdb.InsertQualityResult(t, lotID, models.ClassificationFail, 0.9, d)
	}

	rows, err := NewAnalyticsRepository(tc.tdb.DB).DefectDistribution(tc.ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PARTICLE", rows[0].DefectType)
	assert.Equal(t, int64(3), rows[0].Count)
	assert.Equal(t, 75.0, rows[0].Percentage)
	assert.Equal(t, 25.0, rows[1].Percentage)

	summary, err := NewAnalyticsRepository(tc.tdb.DB).QualitySummary(tc.ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "LOGIC", summary[0].AffectedProductFamilies)
	assert.Equal(t, "ETCH", summary[0].AffectedEquipmentTypes)
}

func TestFeatureImportanceRepository_Replace(t *testing.T) {
	tc := setupRepoTest(t, 0)
	f1 := tc.tdb.InsertFeature(t, "F001", "Temperature")

	repo := NewFeatureImportanceRepository(tc.tdb.DB)
	corr := -0.42
	records := []*models.FeatureImportance{{
		FeatureID:              f1,
		DefectType:             models.DefaultDefectType,
		ImportanceScore:        0.42,
		CorrelationCoefficient: &corr,
		SampleCount:            1567,
		CalculationMethod:      models.DefaultCalculationMethod,
	}}

	n, err := repo.Replace(tc.ctx, models.DefaultCalculationMethod, records)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Replace(tc.ctx, models.DefaultCalculationMethod, records)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.ListByFeature(tc.ctx, f1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.42, got[0].ImportanceScore)
	require.NotNil(t, got[0].CorrelationCoefficient)
	assert.Equal(t, -0.42, *got[0].CorrelationCoefficient)
}
