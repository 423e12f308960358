package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/models"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestEquipmentService_CreateDefaultsStatus(t *testing.T) {
	repo := &mockEquipmentRepo{}
	svc := NewEquipmentService(repo, zap.NewNop())

	e := &models.Equipment{Code: "EQ-1", Name: "Etcher", Type: "ETCH"}
	require.NoError(t, svc.Create(context.Background(), e))

	assert.Equal(t, 1, e.ID)
	assert.Equal(t, models.EquipmentStatusActive, e.Status)
}

func TestEquipmentService_PassesThroughSentinels(t *testing.T) {
	repo := &mockEquipmentRepo{err: apperrors.ErrConflict}
	svc := NewEquipmentService(repo, zap.NewNop())

	err := svc.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOperatorService_LotsUnknownOperator(t *testing.T) {
	lots := &mockLotRepo{}
	svc := NewOperatorService(&mockOperatorRepo{}, lots, zap.NewNop())

	_, err := svc.Lots(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOperatorService_LotsKnownOperatorWithoutLots(t *testing.T) {
	ops := &mockOperatorRepo{operators: map[int]*models.Operator{7: {ID: 7, Code: "OP-7"}}}
	svc := NewOperatorService(ops, &mockLotRepo{}, zap.NewNop())

	got, err := svc.Lots(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOperatorService_CreateDefaultsStatus(t *testing.T) {
	ops := &mockOperatorRepo{}
	svc := NewOperatorService(ops, &mockLotRepo{}, zap.NewNop())

	o := &models.Operator{Code: "OP-1", Name: "Kim"}
	require.NoError(t, svc.Create(context.Background(), o))
	assert.Equal(t, models.OperatorStatusActive, o.Status)
}

func TestLotService_CreateDefaults(t *testing.T) {
	repo := &mockLotRepo{}
	svc := NewLotService(repo, zap.NewNop())

	l := &models.Lot{LotNumber: "LOT-1", ProductTypeID: 1, EquipmentID: 1, OperatorID: 1, ShiftID: 1, ProductionStart: time.Now()}
	require.NoError(t, svc.Create(context.Background(), l))

	assert.Equal(t, models.DefaultWaferCount, l.WaferCount)
	assert.Equal(t, models.LotStatusInProgress, l.Status)
}

func TestLotService_CreateKeepsExplicitValues(t *testing.T) {
	repo := &mockLotRepo{}
	svc := NewLotService(repo, zap.NewNop())

	l := &models.Lot{LotNumber: "LOT-2", WaferCount: 12, Status: models.LotStatusCompleted}
	require.NoError(t, svc.Create(context.Background(), l))

	assert.Equal(t, 12, l.WaferCount)
	assert.Equal(t, models.LotStatusCompleted, l.Status)
}

func TestLotService_ListForwardsFilters(t *testing.T) {
	repo := &mockLotRepo{}
	svc := NewLotService(repo, zap.NewNop())

	status := models.LotStatusQualityHold
	filters := models.LotFilters{EquipmentID: intPtr(3), Status: &status}
	page := models.PageRequest{Page: 2, Size: 10}

	got, err := svc.List(context.Background(), filters, page)
	require.NoError(t, err)
	assert.Equal(t, filters, repo.lastFilters)
	assert.Equal(t, page, repo.lastPage)
	assert.Equal(t, 2, got.Page)
}

func TestLotService_ListStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewLotService(&mockLotRepo{err: storeErr}, zap.NewNop())

	_, err := svc.List(context.Background(), models.LotFilters{}, models.PageRequest{Size: 20})
	assert.ErrorIs(t, err, storeErr)
}

func TestFeatureService_SearchRequiresTerm(t *testing.T) {
	repo := &mockFeatureRepo{}
	svc := NewFeatureService(repo, &mockImportanceRepo{}, zap.NewNop())

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, repo.searched)

	_, err = svc.Search(context.Background(), " etch ")
	require.NoError(t, err)
	assert.Equal(t, []string{"etch"}, repo.searched)
}

func TestFeatureService_ImportanceChecksFeature(t *testing.T) {
	repo := &mockFeatureRepo{features: map[int]*models.FeatureMeta{1: {ID: 1, Code: "F001"}}}
	importance := &mockImportanceRepo{byFeature: map[int][]*models.FeatureImportance{
		1: {{FeatureID: 1, DefectType: models.DefaultDefectType, ImportanceScore: 0.9}},
	}}
	svc := NewFeatureService(repo, importance, zap.NewNop())

	_, err := svc.Importance(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, importance.calls)

	rows, err := svc.Importance(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.9, rows[0].ImportanceScore)
}

func TestFeatureService_CreateRejectsInvertedRange(t *testing.T) {
	repo := &mockFeatureRepo{}
	svc := NewFeatureService(repo, &mockImportanceRepo{}, zap.NewNop())

	f := &models.FeatureMeta{Code: "F001", Name: "Sensor 1", Category: "etch", NormalRangeMin: floatPtr(5), NormalRangeMax: floatPtr(1)}
	err := svc.Create(context.Background(), f)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 0, repo.createCall)
}

func TestMeasurementService_CreateBatchBounds(t *testing.T) {
	repo := &mockMeasurementRepo{}
	svc := NewMeasurementService(repo, zap.NewNop())

	_, err := svc.CreateBatch(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	tooMany := make([]*models.LotMeasurement, MaxMeasurementBatch+1)
	_, err = svc.CreateBatch(context.Background(), tooMany)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, repo.batches)

	n, err := svc.CreateBatch(context.Background(), []*models.LotMeasurement{
		{LotID: 1, FeatureID: 1, Value: floatPtr(1.5)},
		{LotID: 1, FeatureID: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestQualityService_ClassificationListings(t *testing.T) {
	repo := &mockQualityRepo{}
	svc := NewQualityService(repo, testAnalyticsConfig(), zap.NewNop())
	page := models.PageRequest{Size: 20}

	_, err := svc.ListFailed(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, models.ClassificationFail, *repo.lastClassification)

	_, err = svc.ListPassed(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, models.ClassificationPass, *repo.lastClassification)
}

func TestQualityService_HighRiskThreshold(t *testing.T) {
	repo := &mockQualityRepo{}
	svc := NewQualityService(repo, testAnalyticsConfig(), zap.NewNop())

	_, err := svc.HighRisk(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.70, *repo.lastThreshold)

	_, err = svc.HighRisk(context.Background(), floatPtr(1.0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *repo.lastThreshold)

	_, err = svc.HighRisk(context.Background(), floatPtr(1.01))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQualityService_CreateDefaultsDisposition(t *testing.T) {
	repo := &mockQualityRepo{}
	svc := NewQualityService(repo, testAnalyticsConfig(), zap.NewNop())

	q := &models.QualityResult{LotID: 1, Classification: models.ClassificationPass, TestTimestampRaw: "19/07/2008 11:55:00"}
	require.NoError(t, svc.Create(context.Background(), q))
	assert.Equal(t, models.DispositionPending, q.Disposition)
}

func TestAnalyticsService_HighRiskParams(t *testing.T) {
	tests := []struct {
		name      string
		threshold *float64
		limit     *int
		want      models.HighRiskParams
		wantErr   string
	}{
		{name: "defaults", want: models.HighRiskParams{Threshold: 0.70, Limit: 50}},
		{name: "explicit", threshold: floatPtr(0.9), limit: intPtr(5), want: models.HighRiskParams{Threshold: 0.9, Limit: 5}},
		{name: "zero threshold", threshold: floatPtr(0), want: models.HighRiskParams{Threshold: 0, Limit: 50}},
		{name: "negative threshold", threshold: floatPtr(-0.1), wantErr: "threshold"},
		{name: "zero limit", limit: intPtr(0), wantErr: "limit"},
		{name: "limit above max", limit: intPtr(1001), wantErr: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAnalyticsRepo{}
			svc := NewAnalyticsService(repo, testAnalyticsConfig(), zap.NewNop())

			_, err := svc.HighRiskLots(context.Background(), tt.threshold, tt.limit)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, apperrors.ErrValidation)
				assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
				assert.Nil(t, repo.highRisk)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *repo.highRisk)
		})
	}
}

func TestAnalyticsService_FeatureImportanceParams(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(repo, testAnalyticsConfig(), zap.NewNop())

	_, err := svc.FeatureImportance(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.FeatureImportanceParams{DefectType: "overall", Limit: 10}, *repo.importance)

	_, err = svc.FeatureImportance(context.Background(), strPtr(" "), intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, models.FeatureImportanceParams{DefectType: "overall", Limit: 3}, *repo.importance)

	_, err = svc.FeatureImportance(context.Background(), strPtr("particle"), nil)
	require.NoError(t, err)
	assert.Equal(t, "particle", repo.importance.DefectType)
}

func TestAnalyticsService_SummaryStoreFailure(t *testing.T) {
	storeErr := errors.New("relation does not exist")
	svc := NewAnalyticsService(&mockAnalyticsRepo{err: storeErr}, testAnalyticsConfig(), zap.NewNop())

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, storeErr)

	ok := NewAnalyticsService(&mockAnalyticsRepo{}, testAnalyticsConfig(), zap.NewNop())
	summary, err := ok.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalLots)
}

func TestExpected(t *testing.T) {
	assert.True(t, expected(apperrors.ErrNotFound))
	assert.True(t, expected(validationError("bad %s", "input")))
	assert.False(t, expected(errors.New("boom")))
}
