package handlers

import (
	"context"
	"fmt"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

func testPager() *services.Pager {
	return services.NewPager(config.PagingConfig{DefaultPageSize: 20, MaxPageSize: 500, FeaturePageSize: 50, AnomalyPageSize: 50})
}

// Service mocks embed the interface; a method that is not overridden
// panics on the nil embedded value.

type mockLotService struct {
	services.LotService
	lots        map[int]*models.Lot
	lastFilters *models.LotFilters
	lastPage    *models.PageRequest
	created     *models.Lot
	updated     *models.Lot
	err         error
}

func (m *mockLotService) List(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error) {
	m.lastFilters = &filters
	m.lastPage = &page
	if m.err != nil {
		return nil, m.err
	}
	return models.NewPage([]*models.Lot{{ID: 1, LotNumber: "LOT-1"}}, page, 1), nil
}

func (m *mockLotService) Get(ctx context.Context, id int) (*models.Lot, error) {
	if l, ok := m.lots[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockLotService) Create(ctx context.Context, l *models.Lot) error {
	if m.err != nil {
		return m.err
	}
	l.ID = 42
	m.created = l
	return nil
}

func (m *mockLotService) Update(ctx context.Context, l *models.Lot) error {
	m.updated = l
	return m.err
}

func (m *mockLotService) Delete(ctx context.Context, id int) error {
	if _, ok := m.lots[id]; !ok {
		return apperrors.ErrNotFound
	}
	return m.err
}

type mockOperatorService struct {
	services.OperatorService
	calls []string
}

func (m *mockOperatorService) GetByCode(ctx context.Context, code string) (*models.Operator, error) {
	m.calls = append(m.calls, "code:"+code)
	return &models.Operator{ID: 1, Code: code}, nil
}

func (m *mockOperatorService) ListByDepartment(ctx context.Context, department string) ([]*models.Operator, error) {
	m.calls = append(m.calls, "department:"+department)
	return []*models.Operator{}, nil
}

func (m *mockOperatorService) ListByStatus(ctx context.Context, status string) ([]*models.Operator, error) {
	m.calls = append(m.calls, "status:"+status)
	return []*models.Operator{}, nil
}

func (m *mockOperatorService) Lots(ctx context.Context, operatorID int) ([]*models.Lot, error) {
	if operatorID != 7 {
		return nil, apperrors.ErrNotFound
	}
	m.calls = append(m.calls, "lots")
	return []*models.Lot{}, nil
}

type mockFeatureService struct {
	services.FeatureService
	searched []string
}

func (m *mockFeatureService) Search(ctx context.Context, term string) ([]*models.FeatureMeta, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", apperrors.ErrValidation)
	}
	m.searched = append(m.searched, term)
	return []*models.FeatureMeta{}, nil
}

func (m *mockFeatureService) Importance(ctx context.Context, featureID int) ([]*models.FeatureImportance, error) {
	return []*models.FeatureImportance{{FeatureID: featureID, DefectType: "overall", ImportanceScore: 0.5}}, nil
}

type mockMeasurementService struct {
	services.MeasurementService
	batchLen int
}

func (m *mockMeasurementService) CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error) {
	m.batchLen = len(measurements)
	return int64(len(measurements)), nil
}

type mockAnalyticsService struct {
	services.AnalyticsService
	threshold *float64
	limit     *int
	err       error
}

func (m *mockAnalyticsService) HighRiskLots(ctx context.Context, threshold *float64, limit *int) ([]*models.HighRiskLot, error) {
	m.threshold, m.limit = threshold, limit
	if m.err != nil {
		return nil, m.err
	}
	return []*models.HighRiskLot{}, nil
}

func (m *mockAnalyticsService) Summary(ctx context.Context) (*models.ProductionSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProductionSummary{TotalLots: 2}, nil
}
