package services

import (
	"context"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

func testPagingConfig() config.PagingConfig {
	return config.PagingConfig{DefaultPageSize: 20, MaxPageSize: 500, FeaturePageSize: 50, AnomalyPageSize: 40}
}

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		DefaultRiskThreshold:   0.70,
		HighRiskLimit:          50,
		FeatureImportanceLimit: 10,
		DefaultDefectType:      models.DefaultDefectType,
		MaxLimit:               1000,
	}
}

// mockEquipmentRepo is an in-memory EquipmentRepository. Methods not
// overridden panic through the nil embedded interface.
type mockEquipmentRepo struct {
	repositories.EquipmentRepository
	created []*models.Equipment
	err     error
}

func (m *mockEquipmentRepo) Create(ctx context.Context, e *models.Equipment) error {
	if m.err != nil {
		return m.err
	}
	e.ID = len(m.created) + 1
	m.created = append(m.created, e)
	return nil
}

func (m *mockEquipmentRepo) Update(ctx context.Context, e *models.Equipment) error {
	return m.err
}

func (m *mockEquipmentRepo) Delete(ctx context.Context, id int) error {
	return m.err
}

type mockOperatorRepo struct {
	repositories.OperatorRepository
	operators map[int]*models.Operator
}

func (m *mockOperatorRepo) GetByID(ctx context.Context, id int) (*models.Operator, error) {
	if o, ok := m.operators[id]; ok {
		return o, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockOperatorRepo) Create(ctx context.Context, o *models.Operator) error {
	o.ID = len(m.operators) + 1
	if m.operators == nil {
		m.operators = map[int]*models.Operator{}
	}
	m.operators[o.ID] = o
	return nil
}

type mockLotRepo struct {
	repositories.LotRepository
	byOperator  map[int][]*models.Lot
	created     []*models.Lot
	lastFilters models.LotFilters
	lastPage    models.PageRequest
	err         error
}

func (m *mockLotRepo) ListByFilters(ctx context.Context, filters models.LotFilters, page models.PageRequest) (*models.Page[*models.Lot], error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastFilters = filters
	m.lastPage = page
	return models.NewPage[*models.Lot](nil, page, 0), nil
}

func (m *mockLotRepo) ListByOperator(ctx context.Context, operatorID int) ([]*models.Lot, error) {
	lots := m.byOperator[operatorID]
	if lots == nil {
		lots = []*models.Lot{}
	}
	return lots, nil
}

func (m *mockLotRepo) Create(ctx context.Context, l *models.Lot) error {
	if m.err != nil {
		return m.err
	}
	l.ID = len(m.created) + 1
	m.created = append(m.created, l)
	return nil
}

func (m *mockLotRepo) Update(ctx context.Context, l *models.Lot) error {
	return m.err
}

type mockFeatureRepo struct {
	repositories.FeatureMetaRepository
	features   map[int]*models.FeatureMeta
	searched   []string
	createCall int
}

func (m *mockFeatureRepo) GetByID(ctx context.Context, id int) (*models.FeatureMeta, error) {
	if f, ok := m.features[id]; ok {
		return f, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockFeatureRepo) Search(ctx context.Context, term string) ([]*models.FeatureMeta, error) {
	m.searched = append(m.searched, term)
	return []*models.FeatureMeta{}, nil
}

func (m *mockFeatureRepo) Create(ctx context.Context, f *models.FeatureMeta) error {
	m.createCall++
	return nil
}

type mockImportanceRepo struct {
	repositories.FeatureImportanceRepository
	byFeature map[int][]*models.FeatureImportance
	calls     int
}

func (m *mockImportanceRepo) ListByFeature(ctx context.Context, featureID int) ([]*models.FeatureImportance, error) {
	m.calls++
	rows := m.byFeature[featureID]
	if rows == nil {
		rows = []*models.FeatureImportance{}
	}
	return rows, nil
}

type mockMeasurementRepo struct {
	repositories.MeasurementRepository
	batches  [][]*models.LotMeasurement
	lastPage models.PageRequest
}

func (m *mockMeasurementRepo) CreateBatch(ctx context.Context, measurements []*models.LotMeasurement) (int64, error) {
	m.batches = append(m.batches, measurements)
	return int64(len(measurements)), nil
}

func (m *mockMeasurementRepo) ListAnomalies(ctx context.Context, page models.PageRequest) (*models.Page[*models.LotMeasurement], error) {
	m.lastPage = page
	return models.NewPage[*models.LotMeasurement](nil, page, 0), nil
}

type mockQualityRepo struct {
	repositories.QualityResultRepository
	lastClassification *int
	lastThreshold      *float64
	created            []*models.QualityResult
}

func (m *mockQualityRepo) ListByClassification(ctx context.Context, classification int, page models.PageRequest) (*models.Page[*models.QualityResult], error) {
	m.lastClassification = &classification
	return models.NewPage[*models.QualityResult](nil, page, 0), nil
}

func (m *mockQualityRepo) ListHighRisk(ctx context.Context, threshold float64) ([]*models.QualityResult, error) {
	m.lastThreshold = &threshold
	return []*models.QualityResult{}, nil
}

func (m *mockQualityRepo) Create(ctx context.Context, q *models.QualityResult) error {
	q.ID = len(m.created) + 1
	m.created = append(m.created, q)
	return nil
}

type mockAnalyticsRepo struct {
	repositories.AnalyticsRepository
	highRisk   *models.HighRiskParams
	importance *models.FeatureImportanceParams
	err        error
}

func (m *mockAnalyticsRepo) HighRiskLots(ctx context.Context, params models.HighRiskParams) ([]*models.HighRiskLot, error) {
	m.highRisk = &params
	return []*models.HighRiskLot{}, m.err
}

func (m *mockAnalyticsRepo) FeatureImportance(ctx context.Context, params models.FeatureImportanceParams) ([]*models.FeatureImportanceRank, error) {
	m.importance = &params
	return []*models.FeatureImportanceRank{}, m.err
}

func (m *mockAnalyticsRepo) ProductionSummary(ctx context.Context) (*models.ProductionSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProductionSummary{TotalLots: 3}, nil
}
