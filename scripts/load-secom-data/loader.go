package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/repositories"
)

// lotsPerCommit bounds how much work one transaction holds.
const lotsPerCommit = 100

// Loader seeds the reference tables and loads SECOM samples through the
// repositories.
type Loader struct {
	db         *database.DB
	catalog    *Catalog
	logger     *zap.Logger
	shifts     repositories.ShiftRepository
	products   repositories.ProductTypeRepository
	equipment  repositories.EquipmentRepository
	operators  repositories.OperatorRepository
	features   repositories.FeatureMetaRepository
	importance repositories.FeatureImportanceRepository
	lots       repositories.LotRepository
	measures   repositories.MeasurementRepository
	quality    repositories.QualityResultRepository
}

func NewLoader(db *database.DB, catalog *Catalog, logger *zap.Logger) *Loader {
	return &Loader{
		db:         db,
		catalog:    catalog,
		logger:     logger.Named("secom-loader"),
		shifts:     repositories.NewShiftRepository(db),
		products:   repositories.NewProductTypeRepository(db),
		equipment:  repositories.NewEquipmentRepository(db),
		operators:  repositories.NewOperatorRepository(db),
		features:   repositories.NewFeatureMetaRepository(db),
		importance: repositories.NewFeatureImportanceRepository(db),
		lots:       repositories.NewLotRepository(db),
		measures:   repositories.NewMeasurementRepository(db),
		quality:    repositories.NewQualityResultRepository(db),
	}
}

// refs maps catalog codes to database ids.
type refs struct {
	shifts     map[string]int
	products   map[string]int
	equipment  map[string]int
	operators  map[string]int
	inspectors []int
	features   []*models.FeatureMeta
}

// LoadStats counts what a load wrote.
type LoadStats struct {
	Lots         int
	Measurements int64
	Failures     int
	Importances  int64
}

// ensure returns the id of the row with code, creating it when absent.
func ensure[T any](ctx context.Context, code string, get func(context.Context, string) (*T, error), create func(context.Context, *T) error, build func() *T, id func(*T) int) (int, error) {
	existing, err := get(ctx, code)
	if err == nil {
		return id(existing), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}
	row := build()
	if err := create(ctx, row); err != nil {
		return 0, fmt.Errorf("failed to seed %s: %w", code, err)
	}
	return id(row), nil
}

// Seed creates any missing catalog rows. Existing rows are left untouched.
func (l *Loader) Seed(ctx context.Context) (*refs, error) {
	r := &refs{
		shifts:    map[string]int{},
		products:  map[string]int{},
		equipment: map[string]int{},
		operators: map[string]int{},
	}

	err := l.db.WithTx(ctx, func(ctx context.Context) error {
		for _, s := range l.catalog.Shifts {
			id, err := ensure(ctx, s.Code, l.shifts.GetByCode, l.shifts.Create,
				func() *models.Shift {
					return &models.Shift{Code: s.Code, Name: s.Name, StartTime: s.Start, EndTime: s.End, Description: ptr(s.Description)}
				},
				func(m *models.Shift) int { return m.ID })
			if err != nil {
				return err
			}
			r.shifts[s.Code] = id
		}

		for _, p := range l.catalog.Products {
			id, err := ensure(ctx, p.Code, l.products.GetByCode, l.products.Create,
				func() *models.ProductType {
					return &models.ProductType{Code: p.Code, Name: p.Name, Family: p.Family, TargetYield: p.TargetYield, SpecificationVersion: ptr(p.Spec)}
				},
				func(m *models.ProductType) int { return m.ID })
			if err != nil {
				return err
			}
			r.products[p.Code] = id
		}

		for _, e := range l.catalog.Equipment {
			installed, err := models.ParseDate(e.InstallDate)
			if err != nil {
				return err
			}
			id, err := ensure(ctx, e.Code, l.equipment.GetByCode, l.equipment.Create,
				func() *models.Equipment {
					return &models.Equipment{
						Code: e.Code, Name: e.Name, Type: e.Type,
						Location: ptr(e.Location), Manufacturer: ptr(e.Manufacturer),
						InstallDate: &installed, Status: models.EquipmentStatusActive,
					}
				},
				func(m *models.Equipment) int { return m.ID })
			if err != nil {
				return err
			}
			r.equipment[e.Code] = id
		}

		for _, o := range l.catalog.Operators {
			var hired *models.Date
			if o.HireDate != "" {
				d, err := models.ParseDate(o.HireDate)
				if err != nil {
					return err
				}
				hired = &d
			}
			id, err := ensure(ctx, o.Code, l.operators.GetByCode, l.operators.Create,
				func() *models.Operator {
					return &models.Operator{
						Code: o.Code, Name: o.Name,
						EmployeeNumber: ptr(o.EmployeeNumber), Department: ptr(o.Department),
						HireDate: hired, Status: models.OperatorStatusActive,
					}
				},
				func(m *models.Operator) int { return m.ID })
			if err != nil {
				return err
			}
			r.operators[o.Code] = id
			if o.Inspector {
				r.inspectors = append(r.inspectors, id)
			}
		}

		for _, f := range l.catalog.features() {
			existing, err := l.features.GetByCode(ctx, f.Code)
			switch {
			case err == nil:
				f = existing
			case errors.Is(err, apperrors.ErrNotFound):
				if err := l.features.Create(ctx, f); err != nil {
					return fmt.Errorf("failed to seed %s: %w", f.Code, err)
				}
			default:
				return err
			}
			r.features = append(r.features, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Reference data ready",
		zap.Int("shifts", len(r.shifts)),
		zap.Int("products", len(r.products)),
		zap.Int("equipment", len(r.equipment)),
		zap.Int("operators", len(r.operators)),
		zap.Int("features", len(r.features)))
	return r, nil
}

// HasLots reports whether any lot is already loaded.
func (l *Loader) HasLots(ctx context.Context) (bool, error) {
	page, err := l.lots.ListByFilters(ctx, models.LotFilters{}, models.PageRequest{Page: 0, Size: 1})
	if err != nil {
		return false, err
	}
	return page.Total > 0, nil
}

// Truncate removes every lot together with its measurements, quality result
// and the computed importances.
func (l *Loader) Truncate(ctx context.Context) error {
	_, err := l.db.Exec(ctx, `TRUNCATE lot_measurement, quality_result, lot, feature_importance RESTART IDENTITY`)
	if err != nil {
		return fmt.Errorf("failed to truncate production data: %w", database.TranslateError(err))
	}
	l.logger.Info("Production data truncated")
	return nil
}

// Load writes one lot, its measurements and its quality result per sample,
// committing every lotsPerCommit lots, then recomputes feature importance.
func (l *Loader) Load(ctx context.Context, r *refs, samples []*Sample, gen *Generator) (*LoadStats, error) {
	stats := &LoadStats{}
	outcomes := make([]outcome, 0, len(samples))

	for start := 0; start < len(samples); start += lotsPerCommit {
		chunk := samples[start:min(start+lotsPerCommit, len(samples))]
		var chunkOutcomes []outcome
		var chunkMeasurements int64
		failures := 0

		err := l.db.WithTx(ctx, func(ctx context.Context) error {
			for _, s := range chunk {
				o, n, err := l.loadSample(ctx, r, s, gen)
				if err != nil {
					return fmt.Errorf("sample %d: %w", s.Index+1, err)
				}
				chunkOutcomes = append(chunkOutcomes, o)
				chunkMeasurements += n
				if o.failed {
					failures++
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		outcomes = append(outcomes, chunkOutcomes...)
		stats.Lots += len(chunk)
		stats.Measurements += chunkMeasurements
		stats.Failures += failures
		l.logger.Info("Lots committed",
			zap.Int("loaded", stats.Lots),
			zap.Int("total", len(samples)),
			zap.Int64("measurements", stats.Measurements))
	}

	defectTypes := make([]string, 0, len(l.catalog.DefectTypes))
	for _, d := range l.catalog.DefectTypes {
		defectTypes = append(defectTypes, d.Name)
	}
	records, err := computeImportance(samples, outcomes, r.features, defectTypes)
	if err != nil {
		return nil, err
	}
	stats.Importances, err = l.importance.Replace(ctx, importanceMethod, records)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Feature importance recomputed", zap.Int64("scores", stats.Importances))

	return stats, nil
}

func (l *Loader) loadSample(ctx context.Context, r *refs, s *Sample, gen *Generator) (outcome, int64, error) {
	assignment, err := gen.Assign(s)
	if err != nil {
		return outcome{}, 0, err
	}

	lot := gen.Lot(s)
	lot.ShiftID = r.shifts[assignment.Shift]
	lot.OperatorID = r.operators[assignment.Operator]
	lot.EquipmentID = r.equipment[assignment.Equipment]
	lot.ProductTypeID = r.products[assignment.Product]
	if err := l.lots.Create(ctx, lot); err != nil {
		return outcome{}, 0, err
	}

	rows, anomalies := gen.Measurements(s, lot.ID, r.features)
	var inserted int64
	if len(rows) > 0 {
		inserted, err = l.measures.CreateBatch(ctx, rows)
		if err != nil {
			return outcome{}, 0, err
		}
	}

	result, err := gen.QualityResult(s, lot.ID, anomalies, r.inspectors)
	if err != nil {
		return outcome{}, 0, err
	}
	if err := l.quality.Create(ctx, result); err != nil {
		return outcome{}, 0, err
	}

	o := outcome{failed: result.Failed()}
	if result.DefectType != nil {
		o.defectType = *result.DefectType
	}
	return o, inserted, nil
}
