package main

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/secom-mes/mes-engine/pkg/models"
)

// anomaly is an out-of-spec reading and its signed distance from the middle
// of the feature's normal range.
type anomaly struct {
	column    int
	deviation float64
}

// Assignment names the reference rows a lot is attributed to, by code.
type Assignment struct {
	Shift     string
	Operator  string
	Equipment string
	Product   string
}

// Generator derives the synthetic MES attributes of each SECOM sample. It is
// deterministic for a given seed.
type Generator struct {
	catalog   *Catalog
	rng       *rand.Rand
	operators map[string][]string
	failures  int
}

func NewGenerator(catalog *Catalog, seed uint64) *Generator {
	return &Generator{
		catalog:   catalog,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		operators: catalog.operatorsByShift(),
	}
}

// Assign picks the shift from the test hour, rotates operators within that
// shift, and spreads equipment and products by catalog weight.
func (g *Generator) Assign(s *Sample) (Assignment, error) {
	shift, err := g.catalog.shiftForHour(s.TestTime.Hour())
	if err != nil {
		return Assignment{}, err
	}
	ops := g.operators[shift]

	equipment := weightedSlot(g.catalog.Equipment, s.Index, func(e EquipmentSpec) int { return e.Weight })
	product := weightedSlot(g.catalog.Products, s.Index, func(p ProductSpec) int { return p.Weight })

	return Assignment{
		Shift:     shift,
		Operator:  ops[s.Index%len(ops)],
		Equipment: equipment.Code,
		Product:   product.Code,
	}, nil
}

// weightedSlot lays the items out in blocks sized by weight and returns the
// one covering idx modulo the total weight.
func weightedSlot[T any](items []T, idx int, weight func(T) int) T {
	total := 0
	for _, it := range items {
		total += weight(it)
	}
	slot := idx % total
	for _, it := range items {
		slot -= weight(it)
		if slot < 0 {
			return it
		}
	}
	return items[len(items)-1]
}

// Lot builds the lot row for a sample. Production ends at test time and
// starts four to twelve hours earlier.
func (g *Generator) Lot(s *Sample) *models.Lot {
	end := s.TestTime
	return &models.Lot{
		LotNumber:       fmt.Sprintf("LOT-%s-%04d", s.TestTime.Format("200601"), s.Index+1),
		ProductionStart: end.Add(-time.Duration(4+g.rng.IntN(9)) * time.Hour),
		ProductionEnd:   &end,
		WaferCount:      23 + g.rng.IntN(3),
		Status:          models.LotStatusCompleted,
	}
}

// Measurements turns the sample's readings into rows for lotID and collects
// the out-of-spec ones. features is indexed by column.
func (g *Generator) Measurements(s *Sample, lotID int, features []*models.FeatureMeta) ([]*models.LotMeasurement, []anomaly) {
	var (
		rows      []*models.LotMeasurement
		anomalies []anomaly
	)
	measuredAt := s.TestTime
	for col, v := range s.Values {
		if v == nil || col >= len(features) {
			continue
		}
		f := features[col]
		outOfSpec := !f.InRange(*v)
		if outOfSpec {
			mid := (*f.NormalRangeMin + *f.NormalRangeMax) / 2
			anomalies = append(anomalies, anomaly{column: col, deviation: *v - mid})
		}
		rows = append(rows, &models.LotMeasurement{
			LotID:       lotID,
			FeatureID:   f.ID,
			Value:       v,
			IsOutOfSpec: outOfSpec,
			MeasuredAt:  &measuredAt,
		})
	}
	return rows, anomalies
}

// QualityResult derives the predicted risk, score and defect details of a
// sample. The inspector is drawn from inspectors, a list of operator ids.
func (g *Generator) QualityResult(s *Sample, lotID int, anomalies []anomaly, inspectors []int) (*models.QualityResult, error) {
	failed := s.Classification == models.ClassificationFail

	quality := round(g.uniform(85, 100), 2)
	if failed {
		quality = round(g.uniform(40, 75), 2)
	}
	risk := g.predictedRisk(failed, len(anomalies))
	riskScore := round(risk*100, 2)
	testTime := s.TestTime

	result := &models.QualityResult{
		LotID:            lotID,
		Classification:   s.Classification,
		TestTimestampRaw: s.RawTimestamp,
		TestDatetime:     &testTime,
		PredictedRisk:    &risk,
		RiskScore:        &riskScore,
		ModelVersion:     ptr(g.catalog.ModelVersion),
		QualityScore:     &quality,
		InspectorID:      ptr(inspectors[g.rng.IntN(len(inspectors))]),
		Disposition:      models.DispositionReleased,
	}

	factors, err := riskFactors(anomalies)
	if err != nil {
		return nil, err
	}
	result.RiskFactors = factors

	if failed {
		defect := g.defectType()
		g.failures++
		result.DefectType = ptr(defect.Name)
		result.DefectCode = ptr(fmt.Sprintf("%s-%03d", strings.ToUpper(defect.Name), g.failures))
		result.Notes = ptr(defect.Notes[g.rng.IntN(len(defect.Notes))])
		dispositions := []string{
			models.DispositionScrap, models.DispositionRework,
			models.DispositionScrap, models.DispositionRework,
			models.DispositionPending,
		}
		result.Disposition = dispositions[g.rng.IntN(len(dispositions))]
	}
	return result, nil
}

// predictedRisk is around 0.75 for failures and mostly below 0.4 for passes,
// with 5% of passes falsely flagged. Each anomaly adds 0.05, up to 0.25.
func (g *Generator) predictedRisk(failed bool, anomalies int) float64 {
	var base float64
	switch {
	case failed:
		base = 0.75 + g.uniform(-0.15, 0.20)
	case g.rng.Float64() < 0.05:
		base = g.uniform(0.5, 0.7)
	default:
		base = g.uniform(0, 0.4)
	}
	risk := base + math.Min(float64(anomalies)*0.05, 0.25)
	return round(math.Max(0, math.Min(1, risk)), 4)
}

func (g *Generator) defectType() DefectTypeSpec {
	r := g.rng.Float64()
	cumulative := 0.0
	for _, d := range g.catalog.DefectTypes {
		cumulative += d.Weight
		if r <= cumulative {
			return d
		}
	}
	return g.catalog.DefectTypes[0]
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// riskFactors explains a prediction by the first five anomalies, weighting
// each by its share of their total absolute deviation. Keys are
// "F<column>_high" or "F<column>_low". No anomalies means no factors.
func riskFactors(anomalies []anomaly) (*string, error) {
	top := slices.Clone(anomalies[:min(5, len(anomalies))])
	if len(top) == 0 {
		return nil, nil
	}
	slices.SortStableFunc(top, func(a, b anomaly) int {
		return cmp.Compare(math.Abs(b.deviation), math.Abs(a.deviation))
	})

	total := 0.0
	for _, a := range top {
		total += math.Abs(a.deviation)
	}

	factors := make(map[string]float64, len(top))
	for _, a := range top {
		direction := "low"
		if a.deviation > 0 {
			direction = "high"
		}
		share := 0.0
		if total > 0 {
			share = round(math.Abs(a.deviation)/total, 4)
		}
		factors[featureCode(a.column)+"_"+direction] = share
	}

	b, err := json.Marshal(factors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk factors: %w", err)
	}
	return ptr(string(b)), nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
