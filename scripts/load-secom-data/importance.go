package main

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/secom-mes/mes-engine/pkg/models"
)

const importanceMethod = models.DefaultCalculationMethod

// outcome is what the importance pass needs to know about a loaded lot.
type outcome struct {
	failed     bool
	defectType string
}

// correlation is the point-biserial correlation between one feature and one
// binary outcome.
type correlation struct {
	r            float64
	n            int
	meanPositive float64
	meanNegative float64
	positives    int
}

// pointBiserial correlates xs with the 0/1 indicator hit, skipping samples
// whose reading is missing. ok is false when either side has no variance.
func pointBiserial(xs []*float64, hit []bool) (correlation, bool) {
	var (
		c              correlation
		sumPos, sumNeg float64
	)
	for i, x := range xs {
		if x == nil {
			continue
		}
		c.n++
		if hit[i] {
			c.positives++
			sumPos += *x
		} else {
			sumNeg += *x
		}
	}

	negatives := c.n - c.positives
	if c.positives == 0 || negatives == 0 {
		return c, false
	}

	n := float64(c.n)
	mean := (sumPos + sumNeg) / n
	var squares float64
	for _, x := range xs {
		if x != nil {
			d := *x - mean
			squares += d * d
		}
	}
	sd := math.Sqrt(squares / n)
	if sd == 0 {
		return c, false
	}

	c.meanPositive = sumPos / float64(c.positives)
	c.meanNegative = sumNeg / float64(negatives)
	p := float64(c.positives) / n
	c.r = (c.meanPositive - c.meanNegative) / sd * math.Sqrt(p*(1-p))
	c.r = math.Max(-1, math.Min(1, c.r))
	return c, true
}

// importanceMetadata is stored alongside each score.
type importanceMetadata struct {
	MeanPositive float64 `json:"mean_positive"`
	MeanNegative float64 `json:"mean_negative"`
	Positives    int     `json:"positives"`
}

// computeImportance scores every feature against failure overall and against
// each defect type. samples and outcomes are parallel; features is indexed by
// column. Features without variance on either side are left unscored.
func computeImportance(samples []*Sample, outcomes []outcome, features []*models.FeatureMeta, defectTypes []string) ([]*models.FeatureImportance, error) {
	targets := map[string][]bool{models.DefaultDefectType: make([]bool, len(outcomes))}
	for _, dt := range defectTypes {
		targets[dt] = make([]bool, len(outcomes))
	}
	for i, o := range outcomes {
		targets[models.DefaultDefectType][i] = o.failed
		if o.failed {
			if hits, ok := targets[o.defectType]; ok {
				hits[i] = true
			}
		}
	}
	order := append([]string{models.DefaultDefectType}, defectTypes...)

	column := make([]*float64, len(samples))
	var records []*models.FeatureImportance
	for col, f := range features {
		for i, s := range samples {
			column[i] = nil
			if col < len(s.Values) {
				column[i] = s.Values[col]
			}
		}

		for _, dt := range order {
			c, ok := pointBiserial(column, targets[dt])
			if !ok {
				continue
			}
			meta, err := json.Marshal(importanceMetadata{
				MeanPositive: round(c.meanPositive, 6),
				MeanNegative: round(c.meanNegative, 6),
				Positives:    c.positives,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to encode importance metadata: %w", err)
			}
			r := round(c.r, 6)
			records = append(records, &models.FeatureImportance{
				FeatureID:              f.ID,
				DefectType:             dt,
				ImportanceScore:        math.Abs(r),
				CorrelationCoefficient: &r,
				SampleCount:            c.n,
				CalculationMethod:      importanceMethod,
				Metadata:               ptr(string(meta)),
			})
		}
	}
	return records, nil
}
