package testhelpers

import (
	"context"
	"testing"
	"time"
)

// Fixture holds the ids of a minimal reference data set: one product type,
// one shift, one operator and the requested number of equipment rows.
type Fixture struct {
	ProductTypeID int
	ShiftID       int
	OperatorID    int
	EquipmentIDs  []int
}

// SeedReference inserts reference rows and returns their ids.
func (tdb *TestDB) SeedReference(t *testing.T, equipmentCount int) *Fixture {
	t.Helper()
	ctx := context.Background()
	f := &Fixture{}

	err := tdb.DB.QueryRow(ctx, `
		INSERT INTO product_type (product_code, product_name, product_family, target_yield)
		VALUES ('PRD-T1', 'Test Logic', 'LOGIC', 95.0)
		RETURNING product_type_id`).Scan(&f.ProductTypeID)
	if err != nil {
		t.Fatalf("failed to seed product type: %v", err)
	}

	err = tdb.DB.QueryRow(ctx, `
		INSERT INTO shift (shift_code, shift_name, start_time, end_time)
		VALUES ('DAY', 'Day Shift', '08:00:00', '16:00:00')
		RETURNING shift_id`).Scan(&f.ShiftID)
	if err != nil {
		t.Fatalf("failed to seed shift: %v", err)
	}

	err = tdb.DB.QueryRow(ctx, `
		INSERT INTO operator (operator_code, operator_name, employee_number, department)
		VALUES ('OP-T1', 'Test Operator', 'E-0001', 'Fab')
		RETURNING operator_id`).Scan(&f.OperatorID)
	if err != nil {
		t.Fatalf("failed to seed operator: %v", err)
	}

	for i := range equipmentCount {
		var id int
		err = tdb.DB.QueryRow(ctx, `
			INSERT INTO equipment (equipment_code, equipment_name, equipment_type)
			VALUES ($1, $2, 'ETCH')
			RETURNING equipment_id`,
			"EQ-T"+string(rune('A'+i)), "Etcher "+string(rune('A'+i))).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed equipment: %v", err)
		}
		f.EquipmentIDs = append(f.EquipmentIDs, id)
	}

	return f
}

// InsertOperator adds an operator beyond the fixture's own and returns its id.
func (tdb *TestDB) InsertOperator(t *testing.T, code string) int {
	t.Helper()

	var id int
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO operator (operator_code, operator_name, employee_number, department)
		VALUES ($1, $1, $1, 'Fab')
		RETURNING operator_id`, code).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert operator %s: %v", code, err)
	}
	return id
}

// InsertLot inserts a lot run by the fixture operator and returns its id.
func (tdb *TestDB) InsertLot(t *testing.T, f *Fixture, lotNumber string, equipmentID int, status string, start time.Time) int {
	t.Helper()
	return tdb.InsertLotBy(t, f, lotNumber, equipmentID, f.OperatorID, status, start)
}

// InsertLotBy is InsertLot with an explicit operator.
func (tdb *TestDB) InsertLotBy(t *testing.T, f *Fixture, lotNumber string, equipmentID, operatorID int, status string, start time.Time) int {
	t.Helper()

	var id int
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO lot (lot_number, product_type_id, equipment_id, operator_id, shift_id, production_start, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING lot_id`,
		lotNumber, f.ProductTypeID, equipmentID, operatorID, f.ShiftID, start, status).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert lot %s: %v", lotNumber, err)
	}
	return id
}

// InsertQualityResult attaches a quality result to a lot. defectType may be
// empty for passing lots.
func (tdb *TestDB) InsertQualityResult(t *testing.T, lotID, classification int, predictedRisk float64, defectType string) int {
	t.Helper()

	var defect any
	if defectType != "" {
		defect = defectType
	}

	var id int
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO quality_result (lot_id, classification, test_timestamp_raw, test_datetime,
			predicted_risk, risk_score, quality_score, defect_type)
		VALUES ($1, $2, '19/07/2008 11:55:00', NOW(), $3, $3 * 100, 90, $4)
		RETURNING result_id`,
		lotID, classification, predictedRisk, defect).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert quality result for lot %d: %v", lotID, err)
	}
	return id
}

// InsertFeature inserts a feature and returns its id.
func (tdb *TestDB) InsertFeature(t *testing.T, code, category string) int {
	t.Helper()

	var id int
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO feature_meta (feature_code, feature_name, feature_category, normal_range_min, normal_range_max)
		VALUES ($1, $1, $2, 0, 100)
		RETURNING feature_id`, code, category).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert feature %s: %v", code, err)
	}
	return id
}

// InsertImportance inserts one feature importance row.
func (tdb *TestDB) InsertImportance(t *testing.T, featureID int, defectType string, score float64) {
	t.Helper()

	_, err := tdb.DB.Exec(context.Background(), `
		INSERT INTO feature_importance (feature_id, defect_type, importance_score, correlation_coefficient, sample_count)
		VALUES ($1, $2, $3, $3, 100)`, featureID, defectType, score)
	if err != nil {
		t.Fatalf("failed to insert importance for feature %d: %v", featureID, err)
	}
}
