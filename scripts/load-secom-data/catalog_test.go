package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := loadCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Shifts, 3)
	assert.Len(t, c.Products, 4)
	assert.Len(t, c.Equipment, 6)
	assert.Len(t, c.Operators, 15)
	assert.Equal(t, []string{"OPR-003", "OPR-008", "OPR-013"}, c.inspectors())
	for shift, ops := range c.operatorsByShift() {
		assert.Len(t, ops, 5, "shift %s", shift)
	}
}

func TestCatalog_ShiftForHour(t *testing.T) {
	c, err := loadCatalog()
	require.NoError(t, err)

	tests := []struct {
		hour int
		want string
	}{
		{0, "NIGHT"},
		{7, "NIGHT"},
		{8, "DAY"},
		{15, "DAY"},
		{16, "SWING"},
		{23, "SWING"},
	}
	for _, tt := range tests {
		got, err := c.shiftForHour(tt.hour)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "hour %d", tt.hour)
	}
}

func TestCatalog_Features(t *testing.T) {
	c, err := loadCatalog()
	require.NoError(t, err)

	features := c.features()
	require.Len(t, features, secomFeatureCount)

	first := features[0]
	assert.Equal(t, "F0", first.Code)
	assert.Equal(t, "CVD_Process_temperature_1", first.Name)
	assert.Equal(t, "CVD_Process", first.Category)
	assert.True(t, first.IsCritical)
	assert.Contains(t, *first.Description, "Zone_A")
	assert.Equal(t, 200.0, *first.NormalRangeMin)
	assert.Equal(t, 800.0, *first.NormalRangeMax)

	assert.Contains(t, *features[15].Description, "Zone_B")
	assert.Contains(t, *features[37].Description, "Sensor_7")
	assert.False(t, features[1].IsCritical)
	assert.True(t, features[40].IsCritical)

	etch := features[101]
	assert.Equal(t, "Etch_Process", etch.Category)
	assert.Equal(t, "Etch_Process_RF_power_2", etch.Name)

	last := features[secomFeatureCount-1]
	assert.Equal(t, "F589", last.Code)
	assert.Equal(t, "Environmental", last.Category)
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "gap in feature columns",
			mutate:  func(s string) string { return strings.Replace(s, "first: 100", "first: 101", 1) },
			wantErr: "Etch_Process",
		},
		{
			name:    "operator on unknown shift",
			mutate:  func(s string) string { return strings.Replace(s, "shift: DAY, hire_date: \"2018-04-02\"", "shift: LATE, hire_date: \"2018-04-02\"", 1) },
			wantErr: "unknown shift",
		},
		{
			name:    "zero weight",
			mutate:  func(s string) string { return strings.Replace(s, "weight: 40", "weight: 0", 1) },
			wantErr: "weight must be positive",
		},
		{
			name:    "malformed yaml",
			mutate:  func(s string) string { return s + "\n\t- broken" },
			wantErr: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.mutate(string(catalogYAML))))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
