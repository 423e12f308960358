package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	eq := Equipment{Code: "ETCH-01", InstallDate: ptr(NewDate(2023, time.March, 7))}

	b, err := json.Marshal(eq)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"install_date":"2023-03-07"`)

	var decoded Equipment
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.NotNil(t, decoded.InstallDate)
	assert.Equal(t, "2023-03-07", decoded.InstallDate.String())
}

func TestDate_UnmarshalRejectsTimestamps(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"2023-03-07T10:00:00Z"`), &d)
	assert.Error(t, err)
}

func TestDate_NullLeavesPointerNil(t *testing.T) {
	var op Operator
	require.NoError(t, json.Unmarshal([]byte(`{"operator_code":"OPR-001","hire_date":null}`), &op))
	assert.Nil(t, op.HireDate)
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		size       int
		wantPages  int
		wantLength int
	}{
		{"exact multiple", 40, 20, 2, 0},
		{"remainder", 41, 20, 3, 0},
		{"empty", 0, 20, 0, 0},
		{"zero size", 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[Lot](nil, PageRequest{Page: 0, Size: tt.size}, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.NotNil(t, p.Items)
			assert.Len(t, p.Items, tt.wantLength)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 0, Size: 20}.Offset())
	assert.Equal(t, 60, PageRequest{Page: 3, Size: 20}.Offset())
}

func TestFeatureMeta_InRange(t *testing.T) {
	f := FeatureMeta{NormalRangeMin: ptr(200.0), NormalRangeMax: ptr(800.0)}
	assert.True(t, f.InRange(200))
	assert.True(t, f.InRange(800))
	assert.False(t, f.InRange(199.9))
	assert.False(t, f.InRange(800.1))

	open := FeatureMeta{NormalRangeMin: ptr(0.0)}
	assert.True(t, open.InRange(-1e9))
}

func TestPage_JSONEnvelope(t *testing.T) {
	p := NewPage([]Shift{{ID: 1, Code: "DAY"}}, PageRequest{Page: 1, Size: 1}, 3)
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, key := range []string{"items", "page", "size", "total", "total_pages"} {
		assert.Contains(t, raw, key)
	}
	assert.EqualValues(t, 3, raw["total_pages"])
}

func ptr[T any](v T) *T { return &v }
