package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

func TestQueryTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{name: "rfc3339 utc", raw: "2025-09-01T08:30:00Z", want: time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)},
		{name: "rfc3339 offset", raw: "2025-09-01T10:30:00%2B02:00", want: time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)},
		{name: "local date-time as utc", raw: "2025-09-01T08:30:00", want: time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)},
		{name: "date only", raw: "2025-09-01", wantErr: true},
		{name: "garbage", raw: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/lots?startDate="+tt.raw, nil)
			got, err := queryTime(r, "startDate")
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), "startDate")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(*got), got.String())
		})
	}
}

func TestQueryTime_Absent(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/lots", nil)
	got, err := queryTime(r, "startDate")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueryFloat(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "0.7", want: 0.7},
		{raw: "1", want: 1},
		{raw: "NaN", wantErr: true},
		{raw: "Inf", wantErr: true},
		{raw: "high", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x?threshold="+tt.raw, nil)
			got, err := queryFloat(r, "threshold")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/lots?page=2&size=15", nil)
	page, size, err := pageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 2, *page)
	assert.Equal(t, 15, *size)

	r = httptest.NewRequest(http.MethodGet, "/lots?size=", nil)
	page, size, err = pageParams(r)
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Nil(t, size)

	r = httptest.NewRequest(http.MethodGet, "/lots?page=first", nil)
	_, _, err = pageParams(r)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPathInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/lots/12", nil)
	r.SetPathValue("id", "12")
	id, err := pathInt(r, "id")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	r.SetPathValue("id", "12x")
	_, err = pathInt(r, "id")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	r.SetPathValue("id", "2147483647")
	id, err = pathInt(r, "id")
	require.NoError(t, err)
	assert.Equal(t, 2147483647, id)

	r.SetPathValue("id", "2147483648")
	_, err = pathInt(r, "id")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *int
		wantErr bool
	}{
		{"absent", "", nil, false},
		{"valid", "equipmentId=3", intRef(3), false},
		{"beyond int4", "equipmentId=3000000000", nil, true},
		{"below int4", "equipmentId=-2147483649", nil, true},
		{"not a number", "equipmentId=three", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/lots?"+tt.query, nil)
			got, err := queryID(r, "equipmentId")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func intRef(v int) *int { return &v }

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:51234"
	assert.Equal(t, "10.0.0.5", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
