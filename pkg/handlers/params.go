package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

// localDateTimeLayout is an ISO-8601 date-time without offset, read as UTC.
const localDateTimeLayout = "2006-01-02T15:04:05"

func invalidParam(name, value, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %q", apperrors.ErrValidation, name, want, value)
}

// parseID parses a key stored in an INTEGER column. Values outside int32 are
// rejected here so they never reach the driver.
func parseID(name, raw string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, invalidParam(name, raw, "a 32-bit integer")
	}
	return int(v), nil
}

// pathInt parses an INTEGER key from a path segment.
func pathInt(r *http.Request, name string) (int, error) {
	return parseID(name, r.PathValue(name))
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidParam(name, raw, "an integer")
	}
	return v, nil
}

// queryString returns the trimmed value of name, or nil when absent or blank.
func queryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// queryInt returns nil when name is absent.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, invalidParam(name, *raw, "an integer")
	}
	return &v, nil
}

// queryID is queryInt for INTEGER keys such as equipmentId.
func queryID(r *http.Request, name string) (*int, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	v, err := parseID(name, *raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryFloat returns nil when name is absent. NaN and infinities are rejected.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalidParam(name, *raw, "a number")
	}
	return &v, nil
}

// queryTime accepts RFC 3339 or a local ISO date-time, which is taken as UTC.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := queryString(r, name)
	if raw == nil {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(localDateTimeLayout, *raw, time.UTC)
	if err != nil {
		return nil, invalidParam(name, *raw, "an ISO-8601 date-time")
	}
	return &t, nil
}

// pageParams reads the optional page and size query parameters.
func pageParams(r *http.Request) (page, size *int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return nil, nil, err
	}
	if size, err = queryInt(r, "size"); err != nil {
		return nil, nil, err
	}
	return page, size, nil
}
