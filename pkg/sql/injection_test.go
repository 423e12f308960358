package sql

import (
	"net/url"
	"testing"
)

func TestCheckParameterForInjection(t *testing.T) {
	tests := []struct {
		name            string
		paramName       string
		value           string
		expectInjection bool
	}{
		// Clean values - should pass
		{name: "feature search term", paramName: "q", value: "temperature", expectInjection: false},
		{name: "date", paramName: "startDate", value: "2025-09-01", expectInjection: false},
		{name: "surname with apostrophe", paramName: "q", value: "O'Brien", expectInjection: false},
		{name: "multi-word value", paramName: "q", value: "etch chamber pressure", expectInjection: false},
		{name: "empty", paramName: "q", value: "", expectInjection: false},

		// Classic SQL injection patterns
		{name: "tautology", paramName: "q", value: "' OR '1'='1", expectInjection: true},
		{name: "stacked drop", paramName: "q", value: "'; DROP TABLE lot--", expectInjection: true},
		{name: "union select", paramName: "status", value: "1 UNION SELECT * FROM passwords", expectInjection: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckParameterForInjection(tt.paramName, tt.value)

			if tt.expectInjection {
				if result == nil {
					t.Fatalf("expected injection for %q, got nil", tt.value)
				}
				if result.ParamName != tt.paramName {
					t.Errorf("expected ParamName %q, got %q", tt.paramName, result.ParamName)
				}
				if result.Fingerprint == "" {
					t.Error("expected non-empty fingerprint")
				}
			} else if result != nil {
				t.Errorf("expected no injection for %q, got fingerprint %q", tt.value, result.Fingerprint)
			}
		})
	}
}

func TestCheckQuery(t *testing.T) {
	values := url.Values{
		"status": {"completed"},
		"q":      {"etch", "' OR '1'='1"},
		"page":   {"0"},
		"b":      {"'; DROP TABLE lot--"},
	}

	results := CheckQuery(values)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ParamName != "b" || results[1].ParamName != "q" {
		t.Errorf("expected results ordered b, q; got %s, %s", results[0].ParamName, results[1].ParamName)
	}
	if results[1].ParamValue != "' OR '1'='1" {
		t.Errorf("expected offending value recorded, got %q", results[1].ParamValue)
	}
}

func TestCheckQuery_Clean(t *testing.T) {
	if results := CheckQuery(url.Values{"q": {"pressure"}}); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
