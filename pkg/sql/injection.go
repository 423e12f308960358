// Package sql screens client-supplied text for SQL injection patterns.
// Every value still reaches PostgreSQL as a bind parameter; screening only
// feeds the security audit log.
package sql

import (
	"net/url"
	"sort"

	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on a parameter value.
type InjectionCheckResult struct {
	ParamName   string // Name of the parameter that failed the check
	ParamValue  string // The value that was checked
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckParameterForInjection runs libinjection over one value.
// Returns nil if no injection pattern is detected.
//
// Example:
//
//	CheckParameterForInjection("q", "etch")                   // nil
//	CheckParameterForInjection("q", "x' OR '1'='1")          // Fingerprint "s&sos" or similar
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}

	return &InjectionCheckResult{
		ParamName:   paramName,
		ParamValue:  value,
		Fingerprint: string(fingerprint),
	}
}

// CheckQuery screens every value of every query parameter. Results are
// ordered by parameter name so audit output is deterministic.
func CheckQuery(values url.Values) []*InjectionCheckResult {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []*InjectionCheckResult
	for _, name := range names {
		for _, v := range values[name] {
			if result := CheckParameterForInjection(name, v); result != nil {
				results = append(results, result)
			}
		}
	}
	return results
}
