// Package logging holds helpers that keep credentials and oversized values out
// of log lines and CLI output.
package logging

import (
	"regexp"
	"unicode/utf8"
)

// RedactedText replaces any credential found by the sanitizers.
const RedactedText = "[REDACTED]"

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order. pgx connect errors echo the DSN in keyword/value form, and
// config.DatabaseConfig.URL produces the postgres:// form.
var redactions = []redaction{
	{regexp.MustCompile(`(?i)\b(password|pwd|pass|pgpassword)=[^;&\s]+`), "${1}=" + RedactedText},
	{regexp.MustCompile(`://[^:/@\s]+:[^@\s]+@`), "://" + RedactedText + "@"},
}

// SanitizeConnectionString removes credentials from a PostgreSQL DSN or URL.
func SanitizeConnectionString(connStr string) string {
	for _, r := range redactions {
		connStr = r.pattern.ReplaceAllString(connStr, r.replacement)
	}
	return connStr
}

// SanitizeError returns err's message with credentials removed, or "" for nil.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}

// TruncateString shortens s to at most maxLen bytes without splitting a UTF-8
// sequence, marking the cut with "...".
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
