package audit

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secom-mes/mes-engine/pkg/middleware"
	"github.com/secom-mes/mes-engine/pkg/sql"
)

// setupTestLogger creates a test logger with an observer to capture log entries.
func setupTestLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func TestNewSecurityAuditor(t *testing.T) {
	logger, _ := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	assert.NotNil(t, auditor)
	assert.NotNil(t, NewSecurityAuditor(nil).logger)
}

func TestLogInjectionAttempt(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	auditor.LogInjectionAttempt(ctx, "GET /features/search", &sql.InjectionCheckResult{
		ParamName:   "q",
		ParamValue:  "'; DROP TABLE lot--",
		Fingerprint: "s;T(c",
	}, "192.168.1.100")

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]

	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "SQL injection attempt detected", entry.Message)
	assert.Equal(t, "security_audit", entry.LoggerName)

	fields := entry.ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "q", fields["param_name"])
	assert.Equal(t, "critical", fields["severity"])

	var event SecurityEvent
	require.NoError(t, json.Unmarshal([]byte(fields["event_json"].(string)), &event))
	assert.Equal(t, EventSQLInjectionAttempt, event.EventType)
	assert.Equal(t, "GET /features/search", event.Route)
	assert.Equal(t, "192.168.1.100", event.ClientIP)
}

func TestLogInjectionAttempt_TruncatesValue(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	auditor.LogInjectionAttempt(context.Background(), "GET /lots", &sql.InjectionCheckResult{
		ParamName:   "status",
		ParamValue:  "' OR 1=1--" + strings.Repeat("x", 500),
		Fingerprint: "s&1c",
	}, "")

	eventJSON := recorded.All()[0].ContextMap()["event_json"].(string)

	var event struct {
		Details SQLInjectionDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(eventJSON), &event))
	assert.Len(t, event.Details.ParamValue, maxLoggedValueLen+len("..."))
}

func TestLogParameterValidation(t *testing.T) {
	logger, recorded := setupTestLogger(t)
	auditor := NewSecurityAuditor(logger)

	auditor.LogParameterValidation(context.Background(), "GET /lots", "page must be >= 0", "10.0.0.1")

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "page must be >= 0", entry.ContextMap()["error"])
	assert.Equal(t, "warning", entry.ContextMap()["severity"])
}
