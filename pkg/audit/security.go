// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/logging"
	"github.com/secom-mes/mes-engine/pkg/middleware"
	"github.com/secom-mes/mes-engine/pkg/sql"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL injection patterns.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventParameterValidation is logged when a request parameter is rejected.
	EventParameterValidation SecurityEventType = "parameter_validation_failure"
)

// maxLoggedValueLen bounds client-supplied values copied into audit events.
const maxLoggedValueLen = 200

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Route     string            `json:"route"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// SQLInjectionDetails contains specifics of a detected SQL injection attempt.
type SQLInjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"` // libinjection fingerprint for pattern analysis
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records one detected SQL injection pattern.
// Logged at ERROR with "critical" severity for immediate alerting.
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, route string, result *sql.InjectionCheckResult, clientIP string) {
	details := SQLInjectionDetails{
		ParamName:   result.ParamName,
		ParamValue:  logging.TruncateString(result.ParamValue, maxLoggedValueLen),
		Fingerprint: result.Fingerprint,
	}
	event := a.newEvent(ctx, EventSQLInjectionAttempt, route, clientIP, details, "critical")

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", marshalEvent(event)),
		zap.String("request_id", event.RequestID),
		zap.String("route", route),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("severity", event.Severity),
	)
}

// LogParameterValidation records a rejected request parameter.
// Logged at WARN as these are typically user errors, not attacks.
func (a *SecurityAuditor) LogParameterValidation(ctx context.Context, route, errorMessage, clientIP string) {
	event := a.newEvent(ctx, EventParameterValidation, route, clientIP,
		map[string]string{"error": errorMessage}, "warning")

	a.logger.Warn("Parameter validation failed",
		zap.String("event_json", marshalEvent(event)),
		zap.String("request_id", event.RequestID),
		zap.String("route", route),
		zap.String("error", errorMessage),
		zap.String("client_ip", clientIP),
		zap.String("severity", event.Severity),
	)
}

func (a *SecurityAuditor) newEvent(ctx context.Context, eventType SecurityEventType, route, clientIP string, details any, severity string) SecurityEvent {
	return SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		RequestID: middleware.RequestIDFromContext(ctx),
		Route:     route,
		ClientIP:  clientIP,
		Details:   details,
		Severity:  severity,
	}
}

// marshalEvent ignores the error: events hold only strings, maps of strings and a time.
func marshalEvent(event SecurityEvent) string {
	b, _ := json.Marshal(event)
	return string(b)
}
