package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/sql"
)

// base carries what every resource handler shares.
type base struct {
	logger  *zap.Logger
	auditor *audit.SecurityAuditor
}

func newBase(auditor *audit.SecurityAuditor, logger *zap.Logger) base {
	if auditor == nil {
		auditor = audit.NewSecurityAuditor(logger)
	}
	return base{logger: logger, auditor: auditor}
}

// screen audits query parameters and the given free-text path values for
// injection patterns. The request proceeds either way: values only ever
// reach the database as bind parameters.
func (b base) screen(r *http.Request, pathParams ...string) {
	results := sql.CheckQuery(r.URL.Query())
	for _, name := range pathParams {
		if result := sql.CheckParameterForInjection(name, r.PathValue(name)); result != nil {
			results = append(results, result)
		}
	}
	for _, result := range results {
		b.auditor.LogInjectionAttempt(r.Context(), route(r), result, clientIP(r))
	}
}

// fail writes err, auditing rejected parameters and bodies first.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		b.auditor.LogParameterValidation(r.Context(), route(r), err.Error(), clientIP(r))
	}
	writeServiceError(w, b.logger, err)
}

func (b base) ok(w http.ResponseWriter, data any) {
	respond(w, b.logger, http.StatusOK, data)
}

func (b base) created(w http.ResponseWriter, data any) {
	respond(w, b.logger, http.StatusCreated, data)
}

func (b base) noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func route(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
