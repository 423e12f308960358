package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// AnalyticsHandler serves the read-only analytics endpoints.
type AnalyticsHandler struct {
	base
	service services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service services.AnalyticsService, auditor *audit.SecurityAuditor, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		base:    newBase(auditor, logger),
		service: service,
	}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /analytics/summary", h.Summary)
	mux.HandleFunc("GET /analytics/equipment-health", h.EquipmentHealth)
	mux.HandleFunc("GET /analytics/shift-performance", h.ShiftPerformance)
	mux.HandleFunc("GET /analytics/quality-summary", h.QualitySummary)
	mux.HandleFunc("GET /analytics/feature-importance", h.FeatureImportance)
	mux.HandleFunc("GET /analytics/high-risk-lots", h.HighRiskLots)
	mux.HandleFunc("GET /analytics/defect-distribution", h.DefectDistribution)
	mux.HandleFunc("GET /analytics/risk-distribution", h.RiskDistribution)
}

// Summary handles GET /analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, summary)
}

// EquipmentHealth handles GET /analytics/equipment-health
func (h *AnalyticsHandler) EquipmentHealth(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.EquipmentHealth(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// ShiftPerformance handles GET /analytics/shift-performance
func (h *AnalyticsHandler) ShiftPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ShiftPerformance(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// QualitySummary handles GET /analytics/quality-summary
func (h *AnalyticsHandler) QualitySummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.QualitySummary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// FeatureImportance handles GET /analytics/feature-importance?defectType&limit
func (h *AnalyticsHandler) FeatureImportance(w http.ResponseWriter, r *http.Request) {
	h.screen(r)

	limit, err := queryInt(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, err := h.service.FeatureImportance(r.Context(), queryString(r, "defectType"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// HighRiskLots handles GET /analytics/high-risk-lots?threshold&limit
func (h *AnalyticsHandler) HighRiskLots(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryFloat(r, "threshold")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rows, err := h.service.HighRiskLots(r.Context(), threshold, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// DefectDistribution handles GET /analytics/defect-distribution
func (h *AnalyticsHandler) DefectDistribution(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.DefectDistribution(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}

// RiskDistribution handles GET /analytics/risk-distribution
func (h *AnalyticsHandler) RiskDistribution(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.RiskDistribution(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, rows)
}
