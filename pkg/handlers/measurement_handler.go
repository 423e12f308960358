package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// BatchCreateResponse for POST /measurements/batch
type BatchCreateResponse struct {
	Inserted int64 `json:"inserted"`
}

// MeasurementHandler handles lot measurement HTTP requests.
type MeasurementHandler struct {
	base
	service services.MeasurementService
	pager   *services.Pager
}

// NewMeasurementHandler creates a new measurement handler.
func NewMeasurementHandler(service services.MeasurementService, pager *services.Pager, auditor *audit.SecurityAuditor, logger *zap.Logger) *MeasurementHandler {
	return &MeasurementHandler{
		base:    newBase(auditor, logger),
		service: service,
		pager:   pager,
	}
}

// RegisterRoutes registers the measurement handler's routes on the given mux.
func (h *MeasurementHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /measurements", h.Create)
	mux.HandleFunc("POST /measurements/batch", h.CreateBatch)
	mux.HandleFunc("GET /measurements/anomalies", h.ListAnomalies)
	mux.HandleFunc("GET /measurements/{id}", h.Get)
	mux.HandleFunc("DELETE /measurements/{id}", h.Delete)
	mux.HandleFunc("GET /measurements/lot/{lotId}", h.ListByLot)
	mux.HandleFunc("GET /measurements/lot/{lotId}/anomalies", h.ListAnomaliesByLot)
	mux.HandleFunc("GET /measurements/feature/{featureId}", h.ListByFeature)
}

// Get handles GET /measurements/{id}
func (h *MeasurementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, m)
}

// ListByLot handles GET /measurements/lot/{lotId}
func (h *MeasurementHandler) ListByLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathInt(r, "lotId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.service.ListByLot(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// ListAnomaliesByLot handles GET /measurements/lot/{lotId}/anomalies
func (h *MeasurementHandler) ListAnomaliesByLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathInt(r, "lotId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.service.ListAnomaliesByLot(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// ListByFeature handles GET /measurements/feature/{featureId}
func (h *MeasurementHandler) ListByFeature(w http.ResponseWriter, r *http.Request) {
	featureID, err := pathInt(r, "featureId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.service.ListByFeature(r.Context(), featureID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// ListAnomalies handles GET /measurements/anomalies?page&size
func (h *MeasurementHandler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := h.pager.Resolve(services.PageAnomalies, page, size)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.ListAnomalies(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, result)
}

// Create handles POST /measurements
func (h *MeasurementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m models.LotMeasurement
	if err := decodeBody(w, r, &m); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &m); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &m)
}

// CreateBatch handles POST /measurements/batch with a JSON array body.
func (h *MeasurementHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var batch []*models.LotMeasurement
	if err := decodeBody(w, r, &batch); err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.service.CreateBatch(r.Context(), batch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, BatchCreateResponse{Inserted: n})
}

// Delete handles DELETE /measurements/{id}
func (h *MeasurementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}
