package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// QualityHandler handles quality result HTTP requests.
type QualityHandler struct {
	base
	service services.QualityService
	pager   *services.Pager
}

// NewQualityHandler creates a new quality result handler.
func NewQualityHandler(service services.QualityService, pager *services.Pager, auditor *audit.SecurityAuditor, logger *zap.Logger) *QualityHandler {
	return &QualityHandler{
		base:    newBase(auditor, logger),
		service: service,
		pager:   pager,
	}
}

// RegisterRoutes registers the quality handler's routes on the given mux.
func (h *QualityHandler) RegisterRoutes(mux *http.ServeMux) {
	prefix := "/quality/results"

	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix+"/failed", h.ListFailed)
	mux.HandleFunc("GET "+prefix+"/passed", h.ListPassed)
	mux.HandleFunc("GET "+prefix+"/high-risk", h.HighRisk)
	mux.HandleFunc("GET "+prefix+"/{id}", h.Get)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
	mux.HandleFunc("GET "+prefix+"/lot/{lotId}", h.GetByLot)
	mux.HandleFunc("GET "+prefix+"/defect/{type}", h.ListByDefectType)
}

type qualityPageFunc func(ctx context.Context, page models.PageRequest) (*models.Page[*models.QualityResult], error)

func (h *QualityHandler) listPage(w http.ResponseWriter, r *http.Request, list qualityPageFunc) {
	page, size, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := h.pager.Resolve(services.PageDefault, page, size)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := list(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, result)
}

// List handles GET /quality/results?page&size
func (h *QualityHandler) List(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.service.List)
}

// ListFailed handles GET /quality/results/failed?page&size
func (h *QualityHandler) ListFailed(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.service.ListFailed)
}

// ListPassed handles GET /quality/results/passed?page&size
func (h *QualityHandler) ListPassed(w http.ResponseWriter, r *http.Request) {
	h.listPage(w, r, h.service.ListPassed)
}

// HighRisk handles GET /quality/results/high-risk?threshold
func (h *QualityHandler) HighRisk(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryFloat(r, "threshold")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.service.HighRisk(r.Context(), threshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Get handles GET /quality/results/{id}
func (h *QualityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, q)
}

// GetByLot handles GET /quality/results/lot/{lotId}
func (h *QualityHandler) GetByLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathInt(r, "lotId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q, err := h.service.GetByLot(r.Context(), lotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, q)
}

// ListByDefectType handles GET /quality/results/defect/{type}
func (h *QualityHandler) ListByDefectType(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "type")

	items, err := h.service.ListByDefectType(r.Context(), r.PathValue("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Create handles POST /quality/results
func (h *QualityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var q models.QualityResult
	if err := decodeBody(w, r, &q); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &q); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &q)
}

// Update handles PUT /quality/results/{id}
func (h *QualityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var q models.QualityResult
	if err := decodeBody(w, r, &q); err != nil {
		h.fail(w, r, err)
		return
	}
	q.ID = id

	if err := h.service.Update(r.Context(), &q); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &q)
}

// Delete handles DELETE /quality/results/{id}
func (h *QualityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
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
