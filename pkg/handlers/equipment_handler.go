package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// EquipmentHandler handles production equipment HTTP requests.
type EquipmentHandler struct {
	base
	service services.EquipmentService
}

// NewEquipmentHandler creates a new equipment handler.
func NewEquipmentHandler(service services.EquipmentService, auditor *audit.SecurityAuditor, logger *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		base:    newBase(auditor, logger),
		service: service,
	}
}

// RegisterRoutes registers the equipment handler's routes on the given mux.
func (h *EquipmentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /equipment", h.List)
	mux.HandleFunc("POST /equipment", h.Create)
	mux.HandleFunc("GET /equipment/{id}", h.Get)
	mux.HandleFunc("PUT /equipment/{id}", h.Update)
	mux.HandleFunc("DELETE /equipment/{id}", h.Delete)
	mux.HandleFunc("GET /equipment/code/{code}", h.GetByCode)
	mux.HandleFunc("GET /equipment/type/{type}", h.ListByType)
	mux.HandleFunc("GET /equipment/status/{status}", h.ListByStatus)
}

// List handles GET /equipment
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Get handles GET /equipment/{id}
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, e)
}

// GetByCode handles GET /equipment/code/{code}
func (h *EquipmentHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "code")

	e, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, e)
}

// ListByType handles GET /equipment/type/{type}
func (h *EquipmentHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "type")

	items, err := h.service.ListByType(r.Context(), r.PathValue("type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// ListByStatus handles GET /equipment/status/{status}
func (h *EquipmentHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "status")

	items, err := h.service.ListByStatus(r.Context(), r.PathValue("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Create handles POST /equipment
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e models.Equipment
	if err := decodeBody(w, r, &e); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &e); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &e)
}

// Update handles PUT /equipment/{id}. The body replaces the stored record.
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var e models.Equipment
	if err := decodeBody(w, r, &e); err != nil {
		h.fail(w, r, err)
		return
	}
	e.ID = id

	if err := h.service.Update(r.Context(), &e); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &e)
}

// Delete handles DELETE /equipment/{id}
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
