package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// OperatorHandler handles operator HTTP requests.
type OperatorHandler struct {
	base
	service services.OperatorService
}

// NewOperatorHandler creates a new operator handler.
func NewOperatorHandler(service services.OperatorService, auditor *audit.SecurityAuditor, logger *zap.Logger) *OperatorHandler {
	return &OperatorHandler{
		base:    newBase(auditor, logger),
		service: service,
	}
}

// RegisterRoutes registers the operator handler's routes on the given mux.
// /operators/{id}/lots overlaps /operators/code/{code} and friends, so every
// two-segment GET goes through Lookup.
func (h *OperatorHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /operators", h.List)
	mux.HandleFunc("POST /operators", h.Create)
	mux.HandleFunc("GET /operators/{id}", h.Get)
	mux.HandleFunc("PUT /operators/{id}", h.Update)
	mux.HandleFunc("DELETE /operators/{id}", h.Delete)
	mux.HandleFunc("GET /operators/{segment}/{value}", h.Lookup)
}

// List handles GET /operators
func (h *OperatorHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Get handles GET /operators/{id}
func (h *OperatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, o)
}

// Lookup handles GET /operators/code/{code}, /operators/department/{department},
// /operators/status/{status} and /operators/{id}/lots.
func (h *OperatorHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	segment, value := r.PathValue("segment"), r.PathValue("value")
	h.screen(r, "value")

	var (
		data any
		err  error
	)
	switch {
	case segment == "code":
		data, err = h.service.GetByCode(r.Context(), value)
	case segment == "department":
		data, err = h.service.ListByDepartment(r.Context(), value)
	case segment == "status":
		data, err = h.service.ListByStatus(r.Context(), value)
	case value == "lots":
		id, convErr := parseID("id", segment)
		if convErr != nil {
			h.fail(w, r, convErr)
			return
		}
		data, err = h.service.Lots(r.Context(), id)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, data)
}

// Create handles POST /operators
func (h *OperatorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var o models.Operator
	if err := decodeBody(w, r, &o); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &o); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &o)
}

// Update handles PUT /operators/{id}
func (h *OperatorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var o models.Operator
	if err := decodeBody(w, r, &o); err != nil {
		h.fail(w, r, err)
		return
	}
	o.ID = id

	if err := h.service.Update(r.Context(), &o); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &o)
}

// Delete handles DELETE /operators/{id}
func (h *OperatorHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
