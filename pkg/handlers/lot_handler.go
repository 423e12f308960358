package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// LotHandler handles production lot HTTP requests.
type LotHandler struct {
	base
	service services.LotService
	pager   *services.Pager
}

// NewLotHandler creates a new lot handler.
func NewLotHandler(service services.LotService, pager *services.Pager, auditor *audit.SecurityAuditor, logger *zap.Logger) *LotHandler {
	return &LotHandler{
		base:    newBase(auditor, logger),
		service: service,
		pager:   pager,
	}
}

// RegisterRoutes registers the lot handler's routes on the given mux.
func (h *LotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /lots", h.List)
	mux.HandleFunc("POST /lots", h.Create)
	mux.HandleFunc("GET /lots/{id}", h.Get)
	mux.HandleFunc("PUT /lots/{id}", h.Update)
	mux.HandleFunc("DELETE /lots/{id}", h.Delete)
	mux.HandleFunc("GET /lots/number/{lotNumber}", h.GetByNumber)
}

// parseLotFilters reads equipmentId, operatorId, status, startDate and endDate.
func parseLotFilters(r *http.Request) (models.LotFilters, error) {
	var (
		f   models.LotFilters
		err error
	)
	if f.EquipmentID, err = queryID(r, "equipmentId"); err != nil {
		return f, err
	}
	if f.OperatorID, err = queryID(r, "operatorId"); err != nil {
		return f, err
	}
	f.Status = queryString(r, "status")
	if f.StartDate, err = queryTime(r, "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryTime(r, "endDate"); err != nil {
		return f, err
	}
	return f, nil
}

// List handles GET /lots?equipmentId&operatorId&status&startDate&endDate&page&size
func (h *LotHandler) List(w http.ResponseWriter, r *http.Request) {
	h.screen(r)

	filters, err := parseLotFilters(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
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

	result, err := h.service.List(r.Context(), filters, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, result)
}

// Get handles GET /lots/{id}
func (h *LotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, l)
}

// GetByNumber handles GET /lots/number/{lotNumber}
func (h *LotHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "lotNumber")

	l, err := h.service.GetByNumber(r.Context(), r.PathValue("lotNumber"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, l)
}

// Create handles POST /lots
func (h *LotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var l models.Lot
	if err := decodeBody(w, r, &l); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &l); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &l)
}

// Update handles PUT /lots/{id}
func (h *LotHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var l models.Lot
	if err := decodeBody(w, r, &l); err != nil {
		h.fail(w, r, err)
		return
	}
	l.ID = id

	if err := h.service.Update(r.Context(), &l); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &l)
}

// Delete handles DELETE /lots/{id}
func (h *LotHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
