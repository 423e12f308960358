package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// ShiftHandler handles shift HTTP requests.
type ShiftHandler struct {
	base
	service services.ShiftService
}

// NewShiftHandler creates a new shift handler.
func NewShiftHandler(service services.ShiftService, auditor *audit.SecurityAuditor, logger *zap.Logger) *ShiftHandler {
	return &ShiftHandler{base: newBase(auditor, logger), service: service}
}

// RegisterRoutes registers the shift handler's routes on the given mux.
func (h *ShiftHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /shifts", h.List)
	mux.HandleFunc("POST /shifts", h.Create)
	mux.HandleFunc("GET /shifts/{id}", h.Get)
	mux.HandleFunc("PUT /shifts/{id}", h.Update)
	mux.HandleFunc("DELETE /shifts/{id}", h.Delete)
	mux.HandleFunc("GET /shifts/code/{code}", h.GetByCode)
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, s)
}

func (h *ShiftHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "code")
	s, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, s)
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var s models.Shift
	if err := decodeBody(w, r, &s); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.service.Create(r.Context(), &s); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &s)
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var s models.Shift
	if err := decodeBody(w, r, &s); err != nil {
		h.fail(w, r, err)
		return
	}
	s.ID = id
	if err := h.service.Update(r.Context(), &s); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &s)
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// ProductHandler handles product type HTTP requests.
type ProductHandler struct {
	base
	service services.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service services.ProductService, auditor *audit.SecurityAuditor, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{base: newBase(auditor, logger), service: service}
}

// RegisterRoutes registers the product handler's routes on the given mux.
func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.List)
	mux.HandleFunc("POST /products", h.Create)
	mux.HandleFunc("GET /products/{id}", h.Get)
	mux.HandleFunc("PUT /products/{id}", h.Update)
	mux.HandleFunc("DELETE /products/{id}", h.Delete)
	mux.HandleFunc("GET /products/code/{code}", h.GetByCode)
	mux.HandleFunc("GET /products/family/{family}", h.ListByFamily)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, p)
}

func (h *ProductHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "code")
	p, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, p)
}

func (h *ProductHandler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	h.screen(r, "family")
	items, err := h.service.ListByFamily(r.Context(), r.PathValue("family"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.ProductType
	if err := decodeBody(w, r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.service.Create(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var p models.ProductType
	if err := decodeBody(w, r, &p); err != nil {
		h.fail(w, r, err)
		return
	}
	p.ID = id
	if err := h.service.Update(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
