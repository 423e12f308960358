package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/models"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// FeatureHandler handles sensor feature catalog HTTP requests.
type FeatureHandler struct {
	base
	service services.FeatureService
	pager   *services.Pager
}

// NewFeatureHandler creates a new feature handler.
func NewFeatureHandler(service services.FeatureService, pager *services.Pager, auditor *audit.SecurityAuditor, logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{
		base:    newBase(auditor, logger),
		service: service,
		pager:   pager,
	}
}

// RegisterRoutes registers the feature handler's routes on the given mux.
// /features/{id}/importance overlaps /features/code/{code}, so every
// two-segment GET goes through Lookup.
func (h *FeatureHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /features", h.List)
	mux.HandleFunc("POST /features", h.Create)
	mux.HandleFunc("GET /features/critical", h.ListCritical)
	mux.HandleFunc("GET /features/search", h.Search)
	mux.HandleFunc("GET /features/{id}", h.Get)
	mux.HandleFunc("PUT /features/{id}", h.Update)
	mux.HandleFunc("DELETE /features/{id}", h.Delete)
	mux.HandleFunc("GET /features/{segment}/{value}", h.Lookup)
}

// List handles GET /features?page&size
func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	req, err := h.pager.Resolve(services.PageFeatures, page, size)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, result)
}

// Get handles GET /features/{id}
func (h *FeatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, f)
}

// ListCritical handles GET /features/critical
func (h *FeatureHandler) ListCritical(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListCritical(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Search handles GET /features/search?q=
func (h *FeatureHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.screen(r)

	term := ""
	if q := queryString(r, "q"); q != nil {
		term = *q
	}

	items, err := h.service.Search(r.Context(), term)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, items)
}

// Lookup handles GET /features/code/{code}, /features/category/{category}
// and /features/{id}/importance.
func (h *FeatureHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	segment, value := r.PathValue("segment"), r.PathValue("value")
	h.screen(r, "value")

	var (
		data any
		err  error
	)
	switch {
	case segment == "code":
		data, err = h.service.GetByCode(r.Context(), value)
	case segment == "category":
		data, err = h.service.ListByCategory(r.Context(), value)
	case value == "importance":
		id, convErr := parseID("id", segment)
		if convErr != nil {
			h.fail(w, r, convErr)
			return
		}
		data, err = h.service.Importance(r.Context(), id)
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

// Create handles POST /features
func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f models.FeatureMeta
	if err := decodeBody(w, r, &f); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.Create(r.Context(), &f); err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, &f)
}

// Update handles PUT /features/{id}
func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var f models.FeatureMeta
	if err := decodeBody(w, r, &f); err != nil {
		h.fail(w, r, err)
		return
	}
	f.ID = id

	if err := h.service.Update(r.Context(), &f); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, &f)
}

// Delete handles DELETE /features/{id}
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
