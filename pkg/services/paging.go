package services

import (
	"math"

	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/models"
)

// PageKind selects which configured default size applies to a listing.
type PageKind int

const (
	PageDefault PageKind = iota
	PageFeatures
	PageAnomalies
)

// Pager turns optional page/size query values into a PageRequest.
type Pager struct {
	cfg config.PagingConfig
}

// NewPager creates a Pager over validated paging configuration.
func NewPager(cfg config.PagingConfig) *Pager {
	return &Pager{cfg: cfg}
}

// Resolve applies defaults to missing values. A negative page or a size
// below 1 is a validation error; a size above the maximum is clamped. A page
// whose offset would not fit in an int is also a validation error.
func (p *Pager) Resolve(kind PageKind, page, size *int) (models.PageRequest, error) {
	req := models.PageRequest{Page: 0, Size: p.defaultSize(kind)}

	if page != nil {
		if *page < 0 {
			return models.PageRequest{}, validationError("page must be >= 0, got %d", *page)
		}
		req.Page = *page
	}

	if size != nil {
		if *size < 1 {
			return models.PageRequest{}, validationError("size must be >= 1, got %d", *size)
		}
		req.Size = min(*size, p.cfg.MaxPageSize)
	}

	if req.Page > math.MaxInt/req.Size {
		return models.PageRequest{}, validationError("page %d is out of range for size %d", req.Page, req.Size)
	}

	return req, nil
}

func (p *Pager) defaultSize(kind PageKind) int {
	switch kind {
	case PageFeatures:
		return p.cfg.FeaturePageSize
	case PageAnomalies:
		return p.cfg.AnomalyPageSize
	default:
		return p.cfg.DefaultPageSize
	}
}
