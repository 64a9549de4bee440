package listings

import (
	"errors"

	"carga-platform/internal/domain"
)

// Pagination defaults for GET /api/cargas.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ErrListingNotFound is returned when the listing does not exist, including
// when another caller accepted it first.
var ErrListingNotFound = errors.New("listing not found")

// ListQuery holds the query parameters of GET /api/cargas. An empty
// Category, "todas" or "all" disables the filter.
type ListQuery struct {
	Category string `query:"tipo"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

// Page is one page of listings plus the filtered total.
type Page struct {
	Listings []domain.Listing `json:"cargas"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// AcceptResponse is the body returned by POST /api/cargas/accept/{id}.
type AcceptResponse struct {
	Message  string           `json:"message"`
	Shipment *domain.Shipment `json:"envio"`
}

func categoryFilter(raw string) domain.Category {
	switch raw {
	case "", "todas", "all":
		return ""
	default:
		return domain.Category(raw)
	}
}
