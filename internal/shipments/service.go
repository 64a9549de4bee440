// Package shipments serves the read side of the shipment collection.
package shipments

import (
	"context"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

// MaxResults caps GET /api/envios; there is no further pagination.
const MaxResults = 100

// ListResponse is the body of GET /api/envios.
type ListResponse struct {
	Shipments []domain.Shipment `json:"envios"`
}

// Service contains shipment queries.
type Service struct {
	store store.ShipmentStore
}

func NewService(s store.ShipmentStore) *Service { return &Service{store: s} }

// List returns up to MaxResults shipments. An empty status, "todos" or "all"
// returns every status.
func (s *Service) List(ctx context.Context, status string) ([]domain.Shipment, error) {
	var f store.ShipmentFilter
	switch status {
	case "", "todos", "all":
	default:
		f.Status = domain.ShipmentStatus(status)
	}
	return s.store.FindShipments(ctx, f, MaxResults)
}
