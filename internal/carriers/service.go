// Package carriers serves the read-only carrier directory.
package carriers

import (
	"context"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

// MaxResults caps GET /api/transportistas.
const MaxResults = 100

// ListResponse is the body of GET /api/transportistas.
type ListResponse struct {
	Carriers []domain.Carrier `json:"transportistas"`
}

// Service contains carrier queries.
type Service struct {
	store store.CarrierStore
}

func NewService(s store.CarrierStore) *Service { return &Service{store: s} }

func (s *Service) List(ctx context.Context) ([]domain.Carrier, error) {
	return s.store.FindCarriers(ctx, store.CarrierFilter{}, MaxResults)
}
