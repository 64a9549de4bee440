// Package stats computes the dashboard counters.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

// Stats is the body of GET /api/stats.
type Stats struct {
	AvailableListings int64 `json:"cargas_disponibles"`
	ActiveShipments   int64 `json:"envios_en_curso"`
	CompletedMonth    int64 `json:"completados_mes"`
	ActiveCarriers    int64 `json:"transportistas_activos"`
}

// Store is the subset of the record store the counters read.
type Store interface {
	CountListings(ctx context.Context, f store.ListingFilter) (int64, error)
	CountShipments(ctx context.Context, f store.ShipmentFilter) (int64, error)
	CountCarriers(ctx context.Context, f store.CarrierFilter) (int64, error)
}

type Service struct {
	store Store
}

func NewService(s Store) *Service { return &Service{store: s} }

// Get counts every listing, shipments not yet delivered, delivered
// shipments, and carriers that are not unavailable. "Completed this month"
// counts all deliveries; shipments carry no delivery date to narrow it.
func (s *Service) Get(ctx context.Context) (*Stats, error) {
	var out Stats
	var err error

	if out.AvailableListings, err = s.store.CountListings(ctx, store.ListingFilter{}); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	if out.ActiveShipments, err = s.store.CountShipments(ctx, store.ShipmentFilter{ExcludeStatus: domain.StatusDelivered}); err != nil {
		return nil, fmt.Errorf("count active shipments: %w", err)
	}
	if out.CompletedMonth, err = s.store.CountShipments(ctx, store.ShipmentFilter{Status: domain.StatusDelivered}); err != nil {
		return nil, fmt.Errorf("count delivered shipments: %w", err)
	}
	if out.ActiveCarriers, err = s.store.CountCarriers(ctx, store.CarrierFilter{ExcludeAvailability: domain.AvailabilityUnavailable}); err != nil {
		return nil, fmt.Errorf("count carriers: %w", err)
	}
	return &out, nil
}

// Handler serves GET /api/stats.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
