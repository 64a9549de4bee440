package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Seed loads the demo fixtures into every collection that is still empty.
// Collections that already hold records are left alone, so calling Seed on
// every startup is safe.
func Seed(ctx context.Context, s Store, logger *slog.Logger) error {
	now := time.Now().UTC()

	n, err := s.CountListings(ctx, ListingFilter{})
	if err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if n == 0 {
		listings := DemoListings()
		for i := range listings {
			listings[i].CreatedAt = now
		}
		if err := s.InsertListings(ctx, listings...); err != nil {
			return fmt.Errorf("seed listings: %w", err)
		}
		logger.Info("seeded listings", "count", len(listings))
	}

	n, err = s.CountShipments(ctx, ShipmentFilter{})
	if err != nil {
		return fmt.Errorf("count shipments: %w", err)
	}
	if n == 0 {
		shipments := DemoShipments()
		for i := range shipments {
			shipments[i].CreatedAt = now
		}
		if err := s.InsertShipments(ctx, shipments...); err != nil {
			return fmt.Errorf("seed shipments: %w", err)
		}
		logger.Info("seeded shipments", "count", len(shipments))
	}

	n, err = s.CountCarriers(ctx, CarrierFilter{})
	if err != nil {
		return fmt.Errorf("count carriers: %w", err)
	}
	if n == 0 {
		carriers := DemoCarriers()
		if err := s.InsertCarriers(ctx, carriers...); err != nil {
			return fmt.Errorf("seed carriers: %w", err)
		}
		logger.Info("seeded carriers", "count", len(carriers))
	}
	return nil
}
