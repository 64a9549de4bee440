// Package storetest is a behaviour suite every store.Store driver must pass.
package storetest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

// Run exercises a driver. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("seed is idempotent", func(t *testing.T) { testSeed(t, newStore(t)) })
	t.Run("listings", func(t *testing.T) { testListings(t, newStore(t)) })
	t.Run("delete listing once", func(t *testing.T) { testDeleteListingOnce(t, newStore(t)) })
	t.Run("shipments", func(t *testing.T) { testShipments(t, newStore(t)) })
	t.Run("carriers", func(t *testing.T) { testCarriers(t, newStore(t)) })
	t.Run("profiles", func(t *testing.T) { testProfiles(t, newStore(t)) })
}

func testSeed(t *testing.T, s store.Store) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	require.NoError(t, store.Seed(ctx, s, logger))
	require.NoError(t, store.Seed(ctx, s, logger))

	n, err := s.CountListings(ctx, store.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	n, err = s.CountShipments(ctx, store.ShipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	n, err = s.CountCarriers(ctx, store.CarrierFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
}

func testListings(t *testing.T, s store.Store) {
	ctx := context.Background()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	listings := store.DemoListings()
	for i := range listings {
		listings[i].CreatedAt = created
	}
	require.NoError(t, s.InsertListings(ctx, listings...))

	n, err := s.CountListings(ctx, store.ListingFilter{Category: domain.CategoryFullLoad})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	page, err := s.FindListings(ctx, store.ListingFilter{}, 3, 4)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, []string{"c4", "c5", "c6", "c7"}, listingIDs(page))

	all, err := s.FindListings(ctx, store.ListingFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	past, err := s.FindListings(ctx, store.ListingFilter{}, 50, 10)
	require.NoError(t, err)
	assert.NotNil(t, past)
	assert.Empty(t, past)

	urgent, err := s.FindListings(ctx, store.ListingFilter{Category: domain.CategoryUrgent}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c6"}, listingIDs(urgent))

	got, err := s.GetListing(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, listings[0].Origin, got.Origin)
	assert.Equal(t, listings[0].OriginCoords, got.OriginCoords)
	assert.Equal(t, domain.CategoryFullLoad, got.Category)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = s.GetListing(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteListingOnce(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertListings(ctx, store.DemoListings()...))

	const callers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.DeleteListing(ctx, "c2")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	_, err := s.GetListing(ctx, "c2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	ok, err := s.DeleteListing(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testShipments(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertShipments(ctx, store.DemoShipments()...))

	active, err := s.CountShipments(ctx, store.ShipmentFilter{ExcludeStatus: domain.StatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, int64(5), active)

	delivered, err := s.FindShipments(ctx, store.ShipmentFilter{Status: domain.StatusDelivered}, 100)
	require.NoError(t, err)
	assert.Len(t, delivered, 2)

	capped, err := s.FindShipments(ctx, store.ShipmentFilter{}, 3)
	require.NoError(t, err)
	assert.Len(t, capped, 3)

	require.NoError(t, s.DeleteShipment(ctx, "e1"))
	require.NoError(t, s.DeleteShipment(ctx, "e1"))
	n, err := s.CountShipments(ctx, store.ShipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func testCarriers(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertCarriers(ctx, store.DemoCarriers()...))

	active, err := s.CountCarriers(ctx, store.CarrierFilter{ExcludeAvailability: domain.AvailabilityUnavailable})
	require.NoError(t, err)
	assert.Equal(t, int64(7), active)

	all, err := s.FindCarriers(ctx, store.CarrierFilter{}, 100)
	require.NoError(t, err)
	require.Len(t, all, 8)
	assert.Equal(t, "t1", all[0].ID)
	assert.Equal(t, 4.8, all[0].Rating)
}

func testProfiles(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetProfileByExternalID(ctx, "user-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	p := &domain.Profile{
		ID:          "p-1",
		ExternalID:  "user-1",
		Email:       "ana@example.com",
		FullName:    "Ana",
		AccountType: domain.AccountShipper,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.InsertProfile(ctx, p))

	dup := *p
	dup.ID = "p-2"
	assert.ErrorIs(t, s.InsertProfile(ctx, &dup), store.ErrConflict)

	update := *p
	update.ID = "ignored"
	update.Email = "ignored@example.com"
	update.FullName = "Ana García"
	update.AccountType = domain.AccountBoth
	update.TaxID = "B123"
	require.NoError(t, s.UpdateProfile(ctx, &update))

	got, err := s.GetProfileByExternalID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "Ana García", got.FullName)
	assert.Equal(t, domain.AccountBoth, got.AccountType)
	assert.Equal(t, "B123", got.TaxID)

	missing := domain.Profile{ExternalID: "nobody"}
	assert.ErrorIs(t, s.UpdateProfile(ctx, &missing), store.ErrNotFound)
}

func listingIDs(ls []domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

// UniqueName returns a collision-free database or schema name for a test.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
