package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/store"
	"carga-platform/internal/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store { return store.NewMemory() })
}

func TestMemory_ReadsDoNotAlias(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.InsertListings(ctx, store.DemoListings()...))

	got, err := m.GetListing(ctx, "c1")
	require.NoError(t, err)
	got.OriginCoords[0] = 0
	got.Origin = "changed"

	again, err := m.GetListing(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Madrid", again.Origin)
	assert.NotZero(t, again.OriginCoords[0])
}

func TestFilters(t *testing.T) {
	assert.True(t, store.ListingFilter{}.Match(store.DemoListings()[0]))
	assert.False(t, store.ListingFilter{Category: "urgente"}.Match(store.DemoListings()[0]))

	sh := store.DemoShipments()[4] // delivered
	assert.True(t, store.ShipmentFilter{Status: "entregado"}.Match(sh))
	assert.False(t, store.ShipmentFilter{ExcludeStatus: "entregado"}.Match(sh))

	c := store.DemoCarriers()[4] // unavailable
	assert.False(t, store.CarrierFilter{ExcludeAvailability: "no_disponible"}.Match(c))
	assert.True(t, store.CarrierFilter{}.Match(c))
}
