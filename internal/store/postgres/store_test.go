package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		args        []any
		skip, limit int
		wantSQL     string
		wantArgs    []any
	}{
		{name: "unbounded", wantSQL: "SELECT 1"},
		{name: "limit only", limit: 50, wantSQL: "SELECT 1 LIMIT $1", wantArgs: []any{50}},
		{name: "limit and offset", skip: 100, limit: 50, wantSQL: "SELECT 1 LIMIT $1 OFFSET $2", wantArgs: []any{50, 100}},
		{name: "after filter args", args: []any{"urgente"}, skip: 10, limit: 5, wantSQL: "SELECT 1 LIMIT $2 OFFSET $3", wantArgs: []any{"urgente", 5, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := paginate("SELECT 1", tt.args, tt.skip, tt.limit)
			assert.Equal(t, tt.wantSQL, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestShipmentWhere(t *testing.T) {
	where, args := shipmentWhere(store.ShipmentFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = shipmentWhere(store.ShipmentFilter{Status: domain.StatusInTransit})
	assert.Equal(t, " WHERE status=$1", where)
	assert.Equal(t, []any{"en_transito"}, args)

	where, args = shipmentWhere(store.ShipmentFilter{Status: domain.StatusInTransit, ExcludeStatus: domain.StatusDelivered})
	assert.Equal(t, " WHERE status=$1 AND status<>$2", where)
	assert.Equal(t, []any{"en_transito", "entregado"}, args)
}

func TestListingAndCarrierWhere(t *testing.T) {
	where, args := listingWhere(store.ListingFilter{Category: domain.CategoryUrgent})
	assert.Equal(t, " WHERE category=$1", where)
	assert.Equal(t, []any{"urgente"}, args)

	where, args = carrierWhere(store.CarrierFilter{ExcludeAvailability: domain.AvailabilityUnavailable})
	assert.Equal(t, " WHERE availability<>$1", where)
	assert.Equal(t, []any{"no_disponible"}, args)
}

func TestCoords(t *testing.T) {
	assert.Equal(t, []float64{}, coords(nil))
	assert.Equal(t, []float64{40.4, -3.7}, coords([]float64{40.4, -3.7}))
}
