package shipments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

func TestHandler_List(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.InsertShipments(context.Background(), store.DemoShipments()...))
	h := NewHandler(NewService(mem), slog.New(slog.DiscardHandler))

	tests := []struct {
		estado    string
		wantCount int
	}{
		{estado: "", wantCount: 7},
		{estado: "todos", wantCount: 7},
		{estado: "all", wantCount: 7},
		{estado: "en_transito", wantCount: 4},
		{estado: "entregado", wantCount: 2},
		{estado: "recogida_pendiente", wantCount: 1},
		{estado: "perdido", wantCount: 0},
	}
	for _, tt := range tests {
		t.Run("estado="+tt.estado, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?estado="+tt.estado, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body ListResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Shipments)
			assert.Len(t, body.Shipments, tt.wantCount)
			for _, s := range body.Shipments {
				if tt.estado != "" && tt.estado != "todos" && tt.estado != "all" {
					assert.Equal(t, domain.ShipmentStatus(tt.estado), s.Status)
				}
			}
		})
	}
}

func TestService_ListIsCapped(t *testing.T) {
	mem := store.NewMemory()
	for i := 0; i < MaxResults+20; i++ {
		require.NoError(t, mem.InsertShipments(context.Background(), domain.Shipment{
			ID: fmt.Sprintf("s%d", i), Status: domain.StatusInTransit,
		}))
	}

	items, err := NewService(mem).List(context.Background(), "todos")
	require.NoError(t, err)
	assert.Len(t, items, MaxResults)
}
