package stats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/store"
)

type brokenStore struct {
	*store.Memory
}

func (brokenStore) CountCarriers(context.Context, store.CarrierFilter) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestHandler_DemoData(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, store.Seed(context.Background(), mem, slog.New(slog.DiscardHandler)))

	rec := httptest.NewRecorder()
	NewHandler(NewService(mem), slog.New(slog.DiscardHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"cargas_disponibles": 10,
		"envios_en_curso": 5,
		"completados_mes": 2,
		"transportistas_activos": 7
	}`, rec.Body.String())
}

func TestHandler_EmptyStore(t *testing.T) {
	st, err := NewService(store.NewMemory()).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *st)
}

func TestHandler_StoreFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewService(brokenStore{store.NewMemory()}), slog.New(slog.DiscardHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
