package carriers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/store"
)

func TestHandler_List(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.InsertCarriers(context.Background(), store.DemoCarriers()...))
	h := NewHandler(NewService(mem), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["transportistas"], 8)

	first := body["transportistas"][0]
	assert.Equal(t, "t1", first["id"])
	assert.Equal(t, "Miguel Fernández", first["nombre"])
	assert.Equal(t, "en_ruta", first["estado"])
	assert.NotContains(t, first, "_id")
}

func TestHandler_ListEmpty(t *testing.T) {
	h := NewHandler(NewService(store.NewMemory()), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"transportistas":[]}`, rec.Body.String())
}
