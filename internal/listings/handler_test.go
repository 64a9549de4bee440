package listings

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/pkg/identity"
)

func newTestRouter(t *testing.T) (http.Handler, *identity.StaticVerifier) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	verifier := identity.NewStaticVerifier(map[string]*identity.Identity{"good": carrier})
	auth := identity.NewMiddleware(verifier, logger, nil)
	h := NewHandler(newTestService(seededMemory(t), nil, nil), auth, logger)

	r := chi.NewRouter()
	r.Mount("/api/cargas", h.Routes())
	return r, verifier
}

func TestHandler_List(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
		wantTotal  float64
		wantPage   float64
		wantSize   float64
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantCount: 10, wantTotal: 10, wantPage: 1, wantSize: 50},
		{name: "second page", query: "?page=2&page_size=4", wantStatus: http.StatusOK, wantCount: 4, wantTotal: 10, wantPage: 2, wantSize: 4},
		{name: "category", query: "?tipo=urgente", wantStatus: http.StatusOK, wantCount: 2, wantTotal: 2, wantPage: 1, wantSize: 50},
		{name: "sentinel", query: "?tipo=todas&page_size=100", wantStatus: http.StatusOK, wantCount: 10, wantTotal: 10, wantPage: 1, wantSize: 100},
		{name: "past the end", query: "?page=4&page_size=4", wantStatus: http.StatusOK, wantCount: 0, wantTotal: 10, wantPage: 4, wantSize: 4},
		{name: "page offset beyond int range", query: "?page=9223372036854775807&page_size=100", wantStatus: http.StatusOK, wantCount: 0, wantTotal: 10, wantPage: float64(math.MaxInt64), wantSize: 100},
		{name: "page size zero", query: "?page_size=0", wantStatus: http.StatusBadRequest},
		{name: "page size over max", query: "?page_size=101", wantStatus: http.StatusBadRequest},
		{name: "page zero", query: "?page=0", wantStatus: http.StatusBadRequest},
		{name: "page not a number", query: "?page=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cargas"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Len(t, body["cargas"], tt.wantCount)
			assert.Equal(t, tt.wantTotal, body["total"])
			assert.Equal(t, tt.wantPage, body["page"])
			assert.Equal(t, tt.wantSize, body["page_size"])
		})
	}
}

func TestHandler_Accept(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		router, verifier := newTestRouter(t)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cargas/accept/c1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, verifier.Calls())
	})

	t.Run("unknown listing", func(t *testing.T) {
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/cargas/accept/nope", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Carga no encontrada"}`, rec.Body.String())
	})

	t.Run("accepted then gone", func(t *testing.T) {
		router, _ := newTestRouter(t)
		accept := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/cargas/accept/c7", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			return rec
		}

		rec := accept()
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Message string         `json:"message"`
			Envio   map[string]any `json:"envio"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Carga aceptada", body.Message)
		assert.Equal(t, "Madrid", body.Envio["origen"])
		assert.Equal(t, "Valencia", body.Envio["destino"])
		assert.Equal(t, "recogida_pendiente", body.Envio["estado"])
		assert.Equal(t, float64(5), body.Envio["progreso"])
		assert.Equal(t, "user-1", body.Envio["user_id"])

		assert.Equal(t, http.StatusNotFound, accept().Code)
	})
}
