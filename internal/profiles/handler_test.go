package profiles

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/store"
	"carga-platform/pkg/identity"
)

func newTestHandler() (http.Handler, *identity.StaticVerifier) {
	logger := slog.New(slog.DiscardHandler)
	verifier := identity.NewStaticVerifier(map[string]*identity.Identity{"good": caller})
	auth := identity.NewMiddleware(verifier, logger, nil)
	return NewHandler(NewService(store.NewMemory(), logger), auth, logger).Routes(), verifier
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequiresToken(t *testing.T) {
	h, verifier := newTestHandler()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/profile"},
	} {
		rec := do(h, tc.method, tc.path, "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	assert.Zero(t, verifier.Calls())

	rec := do(h, http.MethodGet, "/me", "expired", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token inválido o expirado"}`, rec.Body.String())
}

func TestHandler_MeAndUpsert(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(h, http.MethodGet, "/me", "good", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Nil(t, me["profile"])
	assert.Equal(t, "user-1", me["user"].(map[string]any)["id"])

	rec = do(h, http.MethodPost, "/profile", "good", `{"full_name":"Ana","company":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created UpsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Perfil creado", created.Message)
	assert.Equal(t, "Ana", created.Profile.FullName)

	rec = do(h, http.MethodPost, "/profile", "good", `{"user_type":"both"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated UpsertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Perfil actualizado", updated.Message)
	assert.Equal(t, "Acme", updated.Profile.Company)
	assert.Equal(t, "both", string(updated.Profile.AccountType))

	rec = do(h, http.MethodGet, "/me", "good", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Ana", me["profile"].(map[string]any)["full_name"])
}

func TestHandler_UpsertBadInput(t *testing.T) {
	h, _ := newTestHandler()

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/profile", "good", `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/profile", "good", `{"user_type":"pirate"}`).Code)
}
