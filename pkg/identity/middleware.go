package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"carga-platform/pkg/metrics"
)

const (
	msgMissingToken = "No se proporcionó token de autenticación"
	msgInvalidToken = "Token inválido o expirado"
	msgUnavailable  = "Error de conexión con el servicio de autenticación"
)

// Middleware gates handlers on a verified bearer token.
type Middleware struct {
	verifier Verifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewMiddleware builds the auth gate. m may be nil.
func NewMiddleware(v Verifier, logger *slog.Logger, m *metrics.Metrics) *Middleware {
	return &Middleware{verifier: v, logger: logger, metrics: m}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or ""
// when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// RequireAuth rejects the request unless the token verifies. The verified
// identity is available to next through FromContext.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.verify(r)
		if err != nil {
			m.reject(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// OptionalAuth attaches the identity when the token verifies and passes the
// request through anonymously on any failure.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := m.verify(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) verify(r *http.Request) (*Identity, error) {
	token := BearerToken(r)
	if token == "" {
		m.metrics.RecordIdentityVerification("unauthenticated")
		return nil, ErrUnauthenticated
	}
	id, err := m.verifier.Verify(r.Context(), token)
	m.metrics.RecordIdentityVerification(outcome(err))
	return id, err
}

func (m *Middleware) reject(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	case errors.Is(err, ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, msgMissingToken)
	case errors.Is(err, ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		m.logger.Error("identity verification failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "abandoned"
	default:
		return "invalid"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
