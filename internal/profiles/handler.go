package profiles

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carga-platform/pkg/identity"
	"carga-platform/pkg/validation"
)

// Handler exposes the /auth endpoints.
type Handler struct {
	svc    *Service
	auth   *identity.Middleware
	logger *slog.Logger
}

// NewHandler wires a handler to the profile service.
func NewHandler(svc *Service, auth *identity.Middleware, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, logger: logger}
}

// Routes returns a chi.Router for the /auth mount point. Every route needs a
// verified token.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.auth.RequireAuth)
	r.Get("/me", h.Me)
	r.Post("/profile", h.Upsert)
	return r
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Me(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		h.logger.Error("get profile failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la petición inválido"})
		return
	}

	p, created, err := h.svc.Upsert(r.Context(), identity.FromContext(r.Context()), in)
	if validation.Is(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("upsert profile failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor"})
		return
	}

	msg := "Perfil actualizado"
	if created {
		msg = "Perfil creado"
	}
	writeJSON(w, http.StatusOK, UpsertResponse{Message: msg, Profile: p})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
