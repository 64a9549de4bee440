package listings

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carga-platform/pkg/identity"
	"carga-platform/pkg/validation"
)

// Handler exposes listing HTTP endpoints.
type Handler struct {
	svc    *Service
	auth   *identity.Middleware
	logger *slog.Logger
}

// NewHandler wires a handler to the listing service.
func NewHandler(svc *Service, auth *identity.Middleware, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, auth: auth, logger: logger}
}

// Routes returns a chi.Router for the /cargas mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.With(h.auth.RequireAuth).Post("/accept/{id}", h.Accept)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.svc.Accept(r.Context(), chi.URLParam(r, "id"), identity.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AcceptResponse{Message: "Carga aceptada", Shipment: shipment})
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	v := r.URL.Query()
	q := ListQuery{Category: v.Get("tipo"), Page: DefaultPage, PageSize: DefaultPageSize}

	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, validation.New("page", "integer", "")
		}
		q.Page = n
	}
	if raw := v.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, validation.New("page_size", "integer", "")
		}
		q.PageSize = n
	}
	return q, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case validation.Is(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrListingNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Carga no encontrada"})
	case errors.Is(err, identity.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No se proporcionó token de autenticación"})
	default:
		h.logger.Error("listing request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
