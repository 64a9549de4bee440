package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"carga-platform/pkg/identity"
)

// Handler serves POST /api/chat. Wrap it with OptionalAuth; the identity is
// only logged.
type Handler struct {
	responder *Responder
	logger    *slog.Logger
}

func NewHandler(r *Responder, logger *slog.Logger) *Handler {
	return &Handler{responder: r, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// An unreadable body is answered like an empty message.
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("chat body ignored", "error", err)
		req = Request{}
	}

	reply, err := h.responder.Respond(r.Context(), req)
	if err != nil {
		h.logger.Error("chat failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor"})
		return
	}

	caller := "anonymous"
	if id := identity.FromContext(r.Context()); id != nil {
		caller = id.ID
	}
	h.logger.Debug("chat answered", "caller", caller, "session_id", reply.SessionID, "matches", len(reply.Listings))

	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
