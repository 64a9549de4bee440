// Package chat answers free-text questions about listings with canned,
// keyword-triggered replies.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
)

// SearchLimit is the number of listings a message is matched against.
const SearchLimit = 100

const (
	greetingText = "¡Hola! Puedes preguntarme sobre cargas por ciudad (Madrid, Barcelona, Valencia) o tipo (urgente, frigorífico, etc.)."
	fallbackText = "Puedo ayudarte a encontrar cargas. Prueba preguntando por una ciudad o tipo de carga."
)

// SuggestedActions are offered after every reply.
var SuggestedActions = []string{"Ver mapa", "Filtrar cargas"}

// Request is the body of POST /api/chat.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Reply is the body returned by POST /api/chat.
type Reply struct {
	Response         string           `json:"response"`
	Listings         []domain.Listing `json:"cargas_encontradas"`
	SessionID        string           `json:"session_id"`
	SuggestedActions []string         `json:"suggested_actions"`
}

// rule fires when the lower-cased message contains any keyword. A nil match
// means the rule answers without listings.
type rule struct {
	keywords []string
	match    func(domain.Listing) bool
	reply    func(n int) string
}

var rules = []rule{
	{
		keywords: []string{"madrid", "barcelona"},
		match:    touchesCity("madrid", "barcelona"),
		reply:    func(n int) string { return fmt.Sprintf("He encontrado %d cargas relacionadas con Madrid/Barcelona:", n) },
	},
	{
		keywords: []string{"valencia"},
		match:    touchesCity("valencia"),
		reply:    func(n int) string { return fmt.Sprintf("He encontrado %d cargas relacionadas con Valencia:", n) },
	},
	{
		keywords: []string{"urgente"},
		match:    func(l domain.Listing) bool { return l.Category == domain.CategoryUrgent },
		reply:    func(n int) string { return fmt.Sprintf("Hay %d cargas urgentes disponibles:", n) },
	},
	{
		keywords: []string{"hola", "ayuda"},
		reply:    func(int) string { return greetingText },
	},
}

func touchesCity(cities ...string) func(domain.Listing) bool {
	return func(l domain.Listing) bool {
		origin, dest := strings.ToLower(l.Origin), strings.ToLower(l.Destination)
		for _, c := range cities {
			if strings.Contains(origin, c) || strings.Contains(dest, c) {
				return true
			}
		}
		return false
	}
}

// Responder classifies messages. It keeps no state between calls.
type Responder struct {
	store store.ListingStore
}

func NewResponder(s store.ListingStore) *Responder { return &Responder{store: s} }

// Respond applies the first rule whose keyword appears in the message. A
// missing session id is replaced with a fresh one.
func (r *Responder) Respond(ctx context.Context, req Request) (*Reply, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	listings, err := r.store.FindListings(ctx, store.ListingFilter{}, 0, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	reply := &Reply{
		Response:         fallbackText,
		Listings:         []domain.Listing{},
		SessionID:        sessionID,
		SuggestedActions: append([]string(nil), SuggestedActions...),
	}

	msg := strings.ToLower(req.Message)
	for _, rl := range rules {
		if !containsAny(msg, rl.keywords) {
			continue
		}
		if rl.match != nil {
			for _, l := range listings {
				if rl.match(l) {
					reply.Listings = append(reply.Listings, l)
				}
			}
		}
		reply.Response = rl.reply(len(reply.Listings))
		break
	}
	return reply, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
