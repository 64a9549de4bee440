// Package events defines the domain events the API emits.
package events

import (
	"context"
	"time"

	"carga-platform/internal/domain"
)

// ListingAcceptedEvent is published to listing.accepted once a listing has
// been converted into a shipment.
type ListingAcceptedEvent struct {
	ListingID  string          `json:"listing_id"`
	Shipment   domain.Shipment `json:"envio"`
	AcceptedBy string          `json:"accepted_by"`
	AcceptedAt time.Time       `json:"accepted_at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishListingAccepted(ctx context.Context, ev ListingAcceptedEvent) error
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) PublishListingAccepted(context.Context, ListingAcceptedEvent) error { return nil }
