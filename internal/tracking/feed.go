package tracking

import (
	"context"
	"encoding/json"
	"log/slog"

	"carga-platform/internal/events"
	"carga-platform/pkg/kafka"
)

const feedGroup = "shipment-feed"

// Feed consumes listing.accepted and relays each event to the hub, so every
// API instance's websocket clients see acceptances made on any instance.
type Feed struct {
	kafka  *kafka.Client
	hub    *Hub
	logger *slog.Logger
}

// NewFeed creates a new feed consumer.
func NewFeed(k *kafka.Client, hub *Hub, logger *slog.Logger) *Feed {
	return &Feed{kafka: k, hub: hub, logger: logger}
}

// Start begins consuming listing.accepted in a background goroutine.
func (f *Feed) Start(ctx context.Context, instanceID string) {
	// Each instance needs every event, so each gets its own group.
	f.kafka.Subscribe(ctx, kafka.TopicListingAccepted, feedGroup+"-"+instanceID, f.handle)
}

func (f *Feed) handle(data []byte) error {
	var ev events.ListingAcceptedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	f.logger.Debug("listing.accepted received", "listing_id", ev.ListingID, "shipment_id", ev.Shipment.ID)
	f.hub.Broadcast(messageFor(ev))
	return nil
}
