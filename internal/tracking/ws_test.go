package tracking

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carga-platform/internal/domain"
	"carga-platform/internal/events"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(slog.New(slog.DiscardHandler), nil)
	r := chi.NewRouter()
	r.Mount("/api/ws", hub.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/envios"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func acceptedEvent() events.ListingAcceptedEvent {
	return events.ListingAcceptedEvent{
		ListingID:  "c1",
		Shipment:   domain.Shipment{ID: "s-1", Origin: "Madrid", Destination: "Barcelona", Status: domain.StatusPickupPending, Progress: 5},
		AcceptedBy: "user-1",
		AcceptedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestHub_BroadcastsToEverySubscriber(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.PublishListingAccepted(context.Background(), acceptedEvent()))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg ShipmentMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "listing.accepted", msg.Type)
		assert.Equal(t, "c1", msg.ListingID)
		assert.Equal(t, "s-1", msg.Shipment.ID)
		assert.Equal(t, domain.StatusPickupPending, msg.Shipment.Status)
		assert.Equal(t, int64(1740823200), msg.TS)
	}
}

func TestHub_DropsClosedConnections(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(messageFor(acceptedEvent()))
}

func TestFeed_HandleRelaysEvents(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	feed := NewFeed(nil, hub, slog.New(slog.DiscardHandler))
	data, err := json.Marshal(acceptedEvent())
	require.NoError(t, err)
	require.NoError(t, feed.handle(data))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ShipmentMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "s-1", msg.Shipment.ID)

	assert.Error(t, feed.handle([]byte("not json")))
}
