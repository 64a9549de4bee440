package tracking

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"carga-platform/internal/domain"
	"carga-platform/internal/events"
	"carga-platform/pkg/metrics"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn wraps a websocket.Conn with a write mutex.
// gorilla/websocket allows one concurrent writer; this enforces that.
type safeConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *safeConn) close() { c.ws.Close() }

// ShipmentMessage is pushed to feed subscribers for every accepted listing.
type ShipmentMessage struct {
	Type      string          `json:"type"`
	ListingID string          `json:"listing_id"`
	Shipment  domain.Shipment `json:"envio"`
	TS        int64           `json:"ts"`
}

// Hub fans shipment updates out to every connected websocket client.
type Hub struct {
	mu      sync.RWMutex
	conns   map[*safeConn]struct{}
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHub creates a feed hub. m may be nil.
func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{conns: make(map[*safeConn]struct{}), logger: logger, metrics: m}
}

// Routes returns a chi.Router for the /ws mount point.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/envios", h.HandleWS)
	return r
}

// HandleWS upgrades the connection and subscribes it to the feed.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn := &safeConn{ws: ws}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.metrics.AddFeedSubscribers(1)
	h.logger.Debug("feed client connected", "remote", r.RemoteAddr)

	// Block until the client disconnects
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	h.metrics.AddFeedSubscribers(-1)
	conn.close()
	h.logger.Debug("feed client disconnected", "remote", r.RemoteAddr)
}

// Subscribers is the number of open feed connections.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast pushes msg to every subscriber. Safe for concurrent calls; each
// safeConn serialises its own writes.
func (h *Hub) Broadcast(msg ShipmentMessage) {
	h.mu.RLock()
	conns := make([]*safeConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			h.logger.Warn("feed write failed", "error", err)
		}
	}
}

// PublishListingAccepted lets the hub stand in for a broker in a single
// process deployment.
func (h *Hub) PublishListingAccepted(_ context.Context, ev events.ListingAcceptedEvent) error {
	h.Broadcast(messageFor(ev))
	return nil
}

func messageFor(ev events.ListingAcceptedEvent) ShipmentMessage {
	return ShipmentMessage{
		Type:      "listing.accepted",
		ListingID: ev.ListingID,
		Shipment:  ev.Shipment,
		TS:        ev.AcceptedAt.Unix(),
	}
}
