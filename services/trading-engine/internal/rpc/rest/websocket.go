package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// ChannelOrderbook carries depth snapshots.
const ChannelOrderbook = "orderbook"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// SubscribeRequest is sent by clients to manage their channels.
type SubscribeRequest struct {
	Op       string   `json:"op"`
	Channels []string `json:"channels"`
}

// ChannelMessage is pushed to subscribed clients. Version grows with every
// book change, so clients can drop anything older than what they hold.
type ChannelMessage struct {
	Channel string `json:"channel"`
	Version uint64 `json:"version"`
	Data    any    `json:"data"`
}

// InitialFunc returns the message a client receives right after subscribing
// to channel, with the version it was taken at.
type InitialFunc func(channel string) (version uint64, data any, ok bool)

type versionedPayload struct {
	version uint64
	payload []byte
}

// Hub keeps the connected clients and fans channel messages out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	latest  map[string]versionedPayload
	closed  bool

	initial  InitialFunc
	origins  []string
	upgrader websocket.Upgrader
	logger   logger.Interface
}

var _ marketdatav1.DepthSink = (*Hub)(nil)

// NewHub creates a new Hub accepting browsers from allowedOrigins. initial may be nil.
func NewHub(initial InitialFunc, allowedOrigins []string, logger logger.Interface) *Hub {
	h := &Hub{
		clients: make(map[*Client]struct{}),
		latest:  make(map[string]versionedPayload),
		initial: initial,
		origins: allowedOrigins,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts clients that send no Origin header and browsers whose
// origin matches an allowed entry. An entry may hold one "*" wildcard.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
		prefix, suffix, ok := strings.Cut(strings.ToLower(allowed), "*")
		lower := strings.ToLower(origin)
		if ok && len(lower) >= len(prefix)+len(suffix) && strings.HasPrefix(lower, prefix) && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// PushDepth broadcasts depth to the orderbook channel.
func (h *Hub) PushDepth(_ context.Context, version uint64, depth orderbookv1.Depth) error {
	return h.publish(ChannelOrderbook, version, depth)
}

// publish sends data to every client subscribed to channel that has not seen
// version yet. Clients whose buffer is full miss the message.
func (h *Hub) publish(channel string, version uint64, data any) error {
	payload, err := json.Marshal(ChannelMessage{Channel: channel, Version: version, Data: data})
	if err != nil {
		return errors.NewTracer("ws_marshal_error").Wrap(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if last, ok := h.latest[channel]; !ok || version > last.version {
		h.latest[channel] = versionedPayload{version: version, payload: payload}
	}
	for client := range h.clients {
		if client.IsSubscribed(channel) {
			client.deliver(channel, versionedPayload{version: version, payload: payload})
		}
	}
	return nil
}

// Subscribers counts the clients subscribed to channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for client := range h.clients {
		if client.IsSubscribed(channel) {
			n++
		}
	}
	return n
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[client] = struct{}{}
	h.logger.Debug("WebSocket client connected",
		logger.NewField("client", client.id),
		logger.NewField("total", len(h.clients)),
	)
	return true
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Debug("WebSocket client disconnected",
			logger.NewField("client", client.id),
			logger.NewField("total", len(h.clients)),
		)
	}
}

// Client is one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	subsMu        sync.RWMutex
	subscriptions map[string]bool

	// seen holds the last version queued per channel, guarded by hub.mu.
	seen map[string]uint64
}

// IsSubscribed checks if client is subscribed to a channel
func (c *Client) IsSubscribed(channel string) bool {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	return c.subscriptions[channel]
}

func (c *Client) setSubscribed(channel string, on bool) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if on {
		c.subscriptions[channel] = true
		return
	}
	delete(c.subscriptions, channel)
}

// deliver queues msg unless the client already holds that version or a newer
// one. Callers must hold hub.mu.
func (c *Client) deliver(channel string, msg versionedPayload) {
	if seen, ok := c.seen[channel]; ok && msg.version <= seen {
		return
	}
	select {
	case c.send <- msg.payload:
		c.seen[channel] = msg.version
	default:
		c.hub.logger.Warn("Dropping message for slow client", logger.NewField("client", c.id))
	}
}

// subscribe turns channel on and queues the freshest message known for it:
// the initial snapshot, or the last published message when that is newer.
func (c *Client) subscribe(channel string) {
	var first *versionedPayload
	if c.hub.initial != nil {
		if version, data, ok := c.hub.initial(channel); ok {
			payload, err := json.Marshal(ChannelMessage{Channel: channel, Version: version, Data: data})
			if err == nil {
				first = &versionedPayload{version: version, payload: payload}
			}
		}
	}

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()

	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	c.setSubscribed(channel, true)

	if last, ok := c.hub.latest[channel]; ok && (first == nil || last.version >= first.version) {
		first = &last
	}
	if first != nil {
		c.deliver(channel, *first)
	}
}

func (c *Client) unsubscribe(channel string) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()

	c.setSubscribed(channel, false)
	delete(c.seen, channel)
}

// readPump handles subscription requests until the connection fails.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket read failed", logger.NewField("client", c.id), logger.NewField("error", err.Error()))
			}
			return
		}

		var req SubscribeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.hub.logger.Debug("Ignoring invalid WebSocket message", logger.NewField("client", c.id))
			continue
		}

		switch req.Op {
		case "subscribe":
			for _, channel := range req.Channels {
				c.subscribe(channel)
			}
		case "unsubscribe":
			for _, channel := range req.Channels {
				c.unsubscribe(channel)
			}
		default:
			c.hub.logger.Debug("Unknown WebSocket op", logger.NewField("client", c.id), logger.NewField("op", req.Op))
		}
	}
}

// writePump writes queued messages, one per frame, and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeHTTP upgrades the request and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	client := &Client{
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		id:            uuid.NewString(),
		subscriptions: make(map[string]bool),
		seen:          make(map[string]uint64),
	}
	if !h.register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeHTTP(w, r)
}
