package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Conn is the subset of *websocket.Conn the hub needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

type delivery struct {
	room string
	data []byte
}

// Hub fans events out to dashboard clients grouped in one room per merchant.
type Hub struct {
	rooms      map[string]map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *zap.Logger
}

type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte
	room string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		deliver:    make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

var _ ports.Broadcaster = (*Hub)(nil)

// Run owns the room map until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()
			telemetry.WebsocketConnections.Inc()

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			h.mu.RLock()
			var slow []*Client
			for client := range h.rooms[d.room] {
				select {
				case client.send <- d.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				h.log.Warn("Dropping slow websocket client", zap.String("merchant_id", client.room))
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[client.room]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
	}
	telemetry.WebsocketConnections.Dec()
}

// SendToUser queues message for every client in the merchant's room. It never blocks.
func (h *Hub) SendToUser(merchantID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("Failed to encode websocket message", zap.Error(err))
		return
	}
	select {
	case h.deliver <- delivery{room: merchantID, data: data}:
	default:
		h.log.Warn("Websocket delivery queue full, dropping message", zap.String("merchant_id", merchantID))
	}
}

// Connections returns the number of clients in a merchant's room.
func (h *Hub) Connections(merchantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[merchantID])
}

// Serve registers conn in the merchant's room and blocks until it disconnects.
func (h *Hub) Serve(conn Conn, merchantID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), room: merchantID}
	h.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients only push control frames; anything else is ignored.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

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
