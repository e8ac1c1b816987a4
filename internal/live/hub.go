// Package live pushes scoreboard changes to websocket clients. A poller
// feeds the hub through the same cached resolution path the HTTP handlers
// use, so live traffic never adds upstream load.
package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// Update pairs a scoreboard payload with the board it belongs to.
type Update struct {
	Board   models.Subscription
	Payload json.RawMessage
}

// Hub maintains the set of active clients and fans updates out to the ones
// watching the updated board.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	boards map[models.Subscription]bool

	broadcast  chan Update
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub serving the given boards.
func NewHub(boards []models.Subscription) *Hub {
	allowed := make(map[models.Subscription]bool, len(boards))
	for _, board := range boards {
		allowed[board] = true
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		boards:     allowed,
		broadcast:  make(chan Update, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Subscribable reports whether the hub polls the given board.
func (h *Hub) Subscribable(sub models.Subscription) bool {
	return h.boards[sub]
}

// Boards returns the boards the hub serves.
func (h *Hub) Boards() []models.Subscription {
	out := make([]models.Subscription, 0, len(h.boards))
	for board := range h.boards {
		out = append(out, board)
	}
	return out
}

// Broadcast queues an update without blocking the poller.
func (h *Hub) Broadcast(update Update) {
	select {
	case h.broadcast <- update:
	default:
		log.Printf("[live] broadcast buffer full, dropping %s/%s update", update.Board.Sport, update.Board.Division)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	metrics.LiveClients.Inc()
	log.Printf("[live] client %s connected (total: %d)", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		metrics.LiveClients.Dec()
		log.Printf("[live] client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastUpdate(update Update) {
	h.clientsMu.RLock()
	watching := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.Subscription() == update.Board {
			watching = append(watching, c)
		}
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeScoreboard,
		Payload:   update.Payload,
		Timestamp: time.Now(),
	}
	for _, c := range watching {
		if !c.TrySend(message) {
			// Buffer full means the peer stopped reading. Drop it rather
			// than hold everyone else's updates.
			log.Printf("[live] client %s buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Printf("[live] shutting down hub (%d active clients)", len(h.clients))
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
		metrics.LiveClients.Dec()
	}
}
