package live

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 256
)

// Client is one live websocket connection. It watches a single board and
// can switch boards by sending a new subscription.
type Client struct {
	ID   string
	Send chan models.ServerMessage

	conn  *websocket.Conn
	hub   Registry
	sub   models.Subscription
	subMu sync.RWMutex
}

// Registry is the slice of the hub a client needs.
type Registry interface {
	Unregister(c *Client)
	Subscribable(sub models.Subscription) bool
}

// NewClient wraps an upgraded connection watching the given board.
func NewClient(id string, conn *websocket.Conn, hub Registry, sub models.Subscription) *Client {
	return &Client{
		ID:   id,
		Send: make(chan models.ServerMessage, sendBufferSize),
		conn: conn,
		hub:  hub,
		sub:  sub,
	}
}

// Subscription returns the board the client currently watches.
func (c *Client) Subscription() models.Subscription {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return c.sub
}

// ReadPump consumes subscription changes from the peer and keeps the read
// deadline fed. It exits on any read error, unregistering the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var sub models.Subscription
		if err := c.conn.ReadJSON(&sub); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[live] client %s unexpected close: %v", c.ID, err)
			}
			return
		}
		c.resubscribe(sub)
	}
}

// WritePump pushes hub messages and pings to the peer. It exits when the
// hub closes Send or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[live] client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. False means the buffer is full
// and the client is too slow to keep.
func (c *Client) TrySend(msg models.ServerMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) resubscribe(sub models.Subscription) {
	if !c.hub.Subscribable(sub) {
		c.TrySend(models.ServerMessage{
			Type:      models.MessageTypeError,
			Payload:   map[string]string{"error": "unknown board " + sub.Sport + "/" + sub.Division},
			Timestamp: time.Now(),
		})
		return
	}

	c.subMu.Lock()
	c.sub = sub
	c.subMu.Unlock()

	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeSubscribed,
		Payload:   sub,
		Timestamp: time.Now(),
	})
	log.Printf("[live] client %s watching %s/%s", c.ID, sub.Sport, sub.Division)
}
