package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/live"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is handled by the CORS middleware on the router
		return true
	},
}

// HandleLive upgrades the connection and streams scoreboard snapshots for
// the board named by the sport and division query parameters. Boards not
// covered by the poller are rejected before the upgrade.
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	sub := models.Subscription{
		Sport:    r.URL.Query().Get("sport"),
		Division: r.URL.Query().Get("division"),
	}
	if !h.hub.Subscribable(sub) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("board %s/%s is not being polled", sub.Sport, sub.Division), nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] websocket upgrade failed: %v", err)
		return
	}

	client := live.NewClient(uuid.New().String(), conn, h.hub, sub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
