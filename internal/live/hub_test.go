package live

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

var (
	footballBoard = models.Subscription{Sport: "football", Division: "fbs"}
	hoopsBoard    = models.Subscription{Sport: "basketball-men", Division: "d1"}
)

func startHub(t *testing.T, boards ...models.Subscription) *Hub {
	t.Helper()
	hub := NewHub(boards)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) models.ServerMessage {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message within 1s")
		return models.ServerMessage{}
	}
}

func TestHubBroadcastsToWatchingClientsOnly(t *testing.T) {
	hub := startHub(t, footballBoard, hoopsBoard)

	watching := NewClient("a", nil, hub, footballBoard)
	other := NewClient("b", nil, hub, hoopsBoard)
	hub.Register(watching)
	hub.Register(other)

	payload := json.RawMessage(`{"games":[]}`)
	hub.Broadcast(Update{Board: footballBoard, Payload: payload})

	msg := receive(t, watching)
	if msg.Type != models.MessageTypeScoreboard {
		t.Errorf("type = %q", msg.Type)
	}
	if string(msg.Payload.(json.RawMessage)) != string(payload) {
		t.Errorf("payload = %v", msg.Payload)
	}

	select {
	case msg := <-other.Send:
		t.Errorf("client on another board received %v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDisconnectsSlowClient(t *testing.T) {
	hub := startHub(t, footballBoard)

	slow := NewClient("slow", nil, hub, footballBoard)
	hub.Register(slow)

	for slow.TrySend(models.ServerMessage{Type: models.MessageTypeScoreboard}) {
	}
	hub.Broadcast(Update{Board: footballBoard, Payload: json.RawMessage(`{}`)})

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client still registered after 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSubscribable(t *testing.T) {
	hub := NewHub([]models.Subscription{footballBoard})

	if !hub.Subscribable(footballBoard) {
		t.Error("configured board not subscribable")
	}
	if hub.Subscribable(hoopsBoard) {
		t.Error("unconfigured board subscribable")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t, footballBoard)

	c := NewClient("a", nil, hub, footballBoard)
	hub.Register(c)
	hub.Unregister(c)

	deadline := time.Now().Add(time.Second)
	for {
		select {
		case _, ok := <-c.Send:
			if !ok {
				return
			}
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("send channel still open after 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
