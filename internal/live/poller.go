package live

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// Scores is the slice of the scoreboard service the poller needs.
type Scores interface {
	Get(ctx context.Context, req sources.Request, urlKeys ...string) (json.RawMessage, error)
}

// Poller fetches each watched board on an interval and broadcasts when its
// games change. Fetches go through the shared resolver, so a poll that lands
// inside the TTL is a cache read, not upstream traffic.
type Poller struct {
	hub      *Hub
	scores   Scores
	interval time.Duration
	last     map[models.Subscription]string
}

// NewPoller creates a poller feeding the hub.
func NewPoller(hub *Hub, scores Scores, interval time.Duration) *Poller {
	return &Poller{
		hub:      hub,
		scores:   scores,
		interval: interval,
		last:     make(map[models.Subscription]string),
	}
}

// Run polls until ctx ends. The first pass runs immediately so freshly
// started servers push state within one interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	for _, board := range p.hub.Boards() {
		payload, err := p.scores.Get(ctx, sources.Request{Sport: board.Sport, Division: board.Division})
		if err != nil {
			log.Printf("[live] polling %s/%s: %v", board.Sport, board.Division, err)
			continue
		}

		fp := fingerprint(payload)
		if p.last[board] == fp {
			continue
		}
		p.last[board] = fp
		p.hub.Broadcast(Update{Board: board, Payload: payload})
	}
}

// fingerprint digests the games alone. The response restamps updated_at and
// inputMD5Sum on every upstream fetch, so hashing the raw bytes would
// broadcast on every cache rotation even when no score moved.
func fingerprint(payload json.RawMessage) string {
	var sb models.Scoreboard
	if err := json.Unmarshal(payload, &sb); err != nil {
		sum := md5.Sum(payload)
		return hex.EncodeToString(sum[:])
	}
	sb.Updated = ""
	sb.InputMD5Sum = ""

	data, err := json.Marshal(sb)
	if err != nil {
		sum := md5.Sum(payload)
		return hex.EncodeToString(sum[:])
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
