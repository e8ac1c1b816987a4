package sdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
)

// FetchFunc executes one probe with a candidate hash.
type FetchFunc func(ctx context.Context, hash string) (json.RawMessage, error)

// HashDiscoveryExhaustedError reports that no candidate hash produced a
// usable payload. Callers degrade to empty data rather than failing the
// whole response.
type HashDiscoveryExhaustedError struct {
	Sport     string
	Kind      sources.QueryKind
	Attempted []string
}

func (e *HashDiscoveryExhaustedError) Error() string {
	return fmt.Sprintf("no usable %s hash for %s after %d candidates", e.Kind, e.Sport, len(e.Attempted))
}

// ResolveHash probes the candidate hashes for (sport, kind) in order and
// returns the first one whose payload is non-empty and carries the kind's
// expected __typename. An empty or mistyped payload moves discovery to the
// next candidate; a transport error aborts it. Every call starts from the
// first candidate; the response cache in front keeps repeat discovery rare.
func ResolveHash(ctx context.Context, sport string, kind sources.QueryKind, fetch FetchFunc) (string, json.RawMessage, error) {
	candidates := sources.HashCandidates(sport, kind)
	attempted := make([]string, 0, len(candidates))

	for _, hash := range candidates {
		attempted = append(attempted, hash)
		metrics.HashProbes.WithLabelValues(string(kind)).Inc()

		payload, err := fetch(ctx, hash)
		if err != nil {
			return "", nil, fmt.Errorf("probing %s hash %s: %w", kind, shortHash(hash), err)
		}
		if Usable(payload, kind) {
			return hash, payload, nil
		}
		log.Printf("[sdata] %s %s: hash %s unusable, trying next candidate", sport, kind, shortHash(hash))
	}

	return "", nil, &HashDiscoveryExhaustedError{Sport: sport, Kind: kind, Attempted: attempted}
}

// Usable reports whether a payload is non-empty and tagged with the kind's
// expected __typename discriminator.
func Usable(payload json.RawMessage, kind sources.QueryKind) bool {
	if emptyPayload(payload) {
		return false
	}
	var decoded interface{}
	if err := json.Unmarshal(bytes.TrimSpace(payload), &decoded); err != nil {
		return false
	}
	return typenameMatches(decoded, kind.Typename(), 3)
}

// typenameMatches looks for a __typename tag in the payload's outer layers.
// Responses tag either the root object or the first nested collection.
func typenameMatches(node interface{}, want string, depth int) bool {
	if depth < 0 {
		return false
	}
	switch v := node.(type) {
	case map[string]interface{}:
		if tag, ok := v["__typename"].(string); ok {
			return tag == want
		}
		for _, child := range v {
			if typenameMatches(child, want, depth-1) {
				return true
			}
		}
	case []interface{}:
		if len(v) > 0 {
			return typenameMatches(v[0], want, depth-1)
		}
	}
	return false
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
