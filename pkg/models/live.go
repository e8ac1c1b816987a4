package models

import "time"

// MessageType identifies websocket message payloads.
type MessageType string

const (
	MessageTypeScoreboard MessageType = "scoreboard"
	MessageTypeSubscribed MessageType = "subscribed"
	MessageTypeError      MessageType = "error"
)

// ServerMessage is the envelope pushed to live websocket clients.
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Subscription selects which scoreboard a live client receives.
type Subscription struct {
	Sport    string `json:"sport"`
	Division string `json:"division"`
}
