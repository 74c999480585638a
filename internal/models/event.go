package models

// Event is pushed to clients over the /ws channel.
type Event struct {
	Type         string            `json:"type"`
	Message      *Message          `json:"message,omitempty"`
	Gossip       *GossipMessage    `json:"gossip,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Game         *GameSession      `json:"game,omitempty"`
	TruthDare    *TruthDareSession `json:"truthDare,omitempty"`
	MessageID    int64             `json:"messageId,omitempty"`
}

const (
	EventMessage      = "message"
	EventNotification = "notification"
	EventGossip       = "gossip"
	EventGossipDelete = "gossip_delete"
	EventGame         = "game"
	EventTruthDare    = "truth_dare"
)
