package models

import "time"

// Message is a direct message. Only Read changes after creation.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"senderId"`
	ReceiverID int64     `db:"receiver_id" json:"receiverId"`
	Body       string    `db:"body" json:"body"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// GossipMessage is a message in the public gossip room.
type GossipMessage struct {
	ID            int64     `db:"id" json:"id"`
	SenderID      int64     `db:"sender_id" json:"senderId"`
	Body          string    `db:"body" json:"body"`
	DeletedForAll bool      `db:"deleted_for_all" json:"deletedForAll"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// ChillPost is an anonymous post that expires after a day.
type ChillPost struct {
	ID        int64     `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	Mood      *string   `db:"mood" json:"mood,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
