package models

import "time"

// ConnectionStatus is the state of an ordered (sender, receiver) relationship.
type ConnectionStatus string

const (
	ConnectionWaved    ConnectionStatus = "waved"
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// ConnectionRequest is unique per ordered (sender, receiver) pair.
type ConnectionRequest struct {
	ID         int64            `db:"id" json:"id"`
	SenderID   int64            `db:"sender_id" json:"senderId"`
	ReceiverID int64            `db:"receiver_id" json:"receiverId"`
	Status     ConnectionStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// ConnectionState summarises the relationship between the caller and another user.
type ConnectionState struct {
	Connected bool               `json:"connected"`
	Outgoing  *ConnectionRequest `json:"outgoing,omitempty"`
	Incoming  *ConnectionRequest `json:"incoming,omitempty"`
}
