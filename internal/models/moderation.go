package models

import "time"

// UserReport is append-only and unique per (reporter, reported user).
type UserReport struct {
	ID             int64     `db:"id" json:"id"`
	ReporterID     int64     `db:"reporter_id" json:"reporterId"`
	ReportedUserID int64     `db:"reported_user_id" json:"reportedUserId"`
	Reason         *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Notification types.
const (
	NotificationWave               = "wave"
	NotificationConnectionRequest  = "connection_request"
	NotificationConnectionAccepted = "connection_accepted"
	NotificationMessage            = "message"
	NotificationWarning            = "warning"
	NotificationBan                = "ban"
	NotificationGameInvite         = "game_invite"
)

type Notification struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"userId"`
	Type          string    `db:"type" json:"type"`
	Message       string    `db:"message" json:"message"`
	RelatedUserID *int64    `db:"related_user_id" json:"relatedUserId,omitempty"`
	Read          bool      `db:"read" json:"read"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
