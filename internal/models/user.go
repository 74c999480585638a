package models

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// User is a student profile. Interests and skills are stored exactly as
// submitted, duplicates included.
type User struct {
	ID           int64          `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Name         string         `db:"name" json:"name"`
	Bio          string         `db:"bio" json:"bio"`
	Interests    pq.StringArray `db:"interests" json:"interests"`
	Skills       pq.StringArray `db:"skills" json:"skills"`
	Location     string         `db:"location" json:"location"`
	AvatarURL    string         `db:"avatar_url" json:"avatarUrl"`
	Connections  pq.Int64Array  `db:"connections" json:"connections"`
	BlockedUsers pq.Int64Array  `db:"blocked_users" json:"blockedUsers"`
	IsBanned     bool           `db:"is_banned" json:"isBanned"`
	PushToken    *string        `db:"push_token" json:"-"`
	LastActive   time.Time      `db:"last_active" json:"lastActive"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// IsConnectedTo reports whether other is in the user's connections list.
func (u User) IsConnectedTo(other int64) bool {
	return slices.Contains(u.Connections, other)
}

// HasBlocked reports whether the user blocked other.
func (u User) HasBlocked(other int64) bool {
	return slices.Contains(u.BlockedUsers, other)
}

// PublicProfile is the view of a user other students see.
type PublicProfile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio"`
	Interests  []string  `json:"interests"`
	Skills     []string  `json:"skills"`
	Location   string    `json:"location"`
	AvatarURL  string    `json:"avatarUrl"`
	LastActive time.Time `json:"lastActive"`
}

// Public strips private fields.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Name:       u.Name,
		Bio:        u.Bio,
		Interests:  u.Interests,
		Skills:     u.Skills,
		Location:   u.Location,
		AvatarURL:  u.AvatarURL,
		LastActive: u.LastActive,
	}
}

// ProfileUpdate carries optional profile edits; nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string   `json:"name" binding:"omitempty,max=80"`
	Bio       *string   `json:"bio" binding:"omitempty,max=500"`
	Interests *[]string `json:"interests" binding:"omitempty,max=30"`
	Skills    *[]string `json:"skills" binding:"omitempty,max=30"`
	Location  *string   `json:"location" binding:"omitempty,max=120"`
}

// Match is a ranked matching candidate.
type Match struct {
	User            PublicProfile `json:"user"`
	Score           int           `json:"score"`
	SharedInterests []string      `json:"sharedInterests"`
}
