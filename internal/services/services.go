// Package services holds the application operations. Every exported method
// returns either nil, an *apperr.Error the client can act on, or a wrapped
// infrastructure error that handlers render as INTERNAL.
package services

import (
	"context"
	"errors"
	"fmt"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

// Broadcaster pushes live events to connected clients.
type Broadcaster interface {
	SendToUser(userID int64, event models.Event)
	Broadcast(event models.Event)
}

// Notifier creates notifications as deferred side effects.
type Notifier interface {
	Notify(userID int64, kind string, message string, relatedUserID *int64)
}

// loadUser maps the repository sentinel to USER_NOT_FOUND.
func loadUser(ctx context.Context, users repositories.UserRepository, userID int64) (models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, apperr.UserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user %d: %w", userID, err)
	}
	return user, nil
}

// eitherBlocked reports whether a or b blocked the other.
func eitherBlocked(a, b models.User) bool {
	return a.HasBlocked(b.ID) || b.HasBlocked(a.ID)
}

func displayName(u models.User) string {
	if u.Name == "" {
		return "Someone"
	}
	return u.Name
}

func publicProfiles(users []models.User) []models.PublicProfile {
	out := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
