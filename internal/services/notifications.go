package services

import (
	"context"
	"errors"
	"fmt"

	"connectibles/internal/apperr"
	"connectibles/internal/jobs"
	"connectibles/internal/models"
	"connectibles/internal/push"
	"connectibles/internal/repositories"
)

// NotificationService stores notifications and fans them out to the
// socket hub and APNs.
type NotificationService struct {
	repo       repositories.NotificationRepository
	users      repositories.UserRepository
	hub        Broadcaster
	pusher     push.Pusher
	dispatcher jobs.Dispatcher
}

func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository, hub Broadcaster, pusher push.Pusher, dispatcher jobs.Dispatcher) *NotificationService {
	return &NotificationService{repo: repo, users: users, hub: hub, pusher: pusher, dispatcher: dispatcher}
}

// Notify schedules delivery and returns immediately. Failures are logged by
// the dispatcher and never reach the caller.
func (s *NotificationService) Notify(userID int64, kind string, message string, relatedUserID *int64) {
	s.dispatcher.Go("notify."+kind, func(ctx context.Context) error {
		n, err := s.repo.CreateNotification(ctx, models.Notification{
			UserID:        userID,
			Type:          kind,
			Message:       message,
			RelatedUserID: relatedUserID,
		})
		if err != nil {
			return fmt.Errorf("store notification: %w", err)
		}
		s.hub.SendToUser(userID, models.Event{Type: models.EventNotification, Notification: &n})

		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load push token: %w", err)
		}
		if user.PushToken == nil {
			return nil
		}
		return s.pusher.Push(ctx, *user.PushToken, n)
	})
}

// List returns nothing for anonymous callers.
func (s *NotificationService) List(ctx context.Context, viewerID int64) ([]models.Notification, error) {
	if viewerID == 0 {
		return []models.Notification{}, nil
	}
	return s.repo.ListForUser(ctx, viewerID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, viewerID int64) (int, error) {
	if viewerID == 0 {
		return 0, nil
	}
	return s.repo.CountUnread(ctx, viewerID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return notFound(s.repo.MarkRead(ctx, notificationID, userID))
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID int64) error {
	return notFound(s.repo.DeleteNotification(ctx, notificationID, userID))
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperr.NotFound.Withf("notification not found")
	}
	return err
}
