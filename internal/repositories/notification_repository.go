package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

const notificationColumns = `id, user_id, type, message, related_user_id, read, created_at`

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, notificationID int64, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, notificationID int64, userID int64) error
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)
}

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	var created models.Notification
	err := r.db.GetContext(ctx, &created, `INSERT INTO notifications (user_id, type, message, related_user_id)
        VALUES ($1, $2, $3, $4) RETURNING `+notificationColumns, n.UserID, n.Type, n.Message, n.RelatedUserID)
	return created, err
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	list := make([]models.Notification, 0)
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	return list, err
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read = FALSE`, userID)
	return count, err
}

// MarkRead only touches notifications owned by userID.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID int64, userID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id=$1 AND user_id=$2`, notificationID, userID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrNotificationNotFound)
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id=$1 AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepo) DeleteNotification(ctx context.Context, notificationID int64, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id=$1 AND user_id=$2`, notificationID, userID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrNotificationNotFound)
}

func (r *NotificationRepo) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
