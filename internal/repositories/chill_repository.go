package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"connectibles/internal/models"
)

// ChillRepository stores anonymous chill posts.
type ChillRepository interface {
	CreateChillPost(ctx context.Context, body string, mood *string) (models.ChillPost, error)
	ListSince(ctx context.Context, since time.Time) ([]models.ChillPost, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ChillRepo struct {
	db *sqlx.DB
}

func NewChillRepo(db *sqlx.DB) *ChillRepo {
	return &ChillRepo{db: db}
}

func (r *ChillRepo) CreateChillPost(ctx context.Context, body string, mood *string) (models.ChillPost, error) {
	var post models.ChillPost
	err := r.db.GetContext(ctx, &post, `INSERT INTO chill_posts (body, mood) VALUES ($1, $2) RETURNING id, body, mood, created_at`, body, mood)
	return post, err
}

// ListSince returns posts created after since, newest first.
func (r *ChillRepo) ListSince(ctx context.Context, since time.Time) ([]models.ChillPost, error) {
	posts := make([]models.ChillPost, 0)
	err := r.db.SelectContext(ctx, &posts, `SELECT id, body, mood, created_at FROM chill_posts WHERE created_at > $1 ORDER BY created_at DESC, id DESC`, since)
	return posts, err
}

func (r *ChillRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chill_posts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
