package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

const maxChillLength = 500

// ChillService serves anonymous posts that live for ttl.
type ChillService struct {
	posts repositories.ChillRepository
	ttl   time.Duration
	now   func() time.Time
}

func NewChillService(posts repositories.ChillRepository, ttl time.Duration) *ChillService {
	return &ChillService{posts: posts, ttl: ttl, now: time.Now}
}

// CreateChillPost stores the post without its author.
func (s *ChillService) CreateChillPost(ctx context.Context, body string, mood *string) (models.ChillPost, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.ChillPost{}, apperr.EmptyMessage
	}
	if utf8.RuneCountInString(body) > maxChillLength {
		return models.ChillPost{}, apperr.InvalidInput.Withf("post is longer than %d characters", maxChillLength)
	}
	if mood != nil {
		trimmed := strings.TrimSpace(*mood)
		mood = &trimmed
		if trimmed == "" {
			mood = nil
		}
	}
	post, err := s.posts.CreateChillPost(ctx, body, mood)
	if err != nil {
		return models.ChillPost{}, fmt.Errorf("store chill post: %w", err)
	}
	return post, nil
}

// ListChillPosts returns unexpired posts, newest first.
func (s *ChillService) ListChillPosts(ctx context.Context) ([]models.ChillPost, error) {
	return s.posts.ListSince(ctx, s.now().Add(-s.ttl))
}
