package services

import (
	"context"
	"fmt"

	"connectibles/internal/matching"
	"connectibles/internal/models"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

type MatchService struct {
	users repositories.UserRepository
}

func NewMatchService(users repositories.UserRepository) *MatchService {
	return &MatchService{users: users}
}

// FindMatches ranks every other user against the viewer's interests.
// Anonymous viewers get an empty list.
func (s *MatchService) FindMatches(ctx context.Context, viewerID int64) ([]models.Match, error) {
	if viewerID == 0 {
		return []models.Match{}, nil
	}
	viewer, err := loadUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	if len(viewer.Interests) == 0 {
		return []models.Match{}, nil
	}
	population, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	matches := matching.FindMatches(viewer, population)
	observability.AddMatchesServed(len(matches))
	return matches, nil
}
