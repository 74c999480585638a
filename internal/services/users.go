package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
	"connectibles/internal/storage"
)

// UserService covers profiles, push tokens, avatars and block lists.
type UserService struct {
	users   repositories.UserRepository
	avatars storage.Avatars
}

func NewUserService(users repositories.UserRepository, avatars storage.Avatars) *UserService {
	return &UserService{users: users, avatars: avatars}
}

func (s *UserService) GetMe(ctx context.Context, userID int64) (models.User, error) {
	return loadUser(ctx, s.users, userID)
}

// GetUser returns nil for anonymous viewers and hides users that blocked or
// were blocked by the viewer.
func (s *UserService) GetUser(ctx context.Context, viewerID, targetID int64) (*models.PublicProfile, error) {
	if viewerID == 0 {
		return nil, nil
	}
	viewer, err := loadUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	target, err := loadUser(ctx, s.users, targetID)
	if err != nil {
		return nil, err
	}
	if eitherBlocked(viewer, target) {
		return nil, apperr.UserNotFound
	}
	profile := target.Public()
	return &profile, nil
}

// ListUsers is the discovery list: everyone except the viewer and users on
// either side of a block.
func (s *UserService) ListUsers(ctx context.Context, viewerID int64) ([]models.PublicProfile, error) {
	if viewerID == 0 {
		return []models.PublicProfile{}, nil
	}
	viewer, err := loadUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	visible := make([]models.User, 0, len(all))
	for _, u := range all {
		if u.ID == viewer.ID || eitherBlocked(viewer, u) {
			continue
		}
		visible = append(visible, u)
	}
	return publicProfiles(visible), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return models.User{}, apperr.InvalidInput.Withf("name cannot be empty")
		}
		update.Name = &trimmed
	}
	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return models.User{}, userNotFound(err)
	}
	return user, nil
}

// RegisterPushToken stores the APNs device token; an empty token clears it.
func (s *UserService) RegisterPushToken(ctx context.Context, userID int64, token string) error {
	return s.users.SetPushToken(ctx, userID, strings.TrimSpace(token))
}

func (s *UserService) RequestAvatarUpload(ctx context.Context, userID int64, contentType string) (storage.AvatarUpload, error) {
	return s.avatars.PresignAvatar(ctx, userID, contentType)
}

// ConfirmAvatar accepts only URLs issued for this user.
func (s *UserService) ConfirmAvatar(ctx context.Context, userID int64, url string) error {
	if !s.avatars.OwnsURL(userID, url) {
		return apperr.InvalidInput.Withf("avatar url was not issued for this account")
	}
	return userNotFound(s.users.SetAvatarURL(ctx, userID, url))
}

func (s *UserService) BlockUser(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return apperr.SelfBlock
	}
	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if _, err := loadUser(ctx, s.users, targetID); err != nil {
		return err
	}
	if user.HasBlocked(targetID) {
		return apperr.AlreadyBlocked
	}
	return userNotFound(s.users.AppendBlocked(ctx, userID, targetID))
}

func (s *UserService) UnblockUser(ctx context.Context, userID, targetID int64) error {
	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !user.HasBlocked(targetID) {
		return apperr.NotBlocked
	}
	return s.users.RemoveBlocked(ctx, userID, targetID)
}

func (s *UserService) ListBlocked(ctx context.Context, userID int64) ([]models.PublicProfile, error) {
	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.users.ListByIDs(ctx, user.BlockedUsers)
	if err != nil {
		return nil, fmt.Errorf("list blocked: %w", err)
	}
	return publicProfiles(blocked), nil
}

// AdminWipeUsers deletes every user; dependent rows cascade.
func (s *UserService) AdminWipeUsers(ctx context.Context) (int64, error) {
	return s.users.DeleteAll(ctx)
}

func userNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperr.UserNotFound
	}
	return err
}
