package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"connectibles/internal/apperr"
	"connectibles/internal/email"
	"connectibles/internal/models"
	"connectibles/internal/otp"
	"connectibles/internal/repositories"
)

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthService implements passwordless login with emailed one-time codes.
type AuthService struct {
	users  repositories.UserRepository
	codes  otp.Store
	mailer email.Sender
	tokens TokenIssuer
	domain string
}

func NewAuthService(users repositories.UserRepository, codes otp.Store, mailer email.Sender, tokens TokenIssuer, allowedDomain string) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		mailer: mailer,
		tokens: tokens,
		domain: strings.ToLower(strings.TrimPrefix(allowedDomain, "@")),
	}
}

type Login struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	NewUser bool        `json:"newUser"`
}

// RequestOTP emails a fresh code to a campus address.
func (s *AuthService) RequestOTP(ctx context.Context, address string) error {
	address, err := s.normalize(address)
	if err != nil {
		return err
	}
	code, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, address, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, address, code); err != nil {
		log.Error().Err(err).Str("email", address).Msg("otp email failed")
		return apperr.EmailSendFailed
	}
	return nil
}

// VerifyOTP consumes the code and signs the user in, creating the account on
// first login.
func (s *AuthService) VerifyOTP(ctx context.Context, address, code string) (Login, error) {
	address, err := s.normalize(address)
	if err != nil {
		return Login{}, err
	}
	switch err := s.codes.Check(ctx, address, strings.TrimSpace(code)); {
	case errors.Is(err, otp.ErrNotFound):
		return Login{}, apperr.OTPExpired
	case errors.Is(err, otp.ErrMismatch):
		return Login{}, apperr.InvalidOTP
	case errors.Is(err, otp.ErrTooManyAttempts):
		return Login{}, apperr.TooManyAttempts
	case err != nil:
		return Login{}, err
	}
	if err := s.codes.Delete(ctx, address); err != nil {
		log.Warn().Err(err).Str("email", address).Msg("otp delete failed")
	}

	created := false
	user, err := s.users.GetByEmail(ctx, address)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user, err = s.users.Create(ctx, address)
		created = true
	}
	if err != nil {
		return Login{}, fmt.Errorf("load user: %w", err)
	}
	if user.IsBanned {
		return Login{}, apperr.UserBanned
	}
	if err := s.users.TouchLastActive(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("touch last active failed")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Login{}, err
	}
	return Login{Token: token, User: user, NewUser: created}, nil
}

func (s *AuthService) normalize(address string) (string, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return "", apperr.InvalidInput.Withf("invalid email address")
	}
	if !strings.HasSuffix(address, "@"+s.domain) {
		return "", apperr.InvalidEmailDomain.Withf("only @%s addresses can sign up", s.domain)
	}
	return address, nil
}
