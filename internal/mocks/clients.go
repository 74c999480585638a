package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"connectibles/internal/email"
	"connectibles/internal/models"
	"connectibles/internal/otp"
	"connectibles/internal/push"
	"connectibles/internal/storage"
)

var (
	_ otp.Store       = (*OTPStoreMock)(nil)
	_ email.Sender    = (*EmailSenderMock)(nil)
	_ storage.Avatars = (*AvatarsMock)(nil)
	_ push.Pusher     = (*PusherMock)(nil)
)

type OTPStoreMock struct {
	mock.Mock
}

func (m *OTPStoreMock) Save(ctx context.Context, email string, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *OTPStoreMock) Check(ctx context.Context, email string, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *OTPStoreMock) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type EmailSenderMock struct {
	mock.Mock
}

func (m *EmailSenderMock) SendOTP(ctx context.Context, to string, code string) error {
	args := m.Called(ctx, to, code)
	return args.Error(0)
}

type AvatarsMock struct {
	mock.Mock
}

func (m *AvatarsMock) PresignAvatar(ctx context.Context, userID int64, contentType string) (storage.AvatarUpload, error) {
	args := m.Called(ctx, userID, contentType)
	var upload storage.AvatarUpload
	if val := args.Get(0); val != nil {
		upload = val.(storage.AvatarUpload)
	}
	return upload, args.Error(1)
}

func (m *AvatarsMock) OwnsURL(userID int64, url string) bool {
	args := m.Called(userID, url)
	return args.Bool(0)
}

type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) Push(ctx context.Context, deviceToken string, n models.Notification) error {
	args := m.Called(ctx, deviceToken, n)
	return args.Error(0)
}

// TokenIssuerMock also satisfies the middleware token parser.
type TokenIssuerMock struct {
	mock.Mock
}

func (m *TokenIssuerMock) Issue(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenIssuerMock) Parse(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}
