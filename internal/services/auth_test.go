package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
	"connectibles/internal/mocks"
	"connectibles/internal/models"
	"connectibles/internal/otp"
	"connectibles/internal/repositories"
)

type authFixture struct {
	svc    *AuthService
	users  *mocks.UserRepositoryMock
	codes  *mocks.OTPStoreMock
	mailer *mocks.EmailSenderMock
	tokens *mocks.TokenIssuerMock
}

func newAuthFixture() authFixture {
	f := authFixture{
		users:  new(mocks.UserRepositoryMock),
		codes:  new(mocks.OTPStoreMock),
		mailer: new(mocks.EmailSenderMock),
		tokens: new(mocks.TokenIssuerMock),
	}
	f.svc = NewAuthService(f.users, f.codes, f.mailer, f.tokens, "@campus.edu")
	return f
}

func TestRequestOTPSendsCode(t *testing.T) {
	f := newAuthFixture()
	f.codes.On("Save", mock.Anything, "ana@campus.edu", mock.AnythingOfType("string")).Return(nil).Once()
	f.mailer.On("SendOTP", mock.Anything, "ana@campus.edu", mock.AnythingOfType("string")).Return(nil).Once()

	require.NoError(t, f.svc.RequestOTP(context.Background(), "  Ana@Campus.edu "))

	f.codes.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestRequestOTPRejectsOtherDomains(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.RequestOTP(context.Background(), "ana@gmail.com")
	assert.ErrorIs(t, err, apperr.InvalidEmailDomain)

	err = f.svc.RequestOTP(context.Background(), "not an email")
	assert.ErrorIs(t, err, apperr.InvalidInput)

	f.codes.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestOTPEmailFailure(t *testing.T) {
	f := newAuthFixture()
	f.codes.On("Save", mock.Anything, "ana@campus.edu", mock.Anything).Return(nil).Once()
	f.mailer.On("SendOTP", mock.Anything, "ana@campus.edu", mock.Anything).Return(assert.AnError).Once()

	err := f.svc.RequestOTP(context.Background(), "ana@campus.edu")

	assert.ErrorIs(t, err, apperr.EmailSendFailed)
}

func TestVerifyOTPCreatesUserOnFirstLogin(t *testing.T) {
	f := newAuthFixture()
	f.codes.On("Check", mock.Anything, "ana@campus.edu", "123456").Return(nil).Once()
	f.codes.On("Delete", mock.Anything, "ana@campus.edu").Return(nil).Once()
	f.users.On("GetByEmail", mock.Anything, "ana@campus.edu").Return(models.User{}, repositories.ErrUserNotFound).Once()
	f.users.On("Create", mock.Anything, "ana@campus.edu").Return(models.User{ID: alice, Email: "ana@campus.edu"}, nil).Once()
	f.users.On("TouchLastActive", mock.Anything, alice).Return(nil).Once()
	f.tokens.On("Issue", alice).Return("signed", nil).Once()

	login, err := f.svc.VerifyOTP(context.Background(), "ana@campus.edu", " 123456 ")

	require.NoError(t, err)
	assert.True(t, login.NewUser)
	assert.Equal(t, "signed", login.Token)
	f.users.AssertExpectations(t)
	f.codes.AssertExpectations(t)
}

func TestVerifyOTPErrors(t *testing.T) {
	cases := []struct {
		name    string
		checked error
		want    error
	}{
		{"expired", otp.ErrNotFound, apperr.OTPExpired},
		{"mismatch", otp.ErrMismatch, apperr.InvalidOTP},
		{"too many attempts", otp.ErrTooManyAttempts, apperr.TooManyAttempts},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture()
			f.codes.On("Check", mock.Anything, "ana@campus.edu", "000000").Return(tc.checked).Once()

			_, err := f.svc.VerifyOTP(context.Background(), "ana@campus.edu", "000000")

			assert.ErrorIs(t, err, tc.want)
			f.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestVerifyOTPRejectsBannedUser(t *testing.T) {
	f := newAuthFixture()
	f.codes.On("Check", mock.Anything, "ana@campus.edu", "123456").Return(nil).Once()
	f.codes.On("Delete", mock.Anything, "ana@campus.edu").Return(nil).Once()
	f.users.On("GetByEmail", mock.Anything, "ana@campus.edu").Return(models.User{ID: alice, IsBanned: true}, nil).Once()

	_, err := f.svc.VerifyOTP(context.Background(), "ana@campus.edu", "123456")

	assert.ErrorIs(t, err, apperr.UserBanned)
	f.tokens.AssertNotCalled(t, "Issue", mock.Anything)
}
