package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
	"connectibles/internal/mocks"
	"connectibles/internal/models"
	"connectibles/internal/moderation"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

func newReportService() (*ReportService, *mocks.UserRepositoryMock, *mocks.ReportRepositoryMock, *mocks.NotifierMock) {
	users := new(mocks.UserRepositoryMock)
	reports := new(mocks.ReportRepositoryMock)
	notifier := new(mocks.NotifierMock)
	expectUsers(users, testUser(bob, "Bob"))
	return NewReportService(users, reports, notifier), users, reports, notifier
}

func TestReportUserEscalation(t *testing.T) {
	cases := []struct {
		count  int
		action string
		kind   string
	}{
		{1, "gentle_warning", models.NotificationWarning},
		{2, "none", ""},
		{5, "strong_warning", models.NotificationWarning},
		{6, "none", ""},
		{8, "final_warning", models.NotificationWarning},
		{9, "none", ""},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			svc, users, reports, notifier := newReportService()
			reports.On("FileReport", mock.Anything, alice, bob, (*string)(nil), moderation.BanThreshold).
				Return(repositories.FiledReport{Report: models.UserReport{ID: 1}, Count: tc.count}, nil).Once()
			if tc.kind != "" {
				notifier.On("Notify", bob, tc.kind, moderation.Escalate(tc.count).Message(), (*int64)(nil)).Once()
			}

			res, err := svc.ReportUser(context.Background(), alice, bob, nil)

			require.NoError(t, err)
			assert.Equal(t, ReportResult{Count: tc.count, Action: tc.action}, res)
			notifier.AssertExpectations(t)
			users.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
			reports.AssertExpectations(t)
		})
	}
}

func TestReportUserBansAtThreshold(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.ExpectEvent(observability.RouteUserBanned, "user_banned").Return(nil).Once()
	observability.SetPublisher(publisher)
	t.Cleanup(func() { observability.SetPublisher(nil) })

	svc, users, reports, notifier := newReportService()
	reason := "spam"
	reports.On("FileReport", mock.Anything, alice, bob, &reason, moderation.BanThreshold).
		Return(repositories.FiledReport{Report: models.UserReport{ID: 10}, Count: 11, Banned: true}, nil).Once()
	notifier.On("Notify", bob, models.NotificationBan, moderation.Ban.Message(), (*int64)(nil)).Once()

	res, err := svc.ReportUser(context.Background(), alice, bob, &reason)

	require.NoError(t, err)
	assert.Equal(t, "ban", res.Action)
	assert.Equal(t, 11, res.Count)
	users.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestReportUserRejections(t *testing.T) {
	svc, _, reports, _ := newReportService()

	_, err := svc.ReportUser(context.Background(), bob, bob, nil)
	assert.ErrorIs(t, err, apperr.SelfReport)

	reports.On("FileReport", mock.Anything, alice, bob, (*string)(nil), moderation.BanThreshold).
		Return(nil, repositories.ErrAlreadyReported).Once()
	_, err = svc.ReportUser(context.Background(), alice, bob, nil)
	assert.ErrorIs(t, err, apperr.AlreadyReported)
	reports.AssertNumberOfCalls(t, "FileReport", 1)
}

func TestReportUserStoreFailureStopsEscalation(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	observability.SetPublisher(publisher)
	t.Cleanup(func() { observability.SetPublisher(nil) })

	svc, _, reports, notifier := newReportService()
	reports.On("FileReport", mock.Anything, carol, bob, (*string)(nil), moderation.BanThreshold).
		Return(nil, errors.New("ban user: db down")).Once()

	_, err := svc.ReportUser(context.Background(), carol, bob, nil)

	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.From(err))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
