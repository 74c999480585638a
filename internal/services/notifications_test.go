package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"connectibles/internal/apperr"
	"connectibles/internal/jobs"
	"connectibles/internal/mocks"
	"connectibles/internal/models"
	"connectibles/internal/repositories"
)

func TestNotifyStoresPushesAndSendsAPNs(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	pusher := new(mocks.PusherMock)
	hub := mocks.NewBroadcasterMock()
	svc := NewNotificationService(repo, users, hub, pusher, jobs.SyncDispatcher{})

	stored := models.Notification{ID: 5, UserID: bob, Type: models.NotificationWave, Message: "hi"}
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == bob && n.Type == models.NotificationWave && *n.RelatedUserID == alice
	})).Return(stored, nil).Once()
	withToken := testUser(bob, "Bob")
	withToken.PushToken = ptr("device")
	users.On("GetByID", mock.Anything, bob).Return(withToken, nil).Once()
	pusher.On("Push", mock.Anything, "device", stored).Return(nil).Once()

	svc.Notify(bob, models.NotificationWave, "hi", ptr(alice))

	require.Len(t, hub.Sent(bob), 1)
	assert.Equal(t, models.EventNotification, hub.Sent(bob)[0].Type)
	repo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestNotifySkipsPushWithoutToken(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	pusher := new(mocks.PusherMock)
	svc := NewNotificationService(repo, users, mocks.NewBroadcasterMock(), pusher, jobs.SyncDispatcher{})
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(models.Notification{ID: 1, UserID: bob}, nil).Once()
	expectUsers(users, testUser(bob, "Bob"))

	svc.Notify(bob, models.NotificationMessage, "new message", nil)

	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationReads(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	svc := NewNotificationService(repo, new(mocks.UserRepositoryMock), mocks.NewBroadcasterMock(), new(mocks.PusherMock), jobs.SyncDispatcher{})
	repo.On("MarkRead", mock.Anything, int64(8), alice).Return(repositories.ErrNotificationNotFound).Once()
	repo.On("DeleteNotification", mock.Anything, int64(9), alice).Return(nil).Once()

	assert.ErrorIs(t, svc.MarkRead(context.Background(), alice, 8), apperr.NotFound)
	require.NoError(t, svc.Delete(context.Background(), alice, 9))

	count, err := svc.UnreadCount(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, count)
	repo.AssertExpectations(t)
}
