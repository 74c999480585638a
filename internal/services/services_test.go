package services

import (
	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"

	"connectibles/internal/mocks"
	"connectibles/internal/models"
)

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
)

var _ Broadcaster = (*mocks.BroadcasterMock)(nil)
var _ Notifier = (*mocks.NotifierMock)(nil)

func testUser(id int64, name string, connections ...int64) models.User {
	return models.User{ID: id, Name: name, Connections: pq.Int64Array(connections), BlockedUsers: pq.Int64Array{}}
}

func expectUsers(users *mocks.UserRepositoryMock, list ...models.User) {
	for _, u := range list {
		users.On("GetByID", mock.Anything, u.ID).Return(u, nil).Maybe()
	}
}
