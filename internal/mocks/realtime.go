package mocks

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"connectibles/internal/models"
)

// BroadcasterMock records events instead of asserting on them, since most
// tests only care about what was pushed to whom.
type BroadcasterMock struct {
	mu        sync.Mutex
	ToUser     map[int64][]models.Event
	Broadcasts []models.Event
}

func NewBroadcasterMock() *BroadcasterMock {
	return &BroadcasterMock{ToUser: make(map[int64][]models.Event)}
}

func (b *BroadcasterMock) SendToUser(userID int64, event models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ToUser[userID] = append(b.ToUser[userID], event)
}

// Sent returns a copy of the events pushed to userID.
func (b *BroadcasterMock) Sent(userID int64) []models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Event(nil), b.ToUser[userID]...)
}

func (b *BroadcasterMock) Broadcast(event models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Broadcasts = append(b.Broadcasts, event)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(userID int64, kind string, message string, relatedUserID *int64) {
	m.Called(userID, kind, message, relatedUserID)
}
