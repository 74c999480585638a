package services

import (
	"context"
	"errors"
	"fmt"

	"connectibles/internal/apperr"
	"connectibles/internal/models"
	"connectibles/internal/observability"
	"connectibles/internal/repositories"
)

// ConnectionService runs the wave / request / accept / reject state machine
// over ordered (sender, receiver) pairs.
type ConnectionService struct {
	users    repositories.UserRepository
	requests repositories.ConnectionRepository
	notifier Notifier
}

func NewConnectionService(users repositories.UserRepository, requests repositories.ConnectionRepository, notifier Notifier) *ConnectionService {
	return &ConnectionService{users: users, requests: requests, notifier: notifier}
}

// SendWave creates a waved request toward target.
func (s *ConnectionService) SendWave(ctx context.Context, senderID, targetID int64) (models.ConnectionRequest, error) {
	if senderID == targetID {
		return models.ConnectionRequest{}, apperr.SelfWave
	}
	sender, target, err := s.pair(ctx, senderID, targetID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}

	existing, found, err := s.find(ctx, senderID, targetID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if found {
		switch existing.Status {
		case models.ConnectionWaved:
			return models.ConnectionRequest{}, apperr.AlreadyWaved
		case models.ConnectionPending:
			return models.ConnectionRequest{}, apperr.AlreadyPending
		case models.ConnectionAccepted:
			return models.ConnectionRequest{}, apperr.AlreadyConnected
		case models.ConnectionRejected:
			return models.ConnectionRequest{}, apperr.RequestRejected
		}
	}

	req, err := s.requests.Create(ctx, senderID, targetID, models.ConnectionWaved)
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("create wave: %w", err)
	}
	observability.IncConnectionEvent("wave")
	s.notifier.Notify(target.ID, models.NotificationWave, displayName(sender)+" waved at you", ptr(sender.ID))
	return req, nil
}

// SendConnectionRequest asks target to connect. A pending request in the
// opposite direction is accepted on the spot.
func (s *ConnectionService) SendConnectionRequest(ctx context.Context, senderID, targetID int64) (models.ConnectionRequest, error) {
	if senderID == targetID {
		return models.ConnectionRequest{}, apperr.SelfConnect
	}
	sender, target, err := s.pair(ctx, senderID, targetID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if sender.IsConnectedTo(targetID) {
		return models.ConnectionRequest{}, apperr.AlreadyConnected
	}

	reverse, found, err := s.find(ctx, targetID, senderID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if found && reverse.Status == models.ConnectionPending {
		return s.mutualAccept(ctx, sender, target, reverse)
	}

	existing, found, err := s.find(ctx, senderID, targetID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	var req models.ConnectionRequest
	switch {
	case !found:
		req, err = s.requests.Create(ctx, senderID, targetID, models.ConnectionPending)
	case existing.Status == models.ConnectionPending:
		return models.ConnectionRequest{}, apperr.AlreadyPending
	case existing.Status == models.ConnectionRejected:
		return models.ConnectionRequest{}, apperr.RequestRejected
	case existing.Status == models.ConnectionAccepted:
		return models.ConnectionRequest{}, apperr.AlreadyConnected
	default:
		err = s.requests.UpdateStatus(ctx, existing.ID, models.ConnectionPending)
		req = existing
		req.Status = models.ConnectionPending
	}
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("save connection request: %w", err)
	}

	observability.IncConnectionEvent("request")
	s.notifier.Notify(target.ID, models.NotificationConnectionRequest, displayName(sender)+" wants to connect with you", ptr(sender.ID))
	return req, nil
}

func (s *ConnectionService) mutualAccept(ctx context.Context, sender, target models.User, reverse models.ConnectionRequest) (models.ConnectionRequest, error) {
	if err := s.requests.UpdateStatus(ctx, reverse.ID, models.ConnectionAccepted); err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("accept reverse request: %w", err)
	}

	forward, found, err := s.find(ctx, sender.ID, target.ID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if found {
		err = s.requests.UpdateStatus(ctx, forward.ID, models.ConnectionAccepted)
		forward.Status = models.ConnectionAccepted
	} else {
		forward, err = s.requests.Create(ctx, sender.ID, target.ID, models.ConnectionAccepted)
	}
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("accept forward request: %w", err)
	}

	if err := s.link(ctx, sender.ID, target.ID); err != nil {
		return models.ConnectionRequest{}, err
	}
	observability.IncConnectionEvent("accepted")
	s.notifier.Notify(target.ID, models.NotificationConnectionAccepted, displayName(sender)+" accepted your connection request", ptr(sender.ID))
	return forward, nil
}

func (s *ConnectionService) AcceptConnectionRequest(ctx context.Context, userID, requestID int64) (models.ConnectionRequest, error) {
	req, err := s.pendingFor(ctx, userID, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, models.ConnectionAccepted); err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("accept request: %w", err)
	}
	if err := s.link(ctx, req.SenderID, req.ReceiverID); err != nil {
		return models.ConnectionRequest{}, err
	}
	req.Status = models.ConnectionAccepted

	receiver, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	observability.IncConnectionEvent("accepted")
	s.notifier.Notify(req.SenderID, models.NotificationConnectionAccepted, displayName(receiver)+" accepted your connection request", ptr(userID))
	return req, nil
}

// RejectConnectionRequest is terminal for the pair in that direction.
func (s *ConnectionService) RejectConnectionRequest(ctx context.Context, userID, requestID int64) (models.ConnectionRequest, error) {
	req, err := s.pendingFor(ctx, userID, requestID)
	if err != nil {
		return models.ConnectionRequest{}, err
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, models.ConnectionRejected); err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("reject request: %w", err)
	}
	req.Status = models.ConnectionRejected
	observability.IncConnectionEvent("rejected")
	return req, nil
}

// RemoveConnection unlinks both users and clears their requests so the pair
// can start over.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, otherID int64) error {
	user, err := loadUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !user.IsConnectedTo(otherID) {
		return apperr.NotConnected
	}
	if err := s.users.RemoveConnection(ctx, userID, otherID); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	if err := s.users.RemoveConnection(ctx, otherID, userID); err != nil {
		return fmt.Errorf("remove reverse connection: %w", err)
	}
	if err := s.requests.DeleteBetween(ctx, userID, otherID); err != nil {
		return fmt.Errorf("clear requests: %w", err)
	}
	observability.IncConnectionEvent("removed")
	return nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, viewerID int64) ([]models.PublicProfile, error) {
	if viewerID == 0 {
		return []models.PublicProfile{}, nil
	}
	user, err := loadUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	connected, err := s.users.ListByIDs(ctx, user.Connections)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return publicProfiles(connected), nil
}

// ListIncomingRequests returns waves and pending requests addressed to the viewer.
func (s *ConnectionService) ListIncomingRequests(ctx context.Context, viewerID int64) ([]models.ConnectionRequest, error) {
	if viewerID == 0 {
		return []models.ConnectionRequest{}, nil
	}
	return s.requests.ListIncoming(ctx, viewerID)
}

// GetConnectionStatus returns nil for anonymous viewers.
func (s *ConnectionService) GetConnectionStatus(ctx context.Context, viewerID, otherID int64) (*models.ConnectionState, error) {
	if viewerID == 0 {
		return nil, nil
	}
	user, err := loadUser(ctx, s.users, viewerID)
	if err != nil {
		return nil, err
	}
	state := &models.ConnectionState{Connected: user.IsConnectedTo(otherID)}
	if out, found, err := s.find(ctx, viewerID, otherID); err != nil {
		return nil, err
	} else if found {
		state.Outgoing = &out
	}
	if in, found, err := s.find(ctx, otherID, viewerID); err != nil {
		return nil, err
	} else if found {
		state.Incoming = &in
	}
	return state, nil
}

// pair loads both users and enforces the block rule.
func (s *ConnectionService) pair(ctx context.Context, senderID, targetID int64) (models.User, models.User, error) {
	target, err := loadUser(ctx, s.users, targetID)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	sender, err := loadUser(ctx, s.users, senderID)
	if err != nil {
		return models.User{}, models.User{}, err
	}
	if eitherBlocked(sender, target) {
		return models.User{}, models.User{}, apperr.BlockedUser
	}
	return sender, target, nil
}

func (s *ConnectionService) find(ctx context.Context, senderID, receiverID int64) (models.ConnectionRequest, bool, error) {
	req, err := s.requests.Get(ctx, senderID, receiverID)
	if errors.Is(err, repositories.ErrRequestNotFound) {
		return models.ConnectionRequest{}, false, nil
	}
	if err != nil {
		return models.ConnectionRequest{}, false, fmt.Errorf("load connection request: %w", err)
	}
	return req, true, nil
}

func (s *ConnectionService) pendingFor(ctx context.Context, userID, requestID int64) (models.ConnectionRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, repositories.ErrRequestNotFound) {
		return models.ConnectionRequest{}, apperr.RequestNotFound
	}
	if err != nil {
		return models.ConnectionRequest{}, fmt.Errorf("load connection request: %w", err)
	}
	if req.ReceiverID != userID {
		return models.ConnectionRequest{}, apperr.NotReceiver
	}
	if req.Status != models.ConnectionPending {
		return models.ConnectionRequest{}, apperr.InvalidStatus
	}
	return req, nil
}

// link appends each user to the other's connections. The two writes are
// separate statements.
func (s *ConnectionService) link(ctx context.Context, a, b int64) error {
	if err := s.users.AppendConnection(ctx, a, b); err != nil {
		return fmt.Errorf("append connection: %w", err)
	}
	if err := s.users.AppendConnection(ctx, b, a); err != nil {
		return fmt.Errorf("append reverse connection: %w", err)
	}
	return nil
}
