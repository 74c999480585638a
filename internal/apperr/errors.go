package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error carrying an uppercase code. Clients match on the
// "CODE: message" rendering, so codes must never change.
type Error struct {
	Code    string
	Message string
	Status  int
}

// New builds a domain error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so wrapped or re-created errors compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy with a formatted message and the same code.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Code: e.Code, Status: e.Status, Message: fmt.Sprintf(format, args...)}
}

// From extracts a domain error, falling back to INTERNAL.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal
}

var (
	Internal     = New("INTERNAL", http.StatusInternalServerError, "Something went wrong")
	AuthRequired = New("AUTH_REQUIRED", http.StatusUnauthorized, "You must be signed in")
	InvalidInput = New("INVALID_INPUT", http.StatusBadRequest, "Invalid request")
	Forbidden    = New("FORBIDDEN", http.StatusForbidden, "Not allowed")
	NotFound     = New("NOT_FOUND", http.StatusNotFound, "Not found")

	InvalidEmailDomain = New("INVALID_EMAIL_DOMAIN", http.StatusBadRequest, "Only campus email addresses can sign up")
	EmailSendFailed    = New("EMAIL_SEND_FAILED", http.StatusBadGateway, "Could not send the verification email")
	InvalidOTP         = New("INVALID_OTP", http.StatusUnauthorized, "The code you entered is incorrect")
	OTPExpired         = New("OTP_EXPIRED", http.StatusUnauthorized, "The code has expired, request a new one")
	TooManyAttempts    = New("TOO_MANY_ATTEMPTS", http.StatusTooManyRequests, "Too many wrong codes, request a new one")
	UserBanned         = New("USER_BANNED", http.StatusForbidden, "This account has been banned")

	UserNotFound   = New("USER_NOT_FOUND", http.StatusNotFound, "User not found")
	SelfBlock      = New("SELF_BLOCK", http.StatusBadRequest, "You cannot block yourself")
	AlreadyBlocked = New("ALREADY_BLOCKED", http.StatusConflict, "You already blocked this user")
	NotBlocked     = New("NOT_BLOCKED", http.StatusConflict, "This user is not blocked")
	BlockedUser    = New("BLOCKED_USER", http.StatusForbidden, "You cannot interact with this user")

	SelfWave         = New("SELF_WAVE", http.StatusBadRequest, "You cannot wave at yourself")
	AlreadyWaved     = New("ALREADY_WAVED", http.StatusConflict, "You already waved at this user")
	SelfConnect      = New("SELF_CONNECT", http.StatusBadRequest, "You cannot connect with yourself")
	AlreadyConnected = New("ALREADY_CONNECTED", http.StatusConflict, "You are already connected with this user")
	AlreadyPending   = New("ALREADY_PENDING", http.StatusConflict, "A connection request is already pending")
	RequestRejected  = New("REQUEST_REJECTED", http.StatusConflict, "This connection request was rejected")
	RequestNotFound  = New("REQUEST_NOT_FOUND", http.StatusNotFound, "Connection request not found")
	NotReceiver      = New("NOT_RECEIVER", http.StatusForbidden, "Only the receiver can respond to this request")
	InvalidStatus    = New("INVALID_STATUS", http.StatusConflict, "This request is no longer pending")
	NotConnected     = New("NOT_CONNECTED", http.StatusForbidden, "You are not connected with this user")

	SelfMessage  = New("SELF_MESSAGE", http.StatusBadRequest, "You cannot message yourself")
	EmptyMessage = New("EMPTY_MESSAGE", http.StatusBadRequest, "Message cannot be empty")

	SelfReport      = New("SELF_REPORT", http.StatusBadRequest, "You cannot report yourself")
	AlreadyReported = New("ALREADY_REPORTED", http.StatusConflict, "You have already reported this user")

	InvalidGameType   = New("INVALID_GAME_TYPE", http.StatusBadRequest, "Unknown game type")
	InvalidDifficulty = New("INVALID_DIFFICULTY", http.StatusBadRequest, "Difficulty must be easy, medium or hard")
	InvalidState      = New("INVALID_STATE", http.StatusBadRequest, "Invalid game state")
	InvalidMove       = New("INVALID_MOVE", http.StatusBadRequest, "That move is not allowed")
	InvalidResult     = New("INVALID_RESULT", http.StatusBadRequest, "Result must be win, loss or draw")
	SessionNotFound   = New("SESSION_NOT_FOUND", http.StatusNotFound, "Game session not found")
	NotPlayer         = New("NOT_PLAYER", http.StatusForbidden, "You are not a player in this session")
	SessionCompleted  = New("SESSION_COMPLETED", http.StatusConflict, "This session has already ended")

	SelfInvite      = New("SELF_INVITE", http.StatusBadRequest, "You cannot play against yourself")
	NotYourTurn     = New("NOT_YOUR_TURN", http.StatusConflict, "It is not your turn")
	RoundInProgress = New("ROUND_IN_PROGRESS", http.StatusConflict, "Finish the current round first")
	NoOpenRound     = New("NO_OPEN_ROUND", http.StatusConflict, "There is no open round")
	CannotAnswerOwn = New("CANNOT_ANSWER_OWN", http.StatusForbidden, "Wait for the other player to respond")
	InvalidChoice   = New("INVALID_CHOICE", http.StatusBadRequest, "Choice must be truth or dare")
)
