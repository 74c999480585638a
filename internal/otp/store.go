// Package otp stores one-time login codes in Redis. Only bcrypt hashes of
// the codes are persisted.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeLength = 6
	// MaxAttempts wrong guesses burn the pending code.
	MaxAttempts = 5
)

var (
	ErrNotFound        = errors.New("otp not found or expired")
	ErrMismatch        = errors.New("otp does not match")
	ErrTooManyAttempts = errors.New("too many otp attempts")
)

// Store keeps a single pending code per email.
type Store interface {
	Save(ctx context.Context, email string, code string) error
	Check(ctx context.Context, email string, code string) error
	Delete(ctx context.Context, email string) error
}

// RedisStore keeps codes under otp:<email> and the miss counter under
// otp:<email>:attempts, both expiring with the code.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(email string) string {
	return "otp:" + strings.ToLower(email)
}

func attemptsKey(email string) string {
	return key(email) + ":attempts"
}

// Save replaces any previous code for email and resets the miss counter.
func (s *RedisStore) Save(ctx context.Context, email string, code string) error {
	hash, err := Hash(code)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(email), hash, s.ttl)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	return err
}

// Check returns ErrNotFound when no code is pending and ErrMismatch when
// code is wrong.
func (s *RedisStore) Check(ctx context.Context, email string, code string) error {
	hash, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read otp: %w", err)
	}
	if !Matches(hash, code) {
		return s.recordMiss(ctx, email)
	}
	return nil
}

// recordMiss counts a wrong guess. The MaxAttempts-th miss deletes the code.
func (s *RedisStore) recordMiss(ctx context.Context, email string) error {
	misses, err := s.client.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return fmt.Errorf("count otp attempt: %w", err)
	}
	if misses == 1 {
		if err := s.client.Expire(ctx, attemptsKey(email), s.ttl).Err(); err != nil {
			return fmt.Errorf("expire otp attempts: %w", err)
		}
	}
	if misses >= MaxAttempts {
		if err := s.Delete(ctx, email); err != nil {
			return fmt.Errorf("burn otp: %w", err)
		}
		return ErrTooManyAttempts
	}
	return ErrMismatch
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email), attemptsKey(email)).Err()
}

// Generate returns a random numeric code.
func Generate() (string, error) {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func Hash(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	return string(hash), nil
}

func Matches(hash string, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
