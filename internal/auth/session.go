package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound indicates an expired or unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps actor snapshots in Redis, keyed by an opaque session
// id carried in a cookie.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds a store with the given session lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create persists a new session for the actor and returns its id.
func (s *SessionStore) Create(ctx context.Context, actor *domain.Actor) (string, error) {
	payload, err := json.Marshal(actor)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+sid, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

// Get resolves a session id back to its actor snapshot.
func (s *SessionStore) Get(ctx context.Context, sid string) (*domain.Actor, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var actor domain.Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

// Delete invalidates the session.
func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sid).Err()
}

// TTL exposes the configured session lifetime for cookie expiry.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}
