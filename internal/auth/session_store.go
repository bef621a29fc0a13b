package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for session storage operations.
type SessionStoreInterface interface {
	CreateSession(ctx context.Context, sessionID string, p Principal, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*Principal, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionStore keeps session principals in Redis.
type SessionStore struct {
	cache *cache.Client
}

// Ensure SessionStore implements SessionStoreInterface
var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// CreateSession stores the principal under sessionID with TTL.
func (s *SessionStore) CreateSession(ctx context.Context, sessionID string, p Principal, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession loads the principal for sessionID.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*Principal, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil || data == nil {
		return nil, fmt.Errorf("session not found")
	}

	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &p, nil
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
