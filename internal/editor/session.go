// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// session.go provides Valkey-backed persistence for editing sessions.
// The form state survives page reloads and auth round-trips, guarding
// against the edit-loss-on-expiry sharp edge of the old admin.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"aerogrid/internal/content"
)

const (
	// DefaultSessionTTL is how long an idle editing session survives.
	DefaultSessionTTL = 24 * time.Hour

	// keyPrefix namespaces editing-session keys in Valkey.
	keyPrefix = "editor:"
)

// ErrSessionNotFound means the session expired or never existed.
var ErrSessionNotFound = errors.New("editor: session not found")

// SessionStore manages editing-session lifecycle in Valkey.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store backed by the given client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, ttl: DefaultSessionTTL}
}

// Start hydrates a new editing session from a document and persists it.
// Returns the session id and the hydrated form state.
func (s *SessionStore) Start(ctx context.Context, doc *content.Document) (string, *FormState, error) {
	id := uuid.New().String()
	fs := Hydrate(doc)
	if err := s.save(ctx, id, fs); err != nil {
		return "", nil, err
	}
	return id, fs, nil
}

// Get loads the form state for a session id.
func (s *SessionStore) Get(ctx context.Context, id string) (*FormState, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("editor session get: %w", err)
	}

	var fs FormState
	if err := json.Unmarshal(payload, &fs); err != nil {
		return nil, fmt.Errorf("editor session unmarshal: %w", err)
	}
	return &fs, nil
}

// Apply loads a session, applies one action, and persists the result.
// Mutation errors (bounds, unknown fields) leave the stored state
// untouched and are returned for the handler to surface as warnings.
func (s *SessionStore) Apply(ctx context.Context, id string, a Action) (*FormState, error) {
	fs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fs.Apply(a); err != nil {
		return nil, err
	}
	if err := s.save(ctx, id, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// Document reconstructs the Content Document from the stored session.
func (s *SessionStore) Document(ctx context.Context, id string) (*content.Document, error) {
	fs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fs.Reconstruct(), nil
}

// Destroy drops a session. Missing sessions are not an error.
func (s *SessionStore) Destroy(ctx context.Context, id string) {
	s.client.Del(ctx, keyPrefix+id)
}

// save serializes and stores the form state, resetting the TTL.
func (s *SessionStore) save(ctx context.Context, id string, fs *FormState) error {
	payload, err := json.Marshal(fs)
	if err != nil {
		return fmt.Errorf("editor session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("editor session store: %w", err)
	}
	return nil
}
