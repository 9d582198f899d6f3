// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview holds short-lived draft documents in Valkey so an
// editor can see unsaved changes rendered on the public template.
// Publishing a draft yields a random token; the preview page fetches
// the draft by token and renders it without touching the live
// document.
package preview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aerogrid/internal/content"
)

const (
	// DefaultTTL keeps drafts around long enough for a review pass but
	// not much longer.
	DefaultTTL = 30 * time.Minute

	// EnvelopeType tags draft payloads. Envelopes with any other type
	// value are rejected on read.
	EnvelopeType = "PREVIEW_CONTENT"

	keyPrefix   = "preview:"
	tokenLength = 16
)

// ErrDraftNotFound is returned when a token has expired or was never
// published.
var ErrDraftNotFound = errors.New("preview draft not found")

// envelope is the stored draft wrapper.
type envelope struct {
	Type    string            `json:"type"`
	Content *content.Document `json:"content"`
}

// Store manages preview drafts in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a draft store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Publish stores the draft and returns its access token.
func (s *Store) Publish(ctx context.Context, doc *content.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("preview token: %w", err)
	}

	payload, err := json.Marshal(envelope{Type: EnvelopeType, Content: doc})
	if err != nil {
		return "", fmt.Errorf("preview marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("preview store: %w", err)
	}
	return token, nil
}

// Get fetches the draft for a token. The envelope type is checked
// exactly; a payload carrying anything else is treated as absent.
func (s *Store) Get(ctx context.Context, token string) (*content.Document, error) {
	if token == "" {
		return nil, ErrDraftNotFound
	}

	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("preview get: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("preview unmarshal: %w", err)
	}
	if env.Type != EnvelopeType || env.Content == nil {
		return nil, ErrDraftNotFound
	}
	return env.Content, nil
}

// Discard removes a draft before its TTL runs out.
func (s *Store) Discard(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("preview discard: %w", err)
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
