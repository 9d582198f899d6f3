// Package session provides Valkey-backed admin authentication. A
// successful login yields an opaque bearer token stored as JSON in
// Valkey with automatic TTL expiry; every admin API request presents
// the token in the Authorization header and the server verifies it
// against the store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a token lives in Valkey before automatic expiry.
	DefaultTTL = 12 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "token:"

	// tokenLength is the byte length of the random token (32 bytes = 64 hex chars).
	tokenLength = 32
)

// ErrInvalidToken is returned for tokens that are absent, expired or
// were never issued.
var ErrInvalidToken = errors.New("invalid or expired token")

// Data holds the token payload stored in Valkey.
type Data struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	TwoFADone bool      `json:"two_fa_done"`
}

// Store manages bearer token lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a token store backed by the given Valkey client.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Issue generates a new token and stores its payload in Valkey.
func (s *Store) Issue(ctx context.Context, data Data) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("token issue: %w", err)
	}

	data.IssuedAt = time.Now().UTC()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("token marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("token store: %w", err)
	}
	return token, nil
}

// Verify looks the token up in Valkey and returns its payload. A token
// that has expired or was never issued yields ErrInvalidToken.
func (s *Store) Verify(ctx context.Context, token string) (*Data, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("token get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("token unmarshal: %w", err)
	}
	return &data, nil
}

// Revoke deletes the token so it can no longer authenticate requests.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}

// generateToken creates a cryptographically random bearer token.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
