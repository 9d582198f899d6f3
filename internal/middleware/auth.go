// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"aerogrid/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// tokenKey is the context key for the verified token payload.
	tokenKey contextKey = "token"

	// rawTokenKey is the context key for the raw bearer token, kept so
	// the logout handler can revoke it.
	rawTokenKey contextKey = "raw_token"
)

// RequireToken verifies the Authorization bearer token against the
// store and rejects the request with 401 JSON when the token is
// missing, expired or unknown. The verified payload is placed in the
// request context for downstream handlers.
func RequireToken(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			data, err := store.Verify(r.Context(), token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Authentication required",
				})
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey, data)
			ctx = context.WithValue(ctx, rawTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromCtx extracts the verified token payload from the request
// context. Returns nil outside a RequireToken chain.
func TokenFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(tokenKey).(*session.Data)
	return data
}

// RawTokenFromCtx returns the bearer token string the request
// presented, for revocation on logout.
func RawTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(rawTokenKey).(string)
	return token
}

// bearerToken extracts the token from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
