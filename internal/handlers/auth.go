// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"aerogrid/internal/middleware"
	"aerogrid/internal/session"
)

// Auth groups the login, logout and 2FA enrollment endpoints.
type Auth struct {
	authenticator *session.Authenticator
	tokens        *session.Store
}

// NewAuth creates the auth handler group.
func NewAuth(authenticator *session.Authenticator, tokens *session.Store) *Auth {
	return &Auth{authenticator: authenticator, tokens: tokens}
}

// Verify checks the admin password (and TOTP code when 2FA is enabled)
// and issues a bearer token. A wrong password gets a plain 401 with no
// lockout or delay beyond the hash comparison itself.
func (a *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := a.authenticator.Verify(req.Password, req.Code); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := a.tokens.Issue(r.Context(), session.Data{
		Subject:   "admin",
		TwoFADone: a.authenticator.TwoFactorEnabled(),
	})
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

// Logout revokes the presented bearer token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.RawTokenFromCtx(r.Context())
	if err := a.tokens.Revoke(r.Context(), token); err != nil {
		slog.Error("token revoke failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// TOTPSetup generates a fresh TOTP secret and enrollment QR code. The
// secret only takes effect once the operator sets it in the
// environment and restarts, so an attacker with a stolen token cannot
// silently swap the second factor.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	secret, qr, err := a.authenticator.SetupTOTP()
	if err != nil {
		slog.Error("totp setup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"secret":  secret,
		"qr":      qr,
	})
}
