// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"aerogrid/internal/content"
	"aerogrid/internal/preview"
	"aerogrid/internal/renderer"
)

// Preview groups the draft publish and preview page endpoints. The
// publish side is authenticated; the rendered page is addressable only
// by its random token and expires with the draft.
type Preview struct {
	drafts   *preview.Store
	renderer *renderer.Renderer
	baseURL  *url.URL
}

// NewPreview creates the preview handler group. baseURL may be nil
// when no public origin is configured.
func NewPreview(drafts *preview.Store, rend *renderer.Renderer, baseURL *url.URL) *Preview {
	return &Preview{drafts: drafts, renderer: rend, baseURL: baseURL}
}

// Publish stores a draft document and returns the token plus the
// preview URL. The body is the standard draft envelope; any other
// type tag is rejected.
func (p *Preview) Publish(w http.ResponseWriter, r *http.Request) {
	var env struct {
		Type    string            `json:"type"`
		Content *content.Document `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if env.Type != preview.EnvelopeType || env.Content == nil {
		respondError(w, http.StatusBadRequest, "Invalid preview envelope")
		return
	}

	env.Content.Normalize()
	token, err := p.drafts.Publish(r.Context(), env.Content)
	if err != nil {
		slog.Error("preview publish failed", "error", err)
		respondError(w, http.StatusBadRequest, "Failed to publish preview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"url":     "/preview/" + token,
	})
}

// Discard drops a published draft before its TTL runs out, so a
// closed admin session does not leave a live preview URL behind.
// Discarding an already-expired token succeeds.
func (p *Preview) Discard(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := p.drafts.Discard(r.Context(), token); err != nil {
		slog.Error("preview discard failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to discard preview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Preview discarded",
	})
}

// Page renders the draft for a token on the public template. Expired
// or unknown tokens get a plain 404.
func (p *Preview) Page(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	doc, err := p.drafts.Get(r.Context(), token)
	if err != nil {
		if errors.Is(err, preview.ErrDraftNotFound) {
			http.Error(w, "Preview expired or not found", http.StatusNotFound)
			return
		}
		slog.Error("preview fetch failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Render(doc, p.baseURL)
	if err != nil {
		slog.Error("preview render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Tag", "noindex")
	w.Write(html)
}
