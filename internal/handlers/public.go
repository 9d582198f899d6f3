// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"aerogrid/internal/cache"
	"aerogrid/internal/gateway"
	"aerogrid/internal/renderer"
)

// Public serves the rendered landing page. It checks the Valkey page
// cache before loading the document and running the template, and
// stores rendered results on miss.
type Public struct {
	store     gateway.Gateway
	renderer  *renderer.Renderer
	pageCache *cache.PageCache
	baseURL   *url.URL
}

// NewPublic creates the public handler group. pageCache and baseURL
// may be nil.
func NewPublic(store gateway.Gateway, rend *renderer.Renderer, pageCache *cache.PageCache, baseURL *url.URL) *Public {
	return &Public{store: store, renderer: rend, pageCache: pageCache, baseURL: baseURL}
}

// Home renders the landing page from the live content document.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, cache.HomeKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(cached)
			return
		}
	}

	doc, err := p.store.LoadDocument(ctx)
	if err != nil {
		slog.Error("document load failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Render(doc, p.baseURL)
	if err != nil {
		slog.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, cache.HomeKey, html)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}
