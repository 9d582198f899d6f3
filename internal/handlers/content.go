// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"aerogrid/internal/cache"
	"aerogrid/internal/content"
	"aerogrid/internal/gateway"
	"aerogrid/internal/middleware"
)

// Content groups the document read, save, backup and restore endpoints.
type Content struct {
	store     gateway.Gateway
	pageCache *cache.PageCache
}

// NewContent creates the content handler group. pageCache may be nil
// when caching is disabled.
func NewContent(store gateway.Gateway, pageCache *cache.PageCache) *Content {
	return &Content{store: store, pageCache: pageCache}
}

// Serve returns the live content document as JSON. Available without
// authentication; the document is public by definition since the site
// renders from it.
func (c *Content) Serve(w http.ResponseWriter, r *http.Request) {
	doc, err := c.store.LoadDocument(r.Context())
	if err != nil {
		slog.Error("document load failed", "error", err)
		respondError(w, gatewayStatus(err), "Failed to load content")
		return
	}

	data, err := doc.Encode()
	if err != nil {
		slog.Error("document encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// Save validates and persists a full replacement document. The stored
// document is stamped with the authenticated subject and the page
// cache is invalidated so the public site reflects the change
// immediately.
func (c *Content) Save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	doc, err := content.Decode(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid content document")
		return
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.store.ReplaceDocument(r.Context(), doc, c.subject(r)); err != nil {
		slog.Error("document save failed", "error", err)
		respondError(w, gatewayStatus(err), "Failed to save content")
		return
	}

	c.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Content saved",
		"timestamp": doc.Meta.LastModified,
	})
}

// Backups lists the stored document snapshots, newest first.
func (c *Content) Backups(w http.ResponseWriter, r *http.Request) {
	backups, err := c.store.ListBackups(r.Context())
	if err != nil {
		slog.Error("backup list failed", "error", err)
		respondError(w, gatewayStatus(err), "Failed to list backups")
		return
	}
	if backups == nil {
		backups = []gateway.Backup{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"backups": backups,
	})
}

// Restore promotes a named backup to the live document.
func (c *Content) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		respondError(w, http.StatusBadRequest, "Missing backup filename")
		return
	}

	doc, err := c.store.RestoreBackup(r.Context(), req.Filename, c.subject(r))
	if err != nil {
		slog.Error("backup restore failed", "name", req.Filename, "error", err)
		respondError(w, gatewayStatus(err), "Failed to restore backup")
		return
	}

	// A restore replaces the whole document, so flush every cached
	// page rather than just the landing page.
	if c.pageCache != nil {
		c.pageCache.InvalidateAll(r.Context())
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Backup restored",
		"content": doc,
	})
}

func (c *Content) subject(r *http.Request) string {
	if data := middleware.TokenFromCtx(r.Context()); data != nil {
		return data.Subject
	}
	return "admin"
}

func (c *Content) invalidate(r *http.Request) {
	if c.pageCache != nil {
		c.pageCache.Invalidate(r.Context(), cache.HomeKey)
	}
}
