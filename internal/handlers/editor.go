// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"aerogrid/internal/editor"
	"aerogrid/internal/gateway"
)

// Editor exposes the form-state session API: a session is started from
// the live document, mutated through structured actions and finally
// read back as a reconstructed document for saving or preview.
type Editor struct {
	sessions *editor.SessionStore
	store    gateway.Gateway
}

// NewEditor creates the editor handler group.
func NewEditor(sessions *editor.SessionStore, store gateway.Gateway) *Editor {
	return &Editor{sessions: sessions, store: store}
}

// Start hydrates a new editing session from the live document and
// returns the session id together with the initial form state.
func (e *Editor) Start(w http.ResponseWriter, r *http.Request) {
	doc, err := e.store.LoadDocument(r.Context())
	if err != nil {
		slog.Error("document load for editor failed", "error", err)
		respondError(w, gatewayStatus(err), "Failed to load content")
		return
	}

	id, state, err := e.sessions.Start(r.Context(), doc)
	if err != nil {
		slog.Error("editor session start failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"session": id,
		"state":   state,
	})
}

// State returns the current form state of a session.
func (e *Editor) State(w http.ResponseWriter, r *http.Request) {
	state, err := e.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		e.sessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   state,
	})
}

// Action applies one structured mutation to the session and returns
// the updated form state. A rejected action leaves the stored state
// untouched and reports why.
func (e *Editor) Action(w http.ResponseWriter, r *http.Request) {
	var action editor.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid action body")
		return
	}

	state, err := e.sessions.Apply(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		e.sessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   state,
	})
}

// Document reconstructs the content document from the session's form
// state, for saving or previewing.
func (e *Editor) Document(w http.ResponseWriter, r *http.Request) {
	doc, err := e.sessions.Document(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		e.sessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"content": doc,
	})
}

// Close discards a session before its TTL runs out.
func (e *Editor) Close(w http.ResponseWriter, r *http.Request) {
	e.sessions.Destroy(r.Context(), chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// sessionError maps editor errors onto HTTP statuses. Action rule
// violations are client errors; an unknown session is 404.
func (e *Editor) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "Editing session not found or expired")
	case errors.Is(err, editor.ErrListFull),
		errors.Is(err, editor.ErrListMin),
		errors.Is(err, editor.ErrNoFragment),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrBadAction):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("editor session error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
