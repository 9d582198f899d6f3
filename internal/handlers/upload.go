// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"aerogrid/internal/gateway"
)

// maxMultipleFiles caps how many files one upload-multiple request may carry.
const maxMultipleFiles = 10

// Upload groups the media upload endpoints.
type Upload struct {
	store gateway.Gateway
}

// NewUpload creates the upload handler group.
func NewUpload(store gateway.Gateway) *Upload {
	return &Upload{store: store}
}

// Single accepts one multipart file under the "file" field and stores
// it through the gateway. The optional "scope" field set to "logo"
// additionally admits SVG for the footer logo slot.
func (u *Upload) Single(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, gateway.MaxUploadSize+4096)
	if err := r.ParseMultipartForm(gateway.MaxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	up, err := readUpload(file, header, scopeFromForm(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	asset, err := u.store.StoreAsset(r.Context(), *up)
	if err != nil {
		slog.Error("asset store failed", "file", header.Filename, "error", err)
		respondError(w, gatewayStatus(err), uploadErrorMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "File uploaded",
		"url":       asset.URL,
		"thumbnail": asset.Thumbnail,
		"filename":  asset.Filename,
		"size":      asset.Size,
	})
}

// Multiple accepts up to maxMultipleFiles under the "files" field.
// Each file succeeds or fails on its own; the response reports both
// lists so the client can keep the good uploads.
func (u *Upload) Multiple(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipleFiles*gateway.MaxUploadSize+4096)
	if err := r.ParseMultipartForm(gateway.MaxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Upload too large.")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "No files provided.")
		return
	}
	if len(files) > maxMultipleFiles {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Too many files. Maximum is %d per request.", maxMultipleFiles))
		return
	}

	scope := scopeFromForm(r)
	type failure struct {
		Filename string `json:"filename"`
		Message  string `json:"message"`
	}
	var stored []*gateway.StoredAsset
	var failed []failure

	for _, header := range files {
		asset, err := u.storeOne(r, header, scope)
		if err != nil {
			slog.Warn("asset store failed", "file", header.Filename, "error", err)
			failed = append(failed, failure{Filename: header.Filename, Message: uploadErrorMessage(err)})
			continue
		}
		stored = append(stored, asset)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": len(failed) == 0,
		"files":   stored,
		"failed":  failed,
	})
}

func (u *Upload) storeOne(r *http.Request, header *multipart.FileHeader, scope gateway.AssetScope) (*gateway.StoredAsset, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	up, err := readUpload(file, header, scope)
	if err != nil {
		return nil, err
	}
	return u.store.StoreAsset(r.Context(), *up)
}

// readUpload drains the part and sniffs its content type. SVG needs a
// special case: DetectContentType reports XML or plain text for it.
func readUpload(file multipart.File, header *multipart.FileHeader, scope gateway.AssetScope) (*gateway.Upload, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(data)
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	return &gateway.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
		Scope:       scope,
	}, nil
}

func scopeFromForm(r *http.Request) gateway.AssetScope {
	if r.FormValue("scope") == "logo" {
		return gateway.ScopeLogo
	}
	return gateway.ScopeMedia
}

// uploadErrorMessage translates gateway errors into client-facing text.
func uploadErrorMessage(err error) string {
	switch gatewayStatus(err) {
	case http.StatusRequestEntityTooLarge:
		return "File too large. Maximum size is 10 MB."
	case http.StatusBadRequest:
		return "File type not allowed."
	case http.StatusBadGateway:
		return "Storage backend unavailable."
	default:
		return "Failed to store file."
	}
}
