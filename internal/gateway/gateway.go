// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gateway persists the content document and uploaded media
// behind a single interface. Three backends are provided: a local
// filesystem store, a GitHub repository store driven by the contents
// API, and an S3-compatible object store.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"aerogrid/internal/content"
	"aerogrid/internal/slug"
)

// MaxUploadSize is the hard cap for a single uploaded file.
const MaxUploadSize = 10 << 20 // 10 MiB

// DocumentPath is the well-known key of the live content document.
const DocumentPath = "content.json"

// BackupPrefix is the key prefix under which backups are stored.
const BackupPrefix = "backups/"

var (
	// ErrUnsupportedType is returned when an upload's content type is
	// outside the allow-list for its scope.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrTooLarge is returned when an upload exceeds MaxUploadSize.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrNotFound is returned when a requested document or backup
	// does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps transport or backend failures so
	// handlers can distinguish them from validation errors.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AssetScope selects which content types an upload may carry.
type AssetScope int

const (
	// ScopeMedia accepts the general media set: raster images and MP4.
	ScopeMedia AssetScope = iota
	// ScopeLogo additionally accepts SVG, for the footer logo slot.
	ScopeLogo
)

// imageTypes are accepted in every scope. Videos are stored verbatim,
// images go through the optimizer.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var videoTypes = map[string]string{
	"video/mp4": ".mp4",
}

// Upload describes one incoming file, already read into memory. The
// multipart layer enforces the size cap on the wire; ValidateUpload
// re-checks it before any backend write happens.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Scope       AssetScope
}

// StoredAsset is the result of a successful StoreAsset call. Thumbnail
// is empty for videos and SVGs, which are stored verbatim.
type StoredAsset struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
}

// Backup identifies one stored snapshot of the content document.
type Backup struct {
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
	Size     int64     `json:"size"`
}

// Gateway is the persistence contract shared by all backends.
//
// ReplaceDocument writes a timestamped backup of the current document
// before the new one is stored, then stamps and persists the new
// document. RestoreBackup promotes an existing backup to live, again
// backing up the document it replaces.
type Gateway interface {
	LoadDocument(ctx context.Context) (*content.Document, error)
	ReplaceDocument(ctx context.Context, doc *content.Document, by string) error
	StoreAsset(ctx context.Context, up Upload) (*StoredAsset, error)
	ListBackups(ctx context.Context) ([]Backup, error)
	RestoreBackup(ctx context.Context, name string, by string) (*content.Document, error)
}

// ValidateUpload checks the content type against the scope's allow-list
// and enforces the size cap. Backends call this before touching their
// store, so a rejected upload never produces a partial write.
func ValidateUpload(up Upload) error {
	if len(up.Data) > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(up.Data), MaxUploadSize)
	}
	ct := normalizeContentType(up.ContentType)
	if _, ok := imageTypes[ct]; ok {
		return nil
	}
	if _, ok := videoTypes[ct]; ok {
		return nil
	}
	if up.Scope == ScopeLogo && ct == "image/svg+xml" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
}

// IsVideo reports whether the upload carries a video content type.
func (u Upload) IsVideo() bool {
	_, ok := videoTypes[normalizeContentType(u.ContentType)]
	return ok
}

// IsSVG reports whether the upload is an SVG document.
func (u Upload) IsSVG() bool {
	return normalizeContentType(u.ContentType) == "image/svg+xml"
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// assetName builds a collision-free stored name for an upload. The
// original base name is slugified for readability and prefixed with a
// short random id.
func assetName(up Upload) string {
	base := filepath.Base(up.Filename)
	ext := strings.ToLower(filepath.Ext(base))
	stem := slug.Generate(strings.TrimSuffix(base, ext))

	if ext == "" {
		ct := normalizeContentType(up.ContentType)
		if e, ok := imageTypes[ct]; ok {
			ext = e
		} else if e, ok := videoTypes[ct]; ok {
			ext = e
		} else if ct == "image/svg+xml" {
			ext = ".svg"
		}
	}

	// Images are re-encoded as JPEG by the optimizer, videos and SVGs
	// keep their container.
	if !up.IsVideo() && !up.IsSVG() {
		ext = ".jpg"
	}

	return uuid.NewString()[:8] + "-" + stem + ext
}

// backupName builds the timestamped key for a document snapshot.
// Colons are avoided so the name is valid on every filesystem.
func backupName(now time.Time) string {
	return "content-" + now.UTC().Format("2006-01-02T15-04-05.000Z") + ".json"
}

// parseBackupTime recovers the snapshot timestamp from a backup name.
// Names that do not follow the scheme yield a zero time.
func parseBackupTime(name string) time.Time {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "content-"), ".json")
	t, err := time.Parse("2006-01-02T15-04-05.000Z", trimmed)
	if err != nil {
		return time.Time{}
	}
	return t
}
