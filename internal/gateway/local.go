// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"aerogrid/internal/content"
	"aerogrid/internal/imaging"
)

// Local persists everything under a single data directory:
//
//	content.json
//	backups/content-<ts>.json
//	uploads/<name>
//	uploads/thumbnails/thumb-<name>
//
// Asset URLs are site-relative paths served by the router's static
// file handler.
type Local struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewLocal creates the directory layout under dir and seeds
// content.json with the default document if it is missing.
func NewLocal(dir string) (*Local, error) {
	for _, sub := range []string{"", "backups", "uploads", filepath.Join("uploads", "thumbnails")} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	l := &Local{dir: dir, now: time.Now}

	if _, err := os.Stat(l.docPath()); errors.Is(err, fs.ErrNotExist) {
		data, err := content.Default().Encode()
		if err != nil {
			return nil, err
		}
		if err := writeFileAtomic(l.docPath(), data); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
	}
	return l, nil
}

func (l *Local) docPath() string { return filepath.Join(l.dir, DocumentPath) }

// LoadDocument reads and decodes the live document.
func (l *Local) LoadDocument(ctx context.Context) (*content.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Local) loadLocked() (*content.Document, error) {
	data, err := os.ReadFile(l.docPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return content.Decode(data)
}

// ReplaceDocument backs up the current document, stamps the new one
// and writes it atomically.
func (l *Local) ReplaceDocument(ctx context.Context, doc *content.Document, by string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaceLocked(doc, by)
}

func (l *Local) replaceLocked(doc *content.Document, by string) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := l.backupLocked(); err != nil {
		return err
	}
	doc.Stamp(by, l.now())
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(l.docPath(), data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// backupLocked snapshots the current document file into backups/.
// A missing document is fine, there is simply nothing to snapshot.
func (l *Local) backupLocked() error {
	data, err := os.ReadFile(l.docPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	name := backupName(l.now())
	if err := writeFileAtomic(filepath.Join(l.dir, BackupPrefix, name), data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// StoreAsset validates the upload, optimizes images and writes the
// files. Videos and SVGs are stored verbatim without a thumbnail.
func (l *Local) StoreAsset(ctx context.Context, up Upload) (*StoredAsset, error) {
	if err := ValidateUpload(up); err != nil {
		return nil, err
	}

	name := assetName(up)
	data := up.Data
	var thumbURL string

	if !up.IsVideo() && !up.IsSVG() {
		optimized, err := imaging.Optimize(up.Data)
		if err != nil {
			return nil, fmt.Errorf("optimize %s: %w", up.Filename, err)
		}
		data = optimized

		thumb, err := imaging.Thumbnail(up.Data)
		if err != nil {
			return nil, fmt.Errorf("thumbnail %s: %w", up.Filename, err)
		}
		if thumb != nil {
			thumbName := "thumb-" + name
			path := filepath.Join(l.dir, "uploads", "thumbnails", thumbName)
			if err := writeFileAtomic(path, thumb); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
			thumbURL = "/uploads/thumbnails/" + thumbName
		}
	}

	if err := writeFileAtomic(filepath.Join(l.dir, "uploads", name), data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &StoredAsset{
		URL:       "/uploads/" + name,
		Thumbnail: thumbURL,
		Filename:  name,
		Size:      int64(len(data)),
	}, nil
}

// ListBackups returns available snapshots, newest first.
func (l *Local) ListBackups(ctx context.Context) ([]Backup, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, "backups"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var backups []Backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := parseBackupTime(e.Name())
		if mod.IsZero() {
			mod = info.ModTime().UTC()
		}
		backups = append(backups, Backup{Name: e.Name(), Modified: mod, Size: info.Size()})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Modified.After(backups[j].Modified) })
	return backups, nil
}

// RestoreBackup promotes the named snapshot to the live document. The
// replaced document is itself backed up first, so a restore is always
// reversible.
func (l *Local) RestoreBackup(ctx context.Context, name string, by string) (*content.Document, error) {
	if !validBackupName(name) {
		return nil, ErrNotFound
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(l.dir, "backups", name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	doc, err := content.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}
	if err := l.replaceLocked(doc, by); err != nil {
		return nil, err
	}
	return doc, nil
}

// validBackupName rejects anything that could escape the backups
// directory.
func validBackupName(name string) bool {
	return name != "" && name == filepath.Base(name) &&
		strings.HasPrefix(name, "content-") && strings.HasSuffix(name, ".json")
}

// writeFileAtomic writes via a temp file and rename so readers never
// observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
