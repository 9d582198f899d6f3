// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aerogrid/internal/content"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// Deterministic, strictly increasing clock so every backup gets a
	// distinct name.
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return l
}

func TestLocalSeedsDefaultDocument(t *testing.T) {
	l := newTestLocal(t)
	doc, err := l.LoadDocument(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("seeded document is invalid: %v", err)
	}
}

func TestLocalReplaceBacksUpAndStamps(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	doc, err := l.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	doc.Vision.Title = "New vision"
	if err := l.ReplaceDocument(ctx, doc, "admin"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := l.LoadDocument(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Vision.Title != "New vision" {
		t.Errorf("vision title = %q, want %q", reloaded.Vision.Title, "New vision")
	}
	if reloaded.Meta.ModifiedBy != "admin" {
		t.Errorf("modifiedBy = %q, want admin", reloaded.Meta.ModifiedBy)
	}
	if reloaded.Meta.LastModified == "" {
		t.Error("lastModified should be stamped")
	}

	backups, err := l.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
}

func TestLocalReplaceRejectsInvalidDocument(t *testing.T) {
	l := newTestLocal(t)
	doc := content.Default()
	doc.Hero.Slides = nil // below the minimum

	if err := l.ReplaceDocument(context.Background(), doc, "admin"); err == nil {
		t.Fatal("expected validation error")
	}
	// No backup should have been taken for a rejected write.
	backups, err := l.ListBackups(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups after rejected write, want 0", len(backups))
	}
}

func TestLocalRestoreBackup(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	doc, _ := l.LoadDocument(ctx)
	original := doc.Vision.Title

	doc.Vision.Title = "Edited"
	if err := l.ReplaceDocument(ctx, doc, "admin"); err != nil {
		t.Fatal(err)
	}

	backups, err := l.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := l.RestoreBackup(ctx, backups[0].Name, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if restored.Vision.Title != original {
		t.Errorf("restored vision title = %q, want %q", restored.Vision.Title, original)
	}

	// The restore backed up the edited document, so it stays reachable.
	backups, _ = l.ListBackups(ctx)
	if len(backups) != 2 {
		t.Errorf("got %d backups after restore, want 2", len(backups))
	}
}

func TestLocalRestoreUnknownBackup(t *testing.T) {
	l := newTestLocal(t)
	_, err := l.RestoreBackup(context.Background(), "content-2020-01-01T00-00-00.000Z.json", "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLocalRestoreRejectsTraversal(t *testing.T) {
	l := newTestLocal(t)
	_, err := l.RestoreBackup(context.Background(), "../content.json", "admin")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLocalStoreAssetImage(t *testing.T) {
	l := newTestLocal(t)

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))); err != nil {
		t.Fatal(err)
	}
	asset, err := l.StoreAsset(context.Background(), Upload{
		Filename:    "photo.png",
		ContentType: "image/png",
		Data:        buf.Bytes(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(asset.URL, "/uploads/") {
		t.Errorf("asset URL = %q, want /uploads/ prefix", asset.URL)
	}
	if asset.Thumbnail == "" {
		t.Error("image upload should produce a thumbnail")
	}
	if _, err := os.Stat(filepath.Join(l.dir, "uploads", asset.Filename)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(l.dir, "uploads", "thumbnails", "thumb-"+asset.Filename)); err != nil {
		t.Errorf("thumbnail file missing: %v", err)
	}
}

func TestLocalStoreAssetVideoSkipsThumbnail(t *testing.T) {
	l := newTestLocal(t)
	asset, err := l.StoreAsset(context.Background(), Upload{
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Data:        []byte("not really a video"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if asset.Thumbnail != "" {
		t.Errorf("video upload got thumbnail %q, want none", asset.Thumbnail)
	}
	if !strings.HasSuffix(asset.Filename, ".mp4") {
		t.Errorf("stored name %q should keep the video extension", asset.Filename)
	}
}

func TestLocalStoreAssetRejectsBeforeWrite(t *testing.T) {
	l := newTestLocal(t)
	_, err := l.StoreAsset(context.Background(), Upload{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF"),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
	entries, err := os.ReadDir(filepath.Join(l.dir, "uploads"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("rejected upload left file %q behind", e.Name())
		}
	}
}
