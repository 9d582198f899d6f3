// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		up      Upload
		wantErr error
	}{
		{"jpeg ok", Upload{ContentType: "image/jpeg", Data: []byte("x")}, nil},
		{"png ok", Upload{ContentType: "image/png", Data: []byte("x")}, nil},
		{"gif ok", Upload{ContentType: "image/gif", Data: []byte("x")}, nil},
		{"webp ok", Upload{ContentType: "image/webp", Data: []byte("x")}, nil},
		{"mp4 ok", Upload{ContentType: "video/mp4", Data: []byte("x")}, nil},
		{"content type with params", Upload{ContentType: "image/jpeg; charset=binary", Data: []byte("x")}, nil},
		{"svg rejected for media", Upload{ContentType: "image/svg+xml", Data: []byte("x")}, ErrUnsupportedType},
		{"svg allowed for logo", Upload{ContentType: "image/svg+xml", Data: []byte("x"), Scope: ScopeLogo}, nil},
		{"pdf rejected", Upload{ContentType: "application/pdf", Data: []byte("x")}, ErrUnsupportedType},
		{"webm rejected", Upload{ContentType: "video/webm", Data: []byte("x")}, ErrUnsupportedType},
		{"empty type rejected", Upload{Data: []byte("x")}, ErrUnsupportedType},
		{"over size limit", Upload{ContentType: "image/jpeg", Data: make([]byte, MaxUploadSize+1)}, ErrTooLarge},
		{"exactly at limit", Upload{ContentType: "image/jpeg", Data: make([]byte, MaxUploadSize)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.up)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUpload() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssetNameSanitizes(t *testing.T) {
	name := assetName(Upload{Filename: "../outside dir/héllo photo.png", ContentType: "image/png"})
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		t.Errorf("asset name %q must not contain path components", name)
	}
	if strings.Contains(name, " ") {
		t.Errorf("asset name %q must not contain spaces", name)
	}
	// Raster images are re-encoded as JPEG.
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("asset name %q should carry the .jpg extension", name)
	}
}

func TestAssetNameKeepsVideoContainer(t *testing.T) {
	name := assetName(Upload{Filename: "clip.mp4", ContentType: "video/mp4"})
	if !strings.HasSuffix(name, ".mp4") {
		t.Errorf("asset name %q should keep the .mp4 extension", name)
	}
}

func TestAssetNamesAreUnique(t *testing.T) {
	up := Upload{Filename: "a.jpg", ContentType: "image/jpeg"}
	if assetName(up) == assetName(up) {
		t.Error("identical uploads must get distinct stored names")
	}
}

func TestBackupNameRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	name := backupName(ts)
	if !strings.HasPrefix(name, "content-") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected backup name %q", name)
	}
	if strings.ContainsAny(name, ": /") {
		t.Errorf("backup name %q must be filesystem safe", name)
	}
	if got := parseBackupTime(name); !got.Equal(ts) {
		t.Errorf("parseBackupTime(%q) = %v, want %v", name, got, ts)
	}
}

func TestParseBackupTimeRejectsGarbage(t *testing.T) {
	if got := parseBackupTime("content-not-a-time.json"); !got.IsZero() {
		t.Errorf("parseBackupTime() = %v, want zero", got)
	}
}

func TestValidBackupName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"content-2026-03-14T09-26-53.589Z.json", true},
		{"../content-2026-03-14T09-26-53.589Z.json", false},
		{"notes.txt", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validBackupName(tt.name); got != tt.ok {
			t.Errorf("validBackupName(%q) = %v, want %v", tt.name, got, tt.ok)
		}
	}
}
