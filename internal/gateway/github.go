// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"aerogrid/internal/content"
	"aerogrid/internal/imaging"
)

// GitHub persists the document and media as files in a repository via
// the contents API. Every write is a commit, so the repo's history is
// an audit trail on top of the explicit backups/ snapshots.
type GitHub struct {
	repo    string // "owner/name"
	branch  string
	token   string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewGitHub creates a contents-API backed store. repo is "owner/name",
// branch defaults to main.
func NewGitHub(repo, branch, token string) *GitHub {
	if branch == "" {
		branch = "main"
	}
	return &GitHub{
		repo:    repo,
		branch:  branch,
		token:   token,
		baseURL: "https://api.github.com",
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// LoadDocument fetches and decodes content.json from the repository.
func (g *GitHub) LoadDocument(ctx context.Context) (*content.Document, error) {
	data, _, err := g.getFile(ctx, DocumentPath)
	if err != nil {
		return nil, err
	}
	return content.Decode(data)
}

// ReplaceDocument snapshots the current content.json into backups/,
// then commits the stamped new document over it.
func (g *GitHub) ReplaceDocument(ctx context.Context, doc *content.Document, by string) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	current, sha, err := g.getFile(ctx, DocumentPath)
	if err != nil && err != ErrNotFound {
		return err
	}
	if err == nil {
		name := BackupPrefix + backupName(g.now())
		msg := "Backup content before update"
		if err := g.putFile(ctx, name, current, "", msg); err != nil {
			return err
		}
	}

	doc.Stamp(by, g.now())
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Update site content (%s)", by)
	return g.putFile(ctx, DocumentPath, data, sha, msg)
}

// StoreAsset commits the file under uploads/ and returns its raw URL.
// Images are optimized first; thumbnails are committed alongside.
func (g *GitHub) StoreAsset(ctx context.Context, up Upload) (*StoredAsset, error) {
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
			thumbPath := "uploads/thumbnails/thumb-" + name
			if err := g.putFile(ctx, thumbPath, thumb, "", "Add thumbnail "+name); err != nil {
				return nil, err
			}
			thumbURL = g.rawURL(thumbPath)
		}
	}

	path := "uploads/" + name
	if err := g.putFile(ctx, path, data, "", "Upload "+name); err != nil {
		return nil, err
	}

	return &StoredAsset{
		URL:       g.rawURL(path),
		Thumbnail: thumbURL,
		Filename:  name,
		Size:      int64(len(data)),
	}, nil
}

// ListBackups lists the backups/ directory, newest first. An absent
// directory means no backups have been taken yet.
func (g *GitHub) ListBackups(ctx context.Context) ([]Backup, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/backups?ref=%s", g.baseURL, g.repo, url.QueryEscape(g.branch))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github API status %d: %s", ErrStoreUnavailable, resp.StatusCode, string(body))
	}

	var entries []struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("github list backups: %w", err)
	}

	var backups []Backup
	for _, e := range entries {
		if e.Type != "file" || !strings.HasSuffix(e.Name, ".json") {
			continue
		}
		backups = append(backups, Backup{Name: e.Name, Modified: parseBackupTime(e.Name), Size: e.Size})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Modified.After(backups[j].Modified) })
	return backups, nil
}

// RestoreBackup fetches the named snapshot and commits it as the live
// document via ReplaceDocument.
func (g *GitHub) RestoreBackup(ctx context.Context, name string, by string) (*content.Document, error) {
	if !validBackupName(name) {
		return nil, ErrNotFound
	}
	data, _, err := g.getFile(ctx, BackupPrefix+name)
	if err != nil {
		return nil, err
	}
	doc, err := content.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", name, err)
	}
	if err := g.ReplaceDocument(ctx, doc, by); err != nil {
		return nil, err
	}
	return doc, nil
}

// getFile fetches a file's decoded content and blob sha.
func (g *GitHub) getFile(ctx context.Context, path string) ([]byte, string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", g.baseURL, g.repo, path, url.QueryEscape(g.branch))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("github request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: github API status %d: %s", ErrStoreUnavailable, resp.StatusCode, string(body))
	}

	var file struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
		SHA      string `json:"sha"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	if file.Encoding != "base64" {
		return nil, "", fmt.Errorf("github get %s: unexpected encoding %q", path, file.Encoding)
	}
	// The API wraps base64 at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", path, err)
	}
	return raw, file.SHA, nil
}

// putFile creates or updates a file. sha must be the current blob sha
// when updating an existing file and empty when creating one.
func (g *GitHub) putFile(ctx context.Context, path string, data []byte, sha, message string) error {
	payload, err := json.Marshal(struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha,omitempty"`
	}{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  g.branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("github marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", g.baseURL, g.repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: github API status %d: %s", ErrStoreUnavailable, resp.StatusCode, string(body))
	}
	return nil
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// rawURL builds the public raw.githubusercontent.com URL for a path.
func (g *GitHub) rawURL(path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", g.repo, g.branch, path)
}
