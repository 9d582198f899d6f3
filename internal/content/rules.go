// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// rules.go holds the derived-state rules shared by the editor and the
// public renderer: video/image dispatch, URL absolutization, the career
// activity rule, and keyword splitting. Both sides must use these:
// a slide swapped from image to video has to change its rendered tag in
// the admin preview and on the public page identically.
package content

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// videoExtensions is the single source of truth for "is this a video".
var videoExtensions = []string{".mp4", ".webm", ".ogg", ".mov", ".avi"}

// IsVideoURL reports whether the stored URL points at a video asset,
// by case-insensitive extension match.
func IsVideoURL(raw string) bool {
	lower := strings.ToLower(raw)
	// Strip query/fragment so "clip.mp4?v=2" still matches.
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// AbsoluteURL converts a stored URL to an absolute one against base.
// Stored URLs beginning with "/" resolve against the origin; other
// relative URLs join origin-relative. Already-absolute URLs pass
// through unchanged. The document may be consumed from a different
// page path than where it was authored, so relative src values must
// never leak into rendered output. With no base configured, stored
// paths stay origin-relative and the browser resolves them against
// the serving host.
func AbsoluteURL(base *url.URL, stored string) string {
	if stored == "" {
		return ""
	}
	ref, err := url.Parse(stored)
	if err != nil {
		return stored
	}
	if ref.IsAbs() {
		return stored
	}
	if base == nil || base.Host == "" {
		return stored
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	return origin.ResolveReference(ref).String()
}

// IsOpen reports whether a career post accepts applications on the
// given day: the post is not closed, and its end date is either unset
// or on/after today (date-only comparison, inclusive).
func (p *Post) IsOpen(today time.Time) bool {
	if p.Status == PostStatusClosed {
		return false
	}
	if p.Period.End == "" {
		return true
	}
	end, err := time.Parse("2006-01-02", p.Period.End)
	if err != nil {
		// Unparseable end dates keep the post open rather than
		// silently hiding it from applicants.
		return true
	}
	return !end.Before(truncateDay(today))
}

// truncateDay drops the time-of-day component in UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SplitKeywords turns a comma-separated keyword string into the
// document's keyword list: split, trimmed, empties dropped.
func SplitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ActiveSlides returns the active hero slides in display sequence:
// ascending order, ties broken by original array position.
func (h *Hero) ActiveSlides() []Slide {
	var out []Slide
	for _, s := range h.Slides {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// DisplayItems returns media items in display sequence, capped at
// MediaDisplayCap entries.
func (m *Media) DisplayItems() []MediaItem {
	items := make([]MediaItem, len(m.Items))
	copy(items, m.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	if len(items) > MediaDisplayCap {
		items = items[:MediaDisplayCap]
	}
	return items
}

// OpenPosts returns the CareerDisplayCap most recent open posts,
// ordered newest first by period start (falling back to period end
// when start is empty). Posts with no parseable date sort last.
func (c *Career) OpenPosts(today time.Time) []Post {
	var open []Post
	for _, p := range c.Posts {
		if p.IsOpen(today) {
			open = append(open, p)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return postDate(open[i]).After(postDate(open[j]))
	})
	if len(open) > CareerDisplayCap {
		open = open[:CareerDisplayCap]
	}
	return open
}

// postDate picks the date used for recency ordering.
func postDate(p Post) time.Time {
	for _, s := range []string{p.Period.Start, p.Period.End} {
		if s == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return time.Time{}
}
