// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content defines the Content Document, the single JSON value
// holding every editable piece of the marketing site, together with its
// validation, normalization, and derived-state rules. The document is a
// pure value type: the editor and the renderer each work on their own
// copy and never share mutable state.
package content

import (
	"encoding/json"
	"fmt"
	"time"
)

// List bounds enforced by the editor and re-checked on save.
const (
	MinSlides = 1
	MaxSlides = 5

	MinCards = 1
	MaxCards = 5

	MaxRollingImages = 5

	// MediaDisplayCap is the maximum number of media items the public
	// page renders, regardless of how many the document holds.
	MediaDisplayCap = 8

	// CareerDisplayCap is the number of open career posts shown publicly.
	CareerDisplayCap = 2
)

// Post statuses. An empty status is treated as active.
const (
	PostStatusActive = "active"
	PostStatusClosed = "closed"
)

// Document is the whole editable site content. It is loaded once per
// session, edited as a value, and replaced wholesale on save.
type Document struct {
	Hero     Hero     `json:"hero"`
	Vision   Vision   `json:"vision"`
	Business Business `json:"business"`
	Media    Media    `json:"media"`
	Career   Career   `json:"career"`
	Footer   Footer   `json:"footer"`
	SEO      SEO      `json:"seo"`
	Meta     Meta     `json:"meta"`
}

// Hero holds the top-of-page slide deck.
type Hero struct {
	Slides []Slide `json:"slides"`
}

// Slide is one hero slide. Order determines display sequence among
// active slides; ties are broken by array position. Order and ID are
// position-derived; Normalize rewrites both.
type Slide struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Background string `json:"background"`
	Active     bool   `json:"active"`
	Order      int    `json:"order"`
}

// Vision is the vision section with its rolling image strip.
type Vision struct {
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle"`
	RollingImages   []string `json:"rollingImages"`
	BackgroundImage string   `json:"backgroundImage"`
}

// Business holds the business-area cards. SubtitleHtml may contain
// inline markup; it is trusted admin input.
type Business struct {
	SubtitleHtml   string `json:"subtitleHtml"`
	MoreButtonText string `json:"moreButtonText"`
	Cards          []Card `json:"cards"`
}

// Card is one business card.
type Card struct {
	Image string `json:"image"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Link  string `json:"link"`
}

// Media is the press/media section. Active defaults to true when the
// field is absent from the stored JSON, hence the pointer.
type Media struct {
	Active            *bool       `json:"active,omitempty"`
	RichTextIntroHtml string      `json:"richTextIntroHtml"`
	Items             []MediaItem `json:"items"`
}

// IsActive reports whether the media section is shown. Absent == true.
func (m *Media) IsActive() bool {
	return m.Active == nil || *m.Active
}

// MediaItem is one press/media entry.
type MediaItem struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Order    int    `json:"order"`
}

// Career is the recruiting section. Active defaults to true when absent.
type Career struct {
	Active     *bool    `json:"active,omitempty"`
	Categories []string `json:"categories"`
	Posts      []Post   `json:"posts"`
}

// IsActive reports whether the career section is shown. Absent == true.
func (c *Career) IsActive() bool {
	return c.Active == nil || *c.Active
}

// Post is one career posting.
type Post struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	BodyHtml string `json:"bodyHtml"`
	Period   Period `json:"period"`
	Status   string `json:"status"`
}

// Period is a posting's application window. Either bound may be empty.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Footer holds the site footer content and social links.
type Footer struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	ButtonText string   `json:"buttonText"`
	Logo       string   `json:"logo"`
	SNS        SNSLinks `json:"sns"`
}

// SNSLinks are the footer social link URLs, plain strings.
type SNSLinks struct {
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Youtube   string `json:"youtube"`
	Blog      string `json:"blog"`
}

// SEO holds the page metadata.
type SEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	OgImage     string   `json:"ogImage"`
}

// Meta records the last save. Rewritten on every ReplaceDocument.
type Meta struct {
	LastModified string `json:"lastModified"`
	ModifiedBy   string `json:"modifiedBy"`
}

// Default returns the document used when no stored document exists yet.
func Default() *Document {
	return &Document{
		Hero: Hero{
			Slides: []Slide{
				{ID: "hero-1", Title: "AEROGRID", Subtitle: "Advanced Air Mobility Infrastructure", Active: true, Order: 1},
			},
		},
		Vision: Vision{
			Title:    "Our Vision",
			Subtitle: "Connecting the sky to everyday life",
		},
		Business: Business{
			MoreButtonText: "MORE",
			Cards: []Card{
				{Title: "Vertiport", Desc: "Ground infrastructure for vertical flight"},
			},
		},
		Media: Media{
			RichTextIntroHtml: "<p>News and announcements</p>",
		},
		Career: Career{
			Categories: []string{"Engineering"},
		},
		Footer: Footer{
			Title:      "AEROGRID",
			ButtonText: "Contact Us",
		},
		SEO: SEO{
			Title:       "AEROGRID",
			Description: "Advanced air mobility infrastructure",
		},
	}
}

// Validate checks the document's structural invariants. It returns the
// first violation found, or nil for a well-formed document.
func (d *Document) Validate() error {
	if n := len(d.Hero.Slides); n < MinSlides || n > MaxSlides {
		return fmt.Errorf("hero.slides: %d entries, want %d..%d", n, MinSlides, MaxSlides)
	}
	if n := len(d.Business.Cards); n < MinCards || n > MaxCards {
		return fmt.Errorf("business.cards: %d entries, want %d..%d", n, MinCards, MaxCards)
	}
	if n := len(d.Vision.RollingImages); n > MaxRollingImages {
		return fmt.Errorf("vision.rollingImages: %d entries, max %d", n, MaxRollingImages)
	}
	for i, p := range d.Career.Posts {
		switch p.Status {
		case "", PostStatusActive, PostStatusClosed:
		default:
			return fmt.Errorf("career.posts[%d].status: unknown value %q", i, p.Status)
		}
	}
	return nil
}

// Normalize rewrites all position-derived fields: slide and media-item
// order becomes the 1-based array position, ids are re-derived from
// position, empty rolling-image entries are dropped, career categories
// are deduplicated, and keyword entries are trimmed with empties removed.
func (d *Document) Normalize() {
	for i := range d.Hero.Slides {
		d.Hero.Slides[i].ID = fmt.Sprintf("hero-%d", i+1)
		d.Hero.Slides[i].Order = i + 1
	}
	for i := range d.Media.Items {
		d.Media.Items[i].ID = fmt.Sprintf("media-%d", i+1)
		d.Media.Items[i].Order = i + 1
	}
	for i := range d.Career.Posts {
		d.Career.Posts[i].ID = fmt.Sprintf("career-%d", i+1)
	}

	d.Vision.RollingImages = dropEmpty(d.Vision.RollingImages)
	d.Career.Categories = dedupe(dropEmpty(d.Career.Categories))
	d.SEO.Keywords = dropEmpty(d.SEO.Keywords)
}

// Stamp rewrites the save metadata. Called on every ReplaceDocument.
func (d *Document) Stamp(by string, now time.Time) {
	d.Meta.LastModified = now.UTC().Format(time.RFC3339)
	d.Meta.ModifiedBy = by
}

// Clone returns a deep copy of the document via a JSON round-trip.
// The document is plain data, so this is lossless.
func (d *Document) Clone() *Document {
	raw, err := json.Marshal(d)
	if err != nil {
		// A Document contains only marshalable types; this cannot happen.
		panic(fmt.Sprintf("content: clone marshal: %v", err))
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("content: clone unmarshal: %v", err))
	}
	return &out
}

// Decode parses a stored document, rejecting anything that is not a
// JSON object.
func Decode(raw []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	return &d, nil
}

// Encode serializes the document the way the backing stores persist it,
// with two-space indentation.
func (d *Document) Encode() ([]byte, error) {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("content: encode: %w", err)
	}
	return raw, nil
}

func dropEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
