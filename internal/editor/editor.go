// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the admin form-sync engine. A FormState is
// the explicit, structured mirror of the admin editing UI: Hydrate
// builds one from a Content Document, update actions mutate it, and
// Reconstruct derives a fresh document from it. Every field carries a
// stable identifier assigned at hydration time from the data model's
// own field names; fields are never located by rendered label text or
// by positional guessing.
package editor

import (
	"strings"

	"github.com/google/uuid"

	"aerogrid/internal/content"
)

// MediaRef is an upload-capable preview slot. Kind tracks which element
// the UI renders for it and always matches the URL's asset type.
type MediaRef struct {
	URL  string `json:"url"`
	Kind string `json:"kind"` // "image", "video", or "" when empty
}

// newMediaRef classifies a stored URL using the shared dispatch rule.
func newMediaRef(url string) MediaRef {
	if url == "" {
		return MediaRef{}
	}
	kind := "image"
	if content.IsVideoURL(url) {
		kind = "video"
	}
	return MediaRef{URL: url, Kind: kind}
}

// SlideFragment is one rendered hero-slide form block.
type SlideFragment struct {
	ID         string   `json:"id"`    // render-time fragment id, stable for the session
	Label      string   `json:"label"` // ordinal label, recomputed after every mutation
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Background MediaRef `json:"background"`
	Active     bool     `json:"active"`
	Order      int      `json:"order"` // always the 1-based position, never edited directly
	CanDelete  bool     `json:"canDelete"`
}

// CardFragment is one business-card form block.
type CardFragment struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Image     MediaRef `json:"image"`
	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	Link      string   `json:"link"`
	CanDelete bool     `json:"canDelete"`
}

// RollingFragment is one vision rolling-image slot.
type RollingFragment struct {
	ID    string   `json:"id"`
	Image MediaRef `json:"image"`
}

// MediaItemFragment is one press/media item form block.
type MediaItemFragment struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Image    MediaRef `json:"image"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Order    int      `json:"order"`
}

// CareerFragment is one career-post form block.
type CareerFragment struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Title    string `json:"title"`
	Category string `json:"category"`
	BodyHtml string `json:"bodyHtml"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Status   string `json:"status"`
}

// HeroForm is the hero tab.
type HeroForm struct {
	Slides []SlideFragment `json:"slides"`
	CanAdd bool            `json:"canAdd"`
}

// VisionForm is the vision tab.
type VisionForm struct {
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle"`
	Rolling    []RollingFragment `json:"rollingImages"`
	CanAdd     bool              `json:"canAdd"`
	Background MediaRef          `json:"backgroundImage"`
}

// BusinessForm is the business tab.
type BusinessForm struct {
	SubtitleHtml   string         `json:"subtitleHtml"`
	MoreButtonText string         `json:"moreButtonText"`
	Cards          []CardFragment `json:"cards"`
	CanAdd         bool           `json:"canAdd"`
}

// MediaForm is the press/media tab.
type MediaForm struct {
	Active    bool                `json:"active"`
	IntroHtml string              `json:"richTextIntroHtml"`
	Items     []MediaItemFragment `json:"items"`
}

// CareerForm is the recruiting tab. Categories edit as one
// comma-separated input, matching the admin UI control.
type CareerForm struct {
	Active     bool             `json:"active"`
	Categories string           `json:"categories"`
	Posts      []CareerFragment `json:"posts"`
}

// FooterForm is the footer tab.
type FooterForm struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	ButtonText string   `json:"buttonText"`
	Logo       MediaRef `json:"logo"`
	Instagram  string   `json:"instagram"`
	Linkedin   string   `json:"linkedin"`
	Youtube    string   `json:"youtube"`
	Blog       string   `json:"blog"`
}

// SEOForm is the SEO tab. Keywords edit as one comma-separated input.
type SEOForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    string   `json:"keywords"`
	OgImage     MediaRef `json:"ogImage"`
}

// FormState is the full admin form model. It owns its data: once
// hydrated it never consults the source document again. Reconstruct
// re-derives every list by walking the fragments in their current
// order.
type FormState struct {
	Hero     HeroForm     `json:"hero"`
	Vision   VisionForm   `json:"vision"`
	Business BusinessForm `json:"business"`
	Media    MediaForm    `json:"media"`
	Career   CareerForm   `json:"career"`
	Footer   FooterForm   `json:"footer"`
	SEO      SEOForm      `json:"seo"`

	// Meta is carried through untouched; the save path restamps it.
	Meta content.Meta `json:"meta"`
}

// Hydrate builds a FormState from a document, preserving document
// order for every list. Missing sections hydrate to empty defaults
// rather than failing: a document without a career section simply
// yields an empty career tab.
func Hydrate(doc *content.Document) *FormState {
	fs := &FormState{
		Vision: VisionForm{
			Title:      doc.Vision.Title,
			Subtitle:   doc.Vision.Subtitle,
			Background: newMediaRef(doc.Vision.BackgroundImage),
		},
		Business: BusinessForm{
			SubtitleHtml:   doc.Business.SubtitleHtml,
			MoreButtonText: doc.Business.MoreButtonText,
		},
		Media: MediaForm{
			Active:    doc.Media.IsActive(),
			IntroHtml: doc.Media.RichTextIntroHtml,
		},
		Career: CareerForm{
			Active:     doc.Career.IsActive(),
			Categories: strings.Join(doc.Career.Categories, ", "),
		},
		Footer: FooterForm{
			Title:      doc.Footer.Title,
			Subtitle:   doc.Footer.Subtitle,
			ButtonText: doc.Footer.ButtonText,
			Logo:       newMediaRef(doc.Footer.Logo),
			Instagram:  doc.Footer.SNS.Instagram,
			Linkedin:   doc.Footer.SNS.Linkedin,
			Youtube:    doc.Footer.SNS.Youtube,
			Blog:       doc.Footer.SNS.Blog,
		},
		SEO: SEOForm{
			Title:       doc.SEO.Title,
			Description: doc.SEO.Description,
			Keywords:    strings.Join(doc.SEO.Keywords, ", "),
			OgImage:     newMediaRef(doc.SEO.OgImage),
		},
		Meta: doc.Meta,
	}

	for _, s := range doc.Hero.Slides {
		fs.Hero.Slides = append(fs.Hero.Slides, SlideFragment{
			ID:         uuid.New().String(),
			Title:      s.Title,
			Subtitle:   s.Subtitle,
			Background: newMediaRef(s.Background),
			Active:     s.Active,
		})
	}
	for _, c := range doc.Business.Cards {
		fs.Business.Cards = append(fs.Business.Cards, CardFragment{
			ID:    uuid.New().String(),
			Image: newMediaRef(c.Image),
			Title: c.Title,
			Desc:  c.Desc,
			Link:  c.Link,
		})
	}
	for _, img := range doc.Vision.RollingImages {
		fs.Vision.Rolling = append(fs.Vision.Rolling, RollingFragment{
			ID:    uuid.New().String(),
			Image: newMediaRef(img),
		})
	}
	for _, it := range doc.Media.Items {
		fs.Media.Items = append(fs.Media.Items, MediaItemFragment{
			ID:       uuid.New().String(),
			Image:    newMediaRef(it.Image),
			Category: it.Category,
			Title:    it.Title,
			Date:     it.Date,
		})
	}
	for _, p := range doc.Career.Posts {
		fs.Career.Posts = append(fs.Career.Posts, CareerFragment{
			ID:       uuid.New().String(),
			Title:    p.Title,
			Category: p.Category,
			BodyHtml: p.BodyHtml,
			Start:    p.Period.Start,
			End:      p.Period.End,
			Status:   p.Status,
		})
	}

	fs.renumber()
	return fs
}

// Reconstruct derives a Content Document from the current form state.
// List sections are rebuilt entirely from the fragments in their
// present order; order and id fields come out position-derived. The
// output normalizes slightly beyond the input: section active flags
// become explicit booleans and keyword lists are never nil, matching
// what Normalize would produce on save.
func (fs *FormState) Reconstruct() *content.Document {
	mediaActive := fs.Media.Active
	careerActive := fs.Career.Active
	doc := &content.Document{
		Vision: content.Vision{
			Title:           fs.Vision.Title,
			Subtitle:        fs.Vision.Subtitle,
			BackgroundImage: fs.Vision.Background.URL,
		},
		Business: content.Business{
			SubtitleHtml:   fs.Business.SubtitleHtml,
			MoreButtonText: fs.Business.MoreButtonText,
		},
		Media: content.Media{
			Active:            &mediaActive,
			RichTextIntroHtml: fs.Media.IntroHtml,
		},
		Career: content.Career{
			Active:     &careerActive,
			Categories: content.SplitKeywords(fs.Career.Categories),
		},
		Footer: content.Footer{
			Title:      fs.Footer.Title,
			Subtitle:   fs.Footer.Subtitle,
			ButtonText: fs.Footer.ButtonText,
			Logo:       fs.Footer.Logo.URL,
			SNS: content.SNSLinks{
				Instagram: fs.Footer.Instagram,
				Linkedin:  fs.Footer.Linkedin,
				Youtube:   fs.Footer.Youtube,
				Blog:      fs.Footer.Blog,
			},
		},
		SEO: content.SEO{
			Title:       fs.SEO.Title,
			Description: fs.SEO.Description,
			Keywords:    content.SplitKeywords(fs.SEO.Keywords),
			OgImage:     fs.SEO.OgImage.URL,
		},
		Meta: fs.Meta,
	}

	for _, f := range fs.Hero.Slides {
		doc.Hero.Slides = append(doc.Hero.Slides, content.Slide{
			Title:      f.Title,
			Subtitle:   f.Subtitle,
			Background: f.Background.URL,
			Active:     f.Active,
		})
	}
	for _, f := range fs.Business.Cards {
		doc.Business.Cards = append(doc.Business.Cards, content.Card{
			Image: f.Image.URL,
			Title: f.Title,
			Desc:  f.Desc,
			Link:  f.Link,
		})
	}
	for _, f := range fs.Vision.Rolling {
		if f.Image.URL != "" {
			doc.Vision.RollingImages = append(doc.Vision.RollingImages, f.Image.URL)
		}
	}
	for _, f := range fs.Media.Items {
		doc.Media.Items = append(doc.Media.Items, content.MediaItem{
			Image:    f.Image.URL,
			Category: f.Category,
			Title:    f.Title,
			Date:     f.Date,
		})
	}
	for _, f := range fs.Career.Posts {
		doc.Career.Posts = append(doc.Career.Posts, content.Post{
			Title:    f.Title,
			Category: f.Category,
			BodyHtml: f.BodyHtml,
			Period:   content.Period{Start: f.Start, End: f.End},
			Status:   f.Status,
		})
	}

	doc.Normalize()
	return doc
}
