// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderer applies a Content Document to the public page. It is
// the server-side content applier: Render is a pure function of the
// document and base URL, so applying the same document twice yields
// byte-identical output. Media elements are emitted as <video> or <img>
// according to the shared dispatch rule, and every stored URL is
// absolutized before it reaches a src attribute.
package renderer

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html/template"
	"net/url"
	"strings"
	"time"

	"aerogrid/internal/content"
	"aerogrid/web"
)

// fallbackPosts is shown when no career post qualifies as open.
var fallbackPosts = []PostView{
	{Title: "Flight Operations Engineer", Category: "Engineering", Period: "Open until filled"},
	{Title: "Ground Infrastructure Designer", Category: "Design", Period: "Open until filled"},
}

// MediaView is one resolved media slot. IsVideo selects the element
// tag; Src is always absolute.
type MediaView struct {
	Src     string
	IsVideo bool
}

// SlideView is one active hero slide, in display order.
type SlideView struct {
	Title    string
	Subtitle string
	Media    MediaView
	HasMedia bool
}

// CardView is one business card.
type CardView struct {
	Media    MediaView
	HasMedia bool
	Title    string
	Desc     string
	Link     string
}

// MediaItemView is one press/media entry within the display cap.
type MediaItemView struct {
	Media    MediaView
	HasMedia bool
	Category string
	Title    string
	Date     string
}

// PostView is one open career posting.
type PostView struct {
	Title    string
	Category string
	Body     template.HTML
	Period   string
}

// PageData is everything the public page template can reference.
type PageData struct {
	SEOTitle       string
	SEODescription string
	SEOKeywords    string
	OGImage        string

	Slides []SlideView
	// HeroRev changes whenever the hero media set changes, so the
	// carousel controller re-reads its element list instead of holding
	// stale references.
	HeroRev string

	VisionTitle      string
	VisionSubtitle   string
	VisionBackground MediaView
	HasVisionBg      bool
	RollingImages    []MediaView

	BusinessSubtitle template.HTML
	MoreButtonText   string
	Cards            []CardView

	ShowMedia  bool
	MediaIntro template.HTML
	MediaItems []MediaItemView

	ShowCareer  bool
	CareerPosts []PostView

	FooterTitle    string
	FooterSubtitle string
	FooterButton   string
	FooterLogo     MediaView
	HasFooterLogo  bool
	Instagram      string
	Linkedin       string
	Youtube        string
	Blog           string

	Year int
}

// Renderer renders the public page from a Content Document.
type Renderer struct {
	tmpl *template.Template
	// now is injectable for deterministic tests.
	now func() time.Time
}

// New parses the embedded public page template.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/public.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("renderer: parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl, now: time.Now}, nil
}

// Render applies the document to the public page and returns the HTML.
// Safe to call repeatedly with the same document; the output does not
// depend on prior calls.
func (r *Renderer) Render(doc *content.Document, base *url.URL) ([]byte, error) {
	data := r.buildPage(doc, base)
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("renderer: execute: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPage converts the document into the template view model,
// applying active filtering, display caps, and URL absolutization.
func (r *Renderer) buildPage(doc *content.Document, base *url.URL) *PageData {
	today := r.now()
	data := &PageData{
		SEOTitle:       doc.SEO.Title,
		SEODescription: doc.SEO.Description,
		SEOKeywords:    strings.Join(doc.SEO.Keywords, ", "),
		OGImage:        content.AbsoluteURL(base, doc.SEO.OgImage),

		VisionTitle:    doc.Vision.Title,
		VisionSubtitle: doc.Vision.Subtitle,

		BusinessSubtitle: template.HTML(doc.Business.SubtitleHtml),
		MoreButtonText:   doc.Business.MoreButtonText,

		ShowMedia:  doc.Media.IsActive(),
		MediaIntro: template.HTML(doc.Media.RichTextIntroHtml),

		ShowCareer: doc.Career.IsActive(),

		FooterTitle:    doc.Footer.Title,
		FooterSubtitle: doc.Footer.Subtitle,
		FooterButton:   doc.Footer.ButtonText,
		Instagram:      doc.Footer.SNS.Instagram,
		Linkedin:       doc.Footer.SNS.Linkedin,
		Youtube:        doc.Footer.SNS.Youtube,
		Blog:           doc.Footer.SNS.Blog,

		Year: today.Year(),
	}

	heroHash := fnv.New32a()
	for _, s := range doc.Hero.ActiveSlides() {
		view := SlideView{Title: s.Title, Subtitle: s.Subtitle}
		if s.Background != "" {
			view.Media = mediaView(base, s.Background)
			view.HasMedia = true
			heroHash.Write([]byte(view.Media.Src))
		}
		heroHash.Write([]byte{0})
		data.Slides = append(data.Slides, view)
	}
	data.HeroRev = fmt.Sprintf("%08x", heroHash.Sum32())

	if doc.Vision.BackgroundImage != "" {
		data.VisionBackground = mediaView(base, doc.Vision.BackgroundImage)
		data.HasVisionBg = true
	}
	for _, img := range doc.Vision.RollingImages {
		if img != "" {
			data.RollingImages = append(data.RollingImages, mediaView(base, img))
		}
	}

	for _, c := range doc.Business.Cards {
		view := CardView{Title: c.Title, Desc: c.Desc, Link: c.Link}
		if c.Image != "" {
			view.Media = mediaView(base, c.Image)
			view.HasMedia = true
		}
		data.Cards = append(data.Cards, view)
	}

	if data.ShowMedia {
		for _, it := range doc.Media.DisplayItems() {
			view := MediaItemView{Category: it.Category, Title: it.Title, Date: it.Date}
			if it.Image != "" {
				view.Media = mediaView(base, it.Image)
				view.HasMedia = true
			}
			data.MediaItems = append(data.MediaItems, view)
		}
	}

	if data.ShowCareer {
		open := doc.Career.OpenPosts(today)
		if len(open) == 0 {
			data.CareerPosts = fallbackPosts
		} else {
			for _, p := range open {
				data.CareerPosts = append(data.CareerPosts, PostView{
					Title:    p.Title,
					Category: p.Category,
					Body:     template.HTML(p.BodyHtml),
					Period:   periodLabel(p.Period),
				})
			}
		}
	}

	if doc.Footer.Logo != "" {
		data.FooterLogo = mediaView(base, doc.Footer.Logo)
		data.HasFooterLogo = true
	}

	return data
}

// mediaView resolves one stored URL into an absolute src with its
// element kind.
func mediaView(base *url.URL, stored string) MediaView {
	return MediaView{
		Src:     content.AbsoluteURL(base, stored),
		IsVideo: content.IsVideoURL(stored),
	}
}

// periodLabel formats a posting's application window for display.
func periodLabel(p content.Period) string {
	switch {
	case p.Start != "" && p.End != "":
		return p.Start + " ~ " + p.End
	case p.Start != "":
		return p.Start + " ~"
	case p.End != "":
		return "~ " + p.End
	default:
		return "Open until filled"
	}
}
