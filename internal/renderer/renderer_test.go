package renderer

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"aerogrid/internal/content"
)

func boolPtr(b bool) *bool { return &b }

func testBase(t *testing.T) *url.URL {
	t.Helper()
	base, err := url.Parse("https://aerogrid.example/admin/preview")
	if err != nil {
		t.Fatal(err)
	}
	return base
}

func fixedRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	r.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return r
}

func renderDoc(t *testing.T, doc *content.Document) string {
	t.Helper()
	out, err := fixedRenderer(t).Render(doc, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func baseDocument() *content.Document {
	return &content.Document{
		Hero: content.Hero{Slides: []content.Slide{
			{Title: "Active video", Background: "/uploads/hero.mp4", Active: true, Order: 2},
			{Title: "Hidden", Background: "/uploads/hidden.jpg", Active: false, Order: 1},
			{Title: "Active image", Background: "/uploads/hero.jpg", Active: true, Order: 1},
		}},
		Vision: content.Vision{
			Title:           "Vision",
			RollingImages:   []string{"/uploads/roll.webp"},
			BackgroundImage: "/uploads/earth.jpg",
		},
		Business: content.Business{
			SubtitleHtml:   "We build <b>vertiports</b>",
			MoreButtonText: "MORE",
			Cards:          []content.Card{{Image: "/uploads/card.jpg", Title: "Card", Desc: "d", Link: "https://x.example"}},
		},
		Media: content.Media{
			RichTextIntroHtml: "<p>press</p>",
			Items:             []content.MediaItem{{Image: "/uploads/m.png", Category: "News", Title: "M", Date: "2026-01-01", Order: 1}},
		},
		Career: content.Career{Posts: []content.Post{
			{Title: "Open role", Category: "Eng", BodyHtml: "<p>b</p>", Period: content.Period{Start: "2026-06-01"}},
		}},
		Footer: content.Footer{Title: "AEROGRID", ButtonText: "Contact", Logo: "/uploads/logo.svg"},
		SEO:    content.SEO{Title: "Site", Description: "Desc", Keywords: []string{"uam", "av"}, OgImage: "/uploads/og.png"},
	}
}

// TestRenderWithoutBaseURL covers the default deployment, where no
// public base URL is configured: stored paths must stay origin-relative
// in the output instead of crashing the page.
func TestRenderWithoutBaseURL(t *testing.T) {
	out, err := fixedRenderer(t).Render(baseDocument(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"/uploads/hero.jpg"`) {
		t.Error("expected the stored path to appear unchanged")
	}
	if strings.Contains(string(out), "://%!") || strings.Contains(string(out), "///uploads") {
		t.Errorf("malformed URL in output")
	}
}

// TestRenderIdempotent checks the applier law: rendering the same
// document twice produces identical bytes.
func TestRenderIdempotent(t *testing.T) {
	r := fixedRenderer(t)
	doc := baseDocument()
	first, err := r.Render(doc, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(doc, testBase(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("second render differs from first")
	}
}

func TestRenderVideoImageDispatch(t *testing.T) {
	// Pairwise across every media-bearing field: a video URL must
	// produce a <video> tag and an image URL an <img> tag.
	set := func(field func(*content.Document, string)) func(string) *content.Document {
		return func(u string) *content.Document {
			d := baseDocument()
			field(d, u)
			return d
		}
	}

	fields := map[string]func(string) *content.Document{
		"hero background": set(func(d *content.Document, u string) { d.Hero.Slides[0].Background = u }),
		"vision earth":    set(func(d *content.Document, u string) { d.Vision.BackgroundImage = u }),
		"rolling image":   set(func(d *content.Document, u string) { d.Vision.RollingImages = []string{u} }),
		"business card":   set(func(d *content.Document, u string) { d.Business.Cards[0].Image = u }),
		"media item":      set(func(d *content.Document, u string) { d.Media.Items[0].Image = u }),
	}

	for name, build := range fields {
		t.Run(name+" video", func(t *testing.T) {
			html := renderDoc(t, build("/uploads/x.mp4"))
			if !strings.Contains(html, `src="https://aerogrid.example/uploads/x.mp4"`) {
				t.Error("video src not absolutized")
			}
			if !strings.Contains(html, "<video") || !videoHasSrc(html, "https://aerogrid.example/uploads/x.mp4") {
				t.Error("video URL did not produce a <video> element")
			}
		})
		t.Run(name+" image", func(t *testing.T) {
			html := renderDoc(t, build("/uploads/x.jpg"))
			if !imgHasSrc(html, "https://aerogrid.example/uploads/x.jpg") {
				t.Error("image URL did not produce an <img> element")
			}
		})
	}
}

// videoHasSrc reports whether some <video> element carries the src.
func videoHasSrc(html, src string) bool {
	for _, chunk := range strings.Split(html, "<video")[1:] {
		end := strings.Index(chunk, ">")
		if end >= 0 && strings.Contains(chunk[:end], src) {
			return true
		}
	}
	return false
}

// imgHasSrc reports whether some <img> element carries the src.
func imgHasSrc(html, src string) bool {
	for _, chunk := range strings.Split(html, "<img")[1:] {
		end := strings.Index(chunk, ">")
		if end >= 0 && strings.Contains(chunk[:end], src) {
			return true
		}
	}
	return false
}

func TestRenderActiveFiltering(t *testing.T) {
	html := renderDoc(t, baseDocument())

	if strings.Contains(html, "hidden.jpg") {
		t.Error("inactive slide rendered")
	}
	// Two active slides → two pagination dots.
	if got := strings.Count(html, `class="hero-dot"`); got != 2 {
		t.Errorf("hero dots = %d, want 2", got)
	}
	// order=1 slide renders before order=2 despite array position.
	if strings.Index(html, "Active image") > strings.Index(html, "Active video") {
		t.Error("slides not sorted by order")
	}
}

func TestRenderSectionVisibility(t *testing.T) {
	doc := baseDocument()
	doc.Media.Active = boolPtr(false)
	doc.Career.Active = boolPtr(false)
	html := renderDoc(t, doc)

	if strings.Contains(html, `id="media"`) || strings.Contains(html, `href="#media"`) {
		t.Error("media section or nav entry rendered while inactive")
	}
	if strings.Contains(html, `id="career"`) || strings.Contains(html, `href="#career"`) {
		t.Error("career section or nav entry rendered while inactive")
	}
	// Other sections unaffected.
	if !strings.Contains(html, `id="vision"`) {
		t.Error("vision section missing")
	}
}

func TestRenderMediaCap(t *testing.T) {
	doc := baseDocument()
	doc.Media.Items = nil
	for i := 0; i < 12; i++ {
		doc.Media.Items = append(doc.Media.Items, content.MediaItem{
			Title: "item", Image: "/uploads/m.png", Order: i + 1,
		})
	}
	html := renderDoc(t, doc)
	if got := strings.Count(html, `class="media-item"`); got != content.MediaDisplayCap {
		t.Errorf("media items rendered = %d, want %d", got, content.MediaDisplayCap)
	}
}

func TestRenderCareerFallback(t *testing.T) {
	doc := baseDocument()
	doc.Career.Posts = []content.Post{
		{Title: "expired", Period: content.Period{End: "2020-01-01"}},
		{Title: "shut", Status: content.PostStatusClosed},
	}
	html := renderDoc(t, doc)

	if strings.Contains(html, "expired") || strings.Contains(html, "shut") {
		t.Error("non-open posts rendered")
	}
	for _, p := range fallbackPosts {
		if !strings.Contains(html, p.Title) {
			t.Errorf("fallback post %q missing", p.Title)
		}
	}
}

func TestRenderHeroRevTracksMedia(t *testing.T) {
	r := fixedRenderer(t)
	base := testBase(t)

	a := baseDocument()
	outA, err := r.Render(a, base)
	if err != nil {
		t.Fatal(err)
	}

	b := baseDocument()
	b.Hero.Slides[0].Background = "/uploads/other.mp4"
	outB, err := r.Render(b, base)
	if err != nil {
		t.Fatal(err)
	}

	revA, revB := extractRev(string(outA)), extractRev(string(outB))
	if revA == "" || revB == "" {
		t.Fatal("hero rev attribute missing")
	}
	if revA == revB {
		t.Error("hero rev unchanged after media swap")
	}
}

func extractRev(html string) string {
	const marker = `data-hero-rev="`
	i := strings.Index(html, marker)
	if i < 0 {
		return ""
	}
	rest := html[i+len(marker):]
	if j := strings.Index(rest, `"`); j >= 0 {
		return rest[:j]
	}
	return ""
}

func TestRenderSubtitleHTMLPassesThrough(t *testing.T) {
	html := renderDoc(t, baseDocument())
	if !strings.Contains(html, "We build <b>vertiports</b>") {
		t.Error("trusted admin HTML was escaped")
	}
}

func TestRenderEmptySectionsSkipped(t *testing.T) {
	// A document with barely anything renders without error. Missing
	// anchors are "not applicable", never a failure.
	doc := &content.Document{
		Hero:     content.Hero{Slides: []content.Slide{{Title: "only", Active: true}}},
		Business: content.Business{Cards: []content.Card{{Title: "c"}}},
	}
	html := renderDoc(t, doc)
	if !strings.Contains(html, "only") {
		t.Error("slide title missing")
	}
}
