// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// actions.go implements the structured update actions that replace
// direct DOM mutation. Every list mutation is synchronous and, before
// returning, recomputes the position-derived state (order, ordinal
// labels, add/delete availability) from the final list, so the state is
// never observable half-updated.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aerogrid/internal/content"
)

// Mutation errors surfaced to the admin as user-visible warnings.
var (
	// ErrListFull means insertion was blocked at the maximum count.
	ErrListFull = errors.New("editor: list is at its maximum size")

	// ErrListMin means deletion was blocked at the minimum count.
	ErrListMin = errors.New("editor: list is at its minimum size")

	// ErrNoFragment means the referenced fragment id does not exist.
	ErrNoFragment = errors.New("editor: no such fragment")

	// ErrUnknownField means the action referenced a field the data
	// model does not define.
	ErrUnknownField = errors.New("editor: unknown field")

	// ErrBadAction means the action itself was malformed.
	ErrBadAction = errors.New("editor: malformed action")
)

// Action operations.
const (
	OpSet      = "set"       // set a scalar field (section or fragment scope)
	OpSetMedia = "set-media" // replace a media slot with an uploaded URL
	OpAppend   = "append"    // append a fragment to a list
	OpRemove   = "remove"    // remove a fragment from a list
	OpMove     = "move"      // move a fragment up or down one position
)

// Lists addressable by actions.
const (
	ListSlides  = "hero.slides"
	ListCards   = "business.cards"
	ListRolling = "vision.rollingImages"
	ListItems   = "media.items"
	ListPosts   = "career.posts"
)

// Move directions.
const (
	DirUp   = "up"
	DirDown = "down"
)

// Action is one structured form update dispatched by the admin UI.
type Action struct {
	Op       string `json:"op"`
	List     string `json:"list,omitempty"`
	Fragment string `json:"fragment,omitempty"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value,omitempty"`
	Checked  *bool  `json:"checked,omitempty"`
	Dir      string `json:"dir,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Apply executes one action against the form state. On error the state
// is unchanged.
func (fs *FormState) Apply(a Action) error {
	switch a.Op {
	case OpSet:
		if a.Fragment != "" {
			return fs.setFragmentField(a)
		}
		return fs.setSectionField(a)
	case OpSetMedia:
		return fs.setMedia(a)
	case OpAppend:
		return fs.appendFragment(a.List)
	case OpRemove:
		return fs.removeFragment(a.List, a.Fragment)
	case OpMove:
		return fs.moveFragment(a.List, a.Fragment, a.Dir)
	default:
		return fmt.Errorf("%w: op %q", ErrBadAction, a.Op)
	}
}

// appendFragment inserts a new empty fragment at the end of a list,
// enforcing the maximum-count invariant for bounded lists.
func (fs *FormState) appendFragment(list string) error {
	switch list {
	case ListSlides:
		if len(fs.Hero.Slides) >= content.MaxSlides {
			return fmt.Errorf("%w: hero slides max %d", ErrListFull, content.MaxSlides)
		}
		fs.Hero.Slides = append(fs.Hero.Slides, SlideFragment{ID: uuid.New().String(), Active: true})
	case ListCards:
		if len(fs.Business.Cards) >= content.MaxCards {
			return fmt.Errorf("%w: business cards max %d", ErrListFull, content.MaxCards)
		}
		fs.Business.Cards = append(fs.Business.Cards, CardFragment{ID: uuid.New().String()})
	case ListRolling:
		if len(fs.Vision.Rolling) >= content.MaxRollingImages {
			return fmt.Errorf("%w: rolling images max %d", ErrListFull, content.MaxRollingImages)
		}
		fs.Vision.Rolling = append(fs.Vision.Rolling, RollingFragment{ID: uuid.New().String()})
	case ListItems:
		fs.Media.Items = append(fs.Media.Items, MediaItemFragment{ID: uuid.New().String()})
	case ListPosts:
		fs.Career.Posts = append(fs.Career.Posts, CareerFragment{ID: uuid.New().String(), Status: content.PostStatusActive})
	default:
		return fmt.Errorf("%w: list %q", ErrBadAction, list)
	}
	fs.renumber()
	return nil
}

// removeFragment deletes a fragment, enforcing the minimum-count
// invariant for bounded lists.
func (fs *FormState) removeFragment(list, fragID string) error {
	switch list {
	case ListSlides:
		if len(fs.Hero.Slides) <= content.MinSlides {
			return fmt.Errorf("%w: hero slides min %d", ErrListMin, content.MinSlides)
		}
		i := slideIndex(fs.Hero.Slides, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		fs.Hero.Slides = append(fs.Hero.Slides[:i], fs.Hero.Slides[i+1:]...)
	case ListCards:
		if len(fs.Business.Cards) <= content.MinCards {
			return fmt.Errorf("%w: business cards min %d", ErrListMin, content.MinCards)
		}
		i := cardIndex(fs.Business.Cards, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		fs.Business.Cards = append(fs.Business.Cards[:i], fs.Business.Cards[i+1:]...)
	case ListRolling:
		i := rollingIndex(fs.Vision.Rolling, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		fs.Vision.Rolling = append(fs.Vision.Rolling[:i], fs.Vision.Rolling[i+1:]...)
	case ListItems:
		i := itemIndex(fs.Media.Items, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		fs.Media.Items = append(fs.Media.Items[:i], fs.Media.Items[i+1:]...)
	case ListPosts:
		i := postIndex(fs.Career.Posts, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		fs.Career.Posts = append(fs.Career.Posts[:i], fs.Career.Posts[i+1:]...)
	default:
		return fmt.Errorf("%w: list %q", ErrBadAction, list)
	}
	fs.renumber()
	return nil
}

// moveFragment swaps a fragment with its neighbour. Moving the first
// fragment up or the last one down is a no-op, not an error.
func (fs *FormState) moveFragment(list, fragID, dir string) error {
	if dir != DirUp && dir != DirDown {
		return fmt.Errorf("%w: dir %q", ErrBadAction, dir)
	}
	switch list {
	case ListSlides:
		i := slideIndex(fs.Hero.Slides, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		if j, ok := swapTarget(i, len(fs.Hero.Slides), dir); ok {
			fs.Hero.Slides[i], fs.Hero.Slides[j] = fs.Hero.Slides[j], fs.Hero.Slides[i]
		}
	case ListCards:
		i := cardIndex(fs.Business.Cards, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		if j, ok := swapTarget(i, len(fs.Business.Cards), dir); ok {
			fs.Business.Cards[i], fs.Business.Cards[j] = fs.Business.Cards[j], fs.Business.Cards[i]
		}
	case ListRolling:
		i := rollingIndex(fs.Vision.Rolling, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		if j, ok := swapTarget(i, len(fs.Vision.Rolling), dir); ok {
			fs.Vision.Rolling[i], fs.Vision.Rolling[j] = fs.Vision.Rolling[j], fs.Vision.Rolling[i]
		}
	case ListItems:
		i := itemIndex(fs.Media.Items, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		if j, ok := swapTarget(i, len(fs.Media.Items), dir); ok {
			fs.Media.Items[i], fs.Media.Items[j] = fs.Media.Items[j], fs.Media.Items[i]
		}
	case ListPosts:
		i := postIndex(fs.Career.Posts, fragID)
		if i < 0 {
			return ErrNoFragment
		}
		if j, ok := swapTarget(i, len(fs.Career.Posts), dir); ok {
			fs.Career.Posts[i], fs.Career.Posts[j] = fs.Career.Posts[j], fs.Career.Posts[i]
		}
	default:
		return fmt.Errorf("%w: list %q", ErrBadAction, list)
	}
	fs.renumber()
	return nil
}

// setMedia replaces a media slot with a freshly uploaded asset URL.
// Fragment-scoped slots address the fragment's single upload control;
// section slots use the field name.
func (fs *FormState) setMedia(a Action) error {
	ref := newMediaRef(a.URL)

	if a.Fragment != "" {
		switch a.List {
		case ListSlides:
			if i := slideIndex(fs.Hero.Slides, a.Fragment); i >= 0 {
				fs.Hero.Slides[i].Background = ref
				return nil
			}
		case ListCards:
			if i := cardIndex(fs.Business.Cards, a.Fragment); i >= 0 {
				fs.Business.Cards[i].Image = ref
				return nil
			}
		case ListRolling:
			if i := rollingIndex(fs.Vision.Rolling, a.Fragment); i >= 0 {
				fs.Vision.Rolling[i].Image = ref
				return nil
			}
		case ListItems:
			if i := itemIndex(fs.Media.Items, a.Fragment); i >= 0 {
				fs.Media.Items[i].Image = ref
				return nil
			}
		default:
			return fmt.Errorf("%w: list %q", ErrBadAction, a.List)
		}
		return ErrNoFragment
	}

	switch a.Field {
	case "vision.backgroundImage":
		fs.Vision.Background = ref
	case "footer.logo":
		fs.Footer.Logo = ref
	case "seo.ogImage":
		fs.SEO.OgImage = ref
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
	}
	return nil
}

// setSectionField sets a scalar field outside any list fragment.
func (fs *FormState) setSectionField(a Action) error {
	switch a.Field {
	case "vision.title":
		fs.Vision.Title = a.Value
	case "vision.subtitle":
		fs.Vision.Subtitle = a.Value
	case "business.subtitleHtml":
		fs.Business.SubtitleHtml = a.Value
	case "business.moreButtonText":
		fs.Business.MoreButtonText = a.Value
	case "media.active":
		if a.Checked == nil {
			return fmt.Errorf("%w: media.active needs checked", ErrBadAction)
		}
		fs.Media.Active = *a.Checked
	case "media.richTextIntroHtml":
		fs.Media.IntroHtml = a.Value
	case "career.active":
		if a.Checked == nil {
			return fmt.Errorf("%w: career.active needs checked", ErrBadAction)
		}
		fs.Career.Active = *a.Checked
	case "career.categories":
		fs.Career.Categories = a.Value
	case "footer.title":
		fs.Footer.Title = a.Value
	case "footer.subtitle":
		fs.Footer.Subtitle = a.Value
	case "footer.buttonText":
		fs.Footer.ButtonText = a.Value
	case "footer.sns.instagram":
		fs.Footer.Instagram = a.Value
	case "footer.sns.linkedin":
		fs.Footer.Linkedin = a.Value
	case "footer.sns.youtube":
		fs.Footer.Youtube = a.Value
	case "footer.sns.blog":
		fs.Footer.Blog = a.Value
	case "seo.title":
		fs.SEO.Title = a.Value
	case "seo.description":
		fs.SEO.Description = a.Value
	case "seo.keywords":
		fs.SEO.Keywords = a.Value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
	}
	return nil
}

// setFragmentField sets a scalar field inside a list fragment.
func (fs *FormState) setFragmentField(a Action) error {
	switch a.List {
	case ListSlides:
		i := slideIndex(fs.Hero.Slides, a.Fragment)
		if i < 0 {
			return ErrNoFragment
		}
		s := &fs.Hero.Slides[i]
		switch a.Field {
		case "title":
			s.Title = a.Value
		case "subtitle":
			s.Subtitle = a.Value
		case "active":
			if a.Checked == nil {
				return fmt.Errorf("%w: active needs checked", ErrBadAction)
			}
			s.Active = *a.Checked
		default:
			return fmt.Errorf("%w: slide field %q", ErrUnknownField, a.Field)
		}
	case ListCards:
		i := cardIndex(fs.Business.Cards, a.Fragment)
		if i < 0 {
			return ErrNoFragment
		}
		c := &fs.Business.Cards[i]
		switch a.Field {
		case "title":
			c.Title = a.Value
		case "desc":
			c.Desc = a.Value
		case "link":
			c.Link = a.Value
		default:
			return fmt.Errorf("%w: card field %q", ErrUnknownField, a.Field)
		}
	case ListItems:
		i := itemIndex(fs.Media.Items, a.Fragment)
		if i < 0 {
			return ErrNoFragment
		}
		it := &fs.Media.Items[i]
		switch a.Field {
		case "category":
			it.Category = a.Value
		case "title":
			it.Title = a.Value
		case "date":
			it.Date = a.Value
		default:
			return fmt.Errorf("%w: media item field %q", ErrUnknownField, a.Field)
		}
	case ListPosts:
		i := postIndex(fs.Career.Posts, a.Fragment)
		if i < 0 {
			return ErrNoFragment
		}
		p := &fs.Career.Posts[i]
		switch a.Field {
		case "title":
			p.Title = a.Value
		case "category":
			p.Category = a.Value
		case "bodyHtml":
			p.BodyHtml = a.Value
		case "period.start":
			p.Start = a.Value
		case "period.end":
			p.End = a.Value
		case "status":
			if a.Value != "" && a.Value != content.PostStatusActive && a.Value != content.PostStatusClosed {
				return fmt.Errorf("%w: status %q", ErrBadAction, a.Value)
			}
			p.Status = a.Value
		default:
			return fmt.Errorf("%w: career post field %q", ErrUnknownField, a.Field)
		}
	default:
		return fmt.Errorf("%w: list %q", ErrBadAction, a.List)
	}
	return nil
}

// renumber recomputes every position-derived value from the current
// lists: 1-based order, ordinal labels, and the add/delete gates.
// Runs after every insert, delete, and move.
func (fs *FormState) renumber() {
	canDeleteSlide := len(fs.Hero.Slides) > content.MinSlides
	for i := range fs.Hero.Slides {
		fs.Hero.Slides[i].Order = i + 1
		fs.Hero.Slides[i].Label = fmt.Sprintf("Slide %d", i+1)
		fs.Hero.Slides[i].CanDelete = canDeleteSlide
	}
	fs.Hero.CanAdd = len(fs.Hero.Slides) < content.MaxSlides

	canDeleteCard := len(fs.Business.Cards) > content.MinCards
	for i := range fs.Business.Cards {
		fs.Business.Cards[i].Label = fmt.Sprintf("Card %d", i+1)
		fs.Business.Cards[i].CanDelete = canDeleteCard
	}
	fs.Business.CanAdd = len(fs.Business.Cards) < content.MaxCards

	fs.Vision.CanAdd = len(fs.Vision.Rolling) < content.MaxRollingImages

	for i := range fs.Media.Items {
		fs.Media.Items[i].Order = i + 1
		fs.Media.Items[i].Label = fmt.Sprintf("Item %d", i+1)
	}
	for i := range fs.Career.Posts {
		fs.Career.Posts[i].Label = fmt.Sprintf("Post %d", i+1)
	}
}

// swapTarget computes the neighbour index for a move, reporting false
// when the fragment is already at the boundary.
func swapTarget(i, n int, dir string) (int, bool) {
	if dir == DirUp {
		if i == 0 {
			return 0, false
		}
		return i - 1, true
	}
	if i == n-1 {
		return 0, false
	}
	return i + 1, true
}

func slideIndex(s []SlideFragment, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func cardIndex(s []CardFragment, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func rollingIndex(s []RollingFragment, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func itemIndex(s []MediaItemFragment, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func postIndex(s []CareerFragment, id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}
