// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"codeberg.org/folio/folio/core/localize"
	"codeberg.org/folio/folio/core/lrucache"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/core/theme"
	"codeberg.org/folio/folio/i18n"
)

// slotAttr marks a placeholder replaced by a server-rendered component.
const slotAttr = "data-slot"

// ViewAttr on <body> names the page view the document belongs to. Rendered
// pages carry it empty; StampView fills it per response.
const ViewAttr = "data-view"

var viewPlaceholder = []byte(" " + ViewAttr + `=""`)

var (
	errEmptySource  = errors.New("page source is empty")
	errMissingSlot  = errors.New("page has no placeholder for slot")
	errNoHTMLTarget = errors.New("page has no html element")
)

// Options configures a Renderer.
type Options struct {
	// Slots maps data-slot names to the components rendered into them.
	Slots map[string]templ.Component
	// Cache keeps rendered pages per language and theme.
	Cache bool
	// Compress stores cached pages zstd-compressed.
	Compress bool
	// BodyText maps attributes of <body> to the text translated into them.
	BodyText map[string]i18n.Translatable
}

// Renderer produces the localized, themed document.
type Renderer struct {
	source  string
	catalog reactor.StaticCatalog
	slots   map[string]templ.Component
	text    map[string]i18n.Translatable
	cache   *lrucache.Cache
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewRenderer parses source, annotates its tracked elements and checks that
// every slot has a placeholder.
func NewRenderer(source []byte, opts Options) (*Renderer, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, errEmptySource
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	if doc.Find("html").Length() == 0 {
		return nil, errNoHTMLTarget
	}

	for name := range opts.Slots {
		if doc.Find(slotSelector(name)).Length() == 0 {
			return nil, fmt.Errorf("%w: %q", errMissingSlot, name)
		}
	}

	catalog := Annotate(doc)
	doc.Find("body").SetAttr(ViewAttr, "")

	annotated, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}

	r := &Renderer{
		source:  annotated,
		catalog: catalog,
		slots:   opts.Slots,
		text:    opts.BodyText,
		logger:  log.With().Str("sys", "page").Logger(),
	}

	if opts.Cache {
		var cacheOpts []lrucache.Option
		if opts.Compress {
			cacheOpts = append(cacheOpts, lrucache.WithCompression())
		}

		// one entry per language and theme
		r.cache, err = lrucache.New(len(localize.Languages)*2, cacheOpts...)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Debug().Int("tracked", len(catalog)).Msg("Parsed page")

	return r, nil
}

// Catalog returns the tracked elements of the page.
func (r *Renderer) Catalog() reactor.Catalog {
	return r.catalog
}

// Render returns the document for lang and th.
func (r *Renderer) Render(ctx context.Context, lang, th string) ([]byte, error) {
	if !preferences.Valid(preferences.Language, lang) {
		lang = preferences.Default(preferences.Language)
	}

	if !preferences.Valid(preferences.Theme, th) {
		th = preferences.Default(preferences.Theme)
	}

	key := lang + "/" + th

	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			if page, ok := v.([]byte); ok {
				return page, nil
			}
		}
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		page, err := r.render(ctx, lang, th, r.slots)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			r.cache.Add(key, page)
		}

		return page, nil
	})
	if err != nil {
		return nil, err
	}

	page, _ := v.([]byte)

	// singleflight shares the slice between callers
	return bytes.Clone(page), nil
}

// RenderWith renders lang and th with some slots replaced by overrides.
// The result is never cached.
func (r *Renderer) RenderWith(ctx context.Context, lang, th string, overrides map[string]templ.Component) ([]byte, error) {
	if !preferences.Valid(preferences.Language, lang) {
		lang = preferences.Default(preferences.Language)
	}

	if !preferences.Valid(preferences.Theme, th) {
		th = preferences.Default(preferences.Theme)
	}

	slots := maps.Clone(r.slots)
	if slots == nil {
		slots = make(map[string]templ.Component, len(overrides))
	}

	maps.Copy(slots, overrides)

	return r.render(ctx, lang, th, slots)
}

// Warm renders every language and theme combination concurrently.
func (r *Renderer) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, lang := range localize.Languages {
		for _, th := range []string{theme.Light, theme.Dark} {
			g.Go(func() error {
				_, err := r.Render(ctx, lang, th)

				return err
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to warm page cache: %w", err)
	}

	return nil
}

func (r *Renderer) render(ctx context.Context, lang, th string, slots map[string]templ.Component) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	ctx = i18n.WithLanguage(ctx, lang)

	for name, component := range slots {
		var buf bytes.Buffer
		if err := component.Render(ctx, &buf); err != nil {
			return nil, fmt.Errorf("failed to render slot %q: %w", name, err)
		}

		doc.Find(slotSelector(name)).ReplaceWithHtml(buf.String())
	}

	n := localize.Apply(doc, lang)
	theme.Apply(doc, th)

	body := doc.Find("body")
	for attr, text := range r.text {
		body.SetAttr(attr, text.Tr(ctx))
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize page: %w", err)
	}

	r.logger.Debug().
		Str("lang", lang).
		Str("theme", th).
		Int("localized", n).
		Int("bytes", len(out)).
		Msg("Rendered page")

	return []byte(out), nil
}

// StampView returns page with the view id filled in. page must come from
// Render or RenderWith and is modified in place.
func StampView(page []byte, viewID string) []byte {
	i := bytes.Index(page, viewPlaceholder)
	if i < 0 {
		return page
	}

	stamp := " " + ViewAttr + `="` + html.EscapeString(viewID) + `"`

	return slices.Concat(page[:i], []byte(stamp), page[i+len(viewPlaceholder):])
}

func slotSelector(name string) string {
	return "[" + slotAttr + "=\"" + name + "\"]"
}
