// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package theme applies the light or dark colour theme to a document and
resolves which theme a visitor should see.
*/
package theme

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/folio/folio/core/preferences"
)

const (
	Light = preferences.Light
	Dark  = preferences.Dark
)

const (
	// HintHeader is the client hint carrying the system colour scheme.
	HintHeader = "Sec-CH-Prefers-Color-Scheme"

	toggleIconSelector = "#theme-toggle i"
)

// Icon returns the class list of the theme toggle icon while theme is active.
func Icon(theme string) string {
	if theme == Dark {
		return "fas fa-sun"
	}

	return "fas fa-moon"
}

// Apply sets the document theme attribute and the toggle icon.
// A document without a toggle only receives the attribute.
func Apply(doc *goquery.Document, theme string) {
	doc.Find("html").SetAttr("data-theme", theme)
	doc.Find(toggleIconSelector).SetAttr("class", Icon(theme))
}

// Resolve picks the theme to display: the stored choice if one exists,
// otherwise the system preference when followSystem is set, otherwise
// the store default.
func Resolve(store preferences.Store, system string, followSystem bool) string {
	if v, ok := store.Lookup(preferences.Theme); ok {
		return v
	}

	if followSystem && preferences.Valid(preferences.Theme, system) {
		return system
	}

	return store.Get(preferences.Theme)
}

// SystemHint reads the system colour scheme from the client hint header.
// It returns "" when the browser sent no usable hint.
func SystemHint(r *http.Request) string {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(HintHeader)), `"`)

	switch strings.ToLower(v) {
	case Dark:
		return Dark
	case Light:
		return Light
	}

	return ""
}

// FromDarkMode maps a prefers-color-scheme: dark match to a theme.
func FromDarkMode(prefersDark bool) string {
	if prefersDark {
		return Dark
	}

	return Light
}

// SystemChangeApplies reports whether a system preference change should
// update the displayed theme. It does only while no explicit choice has
// been persisted.
func SystemChangeApplies(store preferences.Store) bool {
	_, explicit := store.Lookup(preferences.Theme)

	return !explicit
}
