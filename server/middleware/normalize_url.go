// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"codeberg.org/folio/folio/core/localize"
	"codeberg.org/folio/folio/core/preferences"
)

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Turning a language prefix (/ar, /en) into a stored preference.
// 2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if lang, rest, ok := languagePrefix(r.URL.Path); ok {
		applyLanguagePrefix(w, r, lang, rest)

		return
	}

	// Check for trailing slash and redirect if found
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	// No normalization needed, continue to next handler
	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	url := *r.URL

	url.Path = strings.TrimRight(url.Path, "/")
	if url.Path == "" {
		url.Path = "/"
	}

	// @iacore: i think this won't have open redirect vuln
	http.Redirect(w, r, url.String(), http.StatusPermanentRedirect)
}

// languagePrefix reports whether path starts with a supported language
// segment, returning the language and the remaining path.
func languagePrefix(path string) (lang, rest string, ok bool) {
	for _, candidate := range localize.Languages {
		prefix := "/" + candidate

		switch {
		case path == prefix:
			return candidate, "/", true
		case strings.HasPrefix(path, prefix+"/"):
			return candidate, path[len(prefix):], true
		}
	}

	return "", "", false
}

// applyLanguagePrefix stores lang and redirects to the unprefixed URL.
// The redirect is temporary since it depends on the cookie it sets.
func applyLanguagePrefix(w http.ResponseWriter, r *http.Request, lang, rest string) {
	preferences.FromRequest(w, r).Set(preferences.Language, lang)

	target := *r.URL
	target.Path = rest

	http.Redirect(w, r, target.String(), http.StatusFound)
}
