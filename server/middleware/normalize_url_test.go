// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/folio/folio/core/cookie"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
		expectedLanguage string
	}{
		{
			name:           "Root path should not redirect",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Path without trailing slash should not redirect",
			requestURL:     "/healthz",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Path with trailing slash should redirect",
			requestURL:       "/css/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/css",
		},
		{
			name:             "Query parameters should be preserved in trailing slash redirect",
			requestURL:       "/contact/?from=nav",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/contact?from=nav",
		},
		{
			name:             "Bare English prefix selects English",
			requestURL:       "/en",
			expectedStatus:   http.StatusFound,
			expectedLocation: "/",
			expectedLanguage: "en",
		},
		{
			name:             "Arabic prefix with path",
			requestURL:       "/ar/healthz",
			expectedStatus:   http.StatusFound,
			expectedLocation: "/healthz",
			expectedLanguage: "ar",
		},
		{
			name:             "Query parameters should be preserved in language redirect",
			requestURL:       "/en/?x=1",
			expectedStatus:   http.StatusFound,
			expectedLocation: "/?x=1",
			expectedLanguage: "en",
		},
		{
			name:           "Lookalike prefix is not a language",
			requestURL:     "/english",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := Wrap(NormalizeURL, nextHandler)

			req := httptest.NewRequest(http.MethodGet, tt.requestURL, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))

			var language string

			for _, c := range w.Result().Cookies() {
				if c.Name == string(cookie.LanguageCookie) {
					language = c.Value
				}
			}

			assert.Equal(t, tt.expectedLanguage, language)
		})
	}
}

func TestHasTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/", false},
		{"/css", false},
		{"/css/", true},
		{"/img/project-1.svg", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expected, hasTrailingSlash(req))
		})
	}
}

func TestLanguagePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		lang string
		rest string
		ok   bool
	}{
		{"/ar", "ar", "/", true},
		{"/en/", "en", "/", true},
		{"/en/contact", "en", "/contact", true},
		{"/fr/contact", "", "", false},
		{"/arabic", "", "", false},
		{"/", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			lang, rest, ok := languagePrefix(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lang, lang)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
