// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/folio/folio/core/cookie"
	"codeberg.org/folio/folio/i18n"
	"codeberg.org/folio/folio/server/middleware"
	"codeberg.org/folio/folio/server/request_context"
)

func capture(t *testing.T, req *http.Request) (*request_context.RequestContext, string) {
	t.Helper()

	var (
		rc   *request_context.RequestContext
		lang string
	)

	handler := middleware.Wrap(WithRequestContext, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc = request_context.FromRequest(r)
		lang = i18n.LanguageFrom(r.Context())

		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, rc, "next handler not called")

	return rc, lang
}

func TestWithRequestContextDefaults(t *testing.T) {
	t.Parallel()

	rc, lang := capture(t, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	assert.NoError(t, rc.RequestError)
	assert.Equal(t, "ar", rc.Language)
	assert.Equal(t, "light", rc.Theme)
	assert.Equal(t, "ar", lang)
}

func TestWithRequestContextReadsPreferences(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: string(cookie.LanguageCookie), Value: "en"})
	req.AddCookie(&http.Cookie{Name: string(cookie.ThemeCookie), Value: "dark"})

	rc, lang := capture(t, req)

	assert.Equal(t, "en", rc.Language)
	assert.Equal(t, "dark", rc.Theme)
	assert.Equal(t, "en", lang)
}

func TestWithRequestContextIgnoresTamperedCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: string(cookie.LanguageCookie), Value: "klingon"})

	rc, _ := capture(t, req)

	assert.Equal(t, "ar", rc.Language)
}

func TestWithRequestContextUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for range 3 {
		rc, _ := capture(t, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, seen[rc.RequestID], "duplicate request id")
		seen[rc.RequestID] = true
	}
}
