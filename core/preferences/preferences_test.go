// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package preferences

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	assert.Equal(t, Arabic, s.Get(Language))
	assert.Equal(t, Light, s.Get(Theme))

	_, ok := s.Lookup(Theme)
	assert.False(t, ok)
}

func TestMemoryStoreIgnoresInvalidValues(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	s.Set(Language, "fr")
	s.Set(Theme, "sepia")
	s.Set(Key("font"), "serif")

	assert.Equal(t, Arabic, s.Get(Language))
	assert.Equal(t, Light, s.Get(Theme))
}

func TestToggleTheme(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	assert.Equal(t, Dark, Toggle(s, Theme))

	v, ok := s.Lookup(Theme)
	require.True(t, ok)
	assert.Equal(t, Dark, v)

	assert.Equal(t, Light, Toggle(s, Theme))
	assert.Equal(t, Light, s.Get(Theme))
}

func TestToggleLanguage(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	assert.Equal(t, English, Toggle(s, Language))
	assert.Equal(t, Arabic, Toggle(s, Language))
}

func TestCookieStorePersistsAcrossRequests(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/preferences/theme", nil)

	store := FromRequest(rec, req)
	assert.Equal(t, Dark, Toggle(store, Theme))
	// visible within the same request
	assert.Equal(t, Dark, store.Get(Theme))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "portfolio-theme", cookies[0].Name)
	assert.Equal(t, Dark, cookies[0].Value)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])

	assert.Equal(t, Dark, FromRequest(nil, next).Get(Theme))
}

func TestCookieStoreTamperedValueFallsBack(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "portfolio-language", Value: "xx"})

	store := FromRequest(nil, req)

	assert.Equal(t, Arabic, store.Get(Language))

	_, ok := store.Lookup(Language)
	assert.False(t, ok)
}

func TestCookieStoreWithoutWriterIsSilent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := FromRequest(nil, req)

	assert.NotPanics(t, func() { store.Set(Theme, Dark) })
	assert.Equal(t, Light, store.Get(Theme))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	src := NewMemoryStore()
	src.Set(Language, English)

	dst := Snapshot(src)
	src.Set(Language, Arabic)

	assert.Equal(t, English, dst.Get(Language))

	_, ok := dst.Lookup(Theme)
	assert.False(t, ok)
}
