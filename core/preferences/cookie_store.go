// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package preferences

import (
	"net/http"

	"codeberg.org/folio/folio/core/cookie"
	"codeberg.org/folio/folio/core/untrusted"
)

var cookieNames = map[Key]cookie.CookieName{
	Language: cookie.LanguageCookie,
	Theme:    cookie.ThemeCookie,
}

// CookieStore persists preferences as cookies on the visitor's browser.
//
// Values written during a request are visible to later reads in the same request.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[Key]string
}

// FromRequest returns a Store backed by the cookies of r.
// w may be nil, in which case every Set is dropped.
func FromRequest(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, written: make(map[Key]string, len(cookieNames))}
}

func (s *CookieStore) Get(key Key) string {
	return get(s, key)
}

func (s *CookieStore) Lookup(key Key) (string, bool) {
	if v, ok := s.written[key]; ok {
		return v, true
	}

	name, ok := cookieNames[key]
	if !ok || s.r == nil {
		return "", false
	}

	v := untrusted.GetCookie(s.r, name)
	if !Valid(key, v) {
		return "", false
	}

	return v, true
}

func (s *CookieStore) Set(key Key, value string) {
	name, ok := cookieNames[key]
	if !ok || s.w == nil || s.r == nil || !Valid(key, value) {
		return
	}

	untrusted.SetCookie(s.w, s.r, name, value)
	s.written[key] = value
}
