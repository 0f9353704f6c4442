// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
//
// NOTE: We don't use the `__Host-` prefix so that preferences keep working on
// non-HTTPS deployments where the localhost exemption doesn't apply.
const (
	// User preference cookies. Readable by the page script.
	LanguageCookie CookieName = "portfolio-language"
	ThemeCookie    CookieName = "portfolio-theme"

	// paseto v4.public token carrying the session id
	SessionCookie CookieName = "portfolio-session"
)

// AllCookieNames defines all cookies that can be set by the user.
var AllCookieNames = []CookieName{
	LanguageCookie,
	ThemeCookie,
	SessionCookie,
}

// IsHttpOnly reports whether a cookie must be hidden from page scripts.
//
//nolint:revive // mirrors the http.Cookie field name
func IsHttpOnly(name CookieName) bool {
	return name == SessionCookie
}
