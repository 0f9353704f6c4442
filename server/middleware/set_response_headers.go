// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"

	"codeberg.org/folio/folio/config"
)

const (
	// htmxOrigin serves the htmx script loaded by the page.
	htmxOrigin = "https://unpkg.com"

	// iconOrigin serves the icon font stylesheet and its font files.
	iconOrigin = "https://cdnjs.cloudflare.com"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Folio-Version and Folio-Revision are added dynamically in SetResponseHeaders.
	//
	// NOTE: we intentionally don't set CORP or HSTS headers.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
		// ask for the colour scheme hint used to pick the initial theme;
		// Critical-CH makes the browser retry the first load with it
		"Accept-CH":   {"Sec-CH-Prefers-Color-Scheme"},
		"Critical-CH": {"Sec-CH-Prefers-Color-Scheme"},
		"Vary":        {"Sec-CH-Prefers-Color-Scheme"},
	}

	contentSecurityPolicy = strings.Join([]string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'self' " + htmxOrigin,
		"style-src 'self' 'unsafe-inline' " + iconOrigin,
		"font-src 'self' " + iconOrigin,
		"img-src 'self' data:",
		// the live channel is a same-origin websocket
		"connect-src 'self' ws: wss:",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ") + ";"

	// defaultPermissionsPolicy defines the default Permissions-Policy header.
	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"ambient-light-sensor=()",
		"battery=()",
		"camera=()",
		"display-capture=()",
		"document-domain=()",
		"encrypted-media=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"midi=()",
		"payment=()",
		"publickey-credentials-get=()",
		"screen-wake-lock=()",
		"sync-xhr=()",
		"usb=()",
		"web-share=()",
		"xr-spatial-tracking=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Folio-Version", config.BuildVersion)
	headers.Set("Folio-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", contentSecurityPolicy)

	next.ServeHTTP(w, r)
}

// for `invalidateCache`
var firstDevResponse = true

// clear cache in development
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse {
		firstDevResponse = false

		headers.Set("Clear-Site-Data", "cache")
	}
}

// setCacheControl sets appropriate cache control headers for static assets.
// Handlers may override it, as the index page does.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation
	cacheDuration := "private, no-cache"

	// JavaScript and CSS get a moderate cache time (1 week)
	if strings.HasPrefix(path, "/js/") || strings.HasPrefix(path, "/css/") {
		cacheDuration = "max-age=604800"
	}

	// Images can be cached for 2 weeks
	if strings.HasPrefix(path, "/img/") {
		cacheDuration = "max-age=1209600"
	}

	// Text files (robots.txt) get moderate caching (1 day)
	if strings.HasSuffix(path, ".txt") {
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}
