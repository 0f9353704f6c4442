// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package requestcontext provides per-request state management for HTTP handlers.

This package is separate because Go disallows a cyclic import graph.
*/
package request_context

import (
	"context"
	"net/http"

	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/core/idgen"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/core/session"
	"codeberg.org/folio/folio/core/theme"
	"codeberg.org/folio/folio/i18n"
)

// RequestContext carries request-scoped data through the middleware chain.
type RequestContext struct {
	// RequestID is an identifier for tracing requests.
	RequestID string

	// Holds any critical error encountered during request processing.
	//
	// Automatically populated by middleware.CatchError when handlers return errors,
	// which interrupts normal response handling and renders an error page instead.
	RequestError error

	// HTTP status code to be sent in the response. Defaults to 200 OK.
	StatusCode int

	// Language and Theme are the preferences the response is rendered with.
	Language string
	Theme    string

	// Session is set by handlers that need per-visitor state.
	Session *session.Session
}

// requestContextKeyType defines a unique type for a RequestContext key.
type requestContextKeyType struct{}

// requestContextKey is a unique key used to access RequestContext
// values from a context.Context.
var requestContextKey = requestContextKeyType{}

// WithRequestContext initializes a new request context and attaches it to
// the parent context. The language and theme are read from the preference
// cookies, and the returned context translates into that language.
func WithRequestContext(ctx context.Context, r *http.Request) context.Context {
	store := preferences.FromRequest(nil, r)

	rc := RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
		Language:   store.Get(preferences.Language),
		Theme:      theme.Resolve(store, theme.SystemHint(r), config.Global.Preferences.FollowSystemTheme),
	}

	ctx = i18n.WithLanguage(ctx, rc.Language)

	return context.WithValue(ctx, requestContextKey, &rc)
}

// FromContext extracts the RequestContext from a context, always returning
// a valid pointer.
//
// If no context is found, returns a zero-value instance.
func FromContext(ctx context.Context) *RequestContext {
	if v := ctx.Value(requestContextKey); v != nil {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}

	return &RequestContext{}
}

// FromRequest is a convenience wrapper for extracting RequestContext
// directly from HTTP requests.
//
// Prefer this in handlers that have access to the *http.Request object.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
