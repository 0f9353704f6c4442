// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/folio/folio/server/middleware"
	"codeberg.org/folio/folio/server/middleware/limiter"
	"codeberg.org/folio/folio/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain. contactLimiter may be nil.
func (router *Router) RegisterMiddleware(contactLimiter *limiter.Limiter) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.Compress)
	router.Use(middleware.NormalizeURL)                // handle trailing slashes and /ar/, /en/ prefixes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.Recover)
	router.Use(middleware.SetResponseHeaders) // all pages need this

	if contactLimiter != nil {
		router.Use(contactLimiter.Evaluate)
	}
}
