// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"sync"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/config"
)

// compressMinSize is the smallest body worth compressing.
const compressMinSize = 1024

var compressWrapper = sync.OnceValue(func() func(http.Handler) http.HandlerFunc {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(compressMinSize),
		gzhttp.ContentTypes([]string{
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/javascript",
			"application/json",
			"image/svg+xml",
		}),
	)
	if err != nil {
		log.Err(err).Msg("Response compression disabled")

		return nil
	}

	return wrapper
})

// Compress gzip-encodes responses for clients that accept it.
// Websocket upgrades pass through untouched.
func Compress(w http.ResponseWriter, r *http.Request, next http.Handler) {
	wrap := compressWrapper()

	if !config.Global.Response.Compress || wrap == nil || r.Header.Get("Upgrade") != "" {
		next.ServeHTTP(w, r)

		return
	}

	wrap(next).ServeHTTP(w, r)
}
