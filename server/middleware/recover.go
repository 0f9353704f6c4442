// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/server/request_context"
	"codeberg.org/folio/folio/server/utils"
)

var errPanic = errors.New("handler panicked")

// Recover turns a panic in a later handler into a 500 response.
//
// Handlers wrapped in CatchError buffer their output, so nothing has reached
// the client when the panic unwinds to here.
func Recover(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		if v == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity, as net/http does
			panic(v)
		}

		ctx := request_context.FromRequest(r)
		ctx.StatusCode = http.StatusInternalServerError
		ctx.RequestError = fmt.Errorf("%w: %v", errPanic, v)

		log.Error().
			Str("request_id", ctx.RequestID).
			Str("url", r.URL.String()).
			Bytes("stack", debug.Stack()).
			Err(ctx.RequestError).
			Msg("Recovered from panic")

		if utils.IsHtmxRequest(r) {
			notifyError(w, r, ctx.RequestError)
			w.WriteHeader(ctx.StatusCode)

			return
		}

		writeErrorPage(w, r, ctx.StatusCode)
	}()

	next.ServeHTTP(w, r)
}
