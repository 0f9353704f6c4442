// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/assets/components/partials"
	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/core/audit"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/i18n"
	"codeberg.org/folio/folio/server/request_context"
	"codeberg.org/folio/folio/server/routes"
	"codeberg.org/folio/folio/server/utils"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// It operates as follows:
//  1. It times the request for logging purposes.
//  2. It wraps the execution of the given handler, which has the signature
//     `func(w http.ResponseWriter, r *http.Request) error`. The handler's
//     output is buffered using an httptest.ResponseRecorder.
//  3. Any error returned by the handler is stored in the request context.
//
// After the handler runs, it decides on the final response:
//   - If the handler returns an error without writing an HTTP error status
//     code (i.e., status < 400), it's treated as an unhandled internal error.
//     The buffered response is discarded. htmx requests receive a 500 with a
//     showNotification trigger and no swap; other requests get the error page.
//   - If the handler wrote a 404 Not Found status, the buffered response is
//     also discarded and replaced with the themed error page.
//   - In all other cases (a successful response, or a handled 4xx such as a
//     validation failure), the buffered response is written to the client.
//
// Finally, it logs the completed request details (status, duration, error, etc.)
// via the audit package.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Channel:   audit.FromPage,
			RequestID: ctx.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		recorder := httptest.NewRecorder()

		// Execute the handler, capturing its output and any returned error.
		err := handler(recorder, r)

		ctx.RequestError = err

		switch {
		case ctx.RequestError != nil && recorder.Code < http.StatusBadRequest && utils.IsHtmxRequest(r):
			ctx.StatusCode = http.StatusInternalServerError

			notifyError(w, r, ctx.RequestError)
			w.WriteHeader(ctx.StatusCode)

		case (ctx.RequestError != nil && recorder.Code < http.StatusBadRequest) || (recorder.Code == http.StatusNotFound):
			// An unhandled error or a 404 occurred. Discard the recorder's contents
			// and render our generic error page.
			if recorder.Code == http.StatusNotFound {
				ctx.StatusCode = http.StatusNotFound
			} else {
				ctx.StatusCode = http.StatusInternalServerError
			}

			writeErrorPage(w, r, ctx.StatusCode)

		default:
			// This is a successful response or a handled error. We trust the recorder's output.
			ctx.StatusCode = recorder.Code
			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if ctx.Session != nil {
			span.SessionID = ctx.Session.ID
		}

		// Log the application response if not excluded.
		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// notifyError asks the page to show the message of err, or the generic
// failure message for errors not meant for the visitor, and to leave the
// document as it is.
func notifyError(w http.ResponseWriter, r *http.Request, err error) {
	message, ok := i18n.UserMessage(err)
	if !ok {
		message = partials.MsgTechnicalError.Tr(r.Context())
	}

	triggers := &events.Triggers{}
	triggers.Add(events.ShowNotification{
		Message:    message,
		Type:       events.NotificationError,
		DurationMs: events.NotificationLongDuration,
	})

	if err := utils.SetTriggers(w, triggers); err != nil {
		log.Err(err).Msg("Failed to attach the error notification")
	}

	w.Header().Set("HX-Reswap", "none")
	w.Header().Set("Cache-Control", "no-store")
}

// writeErrorPage answers with the error page for status.
func writeErrorPage(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	routes.ErrorPage(w, r) // ErrorPage uses ctx.StatusCode
}
