// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/assets/components/partials"
	"codeberg.org/folio/folio/server/request_context"
)

// ErrorPage renders an error page.
//
// The status code must already be written.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	data := partials.ErrorPageData{
		StatusCode: rc.StatusCode,
		Theme:      rc.Theme,
		RequestID:  rc.RequestID,
	}

	if err := partials.ErrorPage(data).Render(r.Context(), w); err != nil {
		log.Err(err).
			Str("request_id", rc.RequestID).
			Msg("Failed to render the error page")
	}
}

// NotFound answers every path no other route matched.
func NotFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}
