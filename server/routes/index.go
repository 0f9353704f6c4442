// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/folio/folio/server/request_context"
)

// IndexPage is the handler for the / page.
//
// Every load starts a new page view, so effects that already played in an
// earlier view or another tab play again.
func (app *App) IndexPage(w http.ResponseWriter, r *http.Request) error {
	rc := request_context.FromRequest(r)

	view := app.session(w, r).NewView()

	setPageCacheControl(w)

	return app.writePage(w, r, view.ID, rc.Language, rc.Theme)
}

// Healthz reports that the server is up.
func (app *App) Healthz(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))

	return nil
}
