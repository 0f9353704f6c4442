// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/a-h/templ"

	"codeberg.org/folio/folio/assets/components/partials"
	"codeberg.org/folio/folio/core/page"
	"codeberg.org/folio/folio/core/session"
	"codeberg.org/folio/folio/i18n"
	"codeberg.org/folio/folio/server/request_context"
)

// Slots of the page filled by components.
const (
	SlotContactForm   = "contact-form"
	SlotNotifications = "notifications"
)

// ViewHeader names the page view an htmx request comes from.
const ViewHeader = "Folio-View"

// Slots returns the components rendered into the page by default.
func Slots() map[string]templ.Component {
	return map[string]templ.Component{
		SlotContactForm:   partials.ContactForm(partials.ContactFormData{}),
		SlotNotifications: partials.NotificationArea(),
	}
}

// BodyText returns the translated texts the page script reads from <body>.
func BodyText() map[string]i18n.Translatable {
	return map[string]i18n.Translatable{
		"data-error-message": partials.MsgTechnicalError,
	}
}

// App carries the state shared by the handlers.
type App struct {
	Pages    *page.Renderer
	Sessions *session.Manager
}

// session returns the visitor session and records it on the request context.
func (app *App) session(w http.ResponseWriter, r *http.Request) *session.Session {
	s, _ := app.Sessions.FromRequest(w, r)
	request_context.FromRequest(r).Session = s

	return s
}

// viewFor returns the id of the page view r comes from, starting a view
// when r names none.
func viewFor(s *session.Session, r *http.Request) string {
	if id := r.Header.Get(ViewHeader); id != "" {
		if v, ok := s.View(id); ok {
			return v.ID
		}
	}

	return s.NewView().ID
}

// writePage writes the rendered document for lang and th, stamped with viewID.
func (app *App) writePage(w http.ResponseWriter, r *http.Request, viewID, lang, th string) error {
	body, err := app.Pages.Render(r.Context(), lang, th)
	if err != nil {
		return err
	}

	writeHTML(w, page.StampView(body, viewID))

	return nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// setPageCacheControl keeps browsers from reusing a page: every load must
// get its own view id.
func setPageCacheControl(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "private, no-cache")
	w.Header().Set("Vary", "Cookie, Sec-CH-Prefers-Color-Scheme")
}
