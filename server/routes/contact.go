// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"codeberg.org/folio/folio/assets/components/partials"
	"codeberg.org/folio/folio/core/contact"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/page"
	"codeberg.org/folio/folio/server/request_context"
	"codeberg.org/folio/folio/server/utils"
)

var errUnknownField = errors.New("unknown contact field")

// ValidateContactField validates the field that lost focus and answers with
// its form group, carrying the inline error or none.
//
// htmx names the field in HX-Trigger-Name; plain posts use the "field" value.
func (app *App) ValidateContactField(w http.ResponseWriter, r *http.Request) error {
	name := r.Header.Get("HX-Trigger-Name")
	if name == "" {
		name = utils.GetFormValue(r, "field")
	}

	f, ok := contact.FieldByName(name)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)

		return fmt.Errorf("%w: %q", errUnknownField, name)
	}

	value := utils.GetFormValue(r, f.Name)

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	return partials.FormGroup(f, value, contact.ValidateField(f, value)).Render(r.Context(), w)
}

// SubmitContact validates the contact form and runs the simulated
// submission.
//
// The response is the form to swap in: emptied on success, refilled with
// inline errors when invalid, refilled as sent while another submission is
// pending. The outcome is announced by a notification. A failed delivery
// leaves the form alone.
func (app *App) SubmitContact(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return fmt.Errorf("failed to parse contact form: %w", err)
	}

	values := make(map[string]string, len(contact.Fields))
	for _, f := range contact.Fields {
		values[f.Name] = r.PostFormValue(f.Name)
	}

	s := app.session(w, r)

	triggers := &events.Triggers{}
	ctx := events.WithTriggers(r.Context(), triggers)

	_, err := s.Submit(ctx, values)

	form := partials.ContactFormData{Values: values}
	status := http.StatusOK

	var invalid contact.Errors

	switch {
	case err == nil:
		form.Values = nil
	case errors.As(err, &invalid):
		form.Errors = invalid
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contact.ErrPending):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	w.Header().Set("Cache-Control", "no-store")

	if utils.IsHtmxRequest(r) {
		if status == http.StatusInternalServerError {
			// CatchError shows the error's message and leaves the form as sent
			return err
		}

		if err := utils.SetTriggers(w, triggers); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)

		if renderErr := partials.ContactForm(form).Render(r.Context(), w); renderErr != nil {
			return renderErr
		}

		return err
	}

	return app.writeContactPage(w, r, status, form, triggers, err)
}

// writeContactPage answers a plain form post with the whole page, the form
// in its new state and the notification shown.
func (app *App) writeContactPage(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form partials.ContactFormData,
	triggers *events.Triggers,
	submitErr error,
) error {
	rc := request_context.FromRequest(r)

	overrides := map[string]templ.Component{
		SlotContactForm: partials.ContactForm(form),
	}

	for _, e := range triggers.Events() {
		if n, ok := e.(events.ShowNotification); ok {
			overrides[SlotNotifications] = partials.Notification(n)
		}
	}

	body, err := app.Pages.RenderWith(r.Context(), rc.Language, rc.Theme, overrides)
	if err != nil {
		return err
	}

	// a plain post loads a whole new page
	view := rc.Session.NewView()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(page.StampView(body, view.ID))

	return submitErr
}
