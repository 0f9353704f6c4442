// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/server/request_context"
	"codeberg.org/folio/folio/server/utils"
)

var (
	errInvalidPreference = errors.New("invalid preference value")
	errInvalidDarkFlag   = errors.New("invalid dark flag")
)

// LanguagePreference toggles the language, or sets it from the "lang" form value.
func (app *App) LanguagePreference(w http.ResponseWriter, r *http.Request) error {
	return app.changePreference(w, r, preferences.Language, "lang")
}

// ThemePreference toggles the theme, or sets it from the "theme" form value.
func (app *App) ThemePreference(w http.ResponseWriter, r *http.Request) error {
	return app.changePreference(w, r, preferences.Theme, "theme")
}

// changePreference stores the new value of key. htmx requests get the page
// re-rendered with it, plus the matching change event; other requests are
// sent back where they came from.
func (app *App) changePreference(w http.ResponseWriter, r *http.Request, key preferences.Key, formKey string) error {
	rc := request_context.FromRequest(r)
	s := app.session(w, r)
	store := preferences.FromRequest(w, r)

	displayed := map[preferences.Key]string{
		preferences.Language: rc.Language,
		preferences.Theme:    rc.Theme,
	}

	value := utils.GetFormValue(r, formKey, preferences.Opposite(key, displayed[key]))

	triggers := &events.Triggers{}
	ctx := events.WithTriggers(r.Context(), triggers)

	if !s.SetPreference(ctx, store, key, value) {
		w.WriteHeader(http.StatusBadRequest)

		return fmt.Errorf("%w: %s=%q", errInvalidPreference, key, value)
	}

	displayed[key] = value

	if !utils.IsHtmxRequest(r) {
		utils.RedirectToWhenceYouCame(w, r, "")

		return nil
	}

	if err := utils.SetTriggers(w, triggers); err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "no-store")

	return app.writePage(w, r, viewFor(s, r), displayed[preferences.Language], displayed[preferences.Theme])
}

// SystemThemePreference receives a change of the system colour scheme,
// reported as the "dark" form value. It only has an effect while no theme
// was chosen explicitly.
func (app *App) SystemThemePreference(w http.ResponseWriter, r *http.Request) error {
	dark, err := strconv.ParseBool(utils.GetFormValue(r, "dark"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return fmt.Errorf("%w: %w", errInvalidDarkFlag, err)
	}

	s := app.session(w, r)

	triggers := &events.Triggers{}
	ctx := events.WithTriggers(r.Context(), triggers)

	s.SystemTheme(ctx, preferences.FromRequest(w, r), dark)

	if !utils.IsHtmxRequest(r) {
		utils.RedirectToWhenceYouCame(w, r, "")

		return nil
	}

	if err := utils.SetTriggers(w, triggers); err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)

	return nil
}
