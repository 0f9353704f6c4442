// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/folio/folio/core/authenticated"
	"codeberg.org/folio/folio/core/contact"
	"codeberg.org/folio/folio/core/cookie"
	"codeberg.org/folio/folio/core/page"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/core/session"
	"codeberg.org/folio/folio/i18n"
	"codeberg.org/folio/folio/server/request_context"
)

const fixture = `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head><title>Portfolio</title></head>
<body>
<nav id="navbar"><button id="lang-toggle"><span id="lang-text">EN</span></button>
<button id="theme-toggle"><i class="fas fa-moon"></i></button></nav>
<section id="about"><h2 data-ar="من أنا" data-en="About me">من أنا</h2></section>
<div class="project-card"></div>
<div data-slot="notifications"></div>
<div data-slot="contact-form"></div>
</body></html>`

func newTestApp(t *testing.T, adjust ...func(*session.Options)) *App {
	t.Helper()

	require.NoError(t, i18n.Setup())

	pages, err := page.NewRenderer([]byte(fixture), page.Options{Slots: Slots(), BodyText: BodyText(), Cache: true})
	require.NoError(t, err)

	var signer authenticated.Validator

	signer.Generate()

	opts := session.Options{
		Settings: reactor.DefaultSettings(),
		Catalog:  pages.Catalog(),
	}
	for _, fn := range adjust {
		fn(&opts)
	}

	sessions, err := session.NewManager(16, time.Minute, &signer, opts)
	require.NoError(t, err)

	return &App{Pages: pages, Sessions: sessions}
}

// newRequest builds a request carrying a request context, in English unless
// lang says otherwise.
func newRequest(t *testing.T, method, target string, form url.Values, htmx bool) *http.Request {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	req.AddCookie(&http.Cookie{Name: string(cookie.LanguageCookie), Value: "en"})

	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func newJSONRequest(t *testing.T, target, body string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func responseCookie(rec *httptest.ResponseRecorder, name cookie.CookieName) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == string(name) {
			return c
		}
	}

	return nil
}

// loadPage requests / with the given session cookie, if any, and returns
// the page view id of the response and its session cookie.
func loadPage(t *testing.T, app *App, sessionCookie *http.Cookie) (string, *http.Cookie) {
	t.Helper()

	req := newRequest(t, http.MethodGet, "/", nil, false)
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}

	rec := httptest.NewRecorder()
	require.NoError(t, app.IndexPage(rec, req))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	viewID := doc.Find("body").AttrOr(page.ViewAttr, "")
	require.NoError(t, uuid.Validate(viewID))

	if c := responseCookie(rec, cookie.SessionCookie); c != nil {
		sessionCookie = c
	}

	return viewID, sessionCookie
}

func visible(t *testing.T, app *App, sessionCookie *http.Cookie, viewID string) int {
	t.Helper()

	req := newJSONRequest(t, "/api/visible", `{"id":"card-1","ratio":0.5,"view":"`+viewID+`"}`)
	req.AddCookie(sessionCookie)

	rec := httptest.NewRecorder()
	require.NoError(t, app.EventHandler(EventVisible)(rec, req))

	return rec.Code
}

func triggers(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	header := rec.Header().Get("HX-Trigger")
	require.NotEmpty(t, header)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(header), &out))

	return out
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := httptest.NewRecorder()

	require.NoError(t, app.IndexPage(rec, newRequest(t, http.MethodGet, "/", nil, false)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lang="en"`)
	assert.Contains(t, rec.Body.String(), `dir="ltr"`)
	assert.Contains(t, rec.Body.String(), "About me")
	assert.Contains(t, rec.Body.String(), `data-error-message="A technical error occurred, please reload the page"`)
	assert.Equal(t, "private, no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Vary"), "Cookie")
	assert.NotNil(t, responseCookie(rec, cookie.SessionCookie))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, (&App{}).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil)))

	assert.Equal(t, "ok\n", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestLanguagePreferenceToggles(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := httptest.NewRecorder()

	require.NoError(t, app.LanguagePreference(rec, newRequest(t, http.MethodPost, "/preferences/language", url.Values{}, true)))

	assert.Equal(t, http.StatusOK, rec.Code)

	c := responseCookie(rec, cookie.LanguageCookie)
	require.NotNil(t, c)
	assert.Equal(t, "ar", c.Value)

	assert.Contains(t, triggers(t, rec), "languageChanged")
	assert.Contains(t, rec.Body.String(), `lang="ar"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestThemePreferenceRedirectsPlainPost(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := httptest.NewRecorder()

	form := url.Values{"theme": {"dark"}}
	require.NoError(t, app.ThemePreference(rec, newRequest(t, http.MethodPost, "/preferences/theme", form, false)))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	c := responseCookie(rec, cookie.ThemeCookie)
	require.NotNil(t, c)
	assert.Equal(t, "dark", c.Value)
}

func TestPreferenceRejectsInvalidValue(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	rec := httptest.NewRecorder()

	form := url.Values{"lang": {"fr"}}
	err := app.LanguagePreference(rec, newRequest(t, http.MethodPost, "/preferences/language", form, true))

	require.ErrorIs(t, err, errInvalidPreference)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, responseCookie(rec, cookie.LanguageCookie))
}

func TestSystemThemePreference(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := httptest.NewRecorder()
	err := app.SystemThemePreference(rec, newRequest(t, http.MethodPost, "/preferences/system-theme", url.Values{"dark": {"maybe"}}, true))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, app.SystemThemePreference(rec, newRequest(t, http.MethodPost, "/preferences/system-theme", url.Values{"dark": {"true"}}, true)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, responseCookie(rec, cookie.ThemeCookie), "a system change is not persisted")
}

func TestEventHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typ      string
		body     string
		wantCode int
		wantJSON string
	}{
		{
			name:     "scroll past the back-to-top offset",
			typ:      EventScroll,
			body:     `{"y":400,"sections":[{"id":"about","top":0,"height":900}]}`,
			wantCode: http.StatusOK,
			wantJSON: `"backToTop":true`,
		},
		{
			name:     "menu toggle opens",
			typ:      EventMenu,
			body:     `{"action":"toggle"}`,
			wantCode: http.StatusOK,
			wantJSON: `"open":true`,
		},
		{
			name:     "unknown menu action",
			typ:      EventMenu,
			body:     `{"action":"spin"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "home key",
			typ:      EventKey,
			body:     `{"key":"Home","inInput":false}`,
			wantCode: http.StatusOK,
			wantJSON: `"target":"top"`,
		},
		{
			name:     "key inside input is ignored",
			typ:      EventKey,
			body:     `{"key":"Home","inInput":true}`,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "visible without id",
			typ:      EventVisible,
			body:     `{"ratio":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed JSON",
			typ:      EventScroll,
			body:     `{"y":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t)
			rec := httptest.NewRecorder()

			err := app.EventHandler(tt.typ)(rec, newJSONRequest(t, "/api/"+tt.typ, tt.body))

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusBadRequest {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)

			if tt.wantJSON != "" {
				assert.Contains(t, rec.Body.String(), tt.wantJSON)
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestIndexPageIssuesViews(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	first, c := loadPage(t, app, nil)
	second, _ := loadPage(t, app, c)

	assert.NotEqual(t, first, second)
}

func TestVisibleEventFiresOncePerView(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	tabA, c := loadPage(t, app, nil)
	tabB, _ := loadPage(t, app, c)

	assert.Equal(t, http.StatusOK, visible(t, app, c, tabA))
	assert.Equal(t, http.StatusNoContent, visible(t, app, c, tabA), "one-shot within a page load")
	assert.Equal(t, http.StatusOK, visible(t, app, c, tabB), "another tab animates too")
	assert.Equal(t, http.StatusNoContent, visible(t, app, c, tabB))
}

func TestPreferenceSwapKeepsView(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	viewID, c := loadPage(t, app, nil)

	req := newRequest(t, http.MethodPost, "/preferences/theme", url.Values{}, true)
	req.AddCookie(c)
	req.Header.Set(ViewHeader, viewID)

	rec := httptest.NewRecorder()
	require.NoError(t, app.ThemePreference(rec, req))
	assert.Contains(t, rec.Body.String(), page.ViewAttr+`="`+viewID+`"`)
}

func TestValidateContactField(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := newRequest(t, http.MethodPost, "/contact/validate", url.Values{"email": {"not-an-email"}}, true)
	req.Header.Set("HX-Trigger-Name", "email")

	rec := httptest.NewRecorder()
	require.NoError(t, app.ValidateContactField(rec, req))
	assert.Contains(t, rec.Body.String(), "Invalid email format")
	assert.Contains(t, rec.Body.String(), `aria-invalid="true"`)

	// a valid value clears the error
	req = newRequest(t, http.MethodPost, "/contact/validate", url.Values{"field": {"name"}, "name": {"Layla"}}, false)

	rec = httptest.NewRecorder()
	require.NoError(t, app.ValidateContactField(rec, req))
	assert.NotContains(t, rec.Body.String(), "aria-invalid")

	req = newRequest(t, http.MethodPost, "/contact/validate", url.Values{"field": {"phone"}}, false)

	rec = httptest.NewRecorder()
	require.ErrorIs(t, app.ValidateContactField(rec, req), errUnknownField)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func validContactForm() url.Values {
	return url.Values{
		"name":    {"Layla"},
		"email":   {"layla@example.com"},
		"subject": {"Hello"},
		"message": {"I would like to work with you."},
	}
}

func TestSubmitContact(t *testing.T) {
	t.Parallel()

	t.Run("invalid form", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()

		err := app.SubmitContact(rec, newRequest(t, http.MethodPost, "/contact", url.Values{"email": {"x"}}, true))
		require.Error(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email format")
		assert.Contains(t, string(triggers(t, rec)["showNotification"]), `"type":"error"`)
	})

	t.Run("valid form resets", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()

		require.NoError(t, app.SubmitContact(rec, newRequest(t, http.MethodPost, "/contact", validContactForm(), true)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "layla@example.com")
		assert.Contains(t, string(triggers(t, rec)["showNotification"]), `"type":"success"`)
	})

	t.Run("failed delivery keeps the form", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, func(opts *session.Options) { opts.InjectFailure = true })
		rec := httptest.NewRecorder()

		err := app.SubmitContact(rec, newRequest(t, http.MethodPost, "/contact", validContactForm(), true))
		require.ErrorIs(t, err, contact.ErrDeliveryFailed)

		msg, ok := i18n.UserMessage(err)
		require.True(t, ok)
		assert.Equal(t, "An error occurred while sending the message", msg)
		assert.Empty(t, rec.Body.String(), "the error handler answers")
	})

	t.Run("plain post renders the page", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()

		require.NoError(t, app.SubmitContact(rec, newRequest(t, http.MethodPost, "/contact", validContactForm(), false)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<html")
		assert.Contains(t, rec.Body.String(), "Your message has been sent successfully!")
		assert.Empty(t, rec.Header().Get("HX-Trigger"))
	})
}
