// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package partials

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/folio/folio/core/contact"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/i18n"
)

func render(t *testing.T, ctx context.Context, c templ.Component) *goquery.Document {
	t.Helper()

	var b strings.Builder
	require.NoError(t, c.Render(ctx, &b))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)

	return doc
}

func TestContactFormShowsErrors(t *testing.T) {
	require.NoError(t, i18n.Setup())

	ctx := i18n.WithLanguage(context.Background(), "ar")
	values := map[string]string{"name": "S", "email": "a@b"}

	doc := render(t, ctx, ContactForm(ContactFormData{
		Values: values,
		Errors: contact.ValidateForm(values),
	}))

	form := doc.Find("#" + ContactFormID)
	require.Equal(t, 1, form.Length())
	assert.Equal(t, "/contact", form.AttrOr("hx-post", ""))
	assert.Equal(t, 4, form.Find(".form-group").Length())

	email := form.Find("#contact-email")
	assert.Equal(t, "email", email.AttrOr("type", ""))
	assert.Equal(t, "a@b", email.AttrOr("value", ""))
	assert.True(t, email.HasClass("error"))
	assert.Equal(t, "البريد الإلكتروني غير صحيح", form.Find("#contact-email-error").Text())
	assert.Equal(t, "Invalid email format", form.Find("#contact-email-error").AttrOr("data-en", ""))

	assert.Equal(t, "هذا الحقل مطلوب", form.Find("#contact-message-error").Text())
	assert.Equal(t, "textarea", goquery.NodeName(form.Find("#contact-message")))
	assert.Equal(t, "إرسال الرسالة", form.Find("button .btn-label").Text())
}

func TestFormGroupLinksInlineError(t *testing.T) {
	require.NoError(t, i18n.Setup())

	ctx := i18n.WithLanguage(context.Background(), "en")
	name := contact.Fields[0]

	doc := render(t, ctx, FormGroup(name, "S", contact.MsgTooShort))

	group := doc.Find(".form-group")
	require.Equal(t, 1, group.Length())
	assert.True(t, group.HasClass("filled"))

	// typing clears the error through the group: the input is marked and the
	// message sits in the same group
	input := group.Find("#contact-name")
	assert.True(t, input.HasClass("error"))
	assert.Equal(t, "true", input.AttrOr("aria-invalid", ""))
	assert.Equal(t, "contact-name-error", input.AttrOr("aria-describedby", ""))
	assert.Equal(t, "S", input.AttrOr("value", ""))
	assert.Equal(t, "blur", input.AttrOr("hx-trigger", ""))
	assert.Equal(t, 1, group.Find(".error-message#contact-name-error").Length())
	assert.Equal(t, "Name", group.Find("label[for='contact-name']").Text())

	clean := render(t, ctx, FormGroup(name, "", ""))
	assert.False(t, clean.Find(".form-group").HasClass("filled"))
	assert.False(t, clean.Find("#contact-name").Is("[aria-invalid]"))
}

func TestFieldErrorEmptyClears(t *testing.T) {
	t.Parallel()

	doc := render(t, context.Background(), FieldError("contact-name-error", ""))

	span := doc.Find("#contact-name-error")
	require.Equal(t, 1, span.Length())
	assert.Empty(t, span.Text())
	assert.False(t, span.Is("[data-ar]"))
}

func TestNotification(t *testing.T) {
	t.Parallel()

	doc := render(t, context.Background(), Notification(events.ShowNotification{
		Message: "<sent>",
		Type:    events.NotificationSuccess,
	}))

	n := doc.Find("#" + NotificationsID + " .notification")
	require.Equal(t, 1, n.Length())
	assert.True(t, n.HasClass("notification-success"))
	assert.Equal(t, "3000", n.AttrOr("data-duration", ""))
	assert.Equal(t, "<sent>", n.Text())
}

func TestErrorPage(t *testing.T) {
	require.NoError(t, i18n.Setup())

	tests := []struct {
		name   string
		lang   string
		status int
		title  string
		dir    string
	}{
		{name: "not found in Arabic", lang: "ar", status: 404, title: "الصفحة غير موجودة", dir: "rtl"},
		{name: "internal error in English", lang: "en", status: 500, title: "Something went wrong", dir: "ltr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := i18n.WithLanguage(context.Background(), tt.lang)

			doc := render(t, ctx, ErrorPage(ErrorPageData{StatusCode: tt.status, Theme: "dark", RequestID: "req-1"}))

			html := doc.Find("html")
			assert.Equal(t, tt.lang, html.AttrOr("lang", ""))
			assert.Equal(t, tt.dir, html.AttrOr("dir", ""))
			assert.Equal(t, "dark", html.AttrOr("data-theme", ""))
			assert.Equal(t, tt.title, doc.Find("h1").Text())
			assert.Equal(t, "req-1", doc.Find(".error-request-id code").Text())
			assert.Equal(t, "/", doc.Find("a.btn").AttrOr("href", ""))
		})
	}
}
