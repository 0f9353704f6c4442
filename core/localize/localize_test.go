// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localize

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<body class="home lang-ar">
  <button id="lang-toggle"><span id="lang-text">EN</span></button>
  <h2 id="title" data-ar="من أنا" data-en="About me">من أنا</h2>
  <p id="partial" data-ar="" data-en="Only English">Original</p>
  <p id="one-sided" data-en="No Arabic">Untouched</p>
  <input id="name" type="text" data-ar="الاسم" data-en="Name" placeholder="الاسم">
  <textarea id="message" data-ar="رسالتك" data-en="Your message"></textarea>
  <a id="top" href="#" data-aria-ar="العودة للأعلى" data-aria-en="Back to top"></a>
</body>
</html>`

func parse(t *testing.T, src string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)

	return doc
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()

	out, err := doc.Html()
	require.NoError(t, err)

	return out
}

func TestApplyEnglish(t *testing.T) {
	t.Parallel()

	doc := parse(t, testPage)
	n := Apply(doc, English)

	assert.Equal(t, 5, n)
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "ltr", doc.Find("html").AttrOr("dir", ""))
	assert.True(t, doc.Find("body").HasClass("lang-en"))
	assert.False(t, doc.Find("body").HasClass("lang-ar"))
	assert.True(t, doc.Find("body").HasClass("home"))
	assert.Equal(t, "ع", doc.Find("#lang-text").Text())
	assert.Equal(t, "About me", doc.Find("#title").Text())
	assert.Equal(t, "Only English", doc.Find("#partial").Text())
	assert.Equal(t, "Untouched", doc.Find("#one-sided").Text())
	assert.Equal(t, "Name", doc.Find("#name").AttrOr("placeholder", ""))
	assert.Equal(t, "Your message", doc.Find("#message").AttrOr("placeholder", ""))
	assert.Empty(t, doc.Find("#message").Text())
	assert.Equal(t, "Back to top", doc.Find("#top").AttrOr("aria-label", ""))
}

func TestApplyRetitlesDocument(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><head><title data-ar="سارة أحمد" data-en="Sara Ahmed">سارة أحمد</title></head><body></body></html>`)

	assert.Equal(t, 1, Apply(doc, English))

	// the page script reads the pair back to retitle after a body swap
	title := doc.Find("title")
	assert.Equal(t, "Sara Ahmed", title.Text())
	assert.Equal(t, "سارة أحمد", title.AttrOr("data-ar", ""))
	assert.Equal(t, "Sara Ahmed", title.AttrOr("data-en", ""))
}

func TestApplyMissingValueKeepsText(t *testing.T) {
	t.Parallel()

	doc := parse(t, testPage)
	Apply(doc, English)
	Apply(doc, Arabic)

	// data-ar is empty, so the English text stays.
	assert.Equal(t, "Only English", doc.Find("#partial").Text())
	assert.Equal(t, "من أنا", doc.Find("#title").Text())
	assert.Equal(t, "rtl", doc.Find("html").AttrOr("dir", ""))
	assert.Equal(t, "EN", doc.Find("#lang-text").Text())
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, lang := range Languages {
		t.Run(lang, func(t *testing.T) {
			t.Parallel()

			once := parse(t, testPage)
			Apply(once, lang)

			twice := parse(t, testPage)
			Apply(twice, lang)
			Apply(twice, lang)

			assert.Equal(t, render(t, once), render(t, twice))
		})
	}
}

func TestApplySelectionOnInsertedFragment(t *testing.T) {
	t.Parallel()

	doc := parse(t, testPage)
	Apply(doc, English)

	doc.Find("body").AppendHtml(`<div id="late" data-ar="تم" data-en="Done">تم</div>`)

	n := ApplySelection(doc.Find("#late"), English)

	assert.Equal(t, 1, n)
	assert.Equal(t, "Done", doc.Find("#late").Text())
}

func TestDirection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rtl", Direction("ar"))
	assert.Equal(t, "ltr", Direction("en"))
	assert.Equal(t, "ltr", Direction("fr"))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	assert.Equal(t, []string{"text", "aria"}, reg.Rules())

	require.Error(t, reg.Register(Rule{Name: "text", Prefix: "data-", Write: writeAttr("title")}))
	require.Error(t, reg.Register(Rule{Name: "title"}))
	require.NoError(t, reg.Register(Rule{Name: "title", Prefix: "data-title-", Write: writeAttr("title")}))

	doc := parse(t, `<html><body><img id="pic" data-title-ar="صورة" data-title-en="Picture"></body></html>`)

	assert.Equal(t, 1, reg.ApplySelection(doc.Selection, English))
	assert.Equal(t, "Picture", doc.Find("#pic").AttrOr("title", ""))
}
