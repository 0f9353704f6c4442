// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package localize rewrites an HTML document for a display language.

Translatable elements carry one attribute per supported language, for
example:

	<h2 data-ar="من أنا" data-en="About me">من أنا</h2>

Apply replaces the text of every such element with the value for the
requested language. Inputs and textareas receive the value as their
placeholder instead. Elements missing a value for the requested language
keep their current text.

Documents are queried on every call; nothing is cached between calls, so
elements inserted after the page was first rendered are picked up as long
as they carry the attributes.
*/
package localize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Supported languages.
const (
	Arabic  = "ar"
	English = "en"
)

// Languages lists every language a translatable element must carry.
var Languages = []string{Arabic, English}

const (
	// toggleSelector is the label inside the language switch.
	toggleSelector = "#lang-text"

	langClassPrefix = "lang-"
)

// Direction returns the text direction for lang.
func Direction(lang string) string {
	if lang == Arabic {
		return "rtl"
	}

	return "ltr"
}

// ToggleLabel is the label of the language switch while lang is active.
// It names the language the switch leads to.
func ToggleLabel(lang string) string {
	if lang == Arabic {
		return "EN"
	}

	return "ع"
}

// Apply localizes the whole document: direction, language attribute,
// body language class, the toggle label and every translatable element.
//
// Applying the same language twice yields the same document.
// It returns the number of translatable elements rewritten.
func Apply(doc *goquery.Document, lang string) int {
	html := doc.Find("html")
	html.SetAttr("lang", lang)
	html.SetAttr("dir", Direction(lang))

	body := doc.Find("body")
	for _, class := range strings.Fields(body.AttrOr("class", "")) {
		if strings.HasPrefix(class, langClassPrefix) {
			body.RemoveClass(class)
		}
	}

	body.AddClass(langClassPrefix + lang)

	doc.Find(toggleSelector).SetText(ToggleLabel(lang))

	return Default.ApplySelection(doc.Selection, lang)
}

// ApplySelection localizes translatable elements inside sel, including sel
// itself, using the default registry.
func ApplySelection(sel *goquery.Selection, lang string) int {
	return Default.ApplySelection(sel, lang)
}

// matching returns every element in sel or below it matching selector.
func matching(sel *goquery.Selection, selector string) *goquery.Selection {
	return sel.Filter(selector).AddSelection(sel.Find(selector))
}
