// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// compiled holds parsed message templates, keyed by the translated text.
var compiled sync.Map

// Tr returns msgid translated into the language carried by ctx. msgid is the
// English text. Optional key, value pairs fill {{.Key}} placeholders.
//
// A msgid without a translation comes back unchanged, or wrapped in ⟦⟧ in
// strict mode.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	loc, tag := resolveLocale(TagFrom(ctx))

	text := msgid

	switch {
	case loc != nil && loc.IsTranslatedD(poDomain, msgid):
		text = loc.GetD(poDomain, msgid)
	case strictMissingKeys():
		logMissingOnce(strippedTagString(tag), msgid)

		text = "⟦" + msgid + "⟧"
	}

	if !strings.Contains(text, "{{") {
		return text
	}

	return fill(tag, text, pairs(kv))
}

// fill executes text as a template over vars. Broken templates are logged
// and returned as they are.
func fill(tag language.Tag, text string, vars map[string]any) string {
	var tmpl *template.Template

	if cached, ok := compiled.Load(text); ok {
		tmpl = cached.(*template.Template)
	} else {
		parsed, err := template.New("msg").Option("missingkey=error").Parse(text)
		if err != nil {
			Logger.Error().Err(err).Str("locale", tag.String()).Str("text", text).Msg("Template parse error")

			return text
		}

		compiled.Store(text, parsed)
		tmpl = parsed
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		Logger.Error().Err(err).Str("locale", tag.String()).Str("text", text).Msg("Template execute error")

		return text
	}

	return b.String()
}

// resolveLocale matches t against the loaded catalogs. Without a match it
// returns nil and the base tag.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	matched, _ := language.MatchStrings(matcher, t.String())

	return localesByTag[matched.String()], matched
}

// pairs turns alternating key, value arguments into template data.
// It panics on an odd count or a non-string key.
func pairs(kv []any) map[string]any {
	if len(kv)%2 != 0 {
		panic("i18n.Tr: odd number of arguments, want key, value pairs")
	}

	m := make(map[string]any, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.Tr: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
