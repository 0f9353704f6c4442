// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing the zero value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// WithLanguage is WithTag for a plain language code such as "ar".
// Unparseable codes install the base tag.
func WithLanguage(ctx context.Context, code string) context.Context {
	t, err := language.Parse(code)
	if err != nil {
		t = baseTag
	}

	return WithTag(ctx, t)
}

// TagFrom returns the language tag stored in ctx, or the tag for [BaseLocale]
// if none is present. It never returns the zero value of [language.Tag].
//
// TagFrom itself does not panic and simply returns the base language tag when
// no tag is found in ctx or ctx is nil.
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// LanguageFrom returns the base language code of the tag stored in ctx.
func LanguageFrom(ctx context.Context) string {
	base, _ := TagFrom(ctx).Base()

	return base.String()
}
