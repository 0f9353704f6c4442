// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localize

import (
	"context"

	"github.com/a-h/templ"

	"codeberg.org/folio/folio/i18n"
)

// Attributes returns the data-ar/data-en attributes for a catalogue msgid,
// so that fragments rendered later stay translatable by Apply.
func Attributes(msgid string) templ.Attributes {
	attrs := make(templ.Attributes, len(Languages))

	for _, lang := range Languages {
		attrs["data-"+lang] = i18n.Tr(i18n.WithLanguage(context.Background(), lang), msgid)
	}

	return attrs
}
