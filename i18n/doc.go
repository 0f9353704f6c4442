// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides internationalisation utilities backed by GNU gettext
.po catalogues. It translates source message IDs (msgids) across locales
into the visitor's language.

# Quick start

Use the original English UI text as the msgid; do not invent keys.

Translate strings with calls such as:

	i18n.Tr(ctx, "Email is required")

Errors meant for the visitor carry a translated message:

	i18n.NewUserError(ctx, err, contact.MsgSendFailed)

Translations can be used directly in templ components:

	i18n.MsgKey("Sending...")

# Catalogues

Catalogues are embedded from po/<locale>.po. English is the base locale and
needs no catalogue. Regenerate the template with cmd/i18n_extract.

# Missing translations

By default, missing translations return the msgid unchanged. When
StrictMissingKeys is enabled, missing lookups are logged once
per locale+key and the returned text is visibly wrapped as "⟦...⟧".

# Formatting

Translations can include placeholders that are processed by Go's standard
text/template package. Provide substitutions as alternating key-value pairs
to Tr:

	i18n.Tr(ctx, "Welcome, {{.Name}}!", "Name", name)
*/
package i18n
