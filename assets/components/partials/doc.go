// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds the server-rendered pieces of the page that handlers
swap in through htmx: the contact form, notifications and the error page.

Components are written as .templ files. Regenerate the _templ.go files after
editing them:

	go tool templ generate ./assets/components/...
*/
package partials

//go:generate go tool templ generate
