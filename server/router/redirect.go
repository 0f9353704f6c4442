// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects section paths such as /about to the
// matching anchor of the one-page site, so they can be shared as links.

package router

import (
	"net/http"
)

// sections lists the page sections reachable by path.
var sections = []string{
	"home",
	"about",
	"skills",
	"projects",
	"testimonials",
	"blog",
	"contact",
}

// redirectToSection is a helper function to redirect requests to the
// anchor of a page section.
//
// Example:   /about   ->   /#about
func redirectToSection(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/#"+section, http.StatusPermanentRedirect)
	}
}

func registerSectionRedirects(router *Router) {
	for _, section := range sections {
		router.HandleFunc("GET /"+section, redirectToSection(section))
	}

	router.HandleFunc("GET /index.html", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusPermanentRedirect)
	})
}
