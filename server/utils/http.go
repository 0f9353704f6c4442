// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"codeberg.org/folio/folio/core/events"
)

// IsConnectionSecure returns whether a connection is secure.
//
// Target environments are (containerized and bare metal):
//   - Internet -> reverse proxy (e.g. cloudflare) -> reverse proxy -> application
//   - Internet -> reverse proxy -> application
//   - LAN -> reverse proxy -> application
//   - LAN -> application
//   - localhost -> application
//
// This function will incorrectly return false if the last reverse proxy
// in the chain has a public IP address, but this is expected to be a small minority
// of deployments.
func IsConnectionSecure(r *http.Request) bool {
	// Always secure if directly using TLS
	if r.TLS != nil {
		return true
	}

	// Parse IP from RemoteAddr
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false // Can't determine if it's secure
	}

	parsedIP := net.ParseIP(host)
	if parsedIP == nil {
		return false // Invalid IP
	}

	// Only trust X-Forwarded-Proto from private IPs
	if parsedIP.IsPrivate() && r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}

	return false
}

// IsHtmxRequest reports whether r was issued by htmx.
func IsHtmxRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// SetTriggers writes the collected events as the HX-Trigger response header.
// Nothing is written when there are no events.
func SetTriggers(w http.ResponseWriter, triggers *events.Triggers) error {
	if triggers.Len() == 0 {
		return nil
	}

	header, err := json.Marshal(triggers)
	if err != nil {
		return fmt.Errorf("failed to encode HX-Trigger header: %w", err)
	}

	w.Header().Set("HX-Trigger", string(header))

	return nil
}

// RedirectToWhenceYouCame redirects the user back to the referring page if it's from the same origin.
//
// This helps prevent open redirects by checking the referrer against the current origin.
// If the referrer is not from the same origin, the user is sent to "/".
//
// returnPath  Return to this URL. If empty, return to the referrer.
func RedirectToWhenceYouCame(w http.ResponseWriter, r *http.Request, returnPath string) {
	returnPath = SanitizeReturnPath(returnPath)

	if returnPath == "" {
		referrer := r.Referer()
		if strings.HasPrefix(referrer, GetOriginFromRequest(r)+"/") {
			returnPath = strings.TrimPrefix(referrer, GetOriginFromRequest(r))
		}
	}

	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)
}
