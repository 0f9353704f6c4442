// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"

	"codeberg.org/folio/folio/core/cookie"
)

// GetSessionToken returns the signed session token, if any.
func GetSessionToken(r *http.Request) string {
	return GetCookie(r, cookie.SessionCookie)
}
