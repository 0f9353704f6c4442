// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package idgen makes short, roughly time-ordered identifiers for request
tracing and asset cache busting. Session identifiers use UUIDs instead.
*/
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// entropyBytes encode to exactly four base64 characters.
const entropyBytes = 3

// Make makes a short ID with a 6 character timestamp and 3 bytes of entropy.
func Make() string {
	return makeAt(time.Now())
}

// Prefixed makes an ID like Make with a fixed prefix, e.g. "sub-".
func Prefixed(prefix string) string {
	return prefix + Make()
}

func makeAt(t time.Time) string {
	entropy := [entropyBytes]byte{'a', 'a', 'a'}

	_, _ = rand.Read(entropy[:])

	return maketime(t) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
