// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

// ScrollTarget is where a keyboard shortcut scrolls the page.
type ScrollTarget string

const (
	ScrollNone   ScrollTarget = ""
	ScrollTop    ScrollTarget = "top"
	ScrollBottom ScrollTarget = "bottom"
)

// KeyTarget maps a key press to a scroll target. Keys typed inside an
// input or textarea are ignored.
func KeyTarget(key string, inInput bool) ScrollTarget {
	if inInput {
		return ScrollNone
	}

	switch key {
	case "Home":
		return ScrollTop
	case "End":
		return ScrollBottom
	}

	return ScrollNone
}
