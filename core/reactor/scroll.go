// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import "codeberg.org/folio/folio/core/events"

// ParallaxRate is the factor applied to the scroll offset for parallax layers.
const ParallaxRate = -0.5

// Thresholds holds the scroll offsets, in pixels, at which the page changes.
type Thresholds struct {
	// NavbarScrolled is the offset past which the navbar is compacted.
	NavbarScrolled int
	// NavbarHide is the offset past which scrolling down hides the navbar.
	NavbarHide int
	// BackToTop is the offset past which the back-to-top button shows.
	BackToTop int
	// SectionOffset is subtracted from a section's top when deciding the
	// active navigation link.
	SectionOffset int
}

// NavbarState is the navbar presentation for a scroll offset.
type NavbarState struct {
	Scrolled bool `json:"scrolled"`
	Hidden   bool `json:"hidden"`
}

// Navbar computes the navbar state. previous is the offset seen by the
// previous navbar update.
func (t Thresholds) Navbar(offset, previous int) NavbarState {
	return NavbarState{
		Scrolled: offset > t.NavbarScrolled,
		Hidden:   offset > previous && offset > t.NavbarHide,
	}
}

// BackToTopVisible reports whether the back-to-top button shows.
func (t Thresholds) BackToTopVisible(offset int) bool {
	return offset > t.BackToTop
}

// ActiveSection returns the id of the section containing offset, or "" if
// none does. When sections overlap the last one listed wins.
func (t Thresholds) ActiveSection(offset int, sections []events.Section) string {
	current := ""

	for _, s := range sections {
		top := s.Top - t.SectionOffset
		if offset >= top && offset < top+s.Height {
			current = s.ID
		}
	}

	return current
}

// Parallax returns the vertical translation, in pixels, of parallax layers.
func Parallax(offset int) float64 {
	return ParallaxRate * float64(offset)
}
