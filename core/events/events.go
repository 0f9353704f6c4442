// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package events provides the typed observer bus that connects visitor input
(scroll, visibility, preference changes) to the reactors that respond to it.

Dispatch is synchronous: Publish returns after every handler ran.
*/
package events

// Kind identifies an event type on the bus.
//
// The kinds surfaced to the browser use the names the page script listens for.
type Kind string

const (
	KindScrollPositionChanged Kind = "scrollPositionChanged"
	KindVisibilityEntered     Kind = "visibilityEntered"
	KindPreferenceChanged     Kind = "preferenceChanged"
	KindLanguageChanged       Kind = "languageChanged"
	KindThemeChanged          Kind = "themeChanged"
	KindShowNotification      Kind = "showNotification"
)

// Event is a typed occurrence published on a Bus.
type Event interface {
	Kind() Kind
}

// Section is the measured layout box of a page section.
type Section struct {
	ID     string `json:"id"`
	Top    int    `json:"top"`
	Height int    `json:"height"`
}

// ScrollPositionChanged reports a new vertical scroll offset together with
// the section layout measured by the browser.
type ScrollPositionChanged struct {
	Offset   int
	Sections []Section
}

func (ScrollPositionChanged) Kind() Kind { return KindScrollPositionChanged }

// VisibilityEntered reports that a tracked element intersects the viewport.
type VisibilityEntered struct {
	ElementID string
	Ratio     float64
}

func (VisibilityEntered) Kind() Kind { return KindVisibilityEntered }

// PreferenceChanged reports that a persisted preference was overwritten.
type PreferenceChanged struct {
	Key   string
	Value string
}

func (PreferenceChanged) Kind() Kind { return KindPreferenceChanged }

// LanguageChanged carries the newly applied language code.
type LanguageChanged struct {
	Language string `json:"language"`
}

func (LanguageChanged) Kind() Kind { return KindLanguageChanged }

// ThemeChanged carries the newly applied theme.
type ThemeChanged struct {
	Theme string `json:"theme"`
}

func (ThemeChanged) Kind() Kind { return KindThemeChanged }

// NotificationType selects the styling of a transient notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Display durations of notifications.
const (
	NotificationDuration     = 3000
	NotificationLongDuration = 5000
)

// ShowNotification asks the page to display a transient message.
type ShowNotification struct {
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	// DurationMs is how long the message stays, in milliseconds.
	DurationMs int `json:"duration"`
}

func (ShowNotification) Kind() Kind { return KindShowNotification }
