// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package preferences

import (
	"codeberg.org/folio/folio/config"
)

// Key names a stored preference.
type Key string

const (
	Language Key = "language"
	Theme    Key = "theme"
)

// Keys lists every preference key.
var Keys = []Key{Language, Theme}

// Supported values.
const (
	Arabic  = "ar"
	English = "en"

	Light = "light"
	Dark  = "dark"
)

// Store is a key-value store holding at most one value per Key.
type Store interface {
	// Get returns the stored value, or Default(key) when nothing valid is stored.
	Get(key Key) string
	// Lookup returns the stored value and whether one exists.
	Lookup(key Key) (string, bool)
	// Set overwrites the stored value. Invalid values are ignored.
	Set(key Key, value string)
}

// Valid reports whether value is allowed for key.
func Valid(key Key, value string) bool {
	switch key {
	case Language:
		return value == Arabic || value == English
	case Theme:
		return value == Light || value == Dark
	}

	return false
}

// Default returns the configured default for key, falling back to
// Arabic and Light when the configuration holds nothing usable.
func Default(key Key) string {
	switch key {
	case Language:
		if v := config.Global.Preferences.DefaultLanguage; Valid(key, v) {
			return v
		}

		return Arabic
	case Theme:
		if v := config.Global.Preferences.DefaultTheme; Valid(key, v) {
			return v
		}

		return Light
	}

	return ""
}

// Opposite returns the other supported value for key.
func Opposite(key Key, value string) string {
	switch key {
	case Language:
		if value == Arabic {
			return English
		}

		return Arabic
	case Theme:
		if value == Dark {
			return Light
		}

		return Dark
	}

	return value
}

// Toggle flips the stored value of key and returns the new value.
func Toggle(s Store, key Key) string {
	next := Opposite(key, s.Get(key))
	s.Set(key, next)

	return next
}

func get(s Store, key Key) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}

	return Default(key)
}
