// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Throttle intervals in milliseconds for scroll-driven effects.
	defaultFastThrottleMs = 10
	defaultSlowThrottleMs = 100

	// Animation timings in milliseconds.
	defaultStatDurationMs  = 2000
	defaultSkillDurationMs = 1500
	defaultSkillStaggerMs  = 200

	// Simulated contact submission delay in milliseconds.
	defaultSubmissionDelayMs = 2000

	// Default session TTL in minutes.
	defaultSessionTTLMinutes = 30
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Preferences.DefaultLanguage = "ar"
	cfg.Preferences.DefaultTheme = "light"
	cfg.Preferences.FollowSystemTheme = true

	cfg.Reactor.NavbarScrolledOffset = 50
	cfg.Reactor.NavbarHideOffset = 100
	cfg.Reactor.BackToTopOffset = 300
	cfg.Reactor.ActiveSectionOffset = 150
	cfg.Reactor.FastThrottle = defaultFastThrottleMs * time.Millisecond
	cfg.Reactor.SlowThrottle = defaultSlowThrottleMs * time.Millisecond
	cfg.Reactor.StatDuration = defaultStatDurationMs * time.Millisecond
	cfg.Reactor.SkillDuration = defaultSkillDurationMs * time.Millisecond
	cfg.Reactor.SkillStagger = defaultSkillStaggerMs * time.Millisecond

	cfg.Contact.SubmissionDelay = defaultSubmissionDelayMs * time.Millisecond
	cfg.Contact.InjectFailure = false
	cfg.Contact.Rate = 0.2
	cfg.Contact.Burst = 5

	cfg.Session.CacheSize = 10000
	cfg.Session.TTL = defaultSessionTTLMinutes * time.Minute

	cfg.PageCache.Enabled = true
	cfg.PageCache.Compress = true

	cfg.Response.Compress = true

	cfg.Instance.RepoURL = "https://codeberg.org/folio/folio"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Internationalization.StrictMissingKeys = false
}
