// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This file provides network-based rate limiting for contact submissions.

Clients are grouped by their IP network and every network gets its own
token bucket. Buckets that were not touched for LimiterExpiryDuration are
dropped by the cleanup loop.
*/
package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/folio/folio/config"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep limiters in memory before cleanup.
	CleanupInterval       = 5 * time.Minute // Interval between limiter cleanup runs.
)

// limiterWrapper holds a rate limiter and additional metadata.
//
// Limiters are associated with an IP network and persist in Limiter.limiters.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string     // Associated network identifier
	lastAccess time.Time  // Last time limiter was accessed
	mu         sync.Mutex // mutex for operations on this limiter
}

// Limiter hands out one token bucket per client network.
type Limiter struct {
	rate  rate.Limit
	burst int

	limiters sync.Map // network -> *limiterWrapper
	timeNow  func() time.Time
}

// New returns a limiter refilling ratePerSecond tokens up to burst.
func New(ratePerSecond float64, burst int) *Limiter {
	return &Limiter{
		rate:    rate.Limit(ratePerSecond),
		burst:   burst,
		timeNow: time.Now,
	}
}

// NewFromConfig returns a limiter using the contact limits of config.Global.
func NewFromConfig() *Limiter {
	return New(config.Global.Contact.Rate, config.Global.Contact.Burst)
}

// checkRateLimit attempts to consume 1 token from the limiterWrapper.
//
// Returns an empty string if the request is allowed, or a non-empty string with
// the reason if the request is blocked due to rate limiting.
func (l *Limiter) checkRateLimit(limiter *limiterWrapper) string {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := l.timeNow()

	// Update last access time
	limiter.lastAccess = now

	if !limiter.limiter.AllowN(now, 1) {
		log.Warn().
			Str("network", limiter.network).
			Msg("Rate limit exceeded")

		return "Rate limit exceeded"
	}

	return ""
}

// getOrCreateLimiter returns the limiterWrapper for the given network.
func (l *Limiter) getOrCreateLimiter(networkStr string) *limiterWrapper {
	if value, ok := l.limiters.Load(networkStr); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	value, _ := l.limiters.LoadOrStore(networkStr, &limiterWrapper{
		limiter:    rate.NewLimiter(l.rate, l.burst),
		network:    networkStr,
		lastAccess: l.timeNow(),
	})

	limWrapper, _ := value.(*limiterWrapper)

	return limWrapper
}

// Len returns the number of tracked networks.
func (l *Limiter) Len() int {
	n := 0

	l.limiters.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// cleanupExpiredLimiters removes limiters that haven't been accessed for the expiry duration.
func (l *Limiter) cleanupExpiredLimiters() int {
	now := l.timeNow()

	var keysToDelete []any

	// Collect keys to delete in a slice to avoid deleting during Range()
	l.limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			keysToDelete = append(keysToDelete, key)

			return true
		}

		limWrapper.mu.Lock()

		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if now.Sub(lastAccess) > LimiterExpiryDuration {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	for _, key := range keysToDelete {
		l.limiters.Delete(key)
	}

	if len(keysToDelete) > 0 {
		log.Info().Int("count", len(keysToDelete)).
			Msg("Cleaned up expired limiters")
	}

	return len(keysToDelete)
}
