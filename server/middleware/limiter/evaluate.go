// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/assets/components/partials"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/server/utils"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit" // This is intended.
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// limitedRoute is the only route the limiter applies to. Submissions are
// the one action with a cost on our side.
const limitedRoute = "/contact"

// Evaluate is the entrypoint to the limiter middleware.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if r.Method != http.MethodPost || r.URL.Path != limitedRoute {
		next.ServeHTTP(w, r)

		return
	}

	network := clientNetwork(r)
	if network == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}

	limiter := l.getOrCreateLimiter(network)

	if blockReason := l.checkRateLimit(limiter); blockReason != "" {
		log.Warn().
			Str("network", network).
			Str("reason", blockReason).
			Msg("Request blocked, exceeded rate limit")

		l.addRateLimitHeaders(w, limiter)
		tooManyRequests(w, r)

		return
	}

	// All checks passed - serve the request.
	l.addRateLimitHeaders(w, limiter)
	next.ServeHTTP(w, r)
}

// tooManyRequests answers a blocked submission. htmx requests keep the form
// in place and show a notification instead.
func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	message := partials.MsgTooManyMessages.Tr(r.Context())

	w.Header().Set("Cache-Control", "no-store")

	if !utils.IsHtmxRequest(r) {
		http.Error(w, message, http.StatusTooManyRequests)

		return
	}

	triggers := &events.Triggers{}
	triggers.Add(events.ShowNotification{
		Message:    message,
		Type:       events.NotificationError,
		DurationMs: events.NotificationLongDuration,
	})

	if err := utils.SetTriggers(w, triggers); err != nil {
		log.Err(err).Msg("Failed to attach the rate limit notification")
	}

	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusTooManyRequests)
}

// addRateLimitHeaders adds rate limiting information to the response headers.
func (l *Limiter) addRateLimitHeaders(w http.ResponseWriter, limiterWrapper *limiterWrapper) {
	limiterWrapper.mu.Lock()
	defer limiterWrapper.mu.Unlock()

	limiter := limiterWrapper.limiter

	// Get current tokens and limit info.
	currentTokens := limiter.TokensAt(l.timeNow())
	burst := limiter.Burst()
	limit := limiter.Limit()

	// Calculate tokens remaining (can't exceed burst).
	remaining := max(int(math.Min(float64(burst), currentTokens)), 0)

	// Calculate seconds until full bucket replenishment (if not already full).
	var resetTime int64

	if currentTokens < float64(burst) {
		tokenDeficit := float64(burst) - currentTokens
		if limit > 0 {
			resetTime = int64(math.Ceil(tokenDeficit / float64(limit)))
		}
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	// Add Retry-After header if rate limited (remaining = 0).
	if remaining <= 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}
