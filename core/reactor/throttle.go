// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle admits at most one call per interval. The first call is admitted
// immediately; calls arriving before the interval has elapsed are dropped.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a throttle with the given interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether a call at now is admitted.
func (t *Throttle) Allow(now time.Time) bool {
	return t.limiter.AllowN(now, 1)
}
