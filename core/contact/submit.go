// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package contact

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrPending is returned while an earlier submission has not settled.
	ErrPending = errors.New("a submission is already pending")
	// ErrDeliveryFailed is returned by an injected failure.
	ErrDeliveryFailed = errors.New("simulated delivery failed")
)

// Submission is a settled form submission.
type Submission struct {
	ID       string
	Values   map[string]string
	Started  time.Time
	Finished time.Time
}

// Submitter runs simulated submissions, one at a time.
//
// A submission cannot be cancelled once started. While one is pending,
// further calls fail with ErrPending.
type Submitter struct {
	// Delay is how long a submission takes.
	Delay time.Duration
	// InjectFailure makes every submission fail.
	InjectFailure bool

	// sleep waits for the delay; replaced in tests.
	sleep   func(time.Duration)
	pending atomic.Bool
}

// NewSubmitter returns a submitter with the given delay.
func NewSubmitter(delay time.Duration, injectFailure bool) *Submitter {
	return &Submitter{Delay: delay, InjectFailure: injectFailure, sleep: time.Sleep}
}

// Pending reports whether a submission is in flight.
func (s *Submitter) Pending() bool {
	return s.pending.Load()
}

// Submit runs one submission of values, which must already be valid.
// It blocks for the configured delay.
func (s *Submitter) Submit(values map[string]string) (Submission, error) {
	if !s.pending.CompareAndSwap(false, true) {
		return Submission{}, ErrPending
	}
	defer s.pending.Store(false)

	sub := Submission{
		ID:      uuid.NewString(),
		Values:  trimmed(values),
		Started: time.Now(),
	}

	logger := log.With().
		Str("sys", "contact").
		Str("submission_id", sub.ID).
		Logger()

	logger.Debug().Dur("delay", s.Delay).Msg("Simulating submission")

	sleep := s.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	if s.Delay > 0 {
		sleep(s.Delay)
	}

	sub.Finished = time.Now()

	if s.InjectFailure {
		logger.Warn().Msg("Submission failed by injection")

		return sub, ErrDeliveryFailed
	}

	logger.Info().Dur("dur", sub.Finished.Sub(sub.Started)).Msg("Submission sent")

	return sub, nil
}

func trimmed(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = strings.TrimSpace(v)
	}

	return out
}
