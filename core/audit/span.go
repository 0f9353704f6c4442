// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Span represents an HTTP request or live event in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Channel   Channel
	RequestID string
	SessionID string
	Method    string
	URL       string
	// StatusCode for HTTP spans; live spans leave it zero.
	StatusCode int
	Error      error
}

// Channel describes where an event entered the server.
type Channel string

// Constants for event channels.
const (
	FromPage Channel = "page"
	FromLive Channel = "live"
)

// Verbose logs every span at info level instead of debug.
var Verbose bool

func (span Span) ServerTimingName() string {
	// base64 without trailing '=' match the syntax
	return string(span.Channel) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "folio."+string(span.Channel))
	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Extra = make(map[string]string)
		span.metric.Extra["start"] = strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64)
	}

	return ctx
}

// End stops the span clock. Calling it twice is harmless.
func (span *Span) End() {
	if span.task != nil {
		span.duration = time.Since(span.start)
		span.task.End()

		if span.metric != nil {
			span.metric.Duration = span.duration
		}

		span.task = nil
	}
}

// Duration returns the measured span duration, valid after End.
func (span Span) Duration() time.Duration {
	return span.duration
}

func (span Span) Log() {
	var event *zerolog.Event

	switch {
	case span.Error != nil:
		event = log.Warn()
	case Verbose:
		event = log.Info()
	default:
		event = log.Debug()
	}

	event.Str("sys", "http")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Dur("dur", span.duration)
	event.Str("channel", string(span.Channel))
	event.Str("request_id", span.RequestID)

	if span.SessionID != "" {
		event.Str("session_id", span.SessionID)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}
