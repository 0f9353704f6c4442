// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package events

import (
	"context"
	"encoding/json"
	"sync"
)

// Triggers collects the events that are surfaced to the page as DOM events,
// keyed by event name. A later event of the same kind replaces an earlier one.
type Triggers struct {
	mu    sync.Mutex
	order []Kind
	items map[Kind]Event
}

type triggersKeyType struct{}

var triggersKey = triggersKeyType{}

// WithTriggers returns a context collecting browser events into t.
func WithTriggers(ctx context.Context, t *Triggers) context.Context {
	return context.WithValue(ctx, triggersKey, t)
}

// TriggersFrom returns the collector carried by ctx, or nil.
func TriggersFrom(ctx context.Context) *Triggers {
	t, _ := ctx.Value(triggersKey).(*Triggers)

	return t
}

// Add records e. A nil receiver drops it.
func (t *Triggers) Add(e Event) {
	if t == nil || e == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.items == nil {
		t.items = make(map[Kind]Event)
	}

	if _, seen := t.items[e.Kind()]; !seen {
		t.order = append(t.order, e.Kind())
	}

	t.items[e.Kind()] = e
}

// Events returns the recorded events in first-seen order.
func (t *Triggers) Events() []Event {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.items[k])
	}

	return out
}

// Len returns the number of recorded events.
func (t *Triggers) Len() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.order)
}

// MarshalJSON encodes the events as {"name": detail, ...}, the shape of the
// HX-Trigger response header.
func (t *Triggers) MarshalJSON() ([]byte, error) {
	obj := make(map[Kind]Event)

	for _, e := range t.Events() {
		obj[e.Kind()] = e
	}

	return json.Marshal(obj)
}

// Forward records every browser-facing event published on b into the
// collector of the publishing context.
func Forward(b *Bus) []Subscription {
	record := func(ctx context.Context, e Event) error {
		TriggersFrom(ctx).Add(e)

		return nil
	}

	return []Subscription{
		b.Subscribe(KindLanguageChanged, record),
		b.Subscribe(KindThemeChanged, record),
		b.Subscribe(KindShowNotification, record),
	}
}

// Notify publishes a notification of typ lasting for the default duration.
func Notify(ctx context.Context, b *Bus, message string, typ NotificationType) {
	NotifyFor(ctx, b, message, typ, NotificationDuration)
}

// NotifyFor publishes a notification lasting durationMs milliseconds.
func NotifyFor(ctx context.Context, b *Bus, message string, typ NotificationType, durationMs int) {
	b.Publish(ctx, ShowNotification{Message: message, Type: typ, DurationMs: durationMs})
}
