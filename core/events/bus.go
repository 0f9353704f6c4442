// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package events

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// Handler processes a published event. Returned errors are logged and do not
// stop delivery to the remaining handlers.
type Handler func(ctx context.Context, e Event) error

// Subscription is a registered handler.
type Subscription struct {
	cancel func()
}

// Unsubscribe stops delivery to the handler. Safe to call more than once.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type entry struct {
	id      int
	handler Handler
}

// Bus is an in-process publish/subscribe bus. The zero value is ready to use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Kind][]entry
	nextID int
}

// Subscribe registers handler for events of kind.
func (b *Bus) Subscribe(kind Kind, handler Handler) Subscription {
	if handler == nil {
		return Subscription{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[Kind][]entry)
	}

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], entry{id: id, handler: handler})

	return Subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.subs[kind] = slices.DeleteFunc(b.subs[kind], func(e entry) bool { return e.id == id })
	}}
}

// Publish delivers e to every handler subscribed to its kind, in
// subscription order.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e == nil {
		return
	}

	b.mu.RLock()
	handlers := slices.Clone(b.subs[e.Kind()])
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.handler(ctx, e); err != nil {
			log.Warn().
				Str("sys", "events").
				Str("event", string(e.Kind())).
				Err(err).
				Msg("Event handler failed")
		}
	}
}

// On subscribes a handler for the concrete event type E.
func On[E Event](b *Bus, handler func(ctx context.Context, e E) error) Subscription {
	var zero E

	return b.Subscribe(zero.Kind(), func(ctx context.Context, e Event) error {
		typed, ok := e.(E)
		if !ok {
			return nil
		}

		return handler(ctx, typed)
	})
}
