// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"context"
	"sync"
)

// ScrollUpdate carries the parts of the scroll state recomputed for one
// scroll report. Parts whose throttle dropped the report are nil.
type ScrollUpdate struct {
	Offset        int          `json:"y"`
	Navbar        *NavbarState `json:"navbar,omitempty"`
	ParallaxY     *float64     `json:"parallaxY,omitempty"`
	BackToTop     *bool        `json:"backToTop,omitempty"`
	ActiveSection *string      `json:"activeSection,omitempty"`
}

// Empty reports whether nothing was recomputed.
func (u ScrollUpdate) Empty() bool {
	return u.Navbar == nil && u.ParallaxY == nil && u.BackToTop == nil && u.ActiveSection == nil
}

// Plan is the one-shot animation an element runs when it first becomes visible.
type Plan struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	AddClass    string      `json:"addClass,omitempty"`
	RemoveClass string      `json:"removeClass,omitempty"`
	Src         string      `json:"src,omitempty"`
	Counter     *Counter    `json:"counter,omitempty"`
	Frames      []int       `json:"frames,omitempty"`
	Skills      []SkillStep `json:"skills,omitempty"`
}

// Outbox collects reactor output for a single published event.
type Outbox struct {
	mu     sync.Mutex
	scroll ScrollUpdate
	plans  []Plan
}

type outboxKeyType struct{}

var outboxKey = outboxKeyType{}

// WithOutbox returns a context whose reactors write into out.
func WithOutbox(ctx context.Context, out *Outbox) context.Context {
	return context.WithValue(ctx, outboxKey, out)
}

// OutboxFrom returns the outbox carried by ctx, or nil.
func OutboxFrom(ctx context.Context) *Outbox {
	out, _ := ctx.Value(outboxKey).(*Outbox)

	return out
}

// Scroll returns the collected scroll update.
func (o *Outbox) Scroll() ScrollUpdate {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.scroll
}

// Plans returns the collected animation plans.
func (o *Outbox) Plans() []Plan {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]Plan(nil), o.plans...)
}

func (o *Outbox) update(fn func(u *ScrollUpdate)) {
	if o == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	fn(&o.scroll)
}

func (o *Outbox) addPlan(p Plan) {
	if o == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.plans = append(o.plans, p)
}
