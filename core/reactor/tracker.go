// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import "sync"

// Kind classifies a tracked element.
type Kind string

const (
	KindSkills Kind = "skills"
	KindStat   Kind = "stat"
	KindCard   Kind = "card"
	KindImage  Kind = "image"
)

// Threshold returns the intersection ratio at which an element of kind
// becomes visible. Zero means any positive ratio.
func Threshold(kind Kind) float64 {
	switch kind {
	case KindSkills, KindStat:
		return 0.5
	case KindCard:
		return 0.1
	}

	return 0
}

// Crossed reports whether ratio makes an element of kind visible.
func Crossed(kind Kind, ratio float64) bool {
	if ratio <= 0 {
		return false
	}

	return ratio >= Threshold(kind)
}

// Lifecycle of a tracked element: Unseen, then Animated forever.
type Lifecycle uint8

const (
	Unseen Lifecycle = iota
	Animated
)

// Tracker records which elements have already animated.
type Tracker struct {
	mu       sync.Mutex
	animated map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{animated: make(map[string]struct{})}
}

// Due reports whether the element id should animate now: ratio crosses the
// kind's threshold and id has not animated yet. It does not record anything;
// call Mark once the animation is actually started.
func (t *Tracker) Due(id string, kind Kind, ratio float64) bool {
	if !Crossed(kind, ratio) {
		return false
	}

	return t.State(id) == Unseen
}

// Mark records that id animated. It returns false when id was already
// marked, so of two concurrent callers only one wins.
func (t *Tracker) Mark(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, done := t.animated[id]; done {
		return false
	}

	t.animated[id] = struct{}{}

	return true
}

// State returns the lifecycle state of id.
func (t *Tracker) State(id string) Lifecycle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, done := t.animated[id]; done {
		return Animated
	}

	return Unseen
}

// Len returns the number of animated elements.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.animated)
}
