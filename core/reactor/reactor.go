// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/core/events"
)

// CSS classes toggled by one-shot plans.
const (
	classAnimateIn = "animate-in"
	classLazy      = "lazy"
)

// Settings tunes the reactors.
type Settings struct {
	Thresholds

	// FastThrottle bounds navbar and parallax updates.
	FastThrottle time.Duration
	// SlowThrottle bounds active link and back-to-top updates.
	SlowThrottle time.Duration

	StatDuration  time.Duration
	SkillDuration time.Duration
	SkillStagger  time.Duration
}

// DefaultSettings returns the stock timings and offsets.
func DefaultSettings() Settings {
	return Settings{
		Thresholds: Thresholds{
			NavbarScrolled: 50,
			NavbarHide:     100,
			BackToTop:      300,
			SectionOffset:  150,
		},
		FastThrottle:  10 * time.Millisecond,
		SlowThrottle:  100 * time.Millisecond,
		StatDuration:  2000 * time.Millisecond,
		SkillDuration: 1500 * time.Millisecond,
		SkillStagger:  200 * time.Millisecond,
	}
}

// SettingsFromConfig reads config.Global, keeping defaults for unset values.
func SettingsFromConfig() Settings {
	s := DefaultSettings()
	c := config.Global.Reactor

	setPositive(&s.NavbarScrolled, c.NavbarScrolledOffset)
	setPositive(&s.NavbarHide, c.NavbarHideOffset)
	setPositive(&s.BackToTop, c.BackToTopOffset)
	setPositive(&s.SectionOffset, c.ActiveSectionOffset)
	setPositive(&s.FastThrottle, c.FastThrottle)
	setPositive(&s.SlowThrottle, c.SlowThrottle)
	setPositive(&s.StatDuration, c.StatDuration)
	setPositive(&s.SkillDuration, c.SkillDuration)
	setPositive(&s.SkillStagger, c.SkillStagger)

	return s
}

func setPositive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// State is the reactor state of one page view.
type State struct {
	settings Settings
	catalog  Catalog
	language func() string
	now      func() time.Time

	Tracker *Tracker
	Menu    Menu

	navbar, parallax, activeLink, backToTop *Throttle

	mu         sync.Mutex
	lastOffset int
}

// NewState returns fresh reactor state. language reports the active
// language and selects statistic texts.
func NewState(settings Settings, catalog Catalog, language func() string) *State {
	if catalog == nil {
		catalog = StaticCatalog{}
	}

	if language == nil {
		language = func() string { return "" }
	}

	return &State{
		settings:   settings,
		catalog:    catalog,
		language:   language,
		now:        time.Now,
		Tracker:    NewTracker(),
		navbar:     NewThrottle(settings.FastThrottle),
		parallax:   NewThrottle(settings.FastThrottle),
		activeLink: NewThrottle(settings.SlowThrottle),
		backToTop:  NewThrottle(settings.SlowThrottle),
	}
}

// SetClock replaces the time source used by the throttles.
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// Settings returns the settings the state was built with.
func (s *State) Settings() Settings {
	return s.settings
}

// Register subscribes every reactor to bus.
func Register(bus *events.Bus, s *State) []events.Subscription {
	return []events.Subscription{
		events.On(bus, s.reactNavbar),
		events.On(bus, s.reactParallax),
		events.On(bus, s.reactActiveLink),
		events.On(bus, s.reactBackToTop),
		events.On(bus, s.reactVisibility),
	}
}

func (s *State) reactNavbar(ctx context.Context, e events.ScrollPositionChanged) error {
	if !s.navbar.Allow(s.now()) {
		return nil
	}

	s.mu.Lock()
	state := s.settings.Navbar(e.Offset, s.lastOffset)
	s.lastOffset = e.Offset
	s.mu.Unlock()

	OutboxFrom(ctx).update(func(u *ScrollUpdate) {
		u.Offset = e.Offset
		u.Navbar = &state
	})

	return nil
}

func (s *State) reactParallax(ctx context.Context, e events.ScrollPositionChanged) error {
	if !s.parallax.Allow(s.now()) {
		return nil
	}

	y := Parallax(e.Offset)

	OutboxFrom(ctx).update(func(u *ScrollUpdate) {
		u.Offset = e.Offset
		u.ParallaxY = &y
	})

	return nil
}

func (s *State) reactActiveLink(ctx context.Context, e events.ScrollPositionChanged) error {
	if !s.activeLink.Allow(s.now()) {
		return nil
	}

	active := s.settings.ActiveSection(e.Offset, e.Sections)

	OutboxFrom(ctx).update(func(u *ScrollUpdate) {
		u.Offset = e.Offset
		u.ActiveSection = &active
	})

	return nil
}

func (s *State) reactBackToTop(ctx context.Context, e events.ScrollPositionChanged) error {
	if !s.backToTop.Allow(s.now()) {
		return nil
	}

	visible := s.settings.BackToTopVisible(e.Offset)

	OutboxFrom(ctx).update(func(u *ScrollUpdate) {
		u.Offset = e.Offset
		u.BackToTop = &visible
	})

	return nil
}

func (s *State) reactVisibility(ctx context.Context, e events.VisibilityEntered) error {
	el, ok := s.catalog.Lookup(e.ElementID)
	if !ok {
		log.Debug().
			Str("sys", "reactor").
			Str("element", e.ElementID).
			Msg("Visibility reported for untracked element")

		return nil
	}

	if !s.Tracker.Due(el.ID, el.Kind, e.Ratio) {
		return nil
	}

	// an element without a playable plan keeps its one-shot
	plan, ok := s.plan(el)
	if !ok || !s.Tracker.Mark(el.ID) {
		return nil
	}

	OutboxFrom(ctx).addPlan(plan)

	return nil
}

// plan builds the one-shot animation for el.
func (s *State) plan(el Element) (Plan, bool) {
	p := Plan{ID: el.ID, Kind: el.Kind}

	switch el.Kind {
	case KindCard:
		p.AddClass = classAnimateIn
	case KindImage:
		if el.Src == "" {
			return Plan{}, false
		}

		p.Src = el.Src
		p.RemoveClass = classLazy
	case KindStat:
		n, suffix, ok := ParseStat(el.TextFor(s.language()))
		if !ok {
			return Plan{}, false
		}

		counter := Counter{From: 0, To: n, Duration: s.settings.StatDuration, Suffix: suffix}
		p.Counter = &counter
		p.Frames = counter.Frames(FrameInterval)
	case KindSkills:
		p.Skills = PlanSkills(el.Bars, s.settings.SkillStagger, s.settings.SkillDuration)
	default:
		return Plan{}, false
	}

	return p, true
}
