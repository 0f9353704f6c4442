// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/folio/folio/core/contact"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/lrucache"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/core/theme"
	"codeberg.org/folio/folio/i18n"
)

// Options configures new sessions.
type Options struct {
	Settings        reactor.Settings
	Catalog         reactor.Catalog
	SubmissionDelay time.Duration
	InjectFailure   bool
}

// ErrClosed is returned by sessions that were evicted or expired.
var ErrClosed = errors.New("session closed")

// Session is the state of one visitor. Preferences and the contact form are
// shared by every open tab; reactor state lives in a View per page load.
type Session struct {
	ID string

	Prefs     *preferences.MemoryStore
	Bus       *events.Bus
	Submitter *contact.Submitter

	opts       Options
	created    time.Time
	lastAccess atomic.Int64

	mu     sync.Mutex
	views  *lrucache.Cache
	subs   []events.Subscription
	closed bool
}

// New builds a session and wires its page events to its bus.
func New(id string, opts Options, now time.Time) *Session {
	s := &Session{
		ID:        id,
		Prefs:     preferences.NewMemoryStore(),
		Bus:       &events.Bus{},
		Submitter: contact.NewSubmitter(opts.SubmissionDelay, opts.InjectFailure),
		opts:      opts,
		created:   now,
		views:     newViewCache(),
	}

	s.lastAccess.Store(now.UnixNano())

	s.subs = append(events.Forward(s.Bus), events.On(s.Bus, s.announce))

	return s
}

// Language returns the active language.
func (s *Session) Language() string {
	return s.Prefs.Get(preferences.Language)
}

// Theme returns the active theme.
func (s *Session) Theme() string {
	return s.Prefs.Get(preferences.Theme)
}

// Context returns ctx translating into the session language.
func (s *Session) Context(ctx context.Context) context.Context {
	return i18n.WithLanguage(ctx, s.Language())
}

// Touch records an access at now.
func (s *Session) Touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

// LastAccess returns the time of the latest access.
func (s *Session) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// Created returns the creation time.
func (s *Session) Created() time.Time {
	return s.created
}

// Close detaches every handler and drops the page views.
func (s *Session) Close() {
	s.mu.Lock()

	for _, sub := range s.subs {
		sub.Unsubscribe()
	}

	s.subs = nil
	s.closed = true

	s.mu.Unlock()

	s.views.Purge()
}

// Sync mirrors the values stored in src. Keys src does not hold are reset
// to their defaults.
func (s *Session) Sync(src preferences.Store) {
	fresh := preferences.Snapshot(src)

	for _, key := range preferences.Keys {
		v, ok := fresh.Lookup(key)
		if !ok {
			v = preferences.Default(key)
		}

		s.Prefs.Set(key, v)
	}
}

// SetPreference persists value for key in store and announces the change.
// It reports false, and does nothing, for an invalid value.
func (s *Session) SetPreference(ctx context.Context, store preferences.Store, key preferences.Key, value string) bool {
	if !preferences.Valid(key, value) {
		return false
	}

	store.Set(key, value)
	s.Prefs.Set(key, value)

	s.Bus.Publish(ctx, events.PreferenceChanged{Key: string(key), Value: value})

	return true
}

// TogglePreference flips key and returns the new value.
func (s *Session) TogglePreference(ctx context.Context, store preferences.Store, key preferences.Key) string {
	next := preferences.Opposite(key, store.Get(key))
	s.SetPreference(ctx, store, key, next)

	return next
}

// SystemTheme applies a reported system colour scheme change. It returns the
// displayed theme and whether it follows the system, which it does only
// while store holds no explicit choice.
func (s *Session) SystemTheme(ctx context.Context, store preferences.Store, prefersDark bool) (string, bool) {
	if !theme.SystemChangeApplies(store) {
		return store.Get(preferences.Theme), false
	}

	t := theme.FromDarkMode(prefersDark)
	s.Bus.Publish(ctx, events.ThemeChanged{Theme: t})

	return t, true
}

// announce turns preference writes into the matching page events.
func (s *Session) announce(ctx context.Context, e events.PreferenceChanged) error {
	switch preferences.Key(e.Key) {
	case preferences.Language:
		s.Bus.Publish(ctx, events.LanguageChanged{Language: e.Value})
	case preferences.Theme:
		s.Bus.Publish(ctx, events.ThemeChanged{Theme: e.Value})
	}

	return nil
}

// Menu applies a mobile menu action in the page view viewID.
func (s *Session) Menu(viewID string, action reactor.MenuAction) (reactor.MenuState, error) {
	v, ok := s.View(viewID)
	if !ok {
		return reactor.MenuState{}, ErrClosed
	}

	return v.State.Menu.Handle(action)
}

// Scroll feeds a scroll report of the page view viewID to its reactors and
// returns what they recomputed.
func (s *Session) Scroll(ctx context.Context, viewID string, e events.ScrollPositionChanged) reactor.ScrollUpdate {
	v, ok := s.View(viewID)
	if !ok {
		return reactor.ScrollUpdate{}
	}

	out := &reactor.Outbox{}
	v.bus.Publish(reactor.WithOutbox(ctx, out), e)

	return out.Scroll()
}

// Visible feeds a visibility report of the page view viewID to its
// reactors and returns the animations to start.
func (s *Session) Visible(ctx context.Context, viewID string, e events.VisibilityEntered) []reactor.Plan {
	v, ok := s.View(viewID)
	if !ok {
		return nil
	}

	out := &reactor.Outbox{}
	v.bus.Publish(reactor.WithOutbox(ctx, out), e)

	return out.Plans()
}

// Submit validates values and runs a simulated submission, publishing the
// resulting notification. The error is a contact.Errors for invalid forms.
// Otherwise it is an i18n.UserError wrapping contact.ErrPending, while an
// earlier submission runs, or the delivery error.
func (s *Session) Submit(ctx context.Context, values map[string]string) (contact.Submission, error) {
	ctx = s.Context(ctx)

	if errs := contact.ValidateForm(values); errs != nil {
		events.Notify(ctx, s.Bus, contact.MsgFormInvalid.Tr(ctx), events.NotificationError)

		return contact.Submission{}, errs
	}

	sub, err := s.Submitter.Submit(values)

	switch {
	case err == nil:
		events.Notify(ctx, s.Bus, contact.MsgSent.Tr(ctx), events.NotificationSuccess)

		return sub, nil
	case errors.Is(err, contact.ErrPending):
		ue := i18n.NewUserError(ctx, err, contact.MsgAlreadySending)
		events.Notify(ctx, s.Bus, ue.Error(), events.NotificationInfo)

		return sub, ue
	default:
		ue := i18n.NewUserError(ctx, err, contact.MsgSendFailed)
		events.Notify(ctx, s.Bus, ue.Error(), events.NotificationError)

		return sub, ue
	}
}
