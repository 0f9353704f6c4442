// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session

import (
	"github.com/google/uuid"

	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/lrucache"
	"codeberg.org/folio/folio/core/reactor"
)

// MaxViews bounds the page views kept per session. Older views are dropped;
// a report naming a dropped view starts it over.
const MaxViews = 8

// sharedView keys the view of clients that send no valid view id.
const sharedView = "shared"

// View is one loaded copy of the page. Every tab has its own, so effects
// that played in one tab still play in another.
type View struct {
	ID    string
	State *reactor.State

	bus  *events.Bus
	subs []events.Subscription
}

func newView(id string, opts Options, language func() string) *View {
	v := &View{
		ID:    id,
		State: reactor.NewState(opts.Settings, opts.Catalog, language),
		bus:   &events.Bus{},
	}

	v.subs = reactor.Register(v.bus, v.State)

	return v
}

func (v *View) close() {
	for _, sub := range v.subs {
		sub.Unsubscribe()
	}

	v.subs = nil
}

func newViewCache() *lrucache.Cache {
	cache, err := lrucache.New(MaxViews, lrucache.WithEvictFunc(func(_ string, value any) {
		if v, ok := value.(*View); ok {
			v.close()
		}
	}))
	if err != nil {
		// MaxViews is positive
		panic(err)
	}

	return cache
}

// NewView starts a page view with a fresh id: every tracked element may
// animate once and the menu starts closed.
func (s *Session) NewView() *View {
	v := newView(uuid.NewString(), s.opts, s.Language)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.views.Add(v.ID, v)
	}

	return v
}

// View returns the page view named id. An unknown but well-formed id, such
// as one issued before a restart, starts that view over. Ids that are not
// UUIDs share one view. It reports false once the session is closed.
func (s *Session) View(id string) (*View, bool) {
	if uuid.Validate(id) != nil {
		id = sharedView
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}

	if cached, ok := s.views.Get(id); ok {
		if v, ok := cached.(*View); ok {
			return v, true
		}
	}

	v := newView(id, s.opts, s.Language)
	s.views.Add(id, v)

	return v, true
}

// Views returns the number of page views kept.
func (s *Session) Views() int {
	return s.views.Len()
}
