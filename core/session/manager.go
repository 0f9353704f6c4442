// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/core/cookie"
	"codeberg.org/folio/folio/core/lrucache"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/core/untrusted"
)

var errInvalidTTL = errors.New("session ttl must be positive")

// Signer issues and checks session tokens.
type Signer interface {
	SignSession(sessionID string, ttl time.Duration) string
	VerifySession(token string) (string, error)
}

// Manager finds and creates sessions.
type Manager struct {
	cache  *lrucache.Cache
	signer Signer
	ttl    time.Duration
	opts   Options
	now    func() time.Time
	logger zerolog.Logger
}

// NewManager returns a manager keeping at most size sessions, each expiring
// after ttl without access.
func NewManager(size int, ttl time.Duration, signer Signer, opts Options) (*Manager, error) {
	if ttl <= 0 {
		return nil, errInvalidTTL
	}

	m := &Manager{
		signer: signer,
		ttl:    ttl,
		opts:   opts,
		now:    time.Now,
		logger: log.With().Str("sys", "session").Logger(),
	}

	cache, err := lrucache.New(size, lrucache.WithEvictFunc(m.evicted))
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	m.cache = cache

	return m, nil
}

// NewManagerFromConfig builds a manager from config.Global, signing
// cookies with config.PasetoValidator.
func NewManagerFromConfig(catalog reactor.Catalog) (*Manager, error) {
	cfg := config.Global

	return NewManager(cfg.Session.CacheSize, cfg.Session.TTL, &config.PasetoValidator, Options{
		Settings:        reactor.SettingsFromConfig(),
		Catalog:         catalog,
		SubmissionDelay: cfg.Contact.SubmissionDelay,
		InjectFailure:   cfg.Contact.InjectFailure,
	})
}

// SetClock replaces the time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// FromRequest returns the session named by the request cookie, or starts a
// new one and sets its cookie on w. The session preferences are synced from
// the request cookies either way.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	prefs := preferences.FromRequest(nil, r)

	if token := untrusted.GetSessionToken(r); token != "" {
		id, err := m.signer.VerifySession(token)
		if err != nil {
			m.logger.Debug().Err(err).Msg("Rejected session cookie")
		} else if s, ok := m.Get(id); ok {
			s.Sync(prefs)

			return s, false
		}
	}

	s := m.Start()
	s.Sync(prefs)

	if w != nil {
		untrusted.SetCookie(w, r, cookie.SessionCookie, m.signer.SignSession(s.ID, m.ttl))
	}

	return s, true
}

// Start creates and stores a new session.
func (m *Manager) Start() *Session {
	s := New(uuid.NewString(), m.opts, m.now())
	m.cache.Add(s.ID, s)

	m.logger.Debug().Str("session_id", s.ID).Msg("Session started")

	return s
}

// Get returns the live session id and records the access.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}

	s, ok := v.(*Session)
	if !ok {
		return nil, false
	}

	now := m.now()
	if m.expired(s, now) {
		m.cache.Remove(id)

		return nil, false
	}

	s.Touch(now)

	return s, true
}

// Len returns the number of stored sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}

// Sweep removes every expired session and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	return m.cache.RemoveFunc(func(_ string, v any) bool {
		s, ok := v.(*Session)

		return !ok || m.expired(s, now)
	})
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.ttl / 2
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug().Int("removed", n).Int("live", m.Len()).Msg("Swept idle sessions")
			}
		}
	}
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastAccess()) > m.ttl
}

func (m *Manager) evicted(_ string, v any) {
	if s, ok := v.(*Session); ok {
		s.Close()
	}
}
