// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/folio/folio/core/contact"
	"codeberg.org/folio/folio/core/cookie"
	"codeberg.org/folio/folio/core/events"
	"codeberg.org/folio/folio/core/preferences"
	"codeberg.org/folio/folio/core/reactor"
	"codeberg.org/folio/folio/i18n"
)

var errBadToken = errors.New("bad token")

// plainSigner uses the session id itself as the token.
type plainSigner struct{}

func (plainSigner) SignSession(id string, _ time.Duration) string { return "t." + id }

func (plainSigner) VerifySession(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "t.")
	if !ok {
		return "", errBadToken
	}

	return id, nil
}

var testOptions = Options{
	Settings: reactor.DefaultSettings(),
	Catalog: reactor.StaticCatalog{
		"card-1": {ID: "card-1", Kind: reactor.KindCard},
	},
}

func newManager(t *testing.T, size int) *Manager {
	t.Helper()

	m, err := NewManager(size, time.Minute, plainSigner{}, testOptions)
	require.NoError(t, err)

	return m
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == string(cookie.SessionCookie) {
			return c
		}
	}

	t.Fatal("session cookie not set")

	return nil
}

func TestFromRequestStartsAndResumes(t *testing.T) {
	t.Parallel()

	m := newManager(t, 4)

	rec := httptest.NewRecorder()
	first, created := m.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, created)

	c := sessionCookie(t, rec)
	assert.True(t, c.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	req.AddCookie(&http.Cookie{Name: string(cookie.LanguageCookie), Value: "en"})

	again, created := m.FromRequest(httptest.NewRecorder(), req)
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, "en", again.Language())
}

func TestFromRequestRejectsForgedCookie(t *testing.T) {
	t.Parallel()

	m := newManager(t, 4)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: string(cookie.SessionCookie), Value: "forged"})

	s, created := m.FromRequest(httptest.NewRecorder(), req)
	assert.True(t, created)
	assert.NotEmpty(t, s.ID)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	t.Parallel()

	m := newManager(t, 4)
	now := time.Unix(1700000000, 0)
	m.SetClock(func() time.Time { return now })

	idle := m.Start()
	now = now.Add(50 * time.Second)
	active := m.Start()
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, m.Sweep())

	_, ok := m.Get(idle.ID)
	assert.False(t, ok)

	_, ok = m.Get(active.ID)
	assert.True(t, ok)
}

func TestEvictionDetachesReactors(t *testing.T) {
	t.Parallel()

	m := newManager(t, 1)
	old := m.Start()
	view := old.NewView()
	m.Start()

	plans := old.Visible(context.Background(), view.ID, events.VisibilityEntered{ElementID: "card-1", Ratio: 1})
	assert.Empty(t, plans, "evicted sessions no longer react")

	_, err := old.Menu(view.ID, reactor.MenuToggle)
	require.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, old.Views())
}

func TestRunJanitorStopsWithContext(t *testing.T) {
	t.Parallel()

	m := newManager(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, m.RunJanitor(ctx, time.Millisecond))
}

func TestToggleLanguageTriggersEvent(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())
	store := preferences.NewMemoryStore()

	triggers := &events.Triggers{}
	ctx := events.WithTriggers(context.Background(), triggers)

	assert.Equal(t, "en", s.TogglePreference(ctx, store, preferences.Language))
	assert.Equal(t, "en", s.Language())
	assert.Equal(t, "en", store.Get(preferences.Language))
	assert.Equal(t, []events.Event{events.LanguageChanged{Language: "en"}}, triggers.Events())
}

func TestSetPreferenceRejectsInvalidValue(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())
	store := preferences.NewMemoryStore()

	assert.False(t, s.SetPreference(context.Background(), store, preferences.Theme, "sepia"))

	_, ok := store.Lookup(preferences.Theme)
	assert.False(t, ok)
}

func TestSystemThemeOnlyWithoutExplicitChoice(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())
	store := preferences.NewMemoryStore()

	got, follows := s.SystemTheme(context.Background(), store, true)
	assert.True(t, follows)
	assert.Equal(t, "dark", got)

	store.Set(preferences.Theme, "light")

	got, follows = s.SystemTheme(context.Background(), store, true)
	assert.False(t, follows)
	assert.Equal(t, "light", got)
}

func TestSubmit(t *testing.T) {
	require.NoError(t, i18n.Setup())

	valid := map[string]string{
		"name":    "Sara",
		"email":   "sara@example.com",
		"subject": "Hello",
		"message": "A question",
	}

	t.Run("invalid form", func(t *testing.T) {
		s := New("s1", testOptions, time.Now())
		triggers := &events.Triggers{}

		_, err := s.Submit(events.WithTriggers(context.Background(), triggers), map[string]string{"email": "x"})

		var errs contact.Errors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, contact.MsgInvalidEmail, errs.Of("email"))
		require.Len(t, triggers.Events(), 1)
		assert.Equal(t, events.ShowNotification{
			Message:    "يرجى تصحيح الأخطاء في النموذج",
			Type:       events.NotificationError,
			DurationMs: events.NotificationDuration,
		}, triggers.Events()[0])
	})

	t.Run("success", func(t *testing.T) {
		s := New("s1", testOptions, time.Now())
		s.Prefs.Set(preferences.Language, "en")

		triggers := &events.Triggers{}

		sub, err := s.Submit(events.WithTriggers(context.Background(), triggers), valid)
		require.NoError(t, err)
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, events.ShowNotification{
			Message:    "Your message has been sent successfully!",
			Type:       events.NotificationSuccess,
			DurationMs: events.NotificationDuration,
		}, triggers.Events()[0])
	})

	t.Run("injected failure", func(t *testing.T) {
		opts := testOptions
		opts.InjectFailure = true

		s := New("s1", opts, time.Now())
		s.Prefs.Set(preferences.Language, "en")

		triggers := &events.Triggers{}

		_, err := s.Submit(events.WithTriggers(context.Background(), triggers), valid)
		require.ErrorIs(t, err, contact.ErrDeliveryFailed)

		msg, ok := i18n.UserMessage(err)
		require.True(t, ok)
		assert.Equal(t, "An error occurred while sending the message", msg)
		assert.Equal(t, events.NotificationError, triggers.Events()[0].(events.ShowNotification).Type)
	})

	t.Run("pending", func(t *testing.T) {
		opts := testOptions
		opts.SubmissionDelay = 300 * time.Millisecond

		s := New("s1", opts, time.Now())

		done := make(chan error, 1)

		go func() {
			_, err := s.Submit(context.Background(), valid)
			done <- err
		}()

		require.Eventually(t, s.Submitter.Pending, time.Second, time.Millisecond)

		triggers := &events.Triggers{}

		_, err := s.Submit(events.WithTriggers(context.Background(), triggers), valid)
		require.ErrorIs(t, err, contact.ErrPending)

		msg, ok := i18n.UserMessage(err)
		require.True(t, ok)
		assert.Equal(t, "رسالتك قيد الإرسال بالفعل", msg)
		assert.Equal(t, events.NotificationInfo, triggers.Events()[0].(events.ShowNotification).Type)

		require.NoError(t, <-done, "the first submission is not affected")
	})
}

func TestNewViewResetsTracker(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())
	seen := events.VisibilityEntered{ElementID: "card-1", Ratio: 0.5}

	first := s.NewView()
	require.Len(t, s.Visible(context.Background(), first.ID, seen), 1)
	assert.Empty(t, s.Visible(context.Background(), first.ID, seen), "one-shot within a view")

	_, err := s.Menu(first.ID, reactor.MenuToggle)
	require.NoError(t, err)

	reload := s.NewView()
	assert.NotEqual(t, first.ID, reload.ID)
	assert.Len(t, s.Visible(context.Background(), reload.ID, seen), 1)
	assert.False(t, reload.State.Menu.State().Open)
}

func TestViewsAreIndependent(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())
	seen := events.VisibilityEntered{ElementID: "card-1", Ratio: 0.5}

	tabA := s.NewView()
	tabB := s.NewView()

	assert.Len(t, s.Visible(context.Background(), tabA.ID, seen), 1)
	assert.Len(t, s.Visible(context.Background(), tabB.ID, seen), 1, "another tab still animates")
	assert.Empty(t, s.Visible(context.Background(), tabA.ID, seen))

	_, err := s.Menu(tabA.ID, reactor.MenuToggle)
	require.NoError(t, err)
	assert.True(t, tabA.State.Menu.State().Open)
	assert.False(t, tabB.State.Menu.State().Open)
}

func TestViewLookup(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())

	issued := s.NewView()

	v, ok := s.View(issued.ID)
	require.True(t, ok)
	assert.Same(t, issued, v)

	// issued before a restart
	stale := "8f14e45f-ceea-467f-a0e7-1b6f3e1c9d2a"
	v, ok = s.View(stale)
	require.True(t, ok)
	assert.Equal(t, stale, v.ID)

	garbage, ok := s.View("<script>")
	require.True(t, ok)

	empty, ok := s.View("")
	require.True(t, ok)
	assert.Same(t, garbage, empty, "ids that are not UUIDs share one view")
}

func TestViewsAreBounded(t *testing.T) {
	t.Parallel()

	s := New("s1", testOptions, time.Now())

	first := s.NewView()
	for range MaxViews {
		s.NewView()
	}

	assert.Equal(t, MaxViews, s.Views())

	// a dropped view starts over under the same id
	v, ok := s.View(first.ID)
	require.True(t, ok)
	assert.NotSame(t, first, v)
	assert.Equal(t, first.ID, v.ID)
}
