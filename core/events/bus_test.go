// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInOrder(t *testing.T) {
	t.Parallel()

	var (
		bus   Bus
		order []string
	)

	bus.Subscribe(KindThemeChanged, func(_ context.Context, _ Event) error {
		order = append(order, "first")

		return nil
	})
	bus.Subscribe(KindThemeChanged, func(_ context.Context, _ Event) error {
		order = append(order, "second")

		return nil
	})
	bus.Subscribe(KindLanguageChanged, func(_ context.Context, _ Event) error {
		order = append(order, "language")

		return nil
	})

	bus.Publish(context.Background(), ThemeChanged{Theme: "dark"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	var (
		bus       Bus
		delivered bool
	)

	bus.Subscribe(KindVisibilityEntered, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(KindVisibilityEntered, func(_ context.Context, _ Event) error {
		delivered = true

		return nil
	})

	bus.Publish(context.Background(), VisibilityEntered{ElementID: "skills", Ratio: 0.6})

	assert.True(t, delivered)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	var (
		bus   Bus
		count int
	)

	sub := bus.Subscribe(KindScrollPositionChanged, func(_ context.Context, _ Event) error {
		count++

		return nil
	})

	bus.Publish(context.Background(), ScrollPositionChanged{Offset: 10, Sections: []Section{{ID: "home", Height: 600}}})
	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(context.Background(), ScrollPositionChanged{Offset: 20})

	assert.Equal(t, 1, count)
}

func TestOnIsTyped(t *testing.T) {
	t.Parallel()

	var (
		bus  Bus
		seen []string
	)

	On(&bus, func(_ context.Context, e LanguageChanged) error {
		seen = append(seen, e.Language)

		return nil
	})

	bus.Publish(context.Background(), LanguageChanged{Language: "en"})
	bus.Publish(context.Background(), ThemeChanged{Theme: "dark"})

	assert.Equal(t, []string{"en"}, seen)
}

func TestPublishNil(t *testing.T) {
	t.Parallel()

	var bus Bus

	assert.NotPanics(t, func() { bus.Publish(context.Background(), nil) })
}
