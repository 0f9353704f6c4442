// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardCollectsBrowserEvents(t *testing.T) {
	t.Parallel()

	var bus Bus

	Forward(&bus)

	triggers := &Triggers{}
	ctx := WithTriggers(context.Background(), triggers)

	bus.Publish(ctx, LanguageChanged{Language: "en"})
	bus.Publish(ctx, ScrollPositionChanged{Offset: 10})
	Notify(ctx, &bus, "hello", NotificationSuccess)
	bus.Publish(ctx, LanguageChanged{Language: "ar"})

	require.Equal(t, 2, triggers.Len())

	raw, err := json.Marshal(triggers)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"languageChanged":{"language":"ar"},"showNotification":{"message":"hello","type":"success","duration":3000}}`,
		string(raw))
}

func TestForwardWithoutCollector(t *testing.T) {
	t.Parallel()

	var bus Bus

	Forward(&bus)

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), ThemeChanged{Theme: "dark"})
	})
}
