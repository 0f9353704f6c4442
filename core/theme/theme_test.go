// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package theme

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/folio/folio/core/preferences"
)

func TestApply(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html data-theme="light"><body><button id="theme-toggle"><i class="fas fa-moon"></i></button></body></html>`))
	require.NoError(t, err)

	Apply(doc, Dark)
	assert.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, "fas fa-sun", doc.Find("#theme-toggle i").AttrOr("class", ""))

	Apply(doc, Light)
	assert.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, "fas fa-moon", doc.Find("#theme-toggle i").AttrOr("class", ""))
}

func TestApplyWithoutToggle(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body></body></html>`))
	require.NoError(t, err)

	assert.NotPanics(t, func() { Apply(doc, Dark) })
	assert.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		stored       string
		system       string
		followSystem bool
		expected     string
	}{
		{"No stored value, no hint", "", "", true, Light},
		{"System dark", "", Dark, true, Dark},
		{"System dark ignored", "", Dark, false, Light},
		{"Stored wins over system", Light, Dark, true, Light},
		{"Stored dark", Dark, "", true, Dark},
		{"Garbage hint", "", "purple", true, Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := preferences.NewMemoryStore()
			if tt.stored != "" {
				store.Set(preferences.Theme, tt.stored)
			}

			assert.Equal(t, tt.expected, Resolve(store, tt.system, tt.followSystem))
		})
	}
}

func TestSystemHint(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SystemHint(req))

	req.Header.Set(HintHeader, `"dark"`)
	assert.Equal(t, Dark, SystemHint(req))

	req.Header.Set(HintHeader, "Light")
	assert.Equal(t, Light, SystemHint(req))
}

func TestSystemChangeApplies(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStore()
	assert.True(t, SystemChangeApplies(store))

	preferences.Toggle(store, preferences.Theme)
	assert.False(t, SystemChangeApplies(store))
}
