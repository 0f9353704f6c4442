// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestLoadConfig focuses on verifying main functionality (e.g. fallback when invalid input),
and *shouldn't* need exhaustive scenarios.

These tests mutate process environment and the flag set, so they are not parallel.
*/

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		env     map[string]string // Name of the environment variable and its value
		wantErr bool              // Whether an error is expected
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"FOLIO_HOST": "localhost",
				"FOLIO_PORT": "8383",
			},
		},
		{
			name: "English default language",
			env: map[string]string{
				"FOLIO_DEFAULT_LANGUAGE": "en",
			},
		},
		{
			name: "Unsupported default language",
			env: map[string]string{
				"FOLIO_DEFAULT_LANGUAGE": "fr",
			},
			wantErr: true,
		},
		{
			name: "Unsupported default theme",
			env: map[string]string{
				"FOLIO_DEFAULT_THEME": "sepia",
			},
			wantErr: true,
		},
		{
			name: "Malformed duration",
			env: map[string]string{
				"FOLIO_SUBMISSION_DELAY": "soon",
			},
			wantErr: true,
		},
		{
			name: "Negative submission delay",
			env: map[string]string{
				"FOLIO_SUBMISSION_DELAY": "-1s",
			},
			wantErr: true,
		},
		{
			name: "Invalid secret",
			env: map[string]string{
				"FOLIO_SECRET": "not-hex",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config := &ServerConfig{}

			err := config.LoadConfig()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, config.Basic.Host)
			assert.NotEmpty(t, config.Basic.Port)
			assert.NotEmpty(t, config.Instance.FileServerCacheID)

			if lang, ok := tt.env["FOLIO_DEFAULT_LANGUAGE"]; ok {
				assert.Equal(t, lang, config.Preferences.DefaultLanguage)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	var cfg ServerConfig

	cfg.SetDefaults()

	assert.Equal(t, "ar", cfg.Preferences.DefaultLanguage)
	assert.Equal(t, "light", cfg.Preferences.DefaultTheme)
	assert.Equal(t, 2*time.Second, cfg.Contact.SubmissionDelay)
	assert.Equal(t, 300, cfg.Reactor.BackToTopOffset)
	assert.Equal(t, 100*time.Millisecond, cfg.Reactor.SlowThrottle)
}

func TestReadEnvFloatAndSlice(t *testing.T) {
	t.Setenv("FOLIO_CONTACT_RATE", "1.5")
	t.Setenv("FOLIO_LOG_OUTPUTS", " /dev/stdout , ,/tmp/folio.log")

	var cfg ServerConfig

	cfg.SetDefaults()

	require.NoError(t, readEnv(&cfg))
	assert.InDelta(t, 1.5, cfg.Contact.Rate, 1e-9)
	assert.Equal(t, []string{"/dev/stdout", "/tmp/folio.log"}, cfg.Log.Outputs)
}

func TestReadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("preferences:\n  defaultLanguage: en\ncontact:\n  submissionDelay: 500ms\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	var cfg ServerConfig

	cfg.SetDefaults()

	require.NoError(t, cfg.readYAML(path))
	assert.Equal(t, "en", cfg.Preferences.DefaultLanguage)
	assert.Equal(t, 500*time.Millisecond, cfg.Contact.SubmissionDelay)
	assert.Equal(t, "light", cfg.Preferences.DefaultTheme)
}

func TestReadYAMLMissingFile(t *testing.T) {
	t.Parallel()

	var cfg ServerConfig

	assert.NoError(t, cfg.readYAML(filepath.Join(t.TempDir(), "absent.yaml")))
}
