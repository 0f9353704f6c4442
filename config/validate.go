// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/folio/folio/core/authenticated"
)

// PasetoValidator holds the key used to sign and verify session cookies.
var PasetoValidator authenticated.Validator

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errPasetoSecretInvalid          = errors.New("basic.secret is not a valid paseto key")
	errInvalidDefaultLanguage       = errors.New("preferences.defaultLanguage must be one of: ar, en")
	errInvalidDefaultTheme          = errors.New("preferences.defaultTheme must be one of: light, dark")
	errInvalidThrottle              = errors.New("reactor throttle intervals must be positive")
	errInvalidAnimationDuration     = errors.New("reactor animation durations must be positive")
	errInvalidSubmissionDelay       = errors.New("contact.submissionDelay cannot be negative")
	errInvalidContactLimit          = errors.New("contact.rate and contact.burst must be positive")
	errInvalidSessionCacheSize      = errors.New("session.cacheSize must be positive")
	errInvalidRepoURL               = errors.New("instance.repoUrl must be an absolute http(s) URL")
)

var fileModeOctalRegexp = regexp.MustCompile(`^0?[0-7]{3}$`)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	switch cfg.Preferences.DefaultLanguage {
	case "ar", "en":
	default:
		return errInvalidDefaultLanguage
	}

	switch cfg.Preferences.DefaultTheme {
	case "light", "dark":
	default:
		return errInvalidDefaultTheme
	}

	if cfg.Reactor.FastThrottle <= 0 || cfg.Reactor.SlowThrottle <= 0 {
		return errInvalidThrottle
	}

	if cfg.Reactor.StatDuration <= 0 || cfg.Reactor.SkillDuration <= 0 || cfg.Reactor.SkillStagger < 0 {
		return errInvalidAnimationDuration
	}

	if cfg.Contact.SubmissionDelay < 0 {
		return errInvalidSubmissionDelay
	}

	if cfg.Contact.Rate <= 0 || cfg.Contact.Burst <= 0 {
		return errInvalidContactLimit
	}

	if cfg.Session.CacheSize <= 0 {
		return errInvalidSessionCacheSize
	}

	repoURL, err := url.Parse(cfg.Instance.RepoURL)
	if err != nil || (repoURL.Scheme != "http" && repoURL.Scheme != "https") || repoURL.Host == "" {
		return errInvalidRepoURL
	}

	cfg.Instance.RepoURL = repoURL.String()

	return cfg.loadSecret()
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8383"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
	default:
		return errUnixSocketInvalidPermissions
	}

	return nil
}

// loadSecret installs the session signing key. Without a configured secret a
// fresh key is generated, so sessions do not survive a restart.
func (cfg *ServerConfig) loadSecret() error {
	if cfg.Basic.PasetoSecret == "" {
		PasetoValidator.Generate()

		log.Warn().Msg("No basic.secret configured, using an ephemeral session key")

		return nil
	}

	if err := PasetoValidator.LoadSecretKeyFromHex(cfg.Basic.PasetoSecret); err != nil {
		key := authenticated.NewSecretKeyHex()
		log.Error().Err(err).Msgf("Generated secret key (put this in config.yaml)\nbasic:\n  secret: %q", key)

		return fmt.Errorf("%w: %w", errPasetoSecretInvalid, err)
	}

	// remove key. no longer needed.
	cfg.Basic.PasetoSecret = ""

	return nil
}
