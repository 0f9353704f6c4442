// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/folio/folio/core/audit" // setup better logging format
	"codeberg.org/folio/folio/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"FOLIO_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"FOLIO_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"FOLIO_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"FOLIO_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketUser           string      `env:"FOLIO_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"FOLIO_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		// hex-encoded v4.public secret key used to sign session cookies
		PasetoSecret string `env:"FOLIO_SECRET" yaml:"secret"`
	} `yaml:"basic"`

	Preferences struct {
		DefaultLanguage string `env:"FOLIO_DEFAULT_LANGUAGE,overwrite" yaml:"defaultLanguage"`
		DefaultTheme    string `env:"FOLIO_DEFAULT_THEME,overwrite" yaml:"defaultTheme"`
		// FollowSystemTheme resolves the initial theme from the client's
		// prefers-color-scheme hint when no theme has been stored.
		FollowSystemTheme bool `env:"FOLIO_FOLLOW_SYSTEM_THEME,overwrite" yaml:"followSystemTheme"`
	} `yaml:"preferences"`

	Reactor struct {
		NavbarScrolledOffset int           `env:"FOLIO_NAVBAR_SCROLLED_OFFSET,overwrite" yaml:"navbarScrolledOffset"`
		NavbarHideOffset     int           `env:"FOLIO_NAVBAR_HIDE_OFFSET,overwrite" yaml:"navbarHideOffset"`
		BackToTopOffset      int           `env:"FOLIO_BACK_TO_TOP_OFFSET,overwrite" yaml:"backToTopOffset"`
		ActiveSectionOffset  int           `env:"FOLIO_ACTIVE_SECTION_OFFSET,overwrite" yaml:"activeSectionOffset"`
		FastThrottle         time.Duration `env:"FOLIO_FAST_THROTTLE,overwrite" yaml:"fastThrottle"`
		SlowThrottle         time.Duration `env:"FOLIO_SLOW_THROTTLE,overwrite" yaml:"slowThrottle"`
		StatDuration         time.Duration `env:"FOLIO_STAT_DURATION,overwrite" yaml:"statDuration"`
		SkillDuration        time.Duration `env:"FOLIO_SKILL_DURATION,overwrite" yaml:"skillDuration"`
		SkillStagger         time.Duration `env:"FOLIO_SKILL_STAGGER,overwrite" yaml:"skillStagger"`
	} `yaml:"reactor"`

	Contact struct {
		SubmissionDelay time.Duration `env:"FOLIO_SUBMISSION_DELAY,overwrite" yaml:"submissionDelay"`
		// InjectFailure makes every simulated submission fail. For development only.
		InjectFailure bool    `env:"FOLIO_INJECT_FAILURE,overwrite" yaml:"injectFailure"`
		Rate          float64 `env:"FOLIO_CONTACT_RATE,overwrite" yaml:"rate"`
		Burst         int     `env:"FOLIO_CONTACT_BURST,overwrite" yaml:"burst"`
	} `yaml:"contact"`

	Session struct {
		CacheSize int           `env:"FOLIO_SESSION_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL       time.Duration `env:"FOLIO_SESSION_TTL,overwrite" yaml:"ttl"`
	} `yaml:"session"`

	PageCache struct {
		Enabled  bool `env:"FOLIO_PAGE_CACHE,overwrite" yaml:"enabled"`
		Compress bool `env:"FOLIO_PAGE_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"pageCache"`

	Response struct {
		Compress bool `env:"FOLIO_COMPRESS_RESPONSES,overwrite" yaml:"compressResponses"`
	} `yaml:"response"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"FOLIO_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"FOLIO_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"FOLIO_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"FOLIO_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"FOLIO_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"FOLIO_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (FOLIO_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("FOLIO_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/", "/fonts/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	// Scroll events arrive many times per second.
	if !cfg.Development.InDevelopment && path == "/api/scroll" {
		return true
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
