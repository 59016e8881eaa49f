// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/idgen"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Global exposes the server configuration.
var Global ServerConfig

// envPrefix is shared by every environment variable read by this package.
const envPrefix = "PHRASEFORGE_"

// StorageBackend selects where saved rule sets live.
type StorageBackend string

// Possible values for StorageBackend.
const (
	MemoryBackend StorageBackend = "memory"
	FileBackend   StorageBackend = "file"
	SQLiteBackend StorageBackend = "sqlite"
)

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"PHRASEFORGE_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"PHRASEFORGE_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"PHRASEFORGE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"PHRASEFORGE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"PHRASEFORGE_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"PHRASEFORGE_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Storage struct {
		Backend StorageBackend `env:"PHRASEFORGE_STORAGE_BACKEND,overwrite" yaml:"backend"`
		// Path is the JSON document for the file backend and the database for sqlite.
		Path string `env:"PHRASEFORGE_STORAGE_PATH,overwrite" yaml:"path"`
	} `yaml:"storage"`

	Cache struct {
		Enabled  bool `env:"PHRASEFORGE_CACHE,overwrite" yaml:"enabled"`
		Size     int  `env:"PHRASEFORGE_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		Compress bool `env:"PHRASEFORGE_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"PHRASEFORGE_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"PHRASEFORGE_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		// RawBaseURL is the public address used in share links.
		// When empty, links are built from the incoming request.
		RawBaseURL string  `env:"PHRASEFORGE_BASE_URL,overwrite" yaml:"baseUrl"`
		BaseURL    url.URL `yaml:"-"`
		RepoURL    string  `env:"PHRASEFORGE_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"PHRASEFORGE_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"PHRASEFORGE_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"PHRASEFORGE_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"PHRASEFORGE_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled       bool          `env:"PHRASEFORGE_LIMITER,overwrite" yaml:"enabled"`
		Rate          float64       `env:"PHRASEFORGE_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst         int           `env:"PHRASEFORGE_LIMITER_BURST,overwrite" yaml:"burst"`
		StateFilepath string        `env:"PHRASEFORGE_LIMITER_STATE_FILEPATH,overwrite" yaml:"stateFilepath"`
		PassIPs       []string      `env:"PHRASEFORGE_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs      []string      `env:"PHRASEFORGE_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		FilterLocal   bool          `env:"PHRASEFORGE_LIMITER_FILTER_LOCAL,overwrite" yaml:"filterLocal"`
		IPv4Prefix    int           `env:"PHRASEFORGE_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix    int           `env:"PHRASEFORGE_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
		Expiry        time.Duration `env:"PHRASEFORGE_LIMITER_EXPIRY,overwrite" yaml:"expiry"`
	} `yaml:"limiter"`

	Internationalization struct {
		// When enabled, missing keys are logged once per locale and key and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"PHRASEFORGE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
//
// The config file is taken from the -config flag, then PHRASEFORGE_CONFIGFILE,
// then ./config.yaml with ./config.yml as a fallback.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	switch {
	case configFlagUserSet:
		configFilePath = parsedConfigFlagValue
	case os.Getenv(envPrefix+"CONFIGFILE") != "":
		configFilePath = os.Getenv(envPrefix + "CONFIGFILE")
	default:
		configFilePath = fallbackConfigPath(parsedConfigFlagValue)
	}

	return cfg.load(configFilePath)
}

// load runs every step of LoadConfig after the config file has been chosen.
func (cfg *ServerConfig) load(configFilePath string) error {
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

	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a container but host is not a wildcard address such as '0.0.0.0' or '::'; the server may be unreachable from outside")
	}

	return nil
}

// fallbackConfigPath returns path, or ./config.yml when path is missing and that file exists.
func fallbackConfigPath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		const ymlPath = "./config.yml"

		if _, statErr := os.Stat(ymlPath); statErr == nil {
			return ymlPath
		}
	}

	return path
}

var staticSkippedPathPrefixes = []string{"/css/", "/js/", "/img/", "/robots.txt"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	if cfg.Development.InDevelopment {
		return false
	}

	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// PublicBase returns the configured public base URL, or "" when share links
// should be built from the incoming request.
func (cfg *ServerConfig) PublicBase() string {
	if cfg.Instance.BaseURL.Host == "" {
		return ""
	}

	return cfg.Instance.BaseURL.String()
}

// isContainerized checks for common indicators of a containerized environment.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	// #nosec G304 -- well-known system file read for heuristics only.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	content := string(cgroup)

	for _, keyword := range []string{"docker", "kubepods", "containerd", "lxc", "crio", ".machine"} {
		if strings.Contains(content, keyword) {
			return true
		}
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string such as "30m" or "1h".
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
