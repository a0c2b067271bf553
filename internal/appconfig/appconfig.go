// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultBaseURL points at a locally running analysis backend.
	defaultBaseURL = "http://localhost:8000"
	// defaultAPIVersion selects the versioned API prefix.
	defaultAPIVersion = "v1"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 30 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	BaseURL        string `json:"baseURL"`
	APIVersion     string `json:"apiVersion,omitempty"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
	LogFile        string `json:"logFile,omitempty"`
	SessionFile    string `json:"sessionFile,omitempty"`
	DefaultModel   string `json:"defaultModel,omitempty"`
	ExportDir      string `json:"exportDir,omitempty"`
	Debug          bool   `json:"debug"`
	ConfigPath     string `json:"-"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "palu.log"
}

// SessionFilePath returns where session state (token + user) is persisted.
func (c Config) SessionFilePath() string {
	if path := c.SessionFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "config/session.json"
}

// ExportDirPath returns the directory export files are written to.
func (c Config) ExportDirPath() string {
	if dir := strings.TrimSpace(c.ExportDir); dir != "" {
		return dir
	}
	return "."
}

// APIBase returns the fully qualified versioned API prefix,
// e.g. http://localhost:8000/api/v1.
func (c Config) APIBase() string {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	version := strings.TrimSpace(c.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	return fmt.Sprintf("%s/api/%s", base, version)
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
