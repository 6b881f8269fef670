package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// ProductAPIBaseURL is the base URL of the product database used for
	// barcode lookups.
	ProductAPIBaseURL string `json:"product_api_base_url"`

	// ProductAPITimeoutMS bounds a single remote lookup, in milliseconds.
	ProductAPITimeoutMS int `json:"product_api_timeout_ms"`

	// UserAgent is sent on every remote lookup request.
	UserAgent string `json:"user_agent"`

	// DefaultListName names the list created on first run (and whenever
	// no lists exist after startup).
	DefaultListName string `json:"default_list_name,omitempty"`

	// TasksListNames are the localized list names that suppress
	// quantity/value semantics and duplicate merging. Matching is
	// case-insensitive.
	TasksListNames []string `json:"tasks_list_names,omitempty"`

	// AllowDeleteLastList permits deleting the only remaining list.
	// The default (false) keeps the conservative at-least-one-list rule.
	AllowDeleteLastList bool `json:"allow_delete_last_list,omitempty"`

	// LogLevel is one of: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProductAPIBaseURL:   "https://world.openfoodfacts.org",
		ProductAPITimeoutMS: 5000,
		UserAgent:           "Listfy/1.0",
		DefaultListName:     "Minha Lista",
		TasksListNames:      []string{"tasks", "tarefas"},
		LogLevel:            "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist. Fields left empty in the
// file fall back to their defaults.
func Load(baseDir string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	file := &Config{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, err
	}

	if strings.TrimSpace(file.ProductAPIBaseURL) != "" {
		cfg.ProductAPIBaseURL = strings.TrimSpace(file.ProductAPIBaseURL)
	}
	if file.ProductAPITimeoutMS > 0 {
		cfg.ProductAPITimeoutMS = file.ProductAPITimeoutMS
	}
	if strings.TrimSpace(file.UserAgent) != "" {
		cfg.UserAgent = strings.TrimSpace(file.UserAgent)
	}
	if strings.TrimSpace(file.DefaultListName) != "" {
		cfg.DefaultListName = strings.TrimSpace(file.DefaultListName)
	}
	if len(file.TasksListNames) > 0 {
		cfg.TasksListNames = file.TasksListNames
	}
	cfg.AllowDeleteLastList = file.AllowDeleteLastList
	if strings.TrimSpace(file.LogLevel) != "" {
		cfg.LogLevel = strings.TrimSpace(file.LogLevel)
	}

	return cfg, nil
}

// ProductTimeout returns the remote lookup timeout as a duration.
func (c *Config) ProductTimeout() time.Duration {
	if c.ProductAPITimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ProductAPITimeoutMS) * time.Millisecond
}
