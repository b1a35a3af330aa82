// Package config holds the server configuration and its environment
// defaults. Values resolve in order: built-in default, environment
// variable, command-line flag.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the resolved server configuration.
type Config struct {
	Host      string
	Port      int
	BaseURL   string
	StaticDir string
	Debug     bool
}

// FromEnv returns the configuration with environment overrides applied
// on top of the built-in defaults.
func FromEnv() Config {
	cfg := Config{
		Host:      "localhost",
		Port:      8080,
		StaticDir: "static",
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if staticDir := os.Getenv("STATIC_DIR"); staticDir != "" {
		cfg.StaticDir = staticDir
	}
	if debug := os.Getenv("DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}

	return cfg
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExternalURL returns the base URL clients should use in join links.
// An explicit BASE_URL (for example an ngrok domain) wins over the
// listen address.
func (c Config) ExternalURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("http://%s", c.Addr())
}
