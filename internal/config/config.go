// Package config provides configuration management for the rewrite router.
// It handles loading configuration from environment variables with sensible
// defaults and validates the configuration to ensure the application starts
// safely. Routing rules themselves live in a YAML file loaded separately via
// LoadRules.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path; empty means stdout
//
// Routing:
//   - RULES_FILE: Path to the YAML rules file (default: ./rules.yaml)
//   - UPSTREAM_URL: Base URL rewrites and pass-through requests are proxied to
//
// HTTP Server:
//   - TLS_CERT_FILE: TLS certificate path (serve plain HTTP when empty)
//   - TLS_KEY_FILE: TLS private key path
//   - SHUTDOWN_TIMEOUT: Graceful shutdown timeout (default: 10s)
//   - ACCESS_LOG_ENABLED: Log every handled request (default: true)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the rewrite router. All fields
// correspond to environment variables that can be set to override defaults.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, empty for stdout

	// Routing
	RulesFile   string // Path to the YAML rules file
	UpstreamURL string // Base URL requests are proxied to

	// HTTP server
	TLSCertFile      string // TLS certificate file, empty for plain HTTP
	TLSKeyFile       string // TLS private key file
	ShutdownTimeout  string // Graceful shutdown timeout (e.g. "10s")
	AccessLogEnabled bool   // Whether to log every handled request
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		RulesFile:   getEnv("RULES_FILE", "./rules.yaml"),
		UpstreamURL: getEnv("UPSTREAM_URL", ""),

		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		ShutdownTimeout:  getEnv("SHUTDOWN_TIMEOUT", "10s"),
		AccessLogEnabled: getBoolEnv("ACCESS_LOG_ENABLED", true),
	}
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a
// default value when the variable is unset or unparseable.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs validation on the configuration to ensure all required
// fields are present and all values are valid. The application should call
// this method after loading configuration and before starting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error",
		"DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.RulesFile == "" {
		return fmt.Errorf("RULES_FILE must not be empty")
	}

	if c.UpstreamURL != "" {
		u, err := url.Parse(c.UpstreamURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("UPSTREAM_URL must be an absolute http or https URL")
		}
	}

	// TLS cert and key only make sense as a pair.
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if d, err := time.ParseDuration(c.ShutdownTimeout); err != nil || d <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration (e.g. '10s')")
	}

	return nil
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout. Validate must
// have succeeded first.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
