// Package config provides YAML configuration parsing for autorefresh.
//
// This package enables running autorefresh as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	file: ${DOC:-./out/main.pdf}
//	mime_type: application/pdf
//	port: 8080
//	signal: SIGHUP
//	keepalive: 60s
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// defaultPort is the HTTP port used when none is configured.
	defaultPort = 8080

	// defaultSignal is the refresh trigger used when none is configured.
	defaultSignal = "SIGHUP"

	// defaultKeepAlive is the SSE keepalive interval used when none is
	// configured. Matches the common idle-connection timeout headroom.
	defaultKeepAlive = 60 * time.Second

	// minKeepAlive is the minimum allowed keepalive interval. This
	// prevents accidental comment-frame floods on every stream.
	minKeepAlive = 1 * time.Second
)

// Config is the root configuration structure for autorefresh.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// File is the path of the file to serve. Required.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	File string `yaml:"file"`

	// MIMEType is the content type for file responses.
	// Guessed from the file extension if not set.
	MIMEType string `yaml:"mime_type"`

	// Port is the HTTP server port. Defaults to 8080.
	// Port 0 asks the OS for an ephemeral port.
	Port int `yaml:"port"`

	// Signal is the name of the OS signal that triggers a refresh
	// broadcast. Accepts SIGHUP, SIGUSR1, SIGUSR2 (the SIG prefix is
	// optional). Defaults to SIGHUP.
	Signal string `yaml:"signal"`

	// KeepAlive is the interval between SSE keepalive comments.
	// Accepts duration strings like "60s", "2m". Defaults to 60s.
	KeepAlive Duration `yaml:"keepalive"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// signals maps supported signal names (without the SIG prefix) to their
// syscall values. SIGHUP is the conventional latexmk update signal; the
// USR signals are offered for tools that reserve SIGHUP for reload.
var signals = map[string]syscall.Signal{
	"HUP":  syscall.SIGHUP,
	"USR1": syscall.SIGUSR1,
	"USR2": syscall.SIGUSR2,
}

// ParseSignal maps a signal name to its [syscall.Signal] value.
//
// Names are case-insensitive and the SIG prefix is optional, so "SIGHUP",
// "sighup", and "HUP" all resolve to syscall.SIGHUP. Returns an error for
// unsupported names.
func ParseSignal(name string) (syscall.Signal, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "SIG")

	sig, ok := signals[key]
	if !ok {
		return 0, fmt.Errorf("unsupported signal %q (expected SIGHUP, SIGUSR1, or SIGUSR2)", name)
	}
	return sig, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file value are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the file path. Defaults are
// applied for Port (8080), Signal (SIGHUP), and KeepAlive (60s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Signal == "" {
		cfg.Signal = defaultSignal
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = Duration(defaultKeepAlive)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.File == "" {
		return fmt.Errorf("file is required")
	}
	expanded, err := expandEnvVars(c.File)
	if err != nil {
		return fmt.Errorf("file: %w", err)
	}
	c.File = expanded

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}

	if _, err := ParseSignal(c.Signal); err != nil {
		return err
	}

	if c.KeepAlive.Duration() < minKeepAlive {
		return fmt.Errorf("keepalive must be at least %s, got %s", minKeepAlive, c.KeepAlive.Duration())
	}

	return nil
}
