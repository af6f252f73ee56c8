/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package config holds the runtime settings of the storefront API server.
//
// Settings are layered: Default, then an optional YAML or TOML file (Load),
// then STOREFRONT_* environment variables (ApplyEnv), then command-line flags
// that were explicitly set (ApplyFlags). Validate checks the final result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dirpx.dev/apperr/severity"
)

// Mode selects how much failure detail reaches clients.
type Mode string

const (
	// ModeDevelopment includes stacks in error responses.
	ModeDevelopment Mode = "development"
	// ModeProduction hides stacks and debug details.
	ModeProduction Mode = "production"
)

// Log output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "STOREFRONT_"

// ErrInvalidConfig is wrapped by every validation and parse failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" toml:"addr"`
	// GRPCAddr is the gRPC listen address; empty disables the gRPC server.
	GRPCAddr string `yaml:"grpc_addr" toml:"grpc_addr"`
	Mode     Mode   `yaml:"mode" toml:"mode"`

	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// AlertWebhookURL enables the alerting sink when set.
	AlertWebhookURL  string            `yaml:"alert_webhook_url" toml:"alert_webhook_url"`
	AlertMinSeverity severity.Severity `yaml:"alert_min_severity" toml:"alert_min_severity"`
	AlertQueueSize   int               `yaml:"alert_queue_size" toml:"alert_queue_size"`

	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Addr:             ":8080",
		Mode:             ModeDevelopment,
		LogLevel:         "info",
		LogFormat:        FormatJSON,
		AlertMinSeverity: severity.High,
		AlertQueueSize:   256,
		ShutdownTimeout:  Duration(10 * time.Second),
	}
}

// Production reports whether the server runs in production mode.
func (c Config) Production() bool { return c.Mode == ModeProduction }

// SlogLevel returns the configured log level, or slog.LevelInfo when it
// cannot be parsed.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(c.Addr) == "" {
		bad("addr is empty")
	}
	if c.GRPCAddr != "" && c.GRPCAddr == c.Addr {
		bad("grpc_addr %q collides with addr", c.GRPCAddr)
	}
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		bad("mode %q is not %q or %q", c.Mode, ModeDevelopment, ModeProduction)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case FormatJSON, FormatText:
	default:
		bad("log_format %q is not %q or %q", c.LogFormat, FormatJSON, FormatText)
	}
	if c.AlertWebhookURL != "" {
		u, err := url.Parse(c.AlertWebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			bad("alert_webhook_url must be an absolute http(s) URL")
		}
	}
	if severity.Validate(c.AlertMinSeverity) != nil {
		bad("alert_min_severity %d", c.AlertMinSeverity)
	}
	if c.AlertQueueSize <= 0 {
		bad("alert_queue_size must be positive, got %d", c.AlertQueueSize)
	}
	if c.ShutdownTimeout <= 0 {
		bad("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return errors.Join(errs...)
}

// Duration is a time.Duration that reads and writes as text ("15s", "1m").
type Duration time.Duration

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidConfig, text)
	}
	*d = Duration(v)
	return nil
}

// setting ties one field to its flag and environment names.
type setting struct {
	flag  string
	usage string
	set   func(c *Config, v string) error
}

func (s setting) env() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(s.flag, "-", "_"))
}

var settings = []setting{
	{"addr", "HTTP listen address", func(c *Config, v string) error {
		c.Addr = v
		return nil
	}},
	{"grpc-addr", "gRPC listen address (empty disables gRPC)", func(c *Config, v string) error {
		c.GRPCAddr = v
		return nil
	}},
	{"mode", "development or production", func(c *Config, v string) error {
		c.Mode = Mode(strings.ToLower(strings.TrimSpace(v)))
		return nil
	}},
	{"log-level", "debug, info, warn or error", func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"log-format", "json or text", func(c *Config, v string) error {
		c.LogFormat = strings.ToLower(strings.TrimSpace(v))
		return nil
	}},
	{"alert-webhook-url", "webhook receiving HIGH and CRITICAL failures", func(c *Config, v string) error {
		c.AlertWebhookURL = v
		return nil
	}},
	{"alert-min-severity", "lowest severity sent to the alert webhook", func(c *Config, v string) error {
		if err := c.AlertMinSeverity.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%w: alert-min-severity %q", ErrInvalidConfig, v)
		}
		return nil
	}},
	{"alert-queue-size", "alert queue capacity", func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: alert-queue-size %q", ErrInvalidConfig, v)
		}
		c.AlertQueueSize = n
		return nil
	}},
	{"shutdown-timeout", "graceful shutdown timeout", func(c *Config, v string) error {
		return c.ShutdownTimeout.UnmarshalText([]byte(v))
	}},
}

// ApplyEnv overrides settings from STOREFRONT_* variables. Empty values are
// ignored. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	for _, s := range settings {
		v, ok := lookup(s.env())
		if !ok || v == "" {
			continue
		}
		if err := s.set(c, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
