// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"realtime-tail.yaml",
	"realtime-tail.yml",
	"/etc/appwrite/realtime-tail.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Appwrite: AppwriteConfig{
			Endpoint: "https://cloud.appwrite.io/v1",
		},
		Realtime: RealtimeConfig{
			ConnectDebounce:   50 * time.Millisecond,
			HeartbeatInterval: 20 * time.Second,
			HandshakeTimeout:  10 * time.Second,
		},
		Server: ServerConfig{
			Enabled:           false,
			Addr:              "127.0.0.1:9464",
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      10 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:         false,
			URL:             "nats://127.0.0.1:4222",
			SubjectPrefix:   "appwrite.realtime",
			MaxReconnects:   -1, // Reconnect forever
			ReconnectWait:   2 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load reads configuration using the default search paths.
func Load() (*Config, error) {
	return LoadWithKoanf("")
}

// LoadWithKoanf loads configuration in layers:
//  1. defaults
//  2. YAML file (path, else CONFIG_PATH, else DefaultConfigPaths)
//  3. environment variables
//
// An explicit path that does not exist is an error; a missing default file is not.
func LoadWithKoanf(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is LoadWithKoanf plus a final layer of koanf-path
// overrides, e.g. {"appwrite.project": "p"}. Command-line flags use it.
func LoadWithOverrides(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	} else {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for key, val := range overrides {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "" if none exist.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"realtime.channels",
	"server.cors_origins",
}

// processSliceFields turns comma-separated env values into string slices.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"appwrite_endpoint":          "appwrite.endpoint",
	"appwrite_endpoint_realtime": "appwrite.endpoint_realtime",
	"appwrite_project":           "appwrite.project",
	"appwrite_session":           "appwrite.session",
	"appwrite_jwt":               "appwrite.jwt",
	"appwrite_platform":          "appwrite.platform",
	"appwrite_locale":            "appwrite.locale",
	"appwrite_self_signed":       "appwrite.self_signed",

	"realtime_channels":           "realtime.channels",
	"realtime_connect_debounce":   "realtime.connect_debounce",
	"realtime_heartbeat_interval": "realtime.heartbeat_interval",
	"realtime_handshake_timeout":  "realtime.handshake_timeout",
	"realtime_compression":        "realtime.compression",

	"metrics_enabled":         "server.enabled",
	"metrics_addr":            "server.addr",
	"cors_origins":            "server.cors_origins",
	"relay_enabled":           "server.relay",
	"rate_limit_requests":     "server.rate_limit_requests",
	"rate_limit_window":       "server.rate_limit_window",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"nats_enabled":          "nats.enabled",
	"nats_url":              "nats.url",
	"nats_subject_prefix":   "nats.subject_prefix",
	"nats_jetstream":        "nats.jetstream",
	"nats_max_reconnects":   "nats.max_reconnects",
	"nats_reconnect_wait":   "nats.reconnect_wait",
	"nats_breaker_failures": "nats.breaker_failures",
	"nats_breaker_timeout":  "nats.breaker_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unknown variables return "" and are ignored by the env provider.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
