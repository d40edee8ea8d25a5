// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every mapped variable so host environment does not leak in.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realtime-tail.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Appwrite.Endpoint != "https://cloud.appwrite.io/v1" {
		t.Errorf("Appwrite.Endpoint = %q", cfg.Appwrite.Endpoint)
	}
	if cfg.Realtime.ConnectDebounce != 50*time.Millisecond {
		t.Errorf("Realtime.ConnectDebounce = %v, want 50ms", cfg.Realtime.ConnectDebounce)
	}
	if cfg.Realtime.HeartbeatInterval != 20*time.Second {
		t.Errorf("Realtime.HeartbeatInterval = %v, want 20s", cfg.Realtime.HeartbeatInterval)
	}
	if cfg.Server.Enabled {
		t.Error("Server.Enabled should default to false")
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should default to false")
	}
	if cfg.NATS.SubjectPrefix != "appwrite.realtime" {
		t.Errorf("NATS.SubjectPrefix = %q", cfg.NATS.SubjectPrefix)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"APPWRITE_ENDPOINT", "appwrite.endpoint"},
		{"APPWRITE_ENDPOINT_REALTIME", "appwrite.endpoint_realtime"},
		{"REALTIME_CHANNELS", "realtime.channels"},
		{"METRICS_ADDR", "server.addr"},
		{"RELAY_ENABLED", "server.relay"},
		{"NATS_SUBJECT_PREFIX", "nats.subject_prefix"},
		{"LOG_LEVEL", "logging.level"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	path := writeConfig(t, "appwrite:\n  project: p\n")
	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want empty", got)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("APPWRITE_PROJECT", "5df5acd0d48c2")
	t.Setenv("APPWRITE_ENDPOINT", "https://appwrite.example.com/v1")
	t.Setenv("APPWRITE_SELF_SIGNED", "true")
	t.Setenv("REALTIME_CHANNELS", "documents, files ,,account")
	t.Setenv("REALTIME_HEARTBEAT_INTERVAL", "5s")
	t.Setenv("NATS_BREAKER_FAILURES", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Appwrite.Project != "5df5acd0d48c2" {
		t.Errorf("Appwrite.Project = %q", cfg.Appwrite.Project)
	}
	if cfg.Appwrite.Endpoint != "https://appwrite.example.com/v1" {
		t.Errorf("Appwrite.Endpoint = %q", cfg.Appwrite.Endpoint)
	}
	if !cfg.Appwrite.SelfSigned {
		t.Error("Appwrite.SelfSigned = false, want true")
	}
	want := []string{"documents", "files", "account"}
	if strings.Join(cfg.Realtime.Channels, ",") != strings.Join(want, ",") {
		t.Errorf("Realtime.Channels = %v, want %v", cfg.Realtime.Channels, want)
	}
	if cfg.Realtime.HeartbeatInterval != 5*time.Second {
		t.Errorf("Realtime.HeartbeatInterval = %v, want 5s", cfg.Realtime.HeartbeatInterval)
	}
	if cfg.NATS.BreakerFailures != 3 {
		t.Errorf("NATS.BreakerFailures = %d, want 3", cfg.NATS.BreakerFailures)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Defaults still apply for unset values
	if cfg.Realtime.ConnectDebounce != 50*time.Millisecond {
		t.Errorf("Realtime.ConnectDebounce = %v, want 50ms (default)", cfg.Realtime.ConnectDebounce)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
appwrite:
  endpoint: http://localhost/v1
  project: from-file
  platform: com.example.app
realtime:
  channels:
    - databases.main.collections.posts.documents
    - files
  connect_debounce: 100ms
server:
  enabled: true
  addr: 127.0.0.1:9999
  cors_origins: [https://a.example.com]
nats:
  enabled: true
  url: nats://nats.internal:4222
  subject_prefix: myapp.events
`)

	cfg, err := LoadWithKoanf(path)
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Appwrite.Project != "from-file" {
		t.Errorf("Appwrite.Project = %q, want from-file", cfg.Appwrite.Project)
	}
	if cfg.Appwrite.Platform != "com.example.app" {
		t.Errorf("Appwrite.Platform = %q", cfg.Appwrite.Platform)
	}
	if len(cfg.Realtime.Channels) != 2 || cfg.Realtime.Channels[1] != "files" {
		t.Errorf("Realtime.Channels = %v", cfg.Realtime.Channels)
	}
	if cfg.Realtime.ConnectDebounce != 100*time.Millisecond {
		t.Errorf("Realtime.ConnectDebounce = %v, want 100ms", cfg.Realtime.ConnectDebounce)
	}
	if !cfg.Server.Enabled || cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.NATS.SubjectPrefix != "myapp.events" {
		t.Errorf("NATS.SubjectPrefix = %q", cfg.NATS.SubjectPrefix)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
appwrite:
  project: from-file
logging:
  level: warn
`)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("APPWRITE_PROJECT", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Appwrite.Project != "from-env" {
		t.Errorf("Appwrite.Project = %q, want from-env", cfg.Appwrite.Project)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfMissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("APPWRITE_PROJECT", "p")

	if _, err := LoadWithKoanf(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadWithKoanf() with missing explicit file should fail")
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "missing project",
			envVars: map[string]string{},
			wantErr: true,
			errMsg:  "Project",
		},
		{
			name: "minimal valid",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
			},
		},
		{
			name: "endpoint must be http",
			envVars: map[string]string{
				"APPWRITE_PROJECT":  "p",
				"APPWRITE_ENDPOINT": "ftp://example.com",
			},
			wantErr: true,
			errMsg:  "Endpoint",
		},
		{
			name: "realtime endpoint must be ws",
			envVars: map[string]string{
				"APPWRITE_PROJECT":           "p",
				"APPWRITE_ENDPOINT_REALTIME": "https://example.com/v1",
			},
			wantErr: true,
			errMsg:  "EndpointRealtime",
		},
		{
			name: "explicit realtime endpoint",
			envVars: map[string]string{
				"APPWRITE_PROJECT":           "p",
				"APPWRITE_ENDPOINT_REALTIME": "wss://rt.example.com/v1",
			},
		},
		{
			name: "channel with whitespace",
			envVars: map[string]string{
				"APPWRITE_PROJECT":  "p",
				"REALTIME_CHANNELS": "documents,bad channel",
			},
			wantErr: true,
			errMsg:  "Channels",
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"LOG_LEVEL":        "loud",
			},
			wantErr: true,
			errMsg:  "Level",
		},
		{
			name: "invalid NATS URL when enabled",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"NATS_ENABLED":     "true",
				"NATS_URL":         "http://localhost:4222",
			},
			wantErr: true,
			errMsg:  "NATS_URL",
		},
		{
			name: "wildcard subject prefix",
			envVars: map[string]string{
				"APPWRITE_PROJECT":    "p",
				"NATS_ENABLED":        "true",
				"NATS_SUBJECT_PREFIX": "events.>",
			},
			wantErr: true,
			errMsg:  "NATS_SUBJECT_PREFIX",
		},
		{
			name: "NATS URL ignored when disabled",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"NATS_URL":         "http://localhost:4222",
			},
		},
		{
			name: "bad metrics addr",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"METRICS_ENABLED":  "true",
				"METRICS_ADDR":     "not an addr",
			},
			wantErr: true,
			errMsg:  "Addr",
		},
		{
			name: "rate limit without window",
			envVars: map[string]string{
				"APPWRITE_PROJECT":  "p",
				"METRICS_ENABLED":   "true",
				"RATE_LIMIT_WINDOW": "0s",
			},
			wantErr: true,
			errMsg:  "RATE_LIMIT_WINDOW",
		},
		{
			name: "relay without metrics server",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"RELAY_ENABLED":    "true",
			},
			wantErr: true,
			errMsg:  "RELAY_ENABLED",
		},
		{
			name: "relay with metrics server",
			envVars: map[string]string{
				"APPWRITE_PROJECT": "p",
				"METRICS_ENABLED":  "true",
				"RELAY_ENABLED":    "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Load() error = %q, want it to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}
		})
	}
}

func TestLoadWithOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("APPWRITE_PROJECT", "from-env")
	t.Setenv("REALTIME_CHANNELS", "files")

	cfg, err := LoadWithOverrides("", map[string]interface{}{
		"appwrite.project":  "from-flag",
		"realtime.channels": []string{"documents", "account"},
		"server.enabled":    true,
	})
	if err != nil {
		t.Fatalf("LoadWithOverrides() error = %v", err)
	}
	if cfg.Appwrite.Project != "from-flag" {
		t.Errorf("Appwrite.Project = %q, want from-flag", cfg.Appwrite.Project)
	}
	if len(cfg.Realtime.Channels) != 2 || cfg.Realtime.Channels[0] != "documents" {
		t.Errorf("Realtime.Channels = %v, want [documents account]", cfg.Realtime.Channels)
	}
	if !cfg.Server.Enabled {
		t.Error("Server.Enabled = false, want true")
	}
}

func TestLoadWithOverridesValidatesResult(t *testing.T) {
	isolate(t)

	// Project only arrives through the override layer.
	if _, err := LoadWithOverrides("", map[string]interface{}{"appwrite.project": "p"}); err != nil {
		t.Fatalf("LoadWithOverrides() error = %v", err)
	}
	if _, err := LoadWithOverrides("", map[string]interface{}{
		"appwrite.project":  "p",
		"appwrite.endpoint": "not-a-url",
	}); err == nil {
		t.Fatal("LoadWithOverrides() with invalid endpoint override should fail")
	}
}
