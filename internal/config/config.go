// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package config

import "time"

// Config holds all configuration for the realtime-tail binary.
type Config struct {
	Appwrite AppwriteConfig `koanf:"appwrite"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Server   ServerConfig   `koanf:"server"`
	NATS     NATSConfig     `koanf:"nats"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// AppwriteConfig mirrors the client settings of the SDK.
type AppwriteConfig struct {
	// Endpoint is the REST API endpoint, e.g. https://cloud.appwrite.io/v1.
	Endpoint string `koanf:"endpoint" validate:"required,http_url"`

	// EndpointRealtime overrides the realtime endpoint derived from Endpoint.
	EndpointRealtime string `koanf:"endpoint_realtime" validate:"omitempty,ws_url"`

	Project string `koanf:"project" validate:"required"`

	// Session is the session secret sent in the authentication frame.
	Session string `koanf:"session"`

	// JWT is stored on the client; realtime-tail warns at startup when it has expired.
	JWT string `koanf:"jwt"`

	// Platform forms the Origin header as appwrite-<os>://<platform>.
	Platform string `koanf:"platform"`

	Locale     string `koanf:"locale"`
	SelfSigned bool   `koanf:"self_signed"`
}

// RealtimeConfig tunes the realtime socket.
type RealtimeConfig struct {
	// Channels to subscribe to when none are passed on the command line.
	Channels []string `koanf:"channels" validate:"dive,channel"`

	// ConnectDebounce coalesces subscription changes into a single dial.
	// Default: 50ms
	ConnectDebounce time.Duration `koanf:"connect_debounce" validate:"gte=0"`

	// HeartbeatInterval is the ping cadence on an open socket.
	// Default: 20s
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval" validate:"gte=0"`

	// HandshakeTimeout bounds the WebSocket opening handshake.
	// Default: 10s
	HandshakeTimeout time.Duration `koanf:"handshake_timeout" validate:"gte=0"`

	// Compression negotiates permessage-deflate.
	Compression bool `koanf:"compression"`
}

// ServerConfig holds the metrics and health endpoint settings.
type ServerConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr" validate:"omitempty,hostname_port"`

	// CORSOrigins lists origins allowed to read /healthz and open /ws from a browser.
	CORSOrigins []string `koanf:"cors_origins"`

	// Relay serves subscribed events to local WebSocket clients on /ws.
	Relay bool `koanf:"relay"`

	// RateLimitRequests per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// NATSConfig controls forwarding of realtime events onto NATS.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`

	// SubjectPrefix is prepended to the sanitized channel name.
	// Default: appwrite.realtime
	SubjectPrefix string `koanf:"subject_prefix"`

	// JetStream publishes through JetStream instead of core NATS.
	JetStream bool `koanf:"jetstream"`

	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`

	// BreakerFailures consecutive publish failures open the circuit breaker.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
