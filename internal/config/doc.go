// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package config loads configuration for the realtime-tail binary.
//
// Values are layered with koanf, later layers winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. A YAML file: the --config flag, else CONFIG_PATH, else the first
//     existing entry of DefaultConfigPaths
//  3. Environment variables mapped through envTransformFunc
//  4. Overrides passed to LoadWithOverrides (command-line flags)
//
// # Example YAML
//
//	appwrite:
//	  endpoint: https://cloud.appwrite.io/v1
//	  project: 5df5acd0d48c2
//	realtime:
//	  channels: [documents, files]
//	  heartbeat_interval: 20s
//	server:
//	  enabled: true
//	  addr: 127.0.0.1:9464
//	  relay: true
//	nats:
//	  enabled: true
//	  url: nats://127.0.0.1:4222
//
// # Environment Variables
//
//	APPWRITE_ENDPOINT, APPWRITE_ENDPOINT_REALTIME, APPWRITE_PROJECT,
//	APPWRITE_SESSION, APPWRITE_JWT, APPWRITE_PLATFORM, APPWRITE_LOCALE,
//	APPWRITE_SELF_SIGNED
//	REALTIME_CHANNELS (comma-separated), REALTIME_CONNECT_DEBOUNCE,
//	REALTIME_HEARTBEAT_INTERVAL, REALTIME_HANDSHAKE_TIMEOUT, REALTIME_COMPRESSION
//	METRICS_ENABLED, METRICS_ADDR, CORS_ORIGINS, RELAY_ENABLED,
//	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, SERVER_READ_TIMEOUT,
//	SERVER_WRITE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT
//	NATS_ENABLED, NATS_URL, NATS_SUBJECT_PREFIX, NATS_JETSTREAM,
//	NATS_MAX_RECONNECTS, NATS_RECONNECT_WAIT, NATS_BREAKER_FAILURES,
//	NATS_BREAKER_TIMEOUT
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// Validate runs the struct tags through internal/validation and then the
// cross-field checks that tags cannot express.
package config
