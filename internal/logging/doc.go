// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package logging provides centralized zerolog-based structured logging.
//
// The realtime client, the supervisor tree, the NATS forwarder and the CLI all
// log through this package so a single Init call controls level and format.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Strs("channels", chans).Msg("Realtime socket opened")
//	logging.Warn().Err(err).Dur("delay", d).Msg("Realtime disconnected")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - true, false (default: false)
//
// Setting APPWRITE_LOG_QUIET=1 lowers the pre-Init default to error level,
// which is what applications embedding the library usually want.
//
// # Connection Logs
//
// Each physical realtime socket gets a short correlation ID:
//
//	l := logging.WithComponent("realtime").With().
//	    Str("conn_id", logging.GenerateCorrelationID()).Logger()
//	l.Info().Str("url", u).Msg("Realtime socket opened")
//
// # slog Interop
//
// NewSlogLoggerWithComponent returns a *slog.Logger backed by zerolog, for suture's
// sutureslog hook and watermill's slog adapter.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
