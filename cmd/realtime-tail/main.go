// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package main is the realtime-tail command.
//
// realtime-tail subscribes to Appwrite realtime channels and prints every
// event as one JSON line on stdout. It can also republish events onto NATS
// expose Prometheus metrics with a health check, and relay events to local
// WebSocket clients.
//
// # Configuration
//
// Layers, highest priority first:
//   - Command-line flags
//   - Environment variables (APPWRITE_PROJECT, REALTIME_CHANNELS, ...)
//   - Config file (--config, CONFIG_PATH or realtime-tail.yaml)
//   - Built-in defaults
//
// # Example Usage
//
//	realtime-tail --project 5df5acd0d48c2 databases.main.collections.posts.documents
//
//	APPWRITE_PROJECT=5df5acd0d48c2 APPWRITE_SESSION=... \
//	    realtime-tail --metrics-addr 127.0.0.1:9464 --nats-url nats://127.0.0.1:4222 account
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree, unsubscribe and close the
// realtime socket. A policy violation close from the server exits with status 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := buildRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("realtime-tail failed")
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// It is separate from main for testing.
func buildRootCmd() *cobra.Command {
	opts := &tailOptions{}

	rootCmd := &cobra.Command{
		Use:   "realtime-tail [channels...]",
		Short: "Stream Appwrite realtime events as JSON lines",
		Long: `Subscribe to Appwrite realtime channels and print each event as a JSON line.

Channels come from the arguments, or from realtime.channels / REALTIME_CHANNELS
when no arguments are given. The socket reconnects on its own with backoff;
only a policy violation close (code 1008) ends the command with an error.`,
		Example: `  # Tail document changes of one collection
  realtime-tail --project 5df5acd0d48c2 databases.main.collections.posts.documents

  # Authenticated tail with metrics and NATS forwarding
  realtime-tail --session "$SESSION" --metrics-addr 127.0.0.1:9464 \
      --nats-url nats://127.0.0.1:4222 account files`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
			return runTail(cmd.Context(), cmd, opts, args)
		},
	}
	opts.register(rootCmd)

	rootCmd.AddCommand(buildCheckConfigCmd(opts))

	return rootCmd
}
