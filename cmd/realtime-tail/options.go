// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/config"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
)

// tailOptions holds flag values. Only flags the user set override config.
type tailOptions struct {
	configPath string

	endpoint         string
	endpointRealtime string
	project          string
	session          string
	jwt              string
	platform         string
	selfSigned       bool

	heartbeat   time.Duration
	compression bool

	metricsAddr string
	relay       bool
	natsURL     string
	natsPrefix  string

	logLevel  string
	logFormat string
}

func (o *tailOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "Path to YAML configuration file")

	f.StringVar(&o.endpoint, "endpoint", "", "Appwrite API endpoint (default https://cloud.appwrite.io/v1)")
	f.StringVar(&o.endpointRealtime, "endpoint-realtime", "", "Realtime endpoint (default derived from --endpoint)")
	f.StringVarP(&o.project, "project", "p", "", "Appwrite project ID")
	f.StringVar(&o.session, "session", "", "Session secret for authenticated channels")
	f.StringVar(&o.jwt, "jwt", "", "JWT; a warning is logged when it has expired")
	f.StringVar(&o.platform, "platform", "", "Platform identifier for the Origin header")
	f.BoolVar(&o.selfSigned, "self-signed", false, "Allow self-signed certificates")

	f.DurationVar(&o.heartbeat, "heartbeat", 0, "Heartbeat interval (default 20s)")
	f.BoolVar(&o.compression, "compression", false, "Negotiate permessage-deflate")

	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address")
	f.BoolVar(&o.relay, "relay", false, "Relay events to local WebSocket clients on /ws (needs --metrics-addr)")
	f.StringVar(&o.natsURL, "nats-url", "", "Forward events to this NATS server")
	f.StringVar(&o.natsPrefix, "nats-subject-prefix", "", "NATS subject prefix (default appwrite.realtime)")

	f.StringVar(&o.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: json or console")
}

// overrides maps the flags the user set, and any channel arguments, onto
// koanf paths.
func (o *tailOptions) overrides(cmd *cobra.Command, channels []string) map[string]interface{} {
	set := map[string]interface{}{}
	changed := cmd.Flags().Changed

	strFlags := []struct {
		flag string
		key  string
		val  string
	}{
		{"endpoint", "appwrite.endpoint", o.endpoint},
		{"endpoint-realtime", "appwrite.endpoint_realtime", o.endpointRealtime},
		{"project", "appwrite.project", o.project},
		{"session", "appwrite.session", o.session},
		{"jwt", "appwrite.jwt", o.jwt},
		{"platform", "appwrite.platform", o.platform},
		{"nats-subject-prefix", "nats.subject_prefix", o.natsPrefix},
		{"log-level", "logging.level", o.logLevel},
		{"log-format", "logging.format", o.logFormat},
	}
	for _, sf := range strFlags {
		if changed(sf.flag) {
			set[sf.key] = sf.val
		}
	}

	if changed("self-signed") {
		set["appwrite.self_signed"] = o.selfSigned
	}
	if changed("heartbeat") {
		set["realtime.heartbeat_interval"] = o.heartbeat
	}
	if changed("compression") {
		set["realtime.compression"] = o.compression
	}
	if changed("metrics-addr") {
		set["server.enabled"] = o.metricsAddr != ""
		set["server.addr"] = o.metricsAddr
	}
	if changed("relay") {
		set["server.relay"] = o.relay
	}
	if changed("nats-url") {
		set["nats.enabled"] = o.natsURL != ""
		set["nats.url"] = o.natsURL
	}
	if len(channels) > 0 {
		set["realtime.channels"] = channels
	}
	return set
}

// load reads configuration with flags as the top layer and initializes logging.
func (o *tailOptions) load(cmd *cobra.Command, channels []string) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(o.configPath, o.overrides(cmd, channels))
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	return cfg, nil
}
