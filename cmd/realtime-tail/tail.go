// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/config"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/forwarder"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/server"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/supervisor"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/supervisor/services"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/websocket"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/appwrite"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// errNoChannels is returned when neither arguments nor config name a channel.
var errNoChannels = errors.New("no channels: pass them as arguments or set REALTIME_CHANNELS")

func runTail(ctx context.Context, cmd *cobra.Command, opts *tailOptions, args []string) error {
	cfg, err := opts.load(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.Realtime.Channels) == 0 {
		return errNoChannels
	}

	client := newClient(cfg)
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Realtime close failed")
		}
	}()
	warnJWT(client, time.Now())

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	printer := newEventPrinter(cmd.OutOrStdout())
	subs := []*services.SubscriptionService{
		services.NewSubscriptionService("tail", client, cfg.Realtime.Channels, printer.Handle),
	}

	var fwd *forwarder.Forwarder
	if cfg.NATS.Enabled {
		fwd, err = forwarder.New(forwarderConfig(cfg.NATS))
		if err != nil {
			return fmt.Errorf("nats forwarder: %w", err)
		}
		defer func() {
			if cerr := fwd.Close(); cerr != nil {
				logging.Warn().Err(cerr).Msg("NATS forwarder close failed")
			}
		}()
		subs = append(subs, services.NewSubscriptionService("forward", client, cfg.Realtime.Channels, fwd.Handle))
	}

	var hub *websocket.Hub
	if cfg.Server.Enabled && cfg.Server.Relay {
		hub = websocket.NewHub()
		subs = append(subs, services.NewSubscriptionService("relay", client, cfg.Realtime.Channels, hub.BroadcastEvent))
	}

	client.SetRealtimeOptions(func(o *realtime.Options) {
		o.ConnectDebounce = cfg.Realtime.ConnectDebounce
		o.HeartbeatInterval = cfg.Realtime.HeartbeatInterval
		o.Transport = &realtime.WebSocketTransport{
			HandshakeTimeout:  cfg.Realtime.HandshakeTimeout,
			EnableCompression: cfg.Realtime.Compression,
		}
		o.OnError = func(err error) {
			for _, s := range subs {
				s.ReportError(err)
			}
			if realtime.IsPolicyViolation(err) {
				cancel(err)
			}
		}
	})

	rt, err := client.Realtime()
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerWithComponent("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	for _, s := range subs {
		tree.AddRealtimeService(s)
	}

	if cfg.Server.Enabled {
		var breaker server.BreakerSource
		if fwd != nil {
			breaker = fwd
		}
		srvCfg := serverConfig(cfg.Server)
		if hub != nil {
			tree.AddAPIService(hub)
			srvCfg.Relay = websocket.NewHandler(hub, cfg.Server.CORSOrigins)
		}
		srv := server.New(srvCfg, rt, breaker)
		tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.Addr, cfg.Server.ShutdownTimeout))
	}

	logging.Info().
		Strs("channels", cfg.Realtime.Channels).
		Str("endpoint", client.EndpointRealtime()).
		Bool("nats", fwd != nil).
		Bool("metrics", cfg.Server.Enabled).
		Bool("relay", hub != nil).
		Msg("Tailing realtime events")

	return tailResult(ctx, tree.Serve(ctx))
}

// tailResult maps the supervisor outcome to the command's exit error.
// Shutdown by signal is a clean exit; a policy violation is not.
func tailResult(ctx context.Context, serveErr error) error {
	if cause := context.Cause(ctx); realtime.IsPolicyViolation(cause) {
		return cause
	}
	if realtime.IsPolicyViolation(serveErr) {
		return serveErr
	}
	if serveErr == nil || errors.Is(serveErr, context.Canceled) || errors.Is(serveErr, context.DeadlineExceeded) {
		return nil
	}
	return serveErr
}

func newClient(cfg *config.Config) *appwrite.Client {
	a := cfg.Appwrite
	client := appwrite.NewClient().
		SetEndpoint(a.Endpoint).
		SetProject(a.Project).
		SetSelfSigned(a.SelfSigned)
	if a.EndpointRealtime != "" {
		client.SetEndpointRealtime(a.EndpointRealtime)
	}
	if a.Session != "" {
		client.SetSession(a.Session)
	}
	if a.JWT != "" {
		client.SetJWT(a.JWT)
	}
	if a.Platform != "" {
		client.SetPlatform(a.Platform)
	}
	if a.Locale != "" {
		client.SetLocale(a.Locale)
	}
	return client
}

// warnJWT logs when the configured JWT cannot be read or has expired.
func warnJWT(client *appwrite.Client, now time.Time) {
	exp, err := client.JWTExpiresAt()
	switch {
	case errors.Is(err, appwrite.ErrNoJWT):
		return
	case err != nil:
		logging.Warn().Err(err).Msg("Configured JWT could not be parsed")
	case !exp.IsZero() && exp.Before(now):
		logging.Warn().Time("expired_at", exp).Msg("Configured JWT has expired")
	}
}

func forwarderConfig(c config.NATSConfig) forwarder.Config {
	return forwarder.Config{
		URL:             c.URL,
		SubjectPrefix:   c.SubjectPrefix,
		JetStream:       c.JetStream,
		MaxReconnects:   c.MaxReconnects,
		ReconnectWait:   c.ReconnectWait,
		BreakerFailures: c.BreakerFailures,
		BreakerTimeout:  c.BreakerTimeout,
	}
}

func serverConfig(c config.ServerConfig) server.Config {
	return server.Config{
		Addr:              c.Addr,
		CORSOrigins:       c.CORSOrigins,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,
		ReadTimeout:       c.ReadTimeout,
		WriteTimeout:      c.WriteTimeout,
	}
}
