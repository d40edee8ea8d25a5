// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package supervisor provides process supervision for the realtime-tail binary
using suture v4.

# Overview

	RootSupervisor ("realtime-tail")
	├── RealtimeSupervisor ("realtime-layer")
	│   ├── SubscriptionService "tail"     (stdout JSON lines)
	│   ├── SubscriptionService "forward"  (if NATS_ENABLED)
	│   └── SubscriptionService "relay"    (if RELAY_ENABLED)
	└── APISupervisor ("api-layer")
	    ├── websocket.Hub "relay-hub"      (if RELAY_ENABLED)
	    └── HTTPServerService              (if METRICS_ENABLED)

The realtime client reconnects its socket on its own; the supervisor only
restarts consumers whose Serve returned. A policy violation close ends the
tree through suture.ErrTerminateSupervisorTree.

# Usage

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLoggerWithComponent("supervisor"),
	    supervisor.DefaultTreeConfig(),
	)
	if err != nil {
	    return err
	}
	tree.AddRealtimeService(tail)
	return tree.Serve(ctx)

Supervisor events (restarts, backoff, timeouts) are logged through the
sutureslog hook, which writes to zerolog via internal/logging.
*/
package supervisor
