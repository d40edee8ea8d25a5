// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package metrics provides Prometheus metrics for the realtime client.

All collectors are registered on the default registry through promauto and are
exported by internal/server at /metrics.

# Available Metrics

Realtime connection:
  - realtime_connected: 1 while a socket is open (gauge)
  - realtime_dial_attempts_total: Dials by result (counter)
    Labels: result
  - realtime_reconnects_scheduled_total: Reconnects after unexpected closes (counter)
  - realtime_reconnect_delay_seconds: Backoff chosen per reconnect (histogram)
    Buckets: 1, 5, 10, 60 (the backoff tiers)
  - realtime_fatal_closures_total: Policy-violation closures (counter)

Routing:
  - realtime_frames_received_total: Inbound frames by type (counter)
    Labels: type
  - realtime_frames_malformed_total: Frames that failed to parse (counter)
  - realtime_events_delivered_total: Subscriber callbacks scheduled (counter)
  - realtime_events_dropped_total: Events with no registered channel (counter)
  - realtime_callback_panics_total: Recovered subscriber panics (counter)
  - realtime_heartbeats_sent_total: Ping writes by result (counter)
  - realtime_subscriptions, realtime_channels: Registry size (gauges)

Forwarder:
  - forwarder_messages_published_total: Labels: result
  - forwarder_publish_duration_seconds (histogram)
  - circuit_breaker_state, circuit_breaker_state_transitions_total

HTTP:
  - http_requests_total, http_request_duration_seconds

# Usage

	metrics.RecordFrame("event")
	metrics.RecordReconnectScheduled(5 * time.Second)
*/
package metrics
