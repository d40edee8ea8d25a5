// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the realtime client:
// - Socket lifecycle (dials, opens, reconnect scheduling, fatal closures)
// - Inbound frame routing and subscriber delivery
// - Heartbeat traffic
// - NATS forwarding and its circuit breaker
// - Local WebSocket relay fan-out
// - HTTP endpoint latency

var (
	// Realtime Connection Metrics
	RealtimeConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connected",
			Help: "1 while a realtime socket is open, 0 otherwise",
		},
	)

	RealtimeDialAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_dial_attempts_total",
			Help: "Total number of realtime socket dials",
		},
		[]string{"result"}, // "success", "failure"
	)

	RealtimeReconnectsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_reconnects_scheduled_total",
			Help: "Total number of reconnects scheduled after an unexpected close",
		},
	)

	RealtimeReconnectDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "realtime_reconnect_delay_seconds",
			Help:    "Backoff delay chosen for scheduled reconnects",
			Buckets: []float64{1, 5, 10, 60},
		},
	)

	RealtimeFatalClosures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_fatal_closures_total",
			Help: "Total number of closures classified as policy violations (no reconnect)",
		},
	)

	// Realtime Routing Metrics
	RealtimeFramesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_frames_received_total",
			Help: "Total number of inbound realtime frames by type",
		},
		[]string{"type"}, // "connected", "event", "error", "pong", "unknown"
	)

	RealtimeFramesMalformed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_frames_malformed_total",
			Help: "Total number of inbound frames that failed to parse",
		},
	)

	RealtimeEventsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_events_delivered_total",
			Help: "Total number of subscriber callbacks scheduled for events",
		},
	)

	RealtimeEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_events_dropped_total",
			Help: "Total number of events dropped because no registered channel matched",
		},
	)

	RealtimeCallbackPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_callback_panics_total",
			Help: "Total number of recovered panics in subscriber callbacks",
		},
	)

	RealtimeHeartbeatsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_heartbeats_sent_total",
			Help: "Total number of heartbeat pings written",
		},
		[]string{"result"}, // "success", "failure"
	)

	RealtimeSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscriptions",
			Help: "Current number of live subscriptions",
		},
	)

	RealtimeChannels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_channels",
			Help: "Current number of distinct channels in the registry",
		},
	)

	// Forwarder Metrics
	ForwarderMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forwarder_messages_published_total",
			Help: "Total number of realtime events forwarded to NATS",
		},
		[]string{"result"}, // "success", "error", "rejected"
	)

	ForwarderPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forwarder_publish_duration_seconds",
			Help:    "Duration of NATS publishes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Relay Metrics
	RelayClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_clients",
			Help: "Current number of local WebSocket relay clients",
		},
	)

	RelayMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_messages_sent_total",
			Help: "Total number of events queued to relay clients",
		},
	)

	RelayMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_dropped_total",
			Help: "Total number of relay messages dropped",
		},
		[]string{"reason"}, // "hub_full", "client_slow"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDial records the outcome of a realtime socket dial.
func RecordDial(err error) {
	if err != nil {
		RealtimeDialAttempts.WithLabelValues("failure").Inc()
		return
	}
	RealtimeDialAttempts.WithLabelValues("success").Inc()
}

// SetConnected flips the realtime connection gauge.
func SetConnected(open bool) {
	if open {
		RealtimeConnected.Set(1)
	} else {
		RealtimeConnected.Set(0)
	}
}

// RecordReconnectScheduled records a reconnect and the backoff chosen for it.
func RecordReconnectScheduled(delay time.Duration) {
	RealtimeReconnectsScheduled.Inc()
	RealtimeReconnectDelay.Observe(delay.Seconds())
}

// RecordFatalClosure records a closure that disabled reconnects.
func RecordFatalClosure() {
	RealtimeFatalClosures.Inc()
}

// RecordFrame records an inbound frame by its type.
// Types outside the known set collapse to "unknown" to bound label cardinality.
func RecordFrame(frameType string) {
	switch frameType {
	case "connected", "event", "error", "pong":
	default:
		frameType = "unknown"
	}
	RealtimeFramesReceived.WithLabelValues(frameType).Inc()
}

// RecordMalformedFrame records a frame that failed to parse.
func RecordMalformedFrame() {
	RealtimeFramesMalformed.Inc()
}

// RecordEventDelivered records n subscriber callbacks scheduled for one event.
func RecordEventDelivered(n int) {
	RealtimeEventsDelivered.Add(float64(n))
}

// RecordEventDropped records an event with no matching registered channel.
func RecordEventDropped() {
	RealtimeEventsDropped.Inc()
}

// RecordCallbackPanic records a recovered subscriber panic.
func RecordCallbackPanic() {
	RealtimeCallbackPanics.Inc()
}

// RecordHeartbeat records the outcome of a heartbeat write.
func RecordHeartbeat(err error) {
	if err != nil {
		RealtimeHeartbeatsSent.WithLabelValues("failure").Inc()
		return
	}
	RealtimeHeartbeatsSent.WithLabelValues("success").Inc()
}

// UpdateRegistryGauges sets the live subscription and channel gauges.
func UpdateRegistryGauges(subscriptions, channels int) {
	RealtimeSubscriptions.Set(float64(subscriptions))
	RealtimeChannels.Set(float64(channels))
}

// RecordForward records the outcome of forwarding one event to NATS.
// result is one of "success", "error" or "rejected" (breaker open).
func RecordForward(result string, duration time.Duration) {
	ForwarderMessagesPublished.WithLabelValues(result).Inc()
	if result != "rejected" {
		ForwarderPublishDuration.Observe(duration.Seconds())
	}
}

// RecordBreakerTransition records a circuit breaker state change.
// state values follow gobreaker: 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordRelayDrop records a relay message that was not delivered.
// reason is "hub_full" or "client_slow".
func RecordRelayDrop(reason string) {
	RelayMessagesDropped.WithLabelValues(reason).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
