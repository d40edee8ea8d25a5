// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/middleware"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// StatusSource reports realtime connection health. *realtime.Realtime satisfies it.
type StatusSource interface {
	State() realtime.State
	Channels() []string
	Err() error
}

// BreakerSource reports a circuit breaker state. *forwarder.Forwarder satisfies it.
type BreakerSource interface {
	BreakerState() string
}

// Config holds HTTP endpoint configuration.
type Config struct {
	Addr string

	// CORSOrigins is empty by default, which disables cross-origin reads.
	CORSOrigins []string

	// RateLimitRequests per RateLimitWindow per client IP. 0 disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Relay, when set, is mounted at /ws.
	Relay http.Handler
}

// DefaultConfig returns defaults suitable for a local scrape target.
func DefaultConfig() Config {
	return Config{
		Addr:              "127.0.0.1:9464",
		RateLimitRequests: 60,
		RateLimitWindow:   time.Minute,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// NewRouter builds the chi router serving /metrics, the health endpoints
// and, when configured, the /ws relay.
// breaker may be nil when forwarding is disabled.
func NewRouter(cfg Config, status StatusSource, breaker BreakerSource) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         86400,
		}))
	}

	h := &healthHandler{status: status, breaker: breaker}

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Get("/healthz", h.health)
		r.Get("/healthz/live", h.live)
		if cfg.Relay != nil {
			r.Handle("/ws", cfg.Relay)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// New returns an *http.Server for cfg; run it under the supervisor.
func New(cfg Config, status StatusSource, breaker BreakerSource) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, status, breaker),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
