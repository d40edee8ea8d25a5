// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package middleware provides HTTP middleware for the metrics and health endpoint.

Key Components:

  - Request ID: reuses or generates X-Request-ID and stores it as the
    logging correlation ID
  - Request Logger: debug-level access log through internal/logging
  - Prometheus Metrics: request count and latency per chi route pattern

All middleware has the standard func(http.Handler) http.Handler shape:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.RequestLogger)
*/
package middleware
