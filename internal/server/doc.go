// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package server exposes Prometheus metrics and realtime health over HTTP.
//
// Routes:
//
//	GET /metrics       Prometheus exposition (promhttp)
//	GET /healthz       realtime socket state; 503 unless the socket is open
//	GET /healthz/live  process liveness, always 200
//
// The health routes are rate limited per client IP with go-chi/httprate and
// CORS is enabled only when origins are configured.
package server
