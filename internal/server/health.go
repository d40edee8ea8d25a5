// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// Health status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status   string   `json:"status"`
	State    string   `json:"state"`
	Channels []string `json:"channels"`
	Error    string   `json:"error,omitempty"`
	Breaker  string   `json:"breaker,omitempty"`
}

type healthHandler struct {
	status  StatusSource
	breaker BreakerSource
}

// health is 200 while the socket is open and 503 otherwise. An open
// forwarding breaker degrades the status without failing the check.
func (h *healthHandler) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: StatusDown, State: realtime.StateClosed.String(), Channels: []string{}}

	if h.status != nil {
		state := h.status.State()
		resp.State = state.String()
		if ch := h.status.Channels(); ch != nil {
			resp.Channels = ch
		}
		if err := h.status.Err(); err != nil {
			resp.Error = err.Error()
		}
		if state == realtime.StateOpen {
			resp.Status = StatusOK
		}
	}

	if h.breaker != nil {
		resp.Breaker = h.breaker.BreakerState()
		if resp.Status == StatusOK && resp.Breaker == "open" {
			resp.Status = StatusDegraded
		}
	}

	code := http.StatusOK
	if resp.Status == StatusDown {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, resp)
}

func (h *healthHandler) live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": StatusOK})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write health response")
	}
}
