// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/validation"
)

// Handler upgrades requests to relay WebSockets.
//
// Clients choose channels with ?channels=a,b (repeatable). Without the
// parameter they receive every relayed event.
type Handler struct {
	hub            *Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewHandler returns the relay endpoint for hub. Browser origins must be
// listed in allowedOrigins ("*" allows any); with an empty list only
// same-host origins are accepted. Requests without Origin are non-browser
// clients and are always accepted.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	h := &Handler{hub: hub, allowedOrigins: allowedOrigins}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	channels, bad := parseChannels(r.URL.Query()["channels"])
	if bad != "" {
		http.Error(w, "invalid channel: "+bad, http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("relay upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, channels)
	if err := h.hub.Register(client); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	client.Start()
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(h.allowedOrigins) == 0 {
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("relay connection rejected from unauthorized origin")
	return false
}

// parseChannels flattens repeated and comma-separated values. It returns
// the first invalid name, if any.
func parseChannels(values []string) ([]string, string) {
	var out []string
	for _, v := range values {
		for _, ch := range strings.Split(v, ",") {
			ch = strings.TrimSpace(ch)
			if ch == "" {
				continue
			}
			if !validation.ValidateChannel(ch) {
				return nil, ch
			}
			out = append(out, ch)
		}
	}
	return out, ""
}

// sanitizeLogValue strips control characters and caps length.
func sanitizeLogValue(s string) string {
	const maxLen = 128
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
