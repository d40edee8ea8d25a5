// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for relay communication
const (
	MessageTypeEvent = "event"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// broadcastBuffer is how many events may wait for the hub loop.
const broadcastBuffer = 256

// ErrHubStopped is returned by Register when the hub is not being served.
var ErrHubStopped = errors.New("relay hub is not running")

// Message is the JSON envelope written to relay clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans realtime events out to local WebSocket clients.
//
// BroadcastEvent never blocks the realtime callback: events are queued
// and the Serve loop delivers them in arrival order. A client whose
// send buffer is full is disconnected rather than slowing everyone down.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	running   bool
	broadcast chan realtime.Event
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan realtime.Event, broadcastBuffer),
	}
}

// Register adds a client. It fails once the hub has stopped so upgrade
// handlers never block on a dead hub.
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return ErrHubStopped
	}
	h.clients[c] = struct{}{}
	metrics.RelayClients.Set(float64(len(h.clients)))
	logging.Info().Uint64("client_id", c.id).Int("total_clients", len(h.clients)).Msg("relay client connected")
	return nil
}

// Unregister removes a client and closes its send channel. Safe to call
// more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	h.removeLocked(c)
	logging.Info().Uint64("client_id", c.id).Int("total_clients", len(h.clients)).Msg("relay client disconnected")
}

func (h *Hub) removeLocked(c *Client) {
	delete(h.clients, c)
	close(c.send)
	metrics.RelayClients.Set(float64(len(h.clients)))
}

// Serve implements suture.Service. It delivers queued events until ctx
// ends, then closes every client.
//
// Priority order: shutdown first, then broadcasts.
func (h *Hub) Serve(ctx context.Context) error {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			h.stop(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.stop(ctx)
			return ctx.Err()
		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (h *Hub) String() string {
	return "relay-hub"
}

// stop closes all clients and logs the shutdown. ctx.Err() is not logged
// as an error because cancellation is the expected path.
func (h *Hub) stop(ctx context.Context) {
	h.mu.Lock()
	h.running = false
	clients := h.sortedClientsLocked()
	for _, c := range clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	logging.Info().
		Str("component", "relay-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", len(clients)).
		Msg("relay hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// deliver sends ev to every interested client in ID order.
func (h *Hub) deliver(ev realtime.Event) {
	msg := Message{Type: MessageTypeEvent, Data: ev}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClientsLocked() {
		if !c.wants(ev.Channels) {
			continue
		}
		select {
		case c.send <- msg:
			metrics.RelayMessagesSent.Inc()
		default:
			metrics.RecordRelayDrop("client_slow")
			logging.Warn().Uint64("client_id", c.id).Msg("relay client too slow, disconnecting")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastEvent queues ev for delivery. It has the signature of a
// realtime subscription callback.
func (h *Hub) BroadcastEvent(ev realtime.Event) {
	select {
	case h.broadcast <- ev:
	default:
		metrics.RecordRelayDrop("hub_full")
		logging.Warn().Strs("channels", ev.Channels).Msg("relay broadcast buffer full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
