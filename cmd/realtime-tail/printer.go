// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package main

import (
	"io"
	"sync"

	"github.com/goccy/go-json"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// eventPrinter writes each event as one JSON line. Callbacks run
// concurrently, so writes are serialized.
type eventPrinter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newEventPrinter(w io.Writer) *eventPrinter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &eventPrinter{enc: enc}
}

// Handle is the subscription callback.
func (p *eventPrinter) Handle(ev realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.enc.Encode(ev); err != nil {
		logging.Error().Err(err).Strs("channels", ev.Channels).Msg("Failed to write event")
	}
}
