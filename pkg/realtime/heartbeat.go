// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"sync"
	"time"
)

// heartbeat writes a ping frame on a fixed interval until stopped.
// It does not wait for pongs; a dead socket surfaces through the read loop.
type heartbeat struct {
	interval time.Duration
	send     func() error

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// startHeartbeat launches the ping loop. send errors are reported to it by
// the caller-provided function and do not stop the loop.
func startHeartbeat(interval time.Duration, send func() error) *heartbeat {
	h := &heartbeat{
		interval: interval,
		send:     send,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *heartbeat) run() {
	defer close(h.doneCh)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			_ = h.send()
		}
	}
}

// stop ends the loop. Safe to call more than once and on a nil heartbeat.
// It does not wait for an in-flight send.
func (h *heartbeat) stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// wait blocks until the loop has exited.
func (h *heartbeat) wait() {
	if h == nil {
		return
	}
	<-h.doneCh
}
