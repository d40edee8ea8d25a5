// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/appwrite/sdk-for-react-native-sub000/pkg/realtime"
)

// fakeSubscriber records subscriptions and lets tests push events.
type fakeSubscriber struct {
	mu           sync.Mutex
	err          error
	channels     [][]string
	callbacks    []func(realtime.Event)
	unsubscribed int
	subscribed   chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{subscribed: make(chan struct{}, 4)}
}

func (f *fakeSubscriber) Subscribe(channels []string, cb func(realtime.Event)) (realtime.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.channels = append(f.channels, channels)
	f.callbacks = append(f.callbacks, cb)
	f.subscribed <- struct{}{}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribed++
	}, nil
}

func (f *fakeSubscriber) emit(ev realtime.Event) {
	f.mu.Lock()
	cbs := append([]func(realtime.Event){}, f.callbacks...)
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(ev)
	}
}

func (f *fakeSubscriber) unsubscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubscribed
}

func waitSubscribed(t *testing.T, f *fakeSubscriber) {
	t.Helper()
	select {
	case <-f.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe was not called")
	}
}

func TestSubscriptionService_DeliversAndUnsubscribes(t *testing.T) {
	sub := newFakeSubscriber()
	got := make(chan realtime.Event, 1)
	svc := NewSubscriptionService("tail", sub, []string{"documents", "files"}, func(ev realtime.Event) { got <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	waitSubscribed(t, sub)

	sub.emit(realtime.Event{Channels: []string{"documents"}})
	select {
	case ev := <-got:
		if ev.Channels[0] != "documents" {
			t.Errorf("event channels = %v", ev.Channels)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if sub.unsubscribeCount() != 1 {
		t.Errorf("unsubscribed %d times, want 1", sub.unsubscribeCount())
	}
	if len(sub.channels[0]) != 2 {
		t.Errorf("subscribed channels = %v", sub.channels[0])
	}
}

func TestSubscriptionService_SubscribeError(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = realtime.ErrNoChannels
	svc := NewSubscriptionService("tail", sub, nil, func(realtime.Event) {})

	err := svc.Serve(context.Background())
	if !errors.Is(err, realtime.ErrNoChannels) {
		t.Errorf("Serve() = %v, want ErrNoChannels", err)
	}
}

func TestSubscriptionService_PolicyViolationTerminates(t *testing.T) {
	sub := newFakeSubscriber()
	svc := NewSubscriptionService("tail", sub, []string{"documents"}, func(realtime.Event) {})

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(context.Background()) }()
	waitSubscribed(t, sub)

	// Transient errors are left to the client's own reconnect loop.
	svc.ReportError(errors.New("dial tcp: connection refused"))
	svc.ReportError(&realtime.PolicyViolationError{Code: realtime.PolicyViolationCode, Message: "Invalid origin"})

	select {
	case err := <-errCh:
		if !errors.Is(err, suture.ErrTerminateSupervisorTree) {
			t.Errorf("Serve() = %v, want ErrTerminateSupervisorTree", err)
		}
		if !realtime.IsPolicyViolation(err) {
			t.Errorf("Serve() = %v, want wrapped policy violation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after policy violation")
	}
	if sub.unsubscribeCount() != 1 {
		t.Errorf("unsubscribed %d times, want 1", sub.unsubscribeCount())
	}
}

func TestSubscriptionService_TransientErrorIgnored(t *testing.T) {
	sub := newFakeSubscriber()
	svc := NewSubscriptionService("tail", sub, []string{"documents"}, func(realtime.Event) {})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	svc.ReportError(errors.New("websocket dial failed (status 502)"))
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
}
