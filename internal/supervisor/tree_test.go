// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// countingService runs until canceled and counts its starts.
type countingService struct {
	name    string
	starts  atomic.Int32
	fails   atomic.Int32
	failFor int32
}

func (s *countingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.fails.Add(1) <= s.failFor {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStarts(t *testing.T, s *countingService, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.starts.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("%s started %d times, want at least %d", s.name, s.starts.Load(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSupervisorTreeConstruction(t *testing.T) {
	t.Run("applies default values for zero config", func(t *testing.T) {
		tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
		if err != nil {
			t.Fatalf("failed to create tree: %v", err)
		}

		want := DefaultTreeConfig()
		if tree.config != want {
			t.Errorf("config = %+v, want %+v", tree.config, want)
		}
		if tree.Root() == nil {
			t.Error("root supervisor should not be nil")
		}
	})
}

func TestSupervisorTreeLifecycle(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  50 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}

	tail := &countingService{name: "tail"}
	api := &countingService{name: "metrics-server"}
	tree.AddRealtimeService(tail)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitStarts(t, tail, 1)
	waitStarts(t, api, 1)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTreeRestartsFailedService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureBackoff:  50 * time.Millisecond,
		ShutdownTimeout: time.Second,
	})

	api := &countingService{name: "metrics-server", failFor: 2}
	tail := &countingService{name: "tail"}
	tree.AddAPIService(api)
	tree.AddRealtimeService(tail)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	waitStarts(t, api, 3)

	// A failing api layer never restarts the realtime layer.
	if got := tail.starts.Load(); got != 1 {
		t.Errorf("tail started %d times, want 1", got)
	}

	cancel()
	<-errCh
}
