// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

var errFakeClosed = errors.New("fake connection closed")

// fakeConn is an in-memory Conn. Tests push inbound frames with send and
// simulate a network drop with drop.
type fakeConn struct {
	url    string
	header http.Header

	in        chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written [][]byte
}

func newFakeConn(u string, h http.Header) *fakeConn {
	return &fakeConn{
		url:    u,
		header: h,
		in:     make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case <-c.closed:
		return nil, errFakeClosed
	default:
	}
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closed:
		return nil, errFakeClosed
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) drop() { _ = c.Close() }

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) send(t *testing.T, frame any) {
	t.Helper()
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	c.in <- data
}

func (c *fakeConn) sendRaw(data string) {
	c.in <- []byte(data)
}

func (c *fakeConn) writtenTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.written))
	for _, w := range c.written {
		var env envelope
		if err := json.Unmarshal(w, &env); err == nil {
			types = append(types, env.Type)
		}
	}
	return types
}

func (c *fakeConn) channels() []string {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil
	}
	return u.Query()["channels[]"]
}

// fakeTransport hands out fakeConns and records every dial.
type fakeTransport struct {
	conns chan *fakeConn

	mu    sync.Mutex
	dials int
	fail  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{conns: make(chan *fakeConn, 64)}
}

func (f *fakeTransport) Dial(ctx context.Context, u string, h http.Header) (Conn, error) {
	f.mu.Lock()
	f.dials++
	fail := f.fail
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fail != nil {
		return nil, fail
	}
	c := newFakeConn(u, h)
	f.conns <- c
	return c, nil
}

func (f *fakeTransport) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeTransport) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

// next waits for the next successful dial.
func (f *fakeTransport) next(t *testing.T) *fakeConn {
	t.Helper()
	select {
	case c := <-f.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dial")
		return nil
	}
}

// expectNoDial asserts no successful dial happens within d.
func (f *fakeTransport) expectNoDial(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case c := <-f.conns:
		t.Fatalf("unexpected dial to %s", c.url)
	case <-time.After(d):
	}
}

func newTestRealtime(t *testing.T, ft *fakeTransport, mutate ...func(*Options)) *Realtime {
	t.Helper()
	opts := Options{
		Endpoint:          "wss://appwrite.test/v1",
		Project:           "test-project",
		Transport:         ft,
		ConnectDebounce:   20 * time.Millisecond,
		HeartbeatInterval: time.Hour,
		Backoff:           func(int) time.Duration { return 10 * time.Millisecond },
	}
	for _, m := range mutate {
		m(&opts)
	}
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func eventFrame(channels ...string) map[string]any {
	return map[string]any{
		"type": "event",
		"data": map[string]any{
			"events":    []string{"test.event"},
			"channels":  channels,
			"timestamp": "2024-05-01T10:00:00.000Z",
			"payload":   map[string]any{"$id": "doc1"},
		},
	}
}

// recorder collects events delivered to one subscription.
type recorder struct {
	ch chan Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Event, 32)}
}

func (r *recorder) callback(e Event) { r.ch <- e }

func (r *recorder) expect(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-r.ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func (r *recorder) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case e := <-r.ch:
		t.Fatalf("unexpected event on channels %v", e.Channels)
	case <-time.After(d):
	}
}
