// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// serverConn is the server side of one accepted realtime socket.
type serverConn struct {
	conn   *websocket.Conn
	query  url.Values
	origin string
}

// mockRealtimeServer simulates the realtime endpoint.
type mockRealtimeServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	connChan chan *serverConn
}

func newMockRealtimeServer(t *testing.T) *mockRealtimeServer {
	t.Helper()

	mock := &mockRealtimeServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		connChan: make(chan *serverConn, 8),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/realtime" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("project") == "" {
			http.Error(w, "missing project", http.StatusBadRequest)
			return
		}

		conn, err := mock.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mock.connChan <- &serverConn{
			conn:   conn,
			query:  r.URL.Query(),
			origin: r.Header.Get("Origin"),
		}
	}))
	t.Cleanup(mock.server.Close)

	return mock
}

// endpoint returns the ws:// base URL for the client.
func (m *mockRealtimeServer) endpoint() string {
	return "ws" + strings.TrimPrefix(m.server.URL, "http") + "/v1"
}

func (m *mockRealtimeServer) accept(t *testing.T) *serverConn {
	t.Helper()
	select {
	case sc := <-m.connChan:
		t.Cleanup(func() { _ = sc.conn.Close() })
		return sc
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for client connection")
		return nil
	}
}

func (sc *serverConn) send(t *testing.T, frame any) {
	t.Helper()
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

// readType reads frames until one of the given type arrives.
func (sc *serverConn) readType(t *testing.T, want string) envelope {
	t.Helper()
	_ = sc.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := sc.conn.ReadMessage()
		if err != nil {
			t.Fatalf("server read waiting for %q: %v", want, err)
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("client sent invalid frame %s: %v", data, err)
		}
		if env.Type == want {
			return env
		}
	}
}

func newWebSocketRealtime(t *testing.T, mock *mockRealtimeServer, mutate ...func(*Options)) *Realtime {
	t.Helper()
	opts := Options{
		Endpoint:          mock.endpoint(),
		Project:           "test-project",
		Platform:          "com.example.app",
		ConnectDebounce:   10 * time.Millisecond,
		HeartbeatInterval: 20 * time.Millisecond,
		Backoff:           func(int) time.Duration { return 20 * time.Millisecond },
		Transport:         &WebSocketTransport{HandshakeTimeout: 2 * time.Second},
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

func TestWebSocket_SubscribeAndReceive(t *testing.T) {
	mock := newMockRealtimeServer(t)
	r := newWebSocketRealtime(t, mock, func(o *Options) {
		o.Session = func() string { return "session-secret" }
	})

	rec := newRecorder()
	mustSubscribe(t, r, []string{"files", "account"}, rec.callback)

	sc := mock.accept(t)
	if got := sc.query.Get("project"); got != "test-project" {
		t.Errorf("project = %q", got)
	}
	if got := sc.query["channels[]"]; len(got) != 2 || got[0] != "account" || got[1] != "files" {
		t.Errorf("channels[] = %v", got)
	}
	if want := "appwrite-" + runtime.GOOS + "://com.example.app"; sc.origin != want {
		t.Errorf("Origin = %q, want %q", sc.origin, want)
	}

	sc.send(t, map[string]any{"type": "connected", "data": map[string]any{"channels": []string{"account", "files"}, "user": nil}})
	auth := sc.readType(t, frameAuthentication)
	var ad authenticationData
	if err := json.Unmarshal(auth.Data, &ad); err != nil || ad.Session != "session-secret" {
		t.Errorf("authentication data = %s (%v)", auth.Data, err)
	}

	sc.readType(t, framePing)

	sc.send(t, eventFrame("files"))
	ev := rec.expect(t)
	var payload struct {
		ID string `json:"$id"`
	}
	if err := ev.Decode(&payload); err != nil || payload.ID != "doc1" {
		t.Errorf("payload = %+v (%v)", payload, err)
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected timestamp to be parsed")
	}
}

func TestWebSocket_ReconnectsAfterServerDrop(t *testing.T) {
	mock := newMockRealtimeServer(t)
	r := newWebSocketRealtime(t, mock)

	rec := newRecorder()
	mustSubscribe(t, r, []string{"files"}, rec.callback)

	first := mock.accept(t)
	_ = first.conn.Close()

	second := mock.accept(t)
	if got := second.query["channels[]"]; len(got) != 1 || got[0] != "files" {
		t.Errorf("reconnect channels[] = %v", got)
	}
	second.send(t, eventFrame("files"))
	rec.expect(t)
}

func TestWebSocket_PolicyViolationClose(t *testing.T) {
	mock := newMockRealtimeServer(t)
	errs := make(chan error, 1)
	r := newWebSocketRealtime(t, mock, func(o *Options) {
		o.OnError = func(err error) { errs <- err }
	})

	mustSubscribe(t, r, []string{"files"}, noop)
	sc := mock.accept(t)

	sc.send(t, map[string]any{"type": "error", "data": map[string]any{"code": 1008, "message": "Invalid Origin. Register your new client as a new platform."}})
	_ = sc.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Invalid Origin"),
		time.Now().Add(time.Second),
	)
	_ = sc.conn.Close()

	select {
	case err := <-errs:
		if !IsPolicyViolation(err) {
			t.Errorf("OnError got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("OnError not called")
	}

	select {
	case extra := <-mock.connChan:
		_ = extra.conn.Close()
		t.Fatal("client reconnected after policy violation")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebSocketTransport_DialFailure(t *testing.T) {
	t.Parallel()

	mock := newMockRealtimeServer(t)
	tr := &WebSocketTransport{HandshakeTimeout: time.Second}

	// Wrong path: the server answers 404 instead of upgrading.
	_, err := tr.Dial(t.Context(), "ws"+strings.TrimPrefix(mock.server.URL, "http")+"/nope", nil)
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error = %v, want status 404", err)
	}
}
