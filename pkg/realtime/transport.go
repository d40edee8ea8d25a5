// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is one open realtime socket carrying text frames.
//
// ReadMessage is only called from a single goroutine. WriteMessage may be
// called concurrently with ReadMessage and with itself. Close may be called
// at any time, including concurrently with a blocked ReadMessage, and must
// make it return.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Transport opens realtime sockets.
type Transport interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

// WebSocketTransport dials with gorilla/websocket.
type WebSocketTransport struct {
	// HandshakeTimeout bounds the opening handshake. Zero means 10s.
	HandshakeTimeout time.Duration
	// EnableCompression negotiates permessage-deflate.
	EnableCompression bool
	// Dialer overrides the dialer entirely when set.
	Dialer *websocket.Dialer
}

// Dial implements Transport.
func (t *WebSocketTransport) Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	dialer := t.Dialer
	if dialer == nil {
		timeout := t.HandshakeTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		dialer = &websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  timeout,
			EnableCompression: t.EnableCompression,
		}
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	return &wsConn{conn: conn}, nil
}

// wsConn adapts *websocket.Conn to Conn. gorilla allows one concurrent
// writer for data frames; WriteControl and Close are exempt.
type wsConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a normal-closure frame and closes the connection.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// isNormalClose reports whether err is an orderly close rather than a
// network failure. It only affects log levels.
func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
