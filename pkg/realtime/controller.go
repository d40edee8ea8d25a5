// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"context"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/logging"
	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
)

// connection is one physical socket and its goroutines. Fields other than
// id, url, log, ctx and cancel are guarded by Realtime.mu, except conn which
// is written once before the read loop and heartbeat start.
type connection struct {
	id     string
	url    string
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	conn    Conn
	hb      *heartbeat
	closing bool

	lastType  string
	lastError *errorData
}

// policyViolation returns the terminal error when the last frame seen on
// this socket was an error with the policy-violation code.
func (c *connection) policyViolation() *PolicyViolationError {
	if c.lastType != frameError || c.lastError == nil || c.lastError.Code != PolicyViolationCode {
		return nil
	}
	return &PolicyViolationError{Code: c.lastError.Code, Message: c.lastError.Message}
}

// requestConnectLocked (re)arms the debounce timer. Every registry change
// goes through here so a burst of changes produces one sync.
func (r *Realtime) requestConnectLocked() {
	if r.connectTimer != nil {
		r.connectTimer.Stop()
	}
	r.connectTimer = time.AfterFunc(r.debounce, r.connectNow)
}

func (r *Realtime) connectNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectTimer = nil
	r.syncLocked()
}

func (r *Realtime) reconnectNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reconnectTimer = nil
	r.syncLocked()
}

// syncLocked makes the socket match the registry: close it when the
// registry is empty, keep it when the URL is unchanged, otherwise replace it.
// Timers that fire after being stopped land here too, so it is idempotent.
func (r *Realtime) syncLocked() {
	if r.closed {
		return
	}

	channels := r.registry.snapshot()
	if len(channels) == 0 {
		r.stopReconnectLocked()
		if c := r.current; c != nil && !c.closing {
			c.log.Debug().Msg("No channels left, closing realtime socket")
			r.closeConnLocked(c)
			r.state = StateClosing
		}
		return
	}

	target := r.buildURL(channels)
	if c := r.current; c != nil && !c.closing && c.url == target {
		return
	}

	r.stopReconnectLocked()
	if c := r.current; c != nil && !c.closing {
		c.log.Debug().Msg("Channel set changed, replacing realtime socket")
		r.closeConnLocked(c)
	}
	r.dialLocked(target, channels)
}

// buildURL derives the socket URL from the endpoint, project and channels.
func (r *Realtime) buildURL(channels []string) string {
	var b strings.Builder
	b.WriteString(r.opts.Endpoint)
	b.WriteString("/realtime?project=")
	b.WriteString(url.QueryEscape(r.opts.Project))
	for _, c := range channels {
		b.WriteString("&channels%5B%5D=")
		b.WriteString(url.QueryEscape(c))
	}
	return b.String()
}

func (r *Realtime) header() http.Header {
	h := r.opts.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if r.opts.Platform != "" {
		h.Set("Origin", "appwrite-"+runtime.GOOS+"://"+r.opts.Platform)
	}
	return h
}

func (r *Realtime) dialLocked(target string, channels []string) {
	id := logging.GenerateCorrelationID()
	ctx, cancel := context.WithCancel(context.Background())
	c := &connection{
		id:     id,
		url:    target,
		log:    r.log.With().Str("conn_id", id).Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	r.current = c
	r.state = StateConnecting

	c.log.Debug().Strs("channels", channels).Int("attempt", r.attempts).Msg("Dialing realtime endpoint")

	r.wg.Add(1)
	go r.run(c, r.header())
}

// closeConnLocked marks c as deliberately closed and starts tearing it
// down. The read loop notices and exits without scheduling a reconnect.
func (r *Realtime) closeConnLocked(c *connection) {
	c.closing = true
	c.cancel()
	c.hb.stop()
	if conn := c.conn; conn != nil {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			_ = conn.Close()
		}()
	}
}

func (r *Realtime) stopReconnectLocked() {
	if r.reconnectTimer != nil {
		r.reconnectTimer.Stop()
		r.reconnectTimer = nil
	}
}

func (r *Realtime) stopTimersLocked() {
	if r.connectTimer != nil {
		r.connectTimer.Stop()
		r.connectTimer = nil
	}
	r.stopReconnectLocked()
}

// run owns one connection from dial to close.
func (r *Realtime) run(c *connection, header http.Header) {
	defer r.wg.Done()

	conn, err := r.transport.Dial(c.ctx, c.url, header)
	metrics.RecordDial(err)
	if err != nil {
		r.mu.Lock()
		r.handleCloseLocked(c, err)
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	if c.closing {
		r.handleCloseLocked(c, nil)
		r.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	if r.current == c {
		r.state = StateOpen
		r.attempts = 0
		r.fatal = nil
		metrics.SetConnected(true)
	}
	c.hb = startHeartbeat(r.interval, func() error { return r.ping(c) })
	r.mu.Unlock()

	c.log.Info().Msg("Realtime socket opened")

	var readErr error
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		r.route(c, data)
	}

	c.hb.stop()
	_ = conn.Close()
	c.hb.wait()

	r.mu.Lock()
	r.handleCloseLocked(c, readErr)
	r.mu.Unlock()
}

func (r *Realtime) ping(c *connection) error {
	err := c.conn.WriteMessage(pingFrame)
	metrics.RecordHeartbeat(err)
	if err != nil {
		c.log.Debug().Err(err).Msg("Realtime heartbeat failed")
	}
	return err
}

// handleCloseLocked decides what follows the end of c: nothing for a
// superseded or deliberate close, a terminal error for a policy violation,
// otherwise a reconnect after Backoff(attempts).
func (r *Realtime) handleCloseLocked(c *connection, err error) {
	c.hb.stop()
	c.cancel()

	if r.current != c {
		return
	}
	r.current = nil
	r.state = StateClosed
	metrics.SetConnected(false)

	if c.closing || r.closed {
		c.log.Debug().Msg("Realtime socket closed")
		return
	}

	if pv := c.policyViolation(); pv != nil {
		r.fatal = pv
		metrics.RecordFatalClosure()
		c.log.Error().Int("code", pv.Code).Str("reason", pv.Message).Msg("Realtime connection rejected, not reconnecting")
		if onErr := r.opts.OnError; onErr != nil {
			r.schedule(func() { onErr(pv) })
		}
		return
	}

	if r.registry.len() == 0 {
		return
	}

	delay := r.backoff(r.attempts)
	r.attempts++
	metrics.RecordReconnectScheduled(delay)

	evt := c.log.Warn()
	if err != nil && isNormalClose(err) {
		evt = c.log.Info()
	}
	evt.Err(err).Dur("delay", delay).Int("attempt", r.attempts).Msg("Realtime socket closed, reconnecting")

	r.reconnectTimer = time.AfterFunc(delay, r.reconnectNow)
}
