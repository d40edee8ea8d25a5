// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"github.com/goccy/go-json"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/metrics"
)

// route classifies one inbound frame. It runs on the connection's read
// loop and never blocks on subscriber code.
func (r *Realtime) route(c *connection, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		r.malformed(c, err, data)
		return
	}
	metrics.RecordFrame(env.Type)

	switch env.Type {
	case frameConnected:
		r.recordLast(c, env.Type, nil)
		var d connectedData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &d); err != nil {
				r.malformed(c, err, data)
				return
			}
		}
		r.authenticate(c, &d)

	case frameEvent:
		r.recordLast(c, env.Type, nil)
		var ev Event
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			r.malformed(c, err, data)
			return
		}
		r.dispatch(&ev)

	case frameError:
		var d errorData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			r.recordLast(c, env.Type, nil)
			r.malformed(c, err, data)
			return
		}
		r.recordLast(c, env.Type, &d)
		c.log.Warn().Int("code", d.Code).Str("reason", d.Message).Msg("Realtime server reported an error")

	case framePong:
		r.recordLast(c, env.Type, nil)

	default:
		r.recordLast(c, env.Type, nil)
		c.log.Debug().Str("type", env.Type).Msg("Ignoring unknown realtime frame")
	}
}

func (r *Realtime) recordLast(c *connection, frameType string, errData *errorData) {
	r.mu.Lock()
	c.lastType = frameType
	c.lastError = errData
	r.mu.Unlock()
}

// dispatch schedules every matching callback. Events for channels no longer
// registered are stale and dropped.
func (r *Realtime) dispatch(ev *Event) {
	r.mu.Lock()
	if !r.registry.containsAny(ev.Channels) {
		r.mu.Unlock()
		metrics.RecordEventDropped()
		return
	}
	subs := r.table.matching(ev.Channels)
	r.mu.Unlock()

	for _, sub := range subs {
		cb := sub.callback
		delivered := ev.clone()
		r.schedule(func() { cb(delivered) })
	}
	metrics.RecordEventDelivered(len(subs))
}

// authenticate sends the session on connect when the server does not
// already know the user.
func (r *Realtime) authenticate(c *connection, d *connectedData) {
	if d.hasUser() || r.opts.Session == nil {
		return
	}
	session := r.opts.Session()
	if session == "" {
		return
	}

	frame, err := authenticationFrame(session)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to encode realtime authentication")
		return
	}
	if err := c.conn.WriteMessage(frame); err != nil {
		c.log.Warn().Err(err).Msg("Failed to send realtime authentication")
		return
	}
	c.log.Debug().Msg("Realtime authentication sent")
}

func (r *Realtime) malformed(c *connection, err error, data []byte) {
	metrics.RecordMalformedFrame()
	r.malformedLog.Do(func() {
		const maxSample = 256
		sample := data
		if len(sample) > maxSample {
			sample = sample[:maxSample]
		}
		c.log.Warn().Err(err).Bytes("frame", sample).Msg("Dropping malformed realtime frame")
	})
}
