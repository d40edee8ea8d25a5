// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"bytes"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Frame types exchanged with the realtime server.
const (
	frameConnected      = "connected"
	frameEvent          = "event"
	frameError          = "error"
	framePong           = "pong"
	framePing           = "ping"
	frameAuthentication = "authentication"
)

// envelope is the outer shape of every frame in both directions.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is a change notification delivered to subscribers.
type Event struct {
	// Events lists the event names, e.g. "databases.*.collections.*.documents.*.create".
	Events []string `json:"events"`
	// Channels lists the channels the event was published on.
	Channels []string `json:"channels"`
	// Timestamp is when the server emitted the event.
	Timestamp EventTime `json:"timestamp"`
	// Payload is the changed resource, left undecoded.
	Payload json.RawMessage `json:"payload"`
}

// clone returns a copy that shares no memory with e, so one subscriber
// cannot change what another receives.
func (e *Event) clone() Event {
	return Event{
		Events:    slices.Clone(e.Events),
		Channels:  slices.Clone(e.Channels),
		Timestamp: e.Timestamp,
		Payload:   bytes.Clone(e.Payload),
	}
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Payload) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(e.Payload, v)
}

// EventTime accepts either an RFC 3339 string or unix seconds.
// Values it cannot parse become the zero time rather than failing the frame.
type EventTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *EventTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.000", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return nil
	}
	if secs, err := strconv.ParseFloat(string(b), 64); err == nil {
		whole := int64(secs)
		t.Time = time.Unix(whole, int64((secs-float64(whole))*float64(time.Second))).UTC()
	}
	return nil
}

// MarshalJSON renders the time as RFC 3339, or null when unset.
func (t EventTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// errorData is the body of an "error" frame.
type errorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// connectedData is the body of a "connected" frame.
type connectedData struct {
	Channels []string        `json:"channels"`
	User     json.RawMessage `json:"user"`
}

func (d *connectedData) hasUser() bool {
	return len(d.User) > 0 && !bytes.Equal(bytes.TrimSpace(d.User), []byte("null"))
}

type authenticationData struct {
	Session string `json:"session"`
}

var pingFrame = mustMarshal(envelope{Type: framePing})

func authenticationFrame(session string) ([]byte, error) {
	data, err := json.Marshal(authenticationData{Session: session})
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: frameAuthentication, Data: data})
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
