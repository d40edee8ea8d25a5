// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package websocket relays realtime events to local WebSocket clients.

realtime-tail holds one upstream socket to Appwrite. The relay lets any
number of local consumers (dashboards, scripts, websocat) share it over
GET /ws on the metrics server, without each opening its own upstream
connection.

Key Components:

  - Hub: fan-out point; a suture.Service that owns delivery order
  - Client: one relay socket with read and write goroutines
  - Handler: the HTTP upgrade endpoint with origin checks and channel filters

Architecture:

	Appwrite ──► realtime.Realtime ──► Hub.BroadcastEvent
	                                      │
	                   ┌──────────────────┼──────────────────┐
	                   ▼                  ▼                  ▼
	               Client 1           Client 2           Client 3
	             (all events)      (?channels=files)   (?channels=account)

Each client has two goroutines:
  - readPump: reads frames and answers {"type":"ping"} with {"type":"pong"}
  - writePump: writes queued messages and protocol pings

Messages:

	{"type":"event","data":{"events":[...],"channels":[...],"timestamp":"...","payload":{...}}}
	{"type":"pong"}

Backpressure:

BroadcastEvent never blocks. When the hub queue is full the event is
dropped; when one client's queue is full that client is disconnected.
Both are counted in relay_messages_dropped_total.
*/
package websocket
