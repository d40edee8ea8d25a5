// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package realtime is a client for Appwrite's realtime endpoint.

Any number of call sites subscribe to overlapping sets of channels; the
client keeps exactly one socket open whose channel set is the union of all
live subscriptions, and routes each inbound event to the subscriptions that
listed one of its channels.

# Usage

	rt, err := realtime.New(realtime.Options{
	    Endpoint: "wss://cloud.appwrite.io/v1",
	    Project:  "6523f8a1",
	})
	if err != nil {
	    return err
	}
	defer rt.Close()

	unsubscribe, err := rt.Subscribe([]string{"files"}, func(e realtime.Event) {
	    fmt.Println(e.Events, string(e.Payload))
	})
	if err != nil {
	    return err
	}
	defer unsubscribe()

# Connection Lifecycle

Subscribe and Unsubscribe change the channel registry synchronously, then
arm a short debounce timer (50ms by default). When it fires the socket is
made to match the registry:

  - registry empty: the socket is closed and no reconnect follows
  - URL unchanged and socket healthy: nothing happens
  - otherwise: the old socket is closed and a new one is dialed

While a socket is open a {"type":"ping"} frame is written every 20 seconds.
An unexpected close schedules a reconnect after Backoff(attempts); attempts
resets when a socket opens. If the last frame before a close was an error
with code 1008 the close is terminal: Options.OnError is called, Err returns
a *PolicyViolationError and nothing reconnects until the registry changes.

# Delivery

Callbacks run on the Scheduler, never on the socket read loop. The default
starts one goroutine per callback, so callbacks for the same subscription may
run concurrently and in any order. A panicking callback is recovered and
does not affect other subscribers or the connection. Delivery is at most
once; events missed while disconnected are not replayed.
*/
package realtime
