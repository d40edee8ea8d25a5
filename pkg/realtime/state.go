// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

// State is the lifecycle state of the shared socket.
type State int

const (
	// StateClosed means no socket exists. A reconnect may be pending.
	StateClosed State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateOpen means the socket is up and heartbeating.
	StateOpen
	// StateClosing means the socket was closed on purpose and has not finished.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}
