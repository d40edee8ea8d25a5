// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import "time"

// Backoff returns the reconnect delay after the given number of consecutive
// failed attempts. The tiers are fixed and carry no jitter:
//
//	attempts < 5    1s
//	attempts < 15   5s
//	attempts < 100  10s
//	otherwise       60s
func Backoff(attempts int) time.Duration {
	switch {
	case attempts < 5:
		return time.Second
	case attempts < 15:
		return 5 * time.Second
	case attempts < 100:
		return 10 * time.Second
	default:
		return 60 * time.Second
	}
}
