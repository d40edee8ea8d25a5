// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

// Package forwarder republishes Appwrite realtime events onto NATS.
//
// Each event is JSON-encoded and published through a Watermill NATS
// publisher on the subject <prefix>.<first channel>, for example
//
//	appwrite.realtime.databases.main.collections.posts.documents
//
// Channel names are sanitized so wildcards never reach a publish subject.
// Events and channels are copied into message metadata, which the NATS
// marshaler sends as headers.
//
// Publishes run through a gobreaker circuit breaker. After BreakerFailures
// consecutive errors the breaker opens and Forward fails fast with
// gobreaker.ErrOpenState until BreakerTimeout elapses.
//
// Usage:
//
//	fwd, err := forwarder.New(forwarder.DefaultConfig("nats://127.0.0.1:4222"))
//	if err != nil {
//	    return err
//	}
//	defer fwd.Close()
//	unsubscribe, err := client.Subscribe(channels, fwd.Handle)
package forwarder
