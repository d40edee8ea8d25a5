// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import (
	"errors"
	"fmt"
)

// PolicyViolationCode is the error code the server sends before closing a
// socket it will never accept again (bad project, revoked origin, ...).
const PolicyViolationCode = 1008

var (
	// ErrNoChannels is returned by Subscribe when no channel is given.
	ErrNoChannels = errors.New("realtime: at least one channel is required")

	// ErrEmptyChannel is returned by Subscribe when a channel name is blank.
	ErrEmptyChannel = errors.New("realtime: channel name must not be empty")

	// ErrClosed is returned by Subscribe after Close.
	ErrClosed = errors.New("realtime: client closed")
)

// PolicyViolationError is the terminal error reported when the server
// rejected the connection with code 1008. No reconnect follows it.
type PolicyViolationError struct {
	Code    int
	Message string
}

func (e *PolicyViolationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("realtime: connection rejected (code %d)", e.Code)
	}
	return fmt.Sprintf("realtime: connection rejected (code %d): %s", e.Code, e.Message)
}

// IsPolicyViolation reports whether err is, or wraps, a *PolicyViolationError.
func IsPolicyViolation(err error) bool {
	var pv *PolicyViolationError
	return errors.As(err, &pv)
}
