// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL validates an http(s) API endpoint.
// Paths are allowed (Appwrite endpoints end in /v1); query strings are not.
func validateHTTPURL(rawURL, fieldName string) error {
	return validateURL(rawURL, fieldName, "http", "https")
}

// validateWSURL validates a ws(s) realtime endpoint.
func validateWSURL(rawURL, fieldName string) error {
	return validateURL(rawURL, fieldName, "ws", "wss")
}

func validateURL(rawURL, fieldName string, schemes ...string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	ok := false
	for _, s := range schemes {
		if parsedURL.Scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s scheme must be one of %v, got: %s", fieldName, schemes, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}

	return nil
}
