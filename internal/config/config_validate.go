// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package config

import (
	"fmt"
	"strings"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateAppwrite(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateNATS()
}

// validateAppwrite checks the endpoint shape beyond what struct tags cover.
func (c *Config) validateAppwrite() error {
	if err := validateHTTPURL(c.Appwrite.Endpoint, "APPWRITE_ENDPOINT"); err != nil {
		return err
	}
	if c.Appwrite.EndpointRealtime != "" {
		if err := validateWSURL(c.Appwrite.EndpointRealtime, "APPWRITE_ENDPOINT_REALTIME"); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates the metrics endpoint settings (only if enabled)
func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		if c.Server.Relay {
			return fmt.Errorf("RELAY_ENABLED requires METRICS_ENABLED=true")
		}
		return nil
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("METRICS_ADDR is required when METRICS_ENABLED=true")
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT_REQUESTS is set")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	prefix := c.NATS.SubjectPrefix
	if prefix == "" {
		return fmt.Errorf("NATS_SUBJECT_PREFIX is required when NATS_ENABLED=true")
	}
	if strings.ContainsAny(prefix, " \t*>") || strings.HasPrefix(prefix, ".") || strings.HasSuffix(prefix, ".") {
		return fmt.Errorf("NATS_SUBJECT_PREFIX %q is not a valid subject prefix", prefix)
	}

	if c.NATS.BreakerFailures == 0 {
		return fmt.Errorf("NATS_BREAKER_FAILURES must be at least 1")
	}
	return nil
}
