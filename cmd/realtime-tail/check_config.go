// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/appwrite/sdk-for-react-native-sub000/internal/config"
)

const redacted = "[REDACTED]"

func buildCheckConfigCmd(opts *tailOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config [channels...]",
		Short: "Validate configuration and print the effective values",
		Long: `Load configuration from defaults, file, environment and flags, validate it,
and print the result as JSON. Session and JWT values are redacted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(redactConfig(*cfg))
		},
	}
}

// redactConfig blanks secrets before printing.
func redactConfig(cfg config.Config) config.Config {
	if cfg.Appwrite.Session != "" {
		cfg.Appwrite.Session = redacted
	}
	if cfg.Appwrite.JWT != "" {
		cfg.Appwrite.JWT = redacted
	}
	cfg.Realtime.Channels = append([]string(nil), cfg.Realtime.Channels...)
	return cfg
}
