// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates the root command for the drover CLI. Plugin
// commands are attached separately once the registry is loaded.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drover",
		Short: "drover - a dynamic plugin host",
		Long: `Drover loads plugins from shared libraries, aggregates the
commands they declare, and routes invocations to their owners through
a typed event sequence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addGlobalFlags(cmd.PersistentFlags())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

// addGlobalFlags declares the flags shared by every subcommand.
func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file path (default: XDG_CONFIG_HOME/drover/drover.yaml)")
	flags.String("plugins-dir", "", "plugin library directory (default: XDG_DATA_HOME/drover/plugins)")
	flags.String("log-format", "", "log format (text or json)")
}
