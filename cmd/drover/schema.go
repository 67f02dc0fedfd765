// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/internal/config"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration file JSON Schema",
		Long: `Print the JSON Schema for drover.yaml configuration files.
Editors can use it for validation and completion.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			cmd.Println(string(data))
			return nil
		},
	}
}
