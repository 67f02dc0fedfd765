// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/internal/plugin"
)

// NewPluginsCmd creates the plugins subcommand listing the loaded set.
func NewPluginsCmd(registry *plugin.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins and their states",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "NAME\tVERSION\tSTATE\tCOMMANDS\tPATH")
			for _, name := range registry.Plugins() {
				h, ok := registry.Handle(name)
				if !ok {
					continue
				}
				meta := h.Metadata()
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					meta.Name, meta.Version, h.State(), commandCount(registry, name), h.Path())
			}
			return nil
		},
	}
}

// commandCount counts the commands owned by the named plugin.
func commandCount(registry *plugin.Registry, name string) int {
	n := 0
	for command := range registry.CommandSchemas() {
		if owner, ok := registry.Owner(command); ok && owner == name {
			n++
		}
	}
	return n
}
