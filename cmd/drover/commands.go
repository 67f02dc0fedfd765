// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/droverhq/drover/internal/plugin"
	sdk "github.com/droverhq/drover/pkg/plugin"
)

// attachPluginCommands turns every registered command schema into a
// cobra subcommand routed through the router. Commands owned by
// disabled plugins are attached too; invoking one reports the disabled
// owner instead of an unknown command.
func attachPluginCommands(root *cobra.Command, registry *plugin.Registry, router *plugin.Router) {
	schemas := registry.CommandSchemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		root.AddCommand(buildCommand(schemas[name], router))
	}
}

// buildCommand maps one command schema onto a cobra command. Named
// arguments become typed flags, positional arguments become cobra
// positionals in declaration order. Required named arguments are
// enforced by cobra before the router ever sees the invocation.
// Schema validation guarantees required positionals precede optional
// ones, so index-based mapping and RangeArgs line up.
func buildCommand(schema sdk.Command, router *plugin.Router) *cobra.Command {
	var positionals []sdk.Arg

	cmd := &cobra.Command{
		Use:          usageLine(schema),
		Short:        schema.Description,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := plugin.Invocation{
				Command: schema.Name,
				Args:    make(map[string]string),
				Raw:     args,
			}
			for _, arg := range schema.Args {
				if arg.Kind == sdk.KindPositional {
					continue
				}
				if f := cmd.Flags().Lookup(arg.Name); f != nil && f.Changed {
					inv.Args[arg.Name] = f.Value.String()
				}
			}
			for i, arg := range positionals {
				if i < len(args) {
					inv.Args[arg.Name] = args[i]
				}
			}
			return router.Execute(cmd.Context(), inv)
		},
	}

	requiredPositionals := 0
	for _, arg := range schema.Args {
		switch arg.Kind {
		case sdk.KindPositional:
			positionals = append(positionals, arg)
			if arg.Required {
				requiredPositionals++
			}
			continue
		case sdk.KindInteger:
			cmd.Flags().Int(arg.Name, 0, arg.Description)
		case sdk.KindFloat:
			cmd.Flags().Float64(arg.Name, 0, arg.Description)
		case sdk.KindBoolean:
			cmd.Flags().Bool(arg.Name, false, arg.Description)
		default:
			cmd.Flags().String(arg.Name, "", arg.Description)
		}
		if arg.Required {
			_ = cmd.MarkFlagRequired(arg.Name)
		}
	}
	cmd.Args = cobra.RangeArgs(requiredPositionals, len(positionals))

	return cmd
}

// usageLine renders the Use string with the command's positionals.
func usageLine(schema sdk.Command) string {
	use := schema.Name
	for _, arg := range schema.Args {
		if arg.Kind != sdk.KindPositional {
			continue
		}
		if arg.Required {
			use += " <" + arg.Name + ">"
		} else {
			use += " [" + arg.Name + "]"
		}
	}
	return use
}
