// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/droverhq/drover/internal/config"
	"github.com/droverhq/drover/internal/logging"
	"github.com/droverhq/drover/internal/plugin"
	"github.com/droverhq/drover/internal/xdg"
	"github.com/droverhq/drover/pkg/errutil"
	sdk "github.com/droverhq/drover/pkg/plugin"
)

// registerMetricsOnce guards the process-global metrics registration.
var registerMetricsOnce sync.Once

// run wires the host and executes one invocation. The returned value
// is the process exit code.
func run(args []string) int {
	// Global flags are parsed ahead of cobra because configuration and
	// logging must be up before plugin commands can even be built.
	// Plugin command flags are unknown here and pass through.
	flags := pflag.NewFlagSet("drover", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	addGlobalFlags(flags)
	_ = flags.Parse(args)

	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = filepath.Join(xdg.ConfigDir(), "drover.yaml")
	}

	cfg, err := config.Load(configPath, flags)
	if err != nil {
		errutil.LogError(slog.Default(), "invalid configuration", err)
		return plugin.ExitLoadError
	}

	logging.SetDefault("drover", version, cfg.LogFormat)

	registerMetricsOnce.Do(func() {
		plugin.RegisterMetrics(prometheus.DefaultRegisterer)
	})

	registry := plugin.NewRegistry(
		plugin.WithPolicy(plugin.PolicyFunc(cfg.PluginEnabled)),
		plugin.WithSettings(cfg.SettingsByPlugin()),
	)
	defer registry.Close()

	ctx := context.Background()

	if err := xdg.EnsureDir(cfg.PluginsDir); err != nil {
		errutil.LogError(slog.Default(), "could not prepare plugin directory", err)
		return plugin.ExitLoadError
	}

	report, err := registry.LoadDir(ctx, cfg.PluginsDir)
	if err != nil {
		errutil.LogError(slog.Default(), "plugin discovery failed", err)
		return plugin.ExitLoadError
	}
	slog.Debug("plugin scan complete",
		"dir", cfg.PluginsDir,
		"loaded", len(report.Loaded()),
		"disabled", len(report.Disabled()),
		"failed", len(report.Failed()))

	router, err := plugin.NewRouter(registry)
	if err != nil {
		errutil.LogError(slog.Default(), "could not build router", err)
		return plugin.ExitLoadError
	}

	root := NewRootCmd()
	root.Version = buildVersion()
	root.AddCommand(NewPluginsCmd(registry))
	attachPluginCommands(root, registry, router)

	for _, d := range registry.Broadcast(sdk.Startup{}) {
		if d.Err != nil {
			slog.Warn("startup delivery failed", "plugin", d.Plugin, "error", d.Err)
		}
	}

	// Cobra reports unknown subcommands as plain errors; resolve them
	// here so the exit code distinguishes unknown commands.
	if name := commandName(flags.Args()); name != "" && !hasSubcommand(root, name) {
		err := plugin.ErrUnknownCommand(name)
		errutil.LogError(slog.Default(), "unknown command", err)
		return plugin.ExitCode(err)
	}

	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		errutil.LogError(slog.Default(), "command failed", err)
		return plugin.ExitCode(err)
	}
	return plugin.ExitOK
}

// commandName extracts the invoked subcommand from the remaining
// positional arguments, if any.
func commandName(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return ""
}

// hasSubcommand reports whether the root command has a subcommand with
// the given name or alias. Cobra's builtin help and completion
// commands attach during Execute, so they are checked by name.
func hasSubcommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
