// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package main builds the logger example plugin, a command-less
// observer that logs every event the host dispatches. Build it with:
//
//	go build -buildmode=plugin -o logger.so ./plugins/logger
package main

import (
	"log/slog"

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// PluginAPIVersion declares the contract version this plugin targets.
var PluginAPIVersion = sdk.APIVersion

// NewPlugin constructs the plugin instance.
func NewPlugin() sdk.Plugin {
	return &loggerPlugin{}
}

type loggerPlugin struct {
	sdk.Base
}

func (p *loggerPlugin) Metadata() sdk.Metadata {
	return sdk.Metadata{
		Name:        "logger",
		Version:     "0.1.0",
		Author:      "Drover Contributors",
		Description: "Logs every dispatched event",
	}
}

func (p *loggerPlugin) HandleEvent(ev sdk.Event, _ *sdk.Context) error {
	switch e := ev.(type) {
	case sdk.PreCommand:
		slog.Info("command starting", "plugin", "logger", "command", e.Name, "args", e.RawArgs)
	case sdk.PostCommand:
		slog.Info("command finished", "plugin", "logger", "command", e.Name, "success", e.Success)
	case sdk.Custom:
		slog.Info("custom event", "plugin", "logger", "source", e.Source, "event", e.Name)
	default:
		slog.Info("event", "plugin", "logger", "kind", ev.Kind())
	}
	return nil
}

func main() {}
