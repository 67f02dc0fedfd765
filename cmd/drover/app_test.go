// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/droverhq/drover/internal/plugin"
)

// isolateXDG points every XDG directory at fresh temp dirs so runs
// never touch the developer's real configuration or plugins.
func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func TestRun_NoArgsShowsHelp(t *testing.T) {
	isolateXDG(t)
	assert.Equal(t, plugin.ExitOK, run(nil))
}

func TestRun_UnknownCommand(t *testing.T) {
	isolateXDG(t)
	assert.Equal(t, plugin.ExitUnknownCommand, run([]string{"frobnicate"}))
}

func TestRun_SchemaCommand(t *testing.T) {
	isolateXDG(t)
	assert.Equal(t, plugin.ExitOK, run([]string{"schema"}))
}

func TestRun_PluginsCommand(t *testing.T) {
	isolateXDG(t)
	assert.Equal(t, plugin.ExitOK, run([]string{"plugins"}))
}

func TestRun_HelpCommand(t *testing.T) {
	isolateXDG(t)
	assert.Equal(t, plugin.ExitOK, run([]string{"help"}))
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"empty", nil, ""},
		{"plain", []string{"greet"}, "greet"},
		{"flags skipped", []string{"--log-format", "greet"}, "greet"},
		{"only flags", []string{"--log-format"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commandName(tt.args))
		})
	}
}
