// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"github.com/samber/oops"
)

// Error codes for plugin loading, routing, and dispatch failures.
const (
	CodeOpenFailed       = "OPEN_FAILED"
	CodeInvalidPlugin    = "INVALID_PLUGIN"
	CodeIncompatibleAPI  = "INCOMPATIBLE_API"
	CodeInitFailed       = "INIT_FAILED"
	CodeDuplicatePlugin  = "DUPLICATE_PLUGIN"
	CodeDuplicateCommand = "DUPLICATE_COMMAND"
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodePluginDisabled   = "PLUGIN_DISABLED"
	CodeHandlerFailed    = "HANDLER_FAILED"
	CodeUnloadFailed     = "UNLOAD_FAILED"
	CodeDiscoveryFailed  = "DISCOVERY_FAILED"
)

// ErrOpenFailed creates an error for a library that could not be opened.
func ErrOpenFailed(path string, cause error) error {
	return oops.Code(CodeOpenFailed).
		With("path", path).
		Wrapf(cause, "could not open library at %s", path)
}

// ErrInvalidPlugin creates an error for a library missing the
// constructor symbol or exporting it with the wrong type.
func ErrInvalidPlugin(path, symbol string, cause error) error {
	builder := oops.Code(CodeInvalidPlugin).
		With("path", path).
		With("symbol", symbol)
	if cause != nil {
		return builder.Wrapf(cause, "library at %s is not a drover plugin", path)
	}
	return builder.Errorf("library at %s is not a drover plugin: symbol %s has the wrong type", path, symbol)
}

// ErrIncompatibleAPI creates an error for a plugin built against an
// unsupported contract version.
func ErrIncompatibleAPI(path, declared, constraint string) error {
	return oops.Code(CodeIncompatibleAPI).
		With("path", path).
		With("declared", declared).
		With("constraint", constraint).
		Errorf("plugin at %s declares API version %s, host accepts %s", path, declared, constraint)
}

// ErrInitFailed creates an error for a plugin whose OnLoad failed.
func ErrInitFailed(name string, cause error) error {
	return oops.Code(CodeInitFailed).
		With("plugin", name).
		Wrapf(cause, "plugin %s failed to initialize", name)
}

// ErrDuplicatePlugin creates an error for a second plugin claiming an
// already-registered name. The original registration is preserved.
func ErrDuplicatePlugin(name, path string) error {
	return oops.Code(CodeDuplicatePlugin).
		With("plugin", name).
		With("path", path).
		Errorf("plugin name %q is already registered", name)
}

// ErrDuplicateCommand creates an error for a plugin declaring a command
// name another plugin already owns.
func ErrDuplicateCommand(command, owner, claimant string) error {
	return oops.Code(CodeDuplicateCommand).
		With("command", command).
		With("owner", owner).
		With("claimant", claimant).
		Errorf("command %q is already owned by plugin %s", command, owner)
}

// ErrUnknownCommand creates an error for an invocation naming a command
// no plugin declared.
func ErrUnknownCommand(command string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", command).
		Errorf("unknown command: %s", command)
}

// ErrPluginDisabled creates an error for an invocation whose owning
// plugin is disabled.
func ErrPluginDisabled(command, owner string) error {
	return oops.Code(CodePluginDisabled).
		With("command", command).
		With("plugin", owner).
		Errorf("command %s belongs to disabled plugin %s", command, owner)
}

// ErrHandlerFailed creates an error for a plugin whose HandleEvent
// returned failure.
func ErrHandlerFailed(name, eventKind string, cause error) error {
	return oops.Code(CodeHandlerFailed).
		With("plugin", name).
		With("event", eventKind).
		Wrapf(cause, "plugin %s failed handling %s", name, eventKind)
}

// ErrUnloadFailed creates an error for a failure during plugin teardown.
func ErrUnloadFailed(name string, cause error) error {
	return oops.Code(CodeUnloadFailed).
		With("plugin", name).
		Wrapf(cause, "plugin %s failed to unload", name)
}

// ErrDiscoveryFailed creates an error for an unreadable plugin directory.
func ErrDiscoveryFailed(dir string, cause error) error {
	return oops.Code(CodeDiscoveryFailed).
		With("dir", dir).
		Wrapf(cause, "could not scan plugin directory %s", dir)
}

// Process exit codes. The CLI maps routing and dispatch errors onto
// these so callers can distinguish failure stages.
const (
	ExitOK             = 0
	ExitLoadError      = 1
	ExitUnknownCommand = 2
	ExitPluginDisabled = 3
	ExitHandlerFailed  = 4
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ExitLoadError
	}
	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return ExitUnknownCommand
	case CodePluginDisabled:
		return ExitPluginDisabled
	case CodeHandlerFailed:
		return ExitHandlerFailed
	default:
		return ExitLoadError
	}
}
