// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package plugin defines the contract between the drover host and its
// dynamically loaded plugins. Everything in this package crosses the
// library boundary; it must stay small, stable, and free of host
// internals.
package plugin

const (
	// SymbolName is the exported constructor symbol every plugin
	// library must provide. Its value must have type Constructor.
	SymbolName = "NewPlugin"

	// VersionSymbolName is an optional exported string variable naming
	// the contract version the plugin was built against. When present,
	// the host checks it before constructing the plugin.
	VersionSymbolName = "PluginAPIVersion"

	// APIVersion is the contract version described by this package.
	APIVersion = "1.0.0"
)

// Constructor is the signature of the NewPlugin symbol.
type Constructor func() Plugin

// Metadata describes a plugin. Name is the identity key and must be
// unique across all loaded plugins.
type Metadata struct {
	Name        string
	Version     string
	Author      string
	Description string

	// Essential plugins cannot be disabled by configuration.
	Essential bool
}

// Plugin is the capability set every plugin implements. Embed Base to
// pick up defaults for the optional methods.
type Plugin interface {
	// Metadata returns a stable description of the plugin. It may be
	// called any number of times and must return the same value for
	// the instance's lifetime.
	Metadata() Metadata

	// OnLoad is called exactly once, after construction and before any
	// event delivery. Returning an error excludes this plugin from the
	// active set without affecting other plugins.
	OnLoad() error

	// OnUnload is called during teardown, strictly before the plugin's
	// library is released. Errors are logged by the host, never
	// propagated.
	OnUnload() error

	// Commands returns the operations this plugin contributes, in
	// declaration order. The host may query it any time after
	// construction, including before OnLoad; the result is treated as
	// immutable for the instance's lifetime.
	Commands() []Command

	// HandleEvent is called once per dispatched event. A failure is
	// collected by the host and does not stop delivery of the same
	// event to other plugins.
	HandleEvent(ev Event, hctx *Context) error
}

// Base provides no-op implementations of the optional Plugin methods.
// Plugins that only observe events embed it and implement Metadata and
// HandleEvent.
type Base struct{}

// OnLoad is a no-op.
func (Base) OnLoad() error { return nil }

// OnUnload is a no-op.
func (Base) OnUnload() error { return nil }

// Commands declares no commands.
func (Base) Commands() []Command { return nil }
