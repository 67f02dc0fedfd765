// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

// State tracks a plugin through its lifetime.
type State string

// Plugin lifecycle states. Terminal states are StateUnloaded and
// StateFailed.
const (
	// StateDiscovered means the library file was found but not opened.
	StateDiscovered State = "discovered"
	// StateLoaded means the library opened and the instance was
	// constructed, but OnLoad has not run.
	StateLoaded State = "loaded"
	// StateActive means OnLoad succeeded; the plugin receives events.
	StateActive State = "active"
	// StateDisabled means the plugin is loaded but excluded from
	// dispatch by configuration. The instance is retained so enabling
	// it again does not require re-discovery.
	StateDisabled State = "disabled"
	// StateFailed means loading or OnLoad failed; the plugin never
	// receives events.
	StateFailed State = "failed"
	// StateUnloaded means the plugin was torn down.
	StateUnloaded State = "unloaded"
)
