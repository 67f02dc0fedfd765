// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

// Event is the closed set of notifications exchanged between the host
// and plugins. The union is sealed: only types in this package
// implement it. Events are immutable once constructed; recipients must
// not retain them beyond the HandleEvent call that delivered them.
type Event interface {
	// Kind returns a stable name for the event variant, used in logs
	// and metrics labels.
	Kind() string

	sealed()
}

// Startup is fired once, after all plugins have loaded and before any
// invocation is routed.
type Startup struct{}

// PreCommand is broadcast to all active plugins before a command runs.
type PreCommand struct {
	Name    string
	RawArgs []string
}

// ExecuteCommand asks the owning plugin to run a command. It is
// broadcast to all active plugins; recipients must filter on
// PluginName and ignore commands they do not own.
type ExecuteCommand struct {
	PluginName string
	Matches    Matches
}

// PostCommand is broadcast to all active plugins after a command ran.
// Success reflects whether the owning plugin handled ExecuteCommand
// without error.
type PostCommand struct {
	Name    string
	Success bool
}

// Custom is a plugin-defined notification. Payload is opaque to the
// host; emitting plugins should document what they attach.
type Custom struct {
	Source  string
	Name    string
	Payload any
}

// Kind implements Event.
func (Startup) Kind() string { return "startup" }

// Kind implements Event.
func (PreCommand) Kind() string { return "pre-command" }

// Kind implements Event.
func (ExecuteCommand) Kind() string { return "execute-command" }

// Kind implements Event.
func (PostCommand) Kind() string { return "post-command" }

// Kind implements Event.
func (Custom) Kind() string { return "custom" }

func (Startup) sealed()        {}
func (PreCommand) sealed()     {}
func (ExecuteCommand) sealed() {}
func (PostCommand) sealed()    {}
func (Custom) sealed()         {}
