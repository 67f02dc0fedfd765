// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// Policy decides whether a discovered plugin starts enabled. Essential
// plugins are forced on before the policy is consulted.
type Policy interface {
	Enabled(meta sdk.Metadata) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(meta sdk.Metadata) bool

// Enabled implements Policy.
func (f PolicyFunc) Enabled(meta sdk.Metadata) bool { return f(meta) }

// Registry owns the loaded plugin set, aggregates command schemas, and
// routes events. Dispatch is single-threaded: one event at a time,
// delivered in load order, and events a plugin emits during handling
// are queued and dispatched only after the current event has been
// delivered everywhere.
type Registry struct {
	opener   Opener
	policy   Policy
	handles  []*Handle // load order, significant for shutdown
	byName   map[string]*Handle
	commands map[string]sdk.Command
	owners   map[string]string // command name -> owning plugin name
	settings map[string]map[string]any
	queue    []sdk.Custom
}

// Option configures the Registry.
type Option func(*Registry)

// WithOpener sets the library opener. Tests use this to substitute
// fake libraries.
func WithOpener(opener Opener) Option {
	return func(r *Registry) {
		r.opener = opener
	}
}

// WithPolicy sets the enabled policy applied to non-essential plugins.
// Without a policy every discovered plugin is enabled.
func WithPolicy(policy Policy) Option {
	return func(r *Registry) {
		r.policy = policy
	}
}

// WithSettings provides each plugin's configuration section, keyed by
// plugin name.
func WithSettings(settings map[string]map[string]any) Option {
	return func(r *Registry) {
		r.settings = settings
	}
}

// NewRegistry creates a plugin registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		opener:   DefaultOpener,
		byName:   make(map[string]*Handle),
		commands: make(map[string]sdk.Command),
		owners:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LibraryExt returns the shared-library filename suffix for the
// current platform.
func LibraryExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// LoadDir scans dir (non-recursive) for shared libraries and loads
// each candidate independently. One candidate's failure never prevents
// others from loading; per-candidate outcomes accumulate in the
// report. An unreadable directory is the only fatal error.
func (r *Registry) LoadDir(ctx context.Context, dir string) (*LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrDiscoveryFailed(dir, err)
	}

	report := &LoadReport{}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), LibraryExt()) {
			continue
		}
		r.loadOne(filepath.Join(dir, entry.Name()), report)
	}
	return report, nil
}

// loadOne loads a single candidate library and records its outcome.
func (r *Registry) loadOne(path string, report *LoadReport) {
	h, err := Open(path, r.opener)
	if err != nil {
		slog.Warn("failed to load plugin library", "path", path, "error", err)
		RecordPluginLoad(OutcomeFailed)
		report.add(Candidate{Path: path, Outcome: OutcomeFailed, Err: err})
		return
	}

	name := h.meta.Name
	if _, exists := r.byName[name]; exists {
		err := ErrDuplicatePlugin(name, path)
		slog.Warn("rejecting plugin with duplicate name",
			"plugin", name,
			"path", path,
			"kept", r.byName[name].path)
		if closeErr := h.Close(); closeErr != nil {
			slog.Warn("failed to unload rejected plugin", "plugin", name, "error", closeErr)
		}
		RecordPluginLoad(OutcomeFailed)
		report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeFailed, Err: err})
		return
	}

	if !h.meta.Essential && r.policy != nil && !r.policy.Enabled(h.meta) {
		// Commands stay registered so invocations can name the disabled
		// owner instead of failing as unknown.
		if err := r.registerCommands(h); err != nil {
			slog.Warn("rejecting plugin with conflicting commands", "plugin", name, "error", err)
			if closeErr := h.Close(); closeErr != nil {
				slog.Warn("failed to unload rejected plugin", "plugin", name, "error", closeErr)
			}
			RecordPluginLoad(OutcomeFailed)
			report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeFailed, Err: err})
			return
		}
		h.state = StateDisabled
		r.handles = append(r.handles, h)
		r.byName[name] = h
		slog.Info("plugin disabled by configuration", "plugin", name, "version", h.meta.Version)
		RecordPluginLoad(OutcomeDisabled)
		report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeDisabled})
		return
	}

	if err := h.init(); err != nil {
		slog.Warn("plugin failed to initialize", "plugin", name, "error", err)
		RecordPluginLoad(OutcomeFailed)
		report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeFailed, Err: err})
		return
	}

	if err := r.registerCommands(h); err != nil {
		slog.Warn("rejecting plugin with conflicting commands", "plugin", name, "error", err)
		if closeErr := h.Close(); closeErr != nil {
			slog.Warn("failed to unload rejected plugin", "plugin", name, "error", closeErr)
		}
		RecordPluginLoad(OutcomeFailed)
		report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeFailed, Err: err})
		return
	}

	r.handles = append(r.handles, h)
	r.byName[name] = h
	slog.Info("loaded plugin",
		"plugin", name,
		"version", h.meta.Version,
		"essential", h.meta.Essential,
		"commands", len(h.instance.Commands()))
	RecordPluginLoad(OutcomeLoaded)
	report.add(Candidate{Path: path, Plugin: name, Outcome: OutcomeLoaded})
}

// registerCommands validates and claims the plugin's command schemas.
// Command names are globally unique: a conflict rejects the whole
// plugin and preserves the original owner.
func (r *Registry) registerCommands(h *Handle) error {
	cmds := h.instance.Commands()
	claimed := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			r.unclaim(claimed)
			return ErrInvalidPlugin(h.path, sdk.SymbolName, err)
		}
		if owner, exists := r.owners[cmd.Name]; exists {
			r.unclaim(claimed)
			return ErrDuplicateCommand(cmd.Name, owner, h.meta.Name)
		}
		r.commands[cmd.Name] = cmd
		r.owners[cmd.Name] = h.meta.Name
		claimed = append(claimed, cmd.Name)
	}
	return nil
}

func (r *Registry) unclaim(names []string) {
	for _, name := range names {
		delete(r.commands, name)
		delete(r.owners, name)
	}
}

// Commands returns each active plugin's contributed command schemas,
// keyed by plugin name. Disabled and failed plugins contribute
// nothing. The result is built from state fixed at load time.
func (r *Registry) Commands() map[string][]sdk.Command {
	out := make(map[string][]sdk.Command)
	for _, h := range r.handles {
		if h.state != StateActive {
			continue
		}
		cmds := h.instance.Commands()
		if len(cmds) > 0 {
			out[h.meta.Name] = cmds
		}
	}
	return out
}

// Owner returns the name of the plugin owning the command.
func (r *Registry) Owner(command string) (string, bool) {
	owner, ok := r.owners[command]
	return owner, ok
}

// Command returns the schema registered under the command name.
func (r *Registry) Command(name string) (sdk.Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// CommandSchemas returns every registered command schema keyed by
// command name, including commands owned by disabled plugins.
func (r *Registry) CommandSchemas() map[string]sdk.Command {
	out := make(map[string]sdk.Command, len(r.commands))
	for name, cmd := range r.commands {
		out[name] = cmd
	}
	return out
}

// Handle returns the handle registered under the plugin name.
func (r *Registry) Handle(name string) (*Handle, bool) {
	h, ok := r.byName[name]
	return h, ok
}

// Plugins returns plugin names in load order.
func (r *Registry) Plugins() []string {
	names := make([]string, 0, len(r.handles))
	for _, h := range r.handles {
		names = append(names, h.meta.Name)
	}
	return names
}

// Active reports whether the named plugin is loaded and event-eligible.
func (r *Registry) Active(name string) bool {
	h, ok := r.byName[name]
	return ok && h.state == StateActive
}

// Delivery records one plugin's handling result for a broadcast event.
type Delivery struct {
	Plugin string
	Err    error
}

// Broadcast delivers ev to every active plugin in load order. Handler
// failures are collected, never propagated, so one plugin cannot block
// delivery to the rest. Events emitted during handling are dispatched
// after ev has been delivered everywhere.
func (r *Registry) Broadcast(ev sdk.Event) []Delivery {
	results := r.deliver(ev)
	r.drainQueue()
	return results
}

// deliver hands ev to each active plugin synchronously, in load order.
func (r *Registry) deliver(ev sdk.Event) []Delivery {
	results := make([]Delivery, 0, len(r.handles))
	for _, h := range r.handles {
		if h.state != StateActive {
			continue
		}
		name := h.meta.Name
		hctx := sdk.NewContext(r.settingsFor(name), r.enqueue)
		if err := h.instance.HandleEvent(ev, hctx); err != nil {
			wrapped := ErrHandlerFailed(name, ev.Kind(), err)
			slog.Warn("plugin event handler failed",
				"plugin", name,
				"event", ev.Kind(),
				"error", err)
			RecordEventDelivery(ev.Kind(), StatusError)
			results = append(results, Delivery{Plugin: name, Err: wrapped})
			continue
		}
		RecordEventDelivery(ev.Kind(), StatusSuccess)
		results = append(results, Delivery{Plugin: name})
	}
	return results
}

// enqueue buffers a plugin-emitted event for deferred dispatch.
func (r *Registry) enqueue(ev sdk.Custom) {
	r.queue = append(r.queue, ev)
}

// drainQueue dispatches queued Custom events in emission order. Events
// emitted while draining extend the queue and are handled in the same
// pass, so delivery is never nested.
func (r *Registry) drainQueue() {
	for len(r.queue) > 0 {
		ev := r.queue[0]
		r.queue = r.queue[1:]
		r.deliver(ev)
	}
}

// settingsFor returns the plugin's configuration section, creating an
// empty one on first access so writes persist across dispatches.
func (r *Registry) settingsFor(name string) map[string]any {
	if r.settings == nil {
		r.settings = make(map[string]map[string]any)
	}
	section, ok := r.settings[name]
	if !ok {
		section = make(map[string]any)
		r.settings[name] = section
	}
	return section
}

// Close unloads every plugin in reverse load order. Each handle drops
// its instance before releasing its library. Unload failures are
// logged and swallowed; shutdown always completes.
func (r *Registry) Close() {
	for i := len(r.handles) - 1; i >= 0; i-- {
		h := r.handles[i]
		if err := h.Close(); err != nil {
			slog.Warn("plugin unload failed", "plugin", h.meta.Name, "error", err)
		}
	}
	r.handles = nil
	clear(r.byName)
	clear(r.commands)
	clear(r.owners)
	r.queue = nil
}
