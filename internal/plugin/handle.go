// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package plugin implements the drover host: library loading, the
// plugin registry, and invocation routing.
package plugin

import (
	"fmt"
	stdplugin "plugin"

	"github.com/Masterminds/semver/v3"

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// apiConstraint is the plugin contract range this host accepts.
const apiConstraint = "^1.0.0"

var apiRange = mustConstraint(apiConstraint)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Library is the subset of a loaded shared object the handle needs.
// The standard plugin package satisfies Lookup; tests substitute fakes.
type Library interface {
	// Lookup resolves an exported symbol by name.
	Lookup(symbol string) (stdplugin.Symbol, error)

	// Close releases the reference to the library. The Go runtime
	// never unmaps a loaded plugin image, so for real libraries this
	// drops the handle's reference rather than performing a dlclose;
	// the ordering contract is kept so the handle stays correct under
	// a runtime that does unmap.
	Close() error
}

// Opener opens the shared object at path.
type Opener func(path string) (Library, error)

// DefaultOpener loads libraries with the standard plugin package.
func DefaultOpener(path string) (Library, error) {
	lib, err := stdplugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &soLibrary{lib: lib}, nil
}

// soLibrary adapts *plugin.Plugin to the Library interface.
type soLibrary struct {
	lib *stdplugin.Plugin
}

func (l *soLibrary) Lookup(symbol string) (stdplugin.Symbol, error) {
	return l.lib.Lookup(symbol)
}

func (l *soLibrary) Close() error {
	l.lib = nil
	return nil
}

// Handle pairs one loaded library with the single plugin instance
// constructed from it. The instance's lifetime never exceeds the
// library's: Close tears down the instance strictly before the library
// reference is released, on every path.
type Handle struct {
	path        string
	lib         Library
	instance    sdk.Plugin
	meta        sdk.Metadata
	state       State
	initialized bool
}

// Open runs the load protocol against the library at path: open the
// library, check the declared contract version, resolve the
// constructor symbol, and construct the single instance. OnLoad is not
// called here; the registry decides whether the plugin is enabled
// before initializing it. Any failure closes the library before
// returning.
func Open(path string, opener Opener) (*Handle, error) {
	lib, err := opener(path)
	if err != nil {
		return nil, ErrOpenFailed(path, err)
	}

	if err := checkAPIVersion(lib, path); err != nil {
		closeLibrary(lib)
		return nil, err
	}

	sym, err := lib.Lookup(sdk.SymbolName)
	if err != nil {
		closeLibrary(lib)
		return nil, ErrInvalidPlugin(path, sdk.SymbolName, err)
	}

	ctor, ok := sym.(func() sdk.Plugin)
	if !ok {
		closeLibrary(lib)
		return nil, ErrInvalidPlugin(path, sdk.SymbolName, nil)
	}

	instance := ctor()
	return &Handle{
		path:     path,
		lib:      lib,
		instance: instance,
		meta:     instance.Metadata(),
		state:    StateLoaded,
	}, nil
}

// checkAPIVersion gates the plugin on its declared contract version.
// The symbol is optional; plugins that omit it are assumed compatible.
func checkAPIVersion(lib Library, path string) error {
	sym, err := lib.Lookup(sdk.VersionSymbolName)
	if err != nil {
		return nil
	}
	declared, ok := sym.(*string)
	if !ok {
		return ErrInvalidPlugin(path, sdk.VersionSymbolName, nil)
	}
	v, err := semver.NewVersion(*declared)
	if err != nil {
		return ErrIncompatibleAPI(path, *declared, apiConstraint)
	}
	if !apiRange.Check(v) {
		return ErrIncompatibleAPI(path, *declared, apiConstraint)
	}
	return nil
}

// init calls the instance's OnLoad hook. On failure the handle is torn
// down completely (instance first, then library) and the plugin must
// not be dispatched to again.
func (h *Handle) init() error {
	if err := h.instance.OnLoad(); err != nil {
		h.state = StateFailed
		h.release()
		return ErrInitFailed(h.meta.Name, err)
	}
	h.initialized = true
	h.state = StateActive
	return nil
}

// Metadata returns the plugin's metadata snapshot taken at load time.
func (h *Handle) Metadata() sdk.Metadata { return h.meta }

// Path returns the library file the handle was opened from.
func (h *Handle) Path() string { return h.path }

// State returns the plugin's lifecycle state.
func (h *Handle) State() State { return h.state }

// Close tears the plugin down. The instance is destroyed first; the
// library reference is dropped only after instance teardown has
// finished, even when OnUnload fails or panics. The returned error is
// diagnostic only; callers log it and continue shutting down.
func (h *Handle) Close() error {
	if h.state == StateUnloaded {
		return nil
	}
	err := h.release()
	h.state = StateUnloaded
	return err
}

// release drops the instance, then the library, in that order,
// unconditionally. OnUnload runs only for instances that completed
// OnLoad.
func (h *Handle) release() error {
	var unloadErr error

	if h.instance != nil && h.initialized {
		func() {
			defer func() {
				if r := recover(); r != nil {
					unloadErr = ErrUnloadFailed(h.meta.Name, fmt.Errorf("panic during unload: %v", r))
				}
			}()
			if err := h.instance.OnUnload(); err != nil {
				unloadErr = ErrUnloadFailed(h.meta.Name, err)
			}
		}()
	}
	h.instance = nil

	if h.lib != nil {
		if err := h.lib.Close(); err != nil && unloadErr == nil {
			unloadErr = ErrUnloadFailed(h.meta.Name, err)
		}
		h.lib = nil
	}
	return unloadErr
}

// closeLibrary releases a library that never produced a usable handle.
func closeLibrary(lib Library) {
	// Nothing depends on the library at this point; the error carries
	// no information the load error does not already have.
	_ = lib.Close()
}
