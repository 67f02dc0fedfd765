// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	stdplugin "plugin"
	"testing"

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// fakeLibrary serves symbols from a map and records Close calls,
// optionally into a shared log so tests can assert teardown ordering.
type fakeLibrary struct {
	symbols  map[string]stdplugin.Symbol
	closed   bool
	closeLog *[]string
	name     string
	closeErr error
}

func (l *fakeLibrary) Lookup(symbol string) (stdplugin.Symbol, error) {
	sym, ok := l.symbols[symbol]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found", symbol)
	}
	return sym, nil
}

func (l *fakeLibrary) Close() error {
	l.closed = true
	if l.closeLog != nil {
		*l.closeLog = append(*l.closeLog, "lib.Close:"+l.name)
	}
	return l.closeErr
}

// testPlugin is a scriptable sdk.Plugin recording every event it sees.
type testPlugin struct {
	meta     sdk.Metadata
	commands []sdk.Command

	failLoad    bool
	failUnload  bool
	panicUnload bool

	// onEvent, when set, runs for every delivery and its error is the
	// handler verdict.
	onEvent func(ev sdk.Event, hctx *sdk.Context) error

	events   []sdk.Event
	loaded   bool
	unloaded bool
	log      *[]string
}

func (p *testPlugin) Metadata() sdk.Metadata { return p.meta }

func (p *testPlugin) OnLoad() error {
	if p.failLoad {
		return fmt.Errorf("load refused")
	}
	p.loaded = true
	return nil
}

func (p *testPlugin) OnUnload() error {
	if p.log != nil {
		*p.log = append(*p.log, "OnUnload:"+p.meta.Name)
	}
	if p.panicUnload {
		panic("unload panic")
	}
	p.unloaded = true
	if p.failUnload {
		return fmt.Errorf("unload refused")
	}
	return nil
}

func (p *testPlugin) Commands() []sdk.Command { return p.commands }

func (p *testPlugin) HandleEvent(ev sdk.Event, hctx *sdk.Context) error {
	p.events = append(p.events, ev)
	if p.log != nil {
		*p.log = append(*p.log, p.meta.Name+":"+ev.Kind())
	}
	if p.onEvent != nil {
		return p.onEvent(ev, hctx)
	}
	return nil
}

// libFor wraps a plugin in a fake library exporting the standard
// constructor and version symbols.
func libFor(p sdk.Plugin) *fakeLibrary {
	version := sdk.APIVersion
	return &fakeLibrary{
		name: p.Metadata().Name,
		symbols: map[string]stdplugin.Symbol{
			sdk.SymbolName:        func() sdk.Plugin { return p },
			sdk.VersionSymbolName: &version,
		},
	}
}

// openerFor maps library file basenames to fake libraries.
func openerFor(libs map[string]Library) Opener {
	return func(path string) (Library, error) {
		lib, ok := libs[filepath.Base(path)]
		if !ok {
			return nil, fmt.Errorf("no such library: %s", path)
		}
		return lib, nil
	}
}

// pluginDir creates a temp directory holding one empty library file per
// name, suffixed for the current platform.
func pluginDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name+LibraryExt())
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return dir
}
