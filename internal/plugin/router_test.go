// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/errutil"
	sdk "github.com/droverhq/drover/pkg/plugin"
)

func TestNewRouter_NilRegistry(t *testing.T) {
	_, err := NewRouter(nil)
	assert.ErrorIs(t, err, ErrNilRegistry)
}

func TestRouter_Execute_UnknownCommand(t *testing.T) {
	p := &testPlugin{meta: sdk.Metadata{Name: "basic"}}
	r := loadPlugins(t, p)
	rt, err := NewRouter(r)
	require.NoError(t, err)

	err = rt.Execute(context.Background(), Invocation{Command: "frobnicate"})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeUnknownCommand)
	// Routing failed before any event fired.
	assert.Empty(t, p.events)
}

func TestRouter_Execute_DisabledOwner(t *testing.T) {
	owner := &testPlugin{
		meta:     sdk.Metadata{Name: "extra"},
		commands: []sdk.Command{{Name: "greet"}},
	}
	observer := &testPlugin{meta: sdk.Metadata{Name: "observer"}}
	r := NewRegistry(
		WithOpener(openerFor(map[string]Library{
			"extra" + LibraryExt():    libFor(owner),
			"observer" + LibraryExt(): libFor(observer),
		})),
		WithPolicy(PolicyFunc(func(meta sdk.Metadata) bool { return meta.Name != "extra" })),
	)
	_, err := r.LoadDir(context.Background(), pluginDir(t, "extra", "observer"))
	require.NoError(t, err)

	// Disabled plugins keep their command registrations so the router
	// can name the owner in the error.
	rt, err := NewRouter(r)
	require.NoError(t, err)

	err = rt.Execute(context.Background(), Invocation{Command: "greet"})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodePluginDisabled)
	assert.Empty(t, observer.events, "no events fire for a disabled owner")
}

func TestRouter_Execute_EventSequence(t *testing.T) {
	var log []string
	owner := &testPlugin{
		meta:     sdk.Metadata{Name: "basic"},
		commands: []sdk.Command{{Name: "greet", Args: []sdk.Arg{{Name: "name", Kind: sdk.KindString}}}},
		log:      &log,
	}
	observer := &testPlugin{meta: sdk.Metadata{Name: "watcher"}, log: &log}
	r := loadPlugins(t, owner, observer)
	rt, err := NewRouter(r)
	require.NoError(t, err)

	err = rt.Execute(context.Background(), Invocation{
		Command: "greet",
		Args:    map[string]string{"name": "Ada"},
		Raw:     []string{"--name", "Ada"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"basic:pre-command", "watcher:pre-command",
		"basic:execute-command", "watcher:execute-command",
		"basic:post-command", "watcher:post-command",
	}, log)

	// The owner saw the parsed matches.
	var exec sdk.ExecuteCommand
	for _, ev := range owner.events {
		if e, ok := ev.(sdk.ExecuteCommand); ok {
			exec = e
		}
	}
	assert.Equal(t, "basic", exec.PluginName)
	assert.Equal(t, "greet", exec.Matches.Command)
	assert.Equal(t, "Ada", exec.Matches.GetOr("name", ""))

	// Post-command carried the verdict.
	var post sdk.PostCommand
	for _, ev := range observer.events {
		if e, ok := ev.(sdk.PostCommand); ok {
			post = e
		}
	}
	assert.Equal(t, "greet", post.Name)
	assert.True(t, post.Success)
}

func TestRouter_Execute_OwnerFailure(t *testing.T) {
	owner := &testPlugin{
		meta:     sdk.Metadata{Name: "basic"},
		commands: []sdk.Command{{Name: "greet"}},
		onEvent: func(ev sdk.Event, hctx *sdk.Context) error {
			if ev.Kind() == "execute-command" {
				return fmt.Errorf("greeting failed")
			}
			return nil
		},
	}
	observer := &testPlugin{meta: sdk.Metadata{Name: "watcher"}}
	r := loadPlugins(t, owner, observer)
	rt, err := NewRouter(r)
	require.NoError(t, err)

	err = rt.Execute(context.Background(), Invocation{Command: "greet"})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeHandlerFailed)

	// Post-command still fired, with the failure verdict.
	var post sdk.PostCommand
	var sawPost bool
	for _, ev := range observer.events {
		if e, ok := ev.(sdk.PostCommand); ok {
			post = e
			sawPost = true
		}
	}
	require.True(t, sawPost, "post-command must fire even on failure")
	assert.False(t, post.Success)
}

func TestRouter_Execute_NonOwnerFailureIgnored(t *testing.T) {
	owner := &testPlugin{
		meta:     sdk.Metadata{Name: "basic"},
		commands: []sdk.Command{{Name: "greet"}},
	}
	grumpy := &testPlugin{
		meta: sdk.Metadata{Name: "grumpy"},
		onEvent: func(ev sdk.Event, hctx *sdk.Context) error {
			return fmt.Errorf("always fails")
		},
	}
	r := loadPlugins(t, owner, grumpy)
	rt, err := NewRouter(r)
	require.NoError(t, err)

	// Only the owner's verdict decides the invocation.
	err = rt.Execute(context.Background(), Invocation{Command: "greet"})
	assert.NoError(t, err)
}
