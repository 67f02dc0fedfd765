// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droverhq/drover/pkg/plugin"
)

func TestContext_Setting(t *testing.T) {
	ctx := plugin.NewContext(map[string]any{"greeting_prefix": "Hola", "retries": 3}, nil)

	v, ok := ctx.Setting("greeting_prefix")
	require.True(t, ok)
	assert.Equal(t, "Hola", v)

	_, ok = ctx.Setting("missing")
	assert.False(t, ok)
}

func TestContext_StringSetting(t *testing.T) {
	ctx := plugin.NewContext(map[string]any{"prefix": "Hola", "count": 3}, nil)

	assert.Equal(t, "Hola", ctx.StringSetting("prefix", "Hello"))
	assert.Equal(t, "Hello", ctx.StringSetting("missing", "Hello"))
	// Non-string values fall back rather than formatting.
	assert.Equal(t, "Hello", ctx.StringSetting("count", "Hello"))
}

func TestContext_SetSetting(t *testing.T) {
	settings := map[string]any{}
	ctx := plugin.NewContext(settings, nil)

	ctx.SetSetting("seen", true)

	v, ok := ctx.Setting("seen")
	require.True(t, ok)
	assert.Equal(t, true, v)
	// The section is shared with the host's map, not a copy.
	assert.Equal(t, true, settings["seen"])
}

func TestContext_SetSetting_NilSection(t *testing.T) {
	ctx := plugin.NewContext(nil, nil)
	ctx.SetSetting("key", "value")

	v, ok := ctx.Setting("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestContext_Emit(t *testing.T) {
	var got []plugin.Custom
	ctx := plugin.NewContext(nil, func(ev plugin.Custom) {
		got = append(got, ev)
	})

	ctx.Emit(plugin.Custom{Source: "basic", Name: "greeted"})

	require.Len(t, got, 1)
	assert.Equal(t, "basic", got[0].Source)
	assert.Equal(t, "greeted", got[0].Name)
}

func TestContext_Emit_NilFunc(t *testing.T) {
	ctx := plugin.NewContext(nil, nil)
	assert.NotPanics(t, func() {
		ctx.Emit(plugin.Custom{Source: "basic", Name: "greeted"})
	})
}
