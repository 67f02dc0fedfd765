// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	sdk "github.com/droverhq/drover/pkg/plugin"
)

// PreCommandEvent builds the event announcing an invocation before its
// owner runs.
func PreCommandEvent(inv Invocation) sdk.PreCommand {
	return sdk.PreCommand{
		Name:    inv.Command,
		RawArgs: inv.Raw,
	}
}

// ExecuteCommandEvent builds the event carrying the parsed invocation
// to its owning plugin.
func ExecuteCommandEvent(owner string, inv Invocation) sdk.ExecuteCommand {
	return sdk.ExecuteCommand{
		PluginName: owner,
		Matches: sdk.Matches{
			Command: inv.Command,
			Args:    inv.Args,
		},
	}
}

// PostCommandEvent builds the event reporting an invocation's verdict.
func PostCommandEvent(inv Invocation, success bool) sdk.PostCommand {
	return sdk.PostCommand{
		Name:    inv.Command,
		Success: success,
	}
}
