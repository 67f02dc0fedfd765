// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package main builds the basic example plugin. Build it with:
//
//	go build -buildmode=plugin -o basic.so ./plugins/basic
package main

import (
	"fmt"

	sdk "github.com/droverhq/drover/pkg/plugin"
)

// PluginAPIVersion declares the contract version this plugin targets.
var PluginAPIVersion = sdk.APIVersion

// NewPlugin constructs the plugin instance. The host resolves this
// symbol by name.
func NewPlugin() sdk.Plugin {
	return &basicPlugin{}
}

type basicPlugin struct {
	sdk.Base
}

func (p *basicPlugin) Metadata() sdk.Metadata {
	return sdk.Metadata{
		Name:        "basic",
		Version:     "0.1.0",
		Author:      "Drover Contributors",
		Description: "Greeting and echo commands",
	}
}

func (p *basicPlugin) Commands() []sdk.Command {
	return []sdk.Command{
		{
			Name:        "greet",
			Description: "Print a greeting",
			Args: []sdk.Arg{
				{Name: "name", Description: "who to greet", Kind: sdk.KindString},
			},
		},
		{
			Name:        "echo",
			Description: "Print a message back",
			Args: []sdk.Arg{
				{Name: "message", Description: "text to echo", Required: true, Kind: sdk.KindPositional},
			},
		},
	}
}

func (p *basicPlugin) HandleEvent(ev sdk.Event, hctx *sdk.Context) error {
	exec, ok := ev.(sdk.ExecuteCommand)
	if !ok || exec.PluginName != "basic" {
		return nil
	}

	switch exec.Matches.Command {
	case "greet":
		prefix := hctx.StringSetting("greeting_prefix", "Hello")
		fmt.Printf("%s, %s!\n", prefix, exec.Matches.GetOr("name", "world"))
		hctx.Emit(sdk.Custom{
			Source: "basic",
			Name:   "greeted",
		})
	case "echo":
		fmt.Println(exec.Matches.GetOr("message", ""))
	}
	return nil
}

func main() {}
