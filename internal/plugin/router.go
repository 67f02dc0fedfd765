// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("drover/plugin")

// ErrNilRegistry is returned when constructing a router without a registry.
var ErrNilRegistry = errors.New("plugin: registry is nil")

// Invocation is one parsed command-line invocation to route.
type Invocation struct {
	// Command is the command name as invoked.
	Command string
	// Args maps argument names to their parsed string values. Optional
	// arguments the caller omitted are absent.
	Args map[string]string
	// Raw is the unparsed argument list, preserved for observers.
	Raw []string
}

// Router resolves invocations to owning plugins and runs the
// surrounding event sequence: pre-command, execute, post-command.
type Router struct {
	registry *Registry
}

// NewRouter creates a router over the given registry.
func NewRouter(registry *Registry) (*Router, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	return &Router{registry: registry}, nil
}

// Execute routes one invocation. Routing failures (unknown command,
// disabled owner) return before any event fires. Otherwise the full
// sequence always runs: pre-command and post-command fire even when
// the owning plugin's handler fails, and post-command carries the
// execution verdict. The returned error is the owner's handler
// failure, or nil.
func (rt *Router) Execute(ctx context.Context, inv Invocation) (err error) {
	owner, ok := rt.registry.Owner(inv.Command)
	if !ok {
		RecordInvocation(inv.Command, StatusNotFound)
		return ErrUnknownCommand(inv.Command)
	}
	if !rt.registry.Active(owner) {
		RecordInvocation(inv.Command, StatusDisabled)
		return ErrPluginDisabled(inv.Command, owner)
	}

	invocationID := ulid.Make()
	start := time.Now()

	_, span := tracer.Start(ctx, "plugin.invoke",
		trace.WithAttributes(
			attribute.String("invocation.id", invocationID.String()),
			attribute.String("command.name", inv.Command),
			attribute.String("plugin.name", owner),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	rt.registry.Broadcast(PreCommandEvent(inv))

	err = rt.executeCommand(owner, inv)

	rt.registry.Broadcast(PostCommandEvent(inv, err == nil))

	RecordInvocationDuration(inv.Command, time.Since(start))
	if err != nil {
		RecordInvocation(inv.Command, StatusError)
		return err
	}
	RecordInvocation(inv.Command, StatusSuccess)
	return nil
}

// executeCommand broadcasts the execute event and surfaces the owner's
// delivery result. Other plugins see the event too, but only the
// owner's verdict decides the invocation.
func (rt *Router) executeCommand(owner string, inv Invocation) error {
	results := rt.registry.Broadcast(ExecuteCommandEvent(owner, inv))
	for _, d := range results {
		if d.Plugin == owner {
			return d.Err
		}
	}
	// The owner was active at routing time; an absent delivery means it
	// was torn down mid-dispatch.
	return ErrPluginDisabled(inv.Command, owner)
}
