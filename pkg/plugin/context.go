// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

// EmitFunc queues a Custom event for dispatch after the current event
// finishes. Emitted events are never delivered synchronously nested.
type EmitFunc func(ev Custom)

// Context is handed to a plugin for the duration of one HandleEvent
// call. It exposes only that plugin's configuration section and a way
// to emit further events back into the bus.
type Context struct {
	settings map[string]any
	emit     EmitFunc
}

// NewContext builds a Context around a plugin's configuration section.
// The host constructs one per delivery; plugins never build these.
func NewContext(settings map[string]any, emit EmitFunc) *Context {
	return &Context{settings: settings, emit: emit}
}

// Setting returns the raw value for key in this plugin's configuration
// section.
func (c *Context) Setting(key string) (any, bool) {
	v, ok := c.settings[key]
	return v, ok
}

// StringSetting returns the string value for key, or fallback when the
// key is absent or not a string.
func (c *Context) StringSetting(key, fallback string) string {
	if v, ok := c.settings[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// SetSetting writes a value into this plugin's configuration section.
// Dispatch is sequential, so no other plugin can observe the section
// mid-write.
func (c *Context) SetSetting(key string, value any) {
	if c.settings == nil {
		c.settings = make(map[string]any)
	}
	c.settings[key] = value
}

// Emit queues a Custom event onto the host bus. It is dispatched after
// the current event has been delivered to every plugin.
func (c *Context) Emit(ev Custom) {
	if c.emit != nil {
		c.emit(ev)
	}
}
