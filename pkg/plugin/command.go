// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

package plugin

import (
	"fmt"
	"regexp"
)

// ArgKind identifies how an argument is parsed and presented.
type ArgKind string

// Argument kinds supported by the command grammar.
const (
	KindString     ArgKind = "string"
	KindInteger    ArgKind = "integer"
	KindFloat      ArgKind = "float"
	KindBoolean    ArgKind = "boolean"
	KindPositional ArgKind = "positional"
)

// Arg describes one argument of a command.
type Arg struct {
	Name        string
	Description string
	Required    bool
	Kind        ArgKind
}

// Command describes an invocable operation contributed by a plugin.
// Command names are globally unique across all loaded plugins.
type Command struct {
	Name        string
	Description string
	Args        []Arg
}

// maxNameLength is the maximum allowed length for command and argument names.
const maxNameLength = 64

// namePattern validates command and argument names: must start with a
// lowercase letter, contain only lowercase letters, digits, or hyphens,
// and not end with a hyphen.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// Validate checks command schema constraints.
func (c Command) Validate() error {
	if c.Name == "" || !namePattern.MatchString(c.Name) {
		return fmt.Errorf("command name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", c.Name)
	}
	if len(c.Name) > maxNameLength {
		return fmt.Errorf("command name must be %d characters or less, got %d", maxNameLength, len(c.Name))
	}

	seen := make(map[string]bool, len(c.Args))
	sawOptionalPositional := false
	for _, a := range c.Args {
		if a.Name == "" || !namePattern.MatchString(a.Name) {
			return fmt.Errorf("command %q: argument name %q is invalid", c.Name, a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("command %q: duplicate argument %q", c.Name, a.Name)
		}
		seen[a.Name] = true

		switch a.Kind {
		case KindString, KindInteger, KindFloat, KindBoolean:
		case KindPositional:
			// Positionals map to values by index, so required ones must
			// all precede optional ones.
			if a.Required && sawOptionalPositional {
				return fmt.Errorf("command %q: required positional %q follows an optional positional", c.Name, a.Name)
			}
			if !a.Required {
				sawOptionalPositional = true
			}
		default:
			return fmt.Errorf("command %q: argument %q has unknown kind %q", c.Name, a.Name, a.Kind)
		}
	}
	return nil
}

// Matches is one parsed invocation: a command name and the string
// values supplied for its arguments. It is produced by the host's
// argument-parsing layer and consumed exactly once.
type Matches struct {
	Command string
	Args    map[string]string
}

// Get returns the value supplied for the named argument.
func (m Matches) Get(name string) (string, bool) {
	v, ok := m.Args[name]
	return v, ok
}

// GetOr returns the value supplied for the named argument, or fallback
// when the argument was not provided.
func (m Matches) GetOr(name, fallback string) string {
	if v, ok := m.Args[name]; ok {
		return v
	}
	return fallback
}
