// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"encoding/json"
	"maps"
	"slices"
)

// ParsedCommand is the result of matching one invocation against a blueprint.
type ParsedCommand struct {
	blueprint *Blueprint
	args      map[string]Value
	flags     map[string]string
	rest      []string
	diags     []Diagnostic
}

// Blueprint returns the blueprint the command was matched against.
func (pc *ParsedCommand) Blueprint() *Blueprint {
	return pc.blueprint
}

// Arg returns the value captured for the argument called name. It is Absent
// when no tokens were left for the argument or no such argument exists.
func (pc *ParsedCommand) Arg(name string) Value {
	return pc.args[name]
}

// Args returns every declared argument name mapped to its value.
func (pc *ParsedCommand) Args() map[string]Value {
	return maps.Clone(pc.args)
}

// Flag returns the value captured for the flag called name. It is Absent when
// the flag did not appear in the input; a flag that appeared with nothing
// after it is Present with an empty value.
func (pc *ParsedCommand) Flag(name string) Value {
	s, ok := pc.flags[name]
	if !ok {
		return Absent()
	}
	return Present(s)
}

// HasFlag reports whether the flag called name appeared in the input.
func (pc *ParsedCommand) HasFlag(name string) bool {
	_, ok := pc.flags[name]
	return ok
}

// Flags returns the flags that appeared in the input. Flags that did not
// appear have no entry.
func (pc *ParsedCommand) Flags() map[string]string {
	return maps.Clone(pc.flags)
}

// Rest returns the tokens that no argument or flag consumed.
func (pc *ParsedCommand) Rest() []string {
	return slices.Clone(pc.rest)
}

// Diagnostics returns the quirks noticed while matching.
func (pc *ParsedCommand) Diagnostics() []Diagnostic {
	return slices.Clone(pc.diags)
}

// MissingRequired returns the names of non-optional arguments that captured
// nothing, in declaration order. Parse itself never rejects a command.
func (pc *ParsedCommand) MissingRequired() []string {
	var missing []string
	for _, a := range pc.blueprint.args {
		if a.Optional || pc.args[a.Name].IsPresent() {
			continue
		}
		if !slices.Contains(missing, a.Name) {
			missing = append(missing, a.Name)
		}
	}
	return missing
}

type parsedJSON struct {
	Command   string            `json:"command"`
	Arguments map[string]Value  `json:"arguments"`
	Flags     map[string]string `json:"flags"`
	Rest      []string          `json:"rest,omitempty"`
}

func (pc *ParsedCommand) MarshalJSON() ([]byte, error) {
	flags := pc.flags
	if flags == nil {
		flags = map[string]string{}
	}
	return json.Marshal(parsedJSON{
		Command:   pc.blueprint.name,
		Arguments: pc.args,
		Flags:     flags,
		Rest:      pc.rest,
	})
}
