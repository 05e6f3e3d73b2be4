// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"strings"

	"tailscale.com/types/lazy"
)

// Command pairs a usage string with the blueprint built from it. The blueprint
// is built on first use and shared by every later parse.
type Command struct {
	Name        string
	Usage       string
	Description string
	Aliases     []string

	bp lazy.SyncValue[*Blueprint]
}

// NewCommand returns a Command named after the first token of usage.
func NewCommand(usage string) *Command {
	name, _, _ := strings.Cut(usage, " ")
	return &Command{Name: name, Usage: usage}
}

// Blueprint implements Blueprinter.
func (c *Command) Blueprint() *Blueprint {
	return c.bp.Get(func() *Blueprint {
		return GenerateBlueprint(c.Usage)
	})
}

// Parse matches tokens against the command's blueprint.
func (c *Command) Parse(tokens []string, opts ...ParseOption) *ParsedCommand {
	return Parse(c.Blueprint(), tokens, opts...)
}
