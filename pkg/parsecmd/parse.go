// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"slices"
	"strings"

	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// ParseOption configures a single Parse call.
type ParseOption func(*parseOptions)

type parseOptions struct {
	logf   logger.Logf
	greedy bool
}

// WithLogf sends every match diagnostic to logf as it is found.
func WithLogf(logf logger.Logf) ParseOption {
	return func(o *parseOptions) {
		o.logf = logf
	}
}

// WithGreedyUnbounded lets unbounded arguments take every remaining token
// instead of leaving the last one for the arguments after them.
func WithGreedyUnbounded() ParseOption {
	return func(o *parseOptions) {
		o.greedy = true
	}
}

// Blueprinter is implemented by anything that owns a blueprint, such as a
// Command.
type Blueprinter interface {
	Blueprint() *Blueprint
}

// ParseCommand matches tokens against cmd's blueprint.
func ParseCommand(cmd Blueprinter, tokens []string, opts ...ParseOption) *ParsedCommand {
	return Parse(cmd.Blueprint(), tokens, opts...)
}

// Parse matches tokens against b. Neither b nor tokens are modified.
//
// Flags are captured first: every "-name" token naming a flag of b takes the
// flag's length worth of following tokens, and those tokens are withdrawn from
// argument matching. The remaining tokens then fill the arguments in order.
func Parse(b *Blueprint, tokens []string, opts ...ParseOption) *ParsedCommand {
	o := parseOptions{logf: logger.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logf == nil {
		o.logf = logger.Discard
	}

	snapshot := slices.Clone(tokens)
	pc := &ParsedCommand{
		blueprint: b,
		args:      make(map[string]Value, len(b.args)),
	}
	report := func(kind DiagnosticKind, i int) {
		d := Diagnostic{Kind: kind, Token: snapshot[i], Index: i}
		pc.diags = append(pc.diags, d)
		o.logf("parsecmd: %s: %s", b.name, d)
	}

	// Claimed tokens are still scanned for flag markers, so a flag's value
	// may itself start another flag.
	claimed := make(set.Set[int])
	for i, tok := range snapshot {
		name, ok := strings.CutPrefix(tok, "-")
		if !ok {
			continue
		}
		if _, seen := pc.flags[name]; seen {
			if !claimed.Contains(i) {
				report(DuplicateFlag, i)
			}
			continue
		}
		f, ok := b.Flag(name)
		if !ok {
			if !claimed.Contains(i) {
				report(UnknownFlag, i)
			}
			continue
		}
		length := f.Length
		if f.IsUnbounded() {
			length = len(snapshot)
		}
		start := i + 1
		end := len(snapshot)
		if length < end-start {
			end = start + length
		}
		claimed.Add(i)
		for j := start; j < end; j++ {
			claimed.Add(j)
		}
		mak.Set(&pc.flags, f.Name, strings.Join(snapshot[start:end], " "))
	}

	remaining := make([]string, 0, len(snapshot)-claimed.Len())
	for i, tok := range snapshot {
		if !claimed.Contains(i) {
			remaining = append(remaining, tok)
		}
	}

	for _, a := range b.args {
		n := a.Length
		if a.IsUnbounded() {
			n = len(remaining)
			if !o.greedy {
				n--
			}
		}
		n = max(0, min(n, len(remaining)))
		var v Value
		if n > 0 {
			v = Present(strings.Join(remaining[:n], " "))
		}
		pc.args[a.Name] = v
		remaining = remaining[n:]
	}
	pc.rest = remaining
	return pc
}

// Tokenize splits a raw command line into tokens on runs of whitespace.
func Tokenize(line string) []string {
	return strings.Fields(line)
}
