// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"tailscale.com/util/mak"
	"tailscale.com/util/must"
	"tailscale.com/util/set"
)

// Unbounded is the length of an argument or flag declared with "()" or without
// a length tag.
const Unbounded = -1

// Argument is a positional capture.
type Argument struct {
	Name     string
	Length   int
	Optional bool
}

func (a Argument) IsUnbounded() bool {
	return a.Length < 0
}

func (a Argument) String() string {
	var sb strings.Builder
	if a.Optional {
		sb.WriteByte('?')
	}
	sb.WriteString(a.Name)
	sb.WriteString(lengthTag(a.Length))
	return sb.String()
}

// Flag is a named capture introduced by "-name" in the input. An unbounded
// flag takes every token after it.
type Flag struct {
	Name   string
	Length int
}

func (f Flag) IsUnbounded() bool {
	return f.Length < 0
}

func (f Flag) String() string {
	return "-" + f.Name + lengthTag(f.Length)
}

func lengthTag(n int) string {
	if n < 0 {
		return "()"
	}
	return "(" + strconv.Itoa(n) + ")"
}

// lengthTagRe matches every parenthesized group; the last match is the length
// tag.
var lengthTagRe = regexp.MustCompile(`\((.*?)\)`)

// Blueprint is the schema built from a usage string. It is immutable once
// built.
type Blueprint struct {
	usage     string
	name      string
	args      []Argument
	flags     map[string]Flag
	flagOrder []string
	diags     []Diagnostic
}

// GenerateBlueprint builds a blueprint from usage. It never fails: malformed
// tokens are interpreted on a best-effort basis and reported through
// Diagnostics.
func GenerateBlueprint(usage string) *Blueprint {
	b := &Blueprint{usage: usage}
	declared := make(set.Set[string])
	for i, chunk := range strings.Split(usage, " ") {
		if i == 0 {
			b.name = chunk
			continue
		}
		name, length, diags := splitLengthTag(chunk, i)
		b.diags = append(b.diags, diags...)

		// Flags and arguments live in separate namespaces.
		var key string
		if strings.HasPrefix(chunk, "-") {
			name = strings.TrimPrefix(name, "-")
			key = "-" + name
			if _, ok := b.flags[name]; !ok {
				b.flagOrder = append(b.flagOrder, name)
			}
			mak.Set(&b.flags, name, Flag{Name: name, Length: length})
		} else {
			a := Argument{Name: name, Length: length}
			if rest, ok := strings.CutPrefix(name, "?"); ok {
				a.Name, a.Optional = rest, true
			}
			name, key = a.Name, a.Name
			b.args = append(b.args, a)
		}

		if name == "" {
			b.diags = append(b.diags, Diagnostic{Kind: EmptyName, Token: chunk, Index: i})
		}
		if declared.Contains(key) {
			b.diags = append(b.diags, Diagnostic{Kind: DuplicateName, Token: chunk, Index: i})
		}
		declared.Add(key)
	}
	return b
}

// splitLengthTag separates a usage token into its name and length.
func splitLengthTag(chunk string, index int) (name string, length int, diags []Diagnostic) {
	if strings.Count(chunk, "(") != strings.Count(chunk, ")") {
		diags = append(diags, Diagnostic{Kind: UnbalancedParens, Token: chunk, Index: index})
	}
	matches := lengthTagRe.FindAllStringSubmatchIndex(chunk, -1)
	if len(matches) == 0 {
		return chunk, Unbounded, diags
	}
	last := matches[len(matches)-1]
	name = chunk[:last[0]]
	content := chunk[last[2]:last[3]]
	if content == "" {
		return name, Unbounded, diags
	}
	n, err := strconv.Atoi(content)
	if err != nil || n < 0 {
		diags = append(diags, Diagnostic{Kind: MalformedLengthTag, Token: chunk, Index: index})
		n = leadingInt(content)
	}
	return name, n, diags
}

// leadingInt returns the decimal number at the start of s after any leading
// whitespace, or 0 if there is none.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Build is the strict form of GenerateBlueprint, meant for registration time.
// It returns a *UsageError if usage is empty or if building it produced any
// diagnostic.
func Build(usage string) (*Blueprint, error) {
	if strings.TrimSpace(usage) == "" {
		return nil, &UsageError{Usage: usage}
	}
	b := GenerateBlueprint(usage)
	if b.name == "" {
		return nil, &UsageError{Usage: usage, Diagnostics: []Diagnostic{{Kind: EmptyName, Token: "", Index: 0}}}
	}
	if len(b.diags) > 0 {
		return nil, &UsageError{Usage: usage, Diagnostics: b.Diagnostics()}
	}
	return b, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(usage string) *Blueprint {
	return must.Get(Build(usage))
}

// Usage returns the usage string the blueprint was built from.
func (b *Blueprint) Usage() string {
	return b.usage
}

// Name returns the command name, the first token of the usage string.
func (b *Blueprint) Name() string {
	return b.name
}

// Arguments returns the arguments in declaration order.
func (b *Blueprint) Arguments() []Argument {
	return slices.Clone(b.args)
}

// Argument returns the argument called name. When a name is declared twice the
// later declaration wins, as it does in parse results.
func (b *Blueprint) Argument(name string) (Argument, bool) {
	for i := len(b.args) - 1; i >= 0; i-- {
		if b.args[i].Name == name {
			return b.args[i], true
		}
	}
	return Argument{}, false
}

// Flag returns the flag called name, without its leading "-".
func (b *Blueprint) Flag(name string) (Flag, bool) {
	f, ok := b.flags[name]
	return f, ok
}

// Flags returns the flags in declaration order.
func (b *Blueprint) Flags() []Flag {
	out := make([]Flag, 0, len(b.flagOrder))
	for _, name := range b.flagOrder {
		out = append(out, b.flags[name])
	}
	return out
}

// Diagnostics returns the quirks noticed while building the blueprint.
func (b *Blueprint) Diagnostics() []Diagnostic {
	return slices.Clone(b.diags)
}

// String returns a canonical usage string: the command name, the arguments,
// then the flags, each with an explicit length tag. Building it again yields an
// equivalent blueprint.
func (b *Blueprint) String() string {
	parts := make([]string, 0, 1+len(b.args)+len(b.flagOrder))
	parts = append(parts, b.name)
	for _, a := range b.args {
		parts = append(parts, a.String())
	}
	for _, f := range b.Flags() {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, " ")
}

// GoString makes blueprints readable in test failures.
func (b *Blueprint) GoString() string {
	return fmt.Sprintf("parsecmd.Blueprint(%q)", b.String())
}
