// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateBlueprint(t *testing.T) {
	tests := []struct {
		name      string
		usage     string
		wantName  string
		wantArgs  []Argument
		wantFlags []Flag
	}{
		{
			name:      "fixed argument and unbounded flag",
			usage:     "cmd player(1) -reason()",
			wantName:  "cmd",
			wantArgs:  []Argument{{Name: "player", Length: 1}},
			wantFlags: []Flag{{Name: "reason", Length: Unbounded}},
		},
		{
			name:     "optional argument",
			usage:    "cmd ?target(1)",
			wantName: "cmd",
			wantArgs: []Argument{{Name: "target", Length: 1, Optional: true}},
		},
		{
			name:      "no length tags",
			usage:     "mute player ?minutes -silent",
			wantName:  "mute",
			wantArgs:  []Argument{{Name: "player", Length: Unbounded}, {Name: "minutes", Length: Unbounded, Optional: true}},
			wantFlags: []Flag{{Name: "silent", Length: Unbounded}},
		},
		{
			name:      "flags keep declaration order",
			usage:     "ban -z(1) player(1) -a(2)",
			wantName:  "ban",
			wantArgs:  []Argument{{Name: "player", Length: 1}},
			wantFlags: []Flag{{Name: "z", Length: 1}, {Name: "a", Length: 2}},
		},
		{
			name:     "parentheses in name",
			usage:    "give item(s)(2)",
			wantName: "give",
			wantArgs: []Argument{{Name: "item(s)", Length: 2}},
		},
		{
			name:     "zero length",
			usage:    "cmd a(0)",
			wantName: "cmd",
			wantArgs: []Argument{{Name: "a", Length: 0}},
		},
		{
			name:      "double dash flag",
			usage:     "cmd --force(0)",
			wantName:  "cmd",
			wantFlags: []Flag{{Name: "-force", Length: 0}},
		},
		{
			name:     "command only",
			usage:    "ping",
			wantName: "ping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := GenerateBlueprint(tt.usage)
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
			if b.Usage() != tt.usage {
				t.Errorf("Usage() = %q, want %q", b.Usage(), tt.usage)
			}
			if diff := cmp.Diff(tt.wantArgs, b.Arguments()); diff != "" {
				t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
			}
			gotFlags := b.Flags()
			if len(gotFlags) == 0 {
				gotFlags = nil
			}
			if diff := cmp.Diff(tt.wantFlags, gotFlags); diff != "" {
				t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
			}
			if d := b.Diagnostics(); len(d) != 0 {
				t.Errorf("Diagnostics() = %v, want none", d)
			}
		})
	}
}

func TestGenerateBlueprintUntaggedIsUnbounded(t *testing.T) {
	for _, usage := range []string{
		"cmd a b c",
		"cmd -x -y z",
		"cmd ?a -b ?c d",
	} {
		b := GenerateBlueprint(usage)
		for _, a := range b.Arguments() {
			if a.Length != Unbounded {
				t.Errorf("%q: argument %q length = %d, want %d", usage, a.Name, a.Length, Unbounded)
			}
		}
		for _, f := range b.Flags() {
			if f.Length != Unbounded {
				t.Errorf("%q: flag %q length = %d, want %d", usage, f.Name, f.Length, Unbounded)
			}
		}
	}
}

func TestGenerateBlueprintDiagnostics(t *testing.T) {
	tests := []struct {
		name      string
		usage     string
		wantArgs  []Argument
		wantFlags []Flag
		wantDiags []Diagnostic
	}{
		{
			name:      "non-numeric length",
			usage:     "cmd a(x)",
			wantArgs:  []Argument{{Name: "a", Length: 0}},
			wantDiags: []Diagnostic{{Kind: MalformedLengthTag, Token: "a(x)", Index: 1}},
		},
		{
			name:      "numeric prefix",
			usage:     "cmd a(3x)",
			wantArgs:  []Argument{{Name: "a", Length: 3}},
			wantDiags: []Diagnostic{{Kind: MalformedLengthTag, Token: "a(3x)", Index: 1}},
		},
		{
			name:      "negative length",
			usage:     "cmd -a(-2)",
			wantFlags: []Flag{{Name: "a", Length: 0}},
			wantDiags: []Diagnostic{{Kind: MalformedLengthTag, Token: "-a(-2)", Index: 1}},
		},
		{
			name:      "unclosed tag",
			usage:     "cmd a(1",
			wantArgs:  []Argument{{Name: "a(1", Length: Unbounded}},
			wantDiags: []Diagnostic{{Kind: UnbalancedParens, Token: "a(1", Index: 1}},
		},
		{
			name:     "duplicate argument",
			usage:    "cmd a(1) ?a(2)",
			wantArgs: []Argument{{Name: "a", Length: 1}, {Name: "a", Length: 2, Optional: true}},
			wantDiags: []Diagnostic{
				{Kind: DuplicateName, Token: "?a(2)", Index: 2},
			},
		},
		{
			name:      "duplicate flag",
			usage:     "cmd -r(1) -r(2)",
			wantFlags: []Flag{{Name: "r", Length: 2}},
			wantDiags: []Diagnostic{{Kind: DuplicateName, Token: "-r(2)", Index: 2}},
		},
		{
			name:      "argument and flag may share a name",
			usage:     "cmd r(1) -r(1)",
			wantArgs:  []Argument{{Name: "r", Length: 1}},
			wantFlags: []Flag{{Name: "r", Length: 1}},
		},
		{
			name:     "double space",
			usage:    "cmd  a",
			wantArgs: []Argument{{Name: "", Length: Unbounded}, {Name: "a", Length: Unbounded}},
			wantDiags: []Diagnostic{
				{Kind: EmptyName, Token: "", Index: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := GenerateBlueprint(tt.usage)
			if diff := cmp.Diff(tt.wantArgs, b.Arguments()); diff != "" {
				t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
			}
			gotFlags := b.Flags()
			if len(gotFlags) == 0 {
				gotFlags = nil
			}
			if diff := cmp.Diff(tt.wantFlags, gotFlags); diff != "" {
				t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDiags, b.Diagnostics()); diff != "" {
				t.Errorf("Diagnostics() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBlueprintArgumentShadowing(t *testing.T) {
	b := GenerateBlueprint("cmd a(1) a(2)")
	a, ok := b.Argument("a")
	if !ok {
		t.Fatal("Argument(a) not found")
	}
	if a.Length != 2 {
		t.Errorf("Argument(a).Length = %d, want 2", a.Length)
	}
	if _, ok := b.Argument("b"); ok {
		t.Error("Argument(b) found, want missing")
	}
}

func TestBuild(t *testing.T) {
	b, err := Build("ban player(1) -reason()")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if f, ok := b.Flag("reason"); !ok || f.Length != Unbounded {
		t.Errorf("Flag(reason) = %v, %v; want unbounded flag", f, ok)
	}

	for _, usage := range []string{
		"",
		"   ",
		" ban",
		"ban a(x)",
		"ban a(1",
		"ban a(1) a(1)",
		"ban  a",
	} {
		_, err := Build(usage)
		if err == nil {
			t.Errorf("Build(%q) succeeded, want error", usage)
			continue
		}
		if !errors.Is(err, ErrMalformedUsage) {
			t.Errorf("Build(%q) error = %v, want ErrMalformedUsage", usage, err)
		}
		var ue *UsageError
		if !errors.As(err, &ue) {
			t.Errorf("Build(%q) error type = %T, want *UsageError", usage, err)
		} else if ue.Usage != usage {
			t.Errorf("UsageError.Usage = %q, want %q", ue.Usage, usage)
		}
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild did not panic")
		}
	}()
	MustBuild("ban a(1) a(2)")
}

func TestBlueprintStringRoundTrip(t *testing.T) {
	tests := []struct {
		usage string
		want  string
	}{
		{"ban player(1) -reason()", "ban player(1) -reason()"},
		{"ban -reason player(1)", "ban player(1) -reason()"},
		{"mute ?minutes -silent(0) who", "mute ?minutes() who() -silent(0)"},
		{"give item(s)(2)", "give item(s)(2)"},
		{"ping", "ping"},
	}
	for _, tt := range tests {
		b := GenerateBlueprint(tt.usage)
		if got := b.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		again := GenerateBlueprint(b.String())
		if diff := cmp.Diff(b.Arguments(), again.Arguments()); diff != "" {
			t.Errorf("%q: arguments changed after round trip (-want +got):\n%s", tt.usage, diff)
		}
		if diff := cmp.Diff(b.Flags(), again.Flags()); diff != "" {
			t.Errorf("%q: flags changed after round trip (-want +got):\n%s", tt.usage, diff)
		}
	}
}
