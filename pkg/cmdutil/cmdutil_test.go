// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"  y  ", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(tt.in), &out, "Overwrite?")
		if err != nil {
			t.Fatalf("Confirm(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if out.String() != "Overwrite? [y/N]: " {
			t.Errorf("Confirm prompt = %q", out.String())
		}
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	got, err := Prompt(strings.NewReader("\n"), &out, "Program name", "mod")
	if err != nil || got != "mod" {
		t.Errorf("Prompt(empty) = %q, %v; want default", got, err)
	}
	if out.String() != "Program name [mod]: " {
		t.Errorf("Prompt output = %q", out.String())
	}

	got, err = Prompt(strings.NewReader("chat\n"), &out, "Program name", "")
	if err != nil || got != "chat" {
		t.Errorf("Prompt(chat) = %q, %v", got, err)
	}
}
