// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import (
	"errors"
	"fmt"
	"strings"
)

// DiagnosticKind classifies a quirk noticed while building a blueprint or
// matching tokens. None of them change the returned value.
type DiagnosticKind int

const (
	// UnknownFlag is a "-name" input token with no matching flag. The token is
	// matched as an ordinary argument token.
	UnknownFlag DiagnosticKind = iota + 1
	// DuplicateFlag is a second or later occurrence of a captured flag.
	DuplicateFlag
	// MalformedLengthTag is a length tag whose content is not a decimal integer.
	MalformedLengthTag
	// UnbalancedParens is a usage token whose parentheses do not pair up.
	UnbalancedParens
	// EmptyName is a usage token that yields an empty argument or flag name.
	EmptyName
	// DuplicateName is an argument or flag declared more than once.
	DuplicateName
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnknownFlag:
		return "unknown flag"
	case DuplicateFlag:
		return "duplicate flag"
	case MalformedLengthTag:
		return "malformed length tag"
	case UnbalancedParens:
		return "unbalanced parentheses"
	case EmptyName:
		return "empty name"
	case DuplicateName:
		return "duplicate name"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic describes one quirk together with the token that caused it.
// Index is the token position: in the usage string (0 is the command name)
// for build diagnostics, in the input tokens for match diagnostics.
type Diagnostic struct {
	Kind  DiagnosticKind
	Token string
	Index int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %q at %d", d.Kind, d.Token, d.Index)
}

// ErrMalformedUsage is matched by every error returned from Build.
var ErrMalformedUsage = errors.New("malformed usage string")

// UsageError is returned by Build when a usage string cannot be turned into a
// blueprint without guessing.
type UsageError struct {
	Usage       string
	Diagnostics []Diagnostic
}

func (e *UsageError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%v: %q", ErrMalformedUsage, e.Usage)
	}
	parts := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		parts = append(parts, d.String())
	}
	return fmt.Sprintf("%v %q: %s", ErrMalformedUsage, e.Usage, strings.Join(parts, "; "))
}

func (e *UsageError) Unwrap() error {
	return ErrMalformedUsage
}
