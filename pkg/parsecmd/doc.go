// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parsecmd matches raw command tokens against a schema described by a
// usage string.
//
// A usage string names the command followed by its arguments and flags:
//
//	ban player(1) -reason()
//
// Each token may end in a length tag. "(n)" captures exactly n tokens, "()" or
// no tag at all captures every remaining token. Tokens starting with "-" are
// flags, tokens starting with "?" are optional arguments. The rightmost
// parenthesized group is always the length tag, so names may contain
// parentheses of their own.
//
// GenerateBlueprint turns a usage string into a reusable *Blueprint once, at
// registration time. Parse then matches each invocation against it:
//
//	bp := parsecmd.GenerateBlueprint("ban player(1) -reason()")
//	pc := parsecmd.Parse(bp, []string{"Steve", "-reason", "being", "mean"})
//	pc.Arg("player")  // Present("Steve")
//	pc.Flag("reason") // Present("being mean")
//
// Matching never fails. Unknown flags are left in place as ordinary text,
// repeated flags keep their first occurrence and missing arguments come back
// Absent. Every such event is recorded as a Diagnostic on the result and can be
// streamed to a logger with WithLogf.
//
// An unbounded argument takes every remaining token except the last one, which
// is left for whatever follows. WithGreedyUnbounded lifts that reservation.
//
// Blueprints are immutable and safe for concurrent use by any number of Parse
// calls.
package parsecmd
