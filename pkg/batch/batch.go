// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch dispatches many command lines against one registry
// concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/parsecmd/pkg/cli"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds the number of lines dispatched at once when Run is
// given a non-positive limit.
const DefaultLimit = 8

// Result is the outcome of dispatching one line.
type Result struct {
	// Line is the 1-based position of the line in the input.
	Line       int
	Input      string
	Invocation *cli.Invocation
	Err        error
}

// Run dispatches every line through reg with at most limit lines in flight.
// Results are returned in input order. A line that fails to dispatch records
// its error in its Result; Run itself only fails when ctx is done, in which
// case lines that never ran carry ctx's error.
func Run(ctx context.Context, reg *cli.Registry, lines []string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	results := make([]Result, len(lines))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, line := range lines {
		results[i] = Result{Line: i + 1, Input: line}
	}
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(results); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			inv, err := reg.DispatchLine(ctx, line)
			results[i].Invocation, results[i].Err = inv, err
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

// ReadLines reads command lines from r, skipping blank lines and lines
// starting with '#'.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return lines, nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
