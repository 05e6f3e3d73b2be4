// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil holds small interactive helpers for the parsecmd binary.
package cmdutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks msg as a yes/no question. Anything but "y" or "yes" is a no.
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)
	answer, err := readLine(r)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt asks msg and returns the answer, or def when the answer is empty.
func Prompt(r io.Reader, w io.Writer, msg, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", msg, def)
	} else {
		fmt.Fprintf(w, "%s: ", msg)
	}
	answer, err := readLine(r)
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
