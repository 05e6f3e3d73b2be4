// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var isTerminalFn = term.IsTerminal

type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer that is enabled only if enabled is set, f
// is a terminal and neither NO_COLOR nor a dumb TERM asks otherwise.
func NewColorizer(f *os.File, enabled bool) Colorizer {
	if !enabled || f == nil {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	if !isTerminalFn(int(f.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) Wrap(attr color.Attribute, text string) string {
	p := color.New(attr)
	if c.Enabled {
		p.EnableColor()
	} else {
		p.DisableColor()
	}
	return p.Sprint(text)
}

func (c Colorizer) Header(text string) string {
	return c.Wrap(color.Bold, text)
}

func (c Colorizer) Name(text string) string {
	return c.Wrap(color.FgCyan, text)
}

func (c Colorizer) Dim(text string) string {
	return c.Wrap(color.FgHiBlack, text)
}

func (c Colorizer) Warn(text string) string {
	return c.Wrap(color.FgYellow, text)
}
