// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/yeetrun/parsecmd/pkg/batch"
	"github.com/yeetrun/parsecmd/pkg/cli"
	"github.com/yeetrun/parsecmd/pkg/parsecmd"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
}

// Renderer writes blueprints, parse results and command lists in one format.
type Renderer struct {
	w      io.Writer
	format Format
	color  Colorizer
}

func NewRenderer(w io.Writer, format Format, color Colorizer) *Renderer {
	return &Renderer{w: w, format: format, color: color}
}

type argumentView struct {
	Name     string `json:"name" yaml:"name"`
	Length   int    `json:"length" yaml:"length"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

type flagView struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

type blueprintView struct {
	Command     string         `json:"command" yaml:"command"`
	Usage       string         `json:"usage" yaml:"usage"`
	Arguments   []argumentView `json:"arguments" yaml:"arguments"`
	Flags       []flagView     `json:"flags" yaml:"flags"`
	Diagnostics []string       `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func newBlueprintView(b *parsecmd.Blueprint) blueprintView {
	v := blueprintView{
		Command:     b.Name(),
		Usage:       b.Usage(),
		Arguments:   []argumentView{},
		Flags:       []flagView{},
		Diagnostics: diagnosticStrings(b.Diagnostics()),
	}
	for _, a := range b.Arguments() {
		v.Arguments = append(v.Arguments, argumentView{Name: a.Name, Length: a.Length, Optional: a.Optional})
	}
	for _, f := range b.Flags() {
		v.Flags = append(v.Flags, flagView{Name: f.Name, Length: f.Length})
	}
	return v
}

type parsedView struct {
	Command     string                    `json:"command" yaml:"command"`
	Arguments   map[string]parsecmd.Value `json:"arguments" yaml:"arguments"`
	Flags       map[string]string         `json:"flags" yaml:"flags"`
	Rest        []string                  `json:"rest,omitempty" yaml:"rest,omitempty"`
	Missing     []string                  `json:"missing,omitempty" yaml:"missing,omitempty"`
	Diagnostics []string                  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func newParsedView(pc *parsecmd.ParsedCommand) parsedView {
	flags := pc.Flags()
	if flags == nil {
		flags = map[string]string{}
	}
	return parsedView{
		Command:     pc.Blueprint().Name(),
		Arguments:   pc.Args(),
		Flags:       flags,
		Rest:        pc.Rest(),
		Missing:     pc.MissingRequired(),
		Diagnostics: diagnosticStrings(pc.Diagnostics()),
	}
}

type commandView struct {
	Name        string   `json:"name" yaml:"name"`
	Usage       string   `json:"usage" yaml:"usage"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

type timeView struct {
	Phrase    string    `json:"phrase" yaml:"phrase"`
	Time      time.Time `json:"time" yaml:"time"`
	Timestamp int64     `json:"timestamp" yaml:"timestamp"`
}

func diagnosticStrings(diags []parsecmd.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}

func (r *Renderer) encode(v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", r.format)
}

func lengthString(n int) string {
	if n < 0 {
		return "*"
	}
	return strconv.Itoa(n)
}

// Blueprint renders the arguments and flags of b.
func (r *Renderer) Blueprint(b *parsecmd.Blueprint) error {
	if r.format != FormatTable {
		return r.encode(newBlueprintView(b))
	}
	fmt.Fprintf(r.w, "%s %s\n", r.color.Header("command"), r.color.Name(b.Name()))
	tw := tabwriter.NewWriter(r.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tLENGTH\tOPTIONAL")
	for _, a := range b.Arguments() {
		fmt.Fprintf(tw, "argument\t%s\t%s\t%t\n", a.Name, lengthString(a.Length), a.Optional)
	}
	for _, f := range b.Flags() {
		fmt.Fprintf(tw, "flag\t-%s\t%s\t-\n", f.Name, lengthString(f.Length))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	r.diagnostics(b.Diagnostics())
	return nil
}

// Parsed renders the captures of pc. Absent arguments are shown as <absent>.
func (r *Renderer) Parsed(pc *parsecmd.ParsedCommand) error {
	if r.format != FormatTable {
		return r.encode(newParsedView(pc))
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tVALUE")
	for _, a := range pc.Blueprint().Arguments() {
		v, ok := pc.Arg(a.Name).Get()
		if !ok {
			v = "<absent>"
		}
		fmt.Fprintf(tw, "argument\t%s\t%s\n", a.Name, v)
	}
	for _, f := range pc.Blueprint().Flags() {
		if v, ok := pc.Flag(f.Name).Get(); ok {
			fmt.Fprintf(tw, "flag\t-%s\t%s\n", f.Name, v)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if rest := pc.Rest(); len(rest) > 0 {
		fmt.Fprintf(r.w, "%s %s\n", r.color.Dim("unconsumed:"), strings.Join(rest, " "))
	}
	if missing := pc.MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(r.w, "%s %s\n", r.color.Warn("missing:"), strings.Join(missing, ", "))
	}
	r.diagnostics(pc.Diagnostics())
	return nil
}

func (r *Renderer) diagnostics(diags []parsecmd.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(r.w, "%s %s\n", r.color.Warn("warning:"), d)
	}
}

// Commands renders the visible commands.
func (r *Renderer) Commands(cmds []cli.CommandInfo) error {
	cmds = slices.DeleteFunc(slices.Clone(cmds), func(c cli.CommandInfo) bool {
		return c.Hidden
	})
	if r.format != FormatTable {
		views := make([]commandView, 0, len(cmds))
		for _, c := range cmds {
			views = append(views, commandView{Name: c.Name, Usage: c.Usage, Description: c.Description, Aliases: c.Aliases})
		}
		return r.encode(views)
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tUSAGE\tDESCRIPTION")
	for _, c := range cmds {
		name := c.Name
		if len(c.Aliases) > 0 {
			name += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, c.Usage, c.Description)
	}
	return tw.Flush()
}

// Time renders a resolved duration.
func (r *Renderer) Time(phrase string, t time.Time) error {
	if r.format != FormatTable {
		return r.encode(timeView{Phrase: phrase, Time: t, Timestamp: t.Unix()})
	}
	if phrase == "" {
		phrase = "now"
	}
	_, err := fmt.Fprintf(r.w, "%s\t%s\t%d\n", r.color.Name(phrase), t.Format(time.RFC3339), t.Unix())
	return err
}

type resultView struct {
	Line   int         `json:"line" yaml:"line"`
	Input  string      `json:"input" yaml:"input"`
	ID     string      `json:"id,omitempty" yaml:"id,omitempty"`
	Parsed *parsedView `json:"parsed,omitempty" yaml:"parsed,omitempty"`
	Error  string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Batch renders the results of a batch run in input order.
func (r *Renderer) Batch(results []batch.Result) error {
	if r.format != FormatTable {
		views := make([]resultView, 0, len(results))
		for _, res := range results {
			v := resultView{Line: res.Line, Input: res.Input}
			if res.Invocation != nil {
				v.ID = res.Invocation.ID.String()
				if res.Invocation.Parsed != nil {
					pv := newParsedView(res.Invocation.Parsed)
					v.Parsed = &pv
				}
			}
			if res.Err != nil {
				v.Error = res.Err.Error()
			}
			views = append(views, v)
		}
		return r.encode(views)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		fmt.Fprintf(r.w, "%s %s\n", r.color.Header(fmt.Sprintf("line %d:", res.Line)), res.Input)
		if res.Invocation != nil && res.Invocation.Parsed != nil {
			if err := r.Parsed(res.Invocation.Parsed); err != nil {
				return err
			}
		}
		if res.Err != nil {
			fmt.Fprintf(r.w, "%s %v\n", r.color.Warn("error:"), res.Err)
		}
	}
	return nil
}

// Value encodes v as JSON or YAML, or as JSON when the format is table.
func (r *Renderer) Value(v any) error {
	if r.format == FormatTable {
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return r.encode(v)
}
