// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command parsecmd inspects usage-string blueprints and matches command lines
// against them.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shayne/yargs"
	"github.com/yeetrun/parsecmd/pkg/batch"
	"github.com/yeetrun/parsecmd/pkg/cli"
	"github.com/yeetrun/parsecmd/pkg/cmdutil"
	"github.com/yeetrun/parsecmd/pkg/config"
	"github.com/yeetrun/parsecmd/pkg/duration"
	"github.com/yeetrun/parsecmd/pkg/parsecmd"
	"github.com/yeetrun/parsecmd/pkg/tui"
	"github.com/yeetrun/parsecmd/pkg/version"
	"tailscale.com/types/logger"
)

const configEnv = "PARSECMD_CONFIG"

var errNoUsage = errors.New("no usage string given")

type app struct {
	flags  globalFlagsParsed
	format tui.Format
	stdin  io.Reader
	stdout io.Writer
	out    *tui.Renderer
	logf   logger.Logf
	now    func() time.Time
	getwd  func() (string, error)
}

func newApp(flags globalFlagsParsed, stdin io.Reader, stdout io.Writer) (*app, error) {
	format, err := tui.ParseFormat(flags.Format)
	if err != nil {
		return nil, err
	}
	var colors tui.Colorizer
	if f, ok := stdout.(*os.File); ok {
		colors = tui.NewColorizer(f, !flags.NoColor)
	}
	a := &app{
		flags:  flags,
		format: format,
		stdin:  stdin,
		stdout: stdout,
		out:    tui.NewRenderer(stdout, format, colors),
		logf:   logger.Discard,
		now:    time.Now,
		getwd:  os.Getwd,
	}
	if flags.Verbose {
		a.logf = log.Printf
	}
	return a, nil
}

func (a *app) handlers() map[string]yargs.SubcommandHandler {
	return map[string]yargs.SubcommandHandler{
		"blueprint": a.handleBlueprint,
		"parse":     a.handleParse,
		"run":       a.handleRun,
		"batch":     a.handleBatch,
		"duration":  a.handleDuration,
		"init":      a.handleInit,
		"commands":  a.handleCommands,
		"version":   a.handleVersion,
	}
}

func (a *app) parseOptions() []parsecmd.ParseOption {
	opts := []parsecmd.ParseOption{parsecmd.WithLogf(a.logf)}
	if a.flags.Greedy {
		opts = append(opts, parsecmd.WithGreedyUnbounded())
	}
	return opts
}

// subArgs strips the subcommand name and one leading "--".
func subArgs(args []string) []string {
	if len(args) > 0 {
		args = args[1:]
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	return args
}

func (a *app) handleBlueprint(_ context.Context, args []string) error {
	usage := strings.Join(subArgs(args), " ")
	if strings.TrimSpace(usage) == "" {
		return errNoUsage
	}
	return a.out.Blueprint(parsecmd.GenerateBlueprint(usage))
}

// splitUsage splits "USAGE... -- TOKENS..." into the usage string and the
// tokens. Without "--" the first argument is the usage string.
func splitUsage(args []string) (string, []string) {
	if i := slices.Index(args, "--"); i >= 0 {
		return strings.Join(args[:i], " "), args[i+1:]
	}
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func (a *app) handleParse(_ context.Context, args []string) error {
	usage, tokens := splitUsage(args[1:])
	if strings.TrimSpace(usage) == "" {
		return errNoUsage
	}
	b := parsecmd.GenerateBlueprint(usage)
	if len(tokens) == 1 {
		// A single quoted line is split like a chat message.
		tokens = parsecmd.Tokenize(tokens[0])
	}
	return a.out.Parsed(parsecmd.Parse(b, tokens, a.parseOptions()...))
}

func (a *app) loadConfig() (*config.Config, error) {
	if path := cmp.Or(a.flags.Config, os.Getenv(configEnv)); path != "" {
		return config.Load(path)
	}
	wd, err := a.getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	loc, err := config.LoadFromDir(wd)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("no %s found in %s or its parents; pass --config or set %s", config.FileName, wd, configEnv)
	}
	a.logf("using %s", loc.Path)
	return loc.Config, nil
}

func (a *app) loadRegistry() (*cli.Registry, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(version.Semver()); err != nil {
		return nil, err
	}
	reg, err := cfg.Registry(nil)
	if err != nil {
		return nil, err
	}
	reg.Logf = a.logf
	if a.flags.Greedy {
		reg.ParseOptions = append(reg.ParseOptions, parsecmd.WithGreedyUnbounded())
	}
	return reg, nil
}

func (a *app) handleRun(ctx context.Context, args []string) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	tokens := subArgs(args)
	if len(tokens) == 1 {
		tokens = parsecmd.Tokenize(tokens[0])
	}
	inv, err := reg.Dispatch(ctx, tokens)
	if inv != nil && inv.Parsed != nil {
		if rerr := a.out.Parsed(inv.Parsed); rerr != nil {
			return rerr
		}
	}
	return err
}

func (a *app) handleBatch(ctx context.Context, args []string) error {
	flags, err := parseBatchFlags(args)
	if err != nil {
		return err
	}
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	lines, err := batch.ReadLines(a.stdin)
	if err != nil {
		return err
	}
	results, err := batch.Run(ctx, reg, lines, flags.Limit)
	if rerr := a.out.Batch(results); rerr != nil {
		return rerr
	}
	if err != nil {
		return err
	}
	if failed := batch.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d lines failed", len(failed), len(results))
	}
	return nil
}

func (a *app) handleDuration(_ context.Context, args []string) error {
	expr := strings.Join(subArgs(args), "")
	t, err := duration.ParseAt(expr, a.now())
	if err != nil {
		return err
	}
	return a.out.Time(expr, t)
}

func (a *app) handleCommands(context.Context, []string) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	return a.out.Commands(reg.Commands())
}

// starterCommands seed a new command file.
var starterCommands = []config.CommandEntry{
	{
		Usage:       "ban player(1) ?days(1) -reason()",
		Description: "Ban a player, optionally for a number of days",
		Aliases:     []string{"b"},
		Examples:    []string{"ban Steve 3 -reason griefing"},
		RequireArgs: true,
	},
	{
		Usage:       "mute player(1) ?duration(1) -silent(0)",
		Description: "Mute a player for a compact duration such as 1d12h",
		RequireArgs: true,
	},
}

func (a *app) handleInit(_ context.Context, args []string) error {
	flags, err := parseInitFlags(args)
	if err != nil {
		return err
	}
	wd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	file := config.FileName
	if flags.YAML {
		file = "parsecmd.yaml"
	}
	path := filepath.Join(wd, file)
	if _, err := os.Stat(path); err == nil && !flags.Force {
		ok, err := cmdutil.Confirm(a.stdin, a.stdout, fmt.Sprintf("%s exists, overwrite?", path))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	name := flags.Name
	if name == "" {
		if name, err = cmdutil.Prompt(a.stdin, a.stdout, "Program name", filepath.Base(wd)); err != nil {
			return err
		}
	}
	loc := &config.Location{
		Path: path,
		Dir:  wd,
		Config: &config.Config{
			Version:  config.CurrentVersion,
			Requires: ">= " + version.Semver().String(),
			Name:     name,
			Commands: slices.Clone(starterCommands),
		},
	}
	if err := config.Save(loc); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, err = fmt.Fprintf(a.stdout, "wrote %s\n", path)
	return err
}

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Semver  string `json:"semver" yaml:"semver"`
}

func (a *app) handleVersion(context.Context, []string) error {
	info := versionInfo{
		Version: version.Version(),
		Commit:  version.Commit(),
		Semver:  version.Semver().String(),
	}
	if a.format == tui.FormatTable {
		_, err := fmt.Fprintf(a.stdout, "parsecmd %s (%s)\n", info.Version, info.Commit)
		return err
	}
	return a.out.Value(info)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}
	a, err := newApp(flags, stdin, stdout)
	if err != nil {
		return err
	}
	helpConfig := buildHelpConfig()
	remaining = yargs.ApplyAliases(remaining, helpConfig)
	return yargs.RunSubcommands(ctx, remaining, helpConfig, globalFlagsParsed{}, a.handlers())
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("parsecmd: ")
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
