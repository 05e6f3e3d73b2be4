// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/shayne/yargs"
)

type globalFlagsParsed struct {
	Config  string `flag:"config" help:"Path to a command file (PARSECMD_CONFIG)"`
	Format  string `flag:"format" help:"Output format (table|json|yaml)"`
	NoColor bool   `flag:"no-color" help:"Disable colored output"`
	Verbose bool   `flag:"verbose" help:"Log match diagnostics to stderr"`
	Greedy  bool   `flag:"greedy" help:"Let unbounded arguments take every remaining token"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

type batchFlagsParsed struct {
	Limit int `flag:"limit" help:"Maximum number of lines matched at once"`
}

func parseBatchFlags(args []string) (batchFlagsParsed, error) {
	if len(args) > 0 && args[0] == "batch" {
		args = args[1:]
	}
	result, err := yargs.ParseKnownFlags[batchFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return batchFlagsParsed{}, err
	}
	return result.Flags, nil
}

type initFlagsParsed struct {
	Name  string `flag:"name" help:"Program name recorded in the command file"`
	YAML  bool   `flag:"yaml" help:"Write parsecmd.yaml instead of parsecmd.toml"`
	Force bool   `flag:"force" help:"Overwrite an existing command file without asking"`
}

func parseInitFlags(args []string) (initFlagsParsed, error) {
	if len(args) > 0 && args[0] == "init" {
		args = args[1:]
	}
	result, err := yargs.ParseKnownFlags[initFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return initFlagsParsed{}, err
	}
	return result.Flags, nil
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "parsecmd",
			Description: "Build usage-string blueprints and match command lines against them.",
			Examples: []string{
				`parsecmd blueprint "ban player(1) ?days(1) -reason()"`,
				`parsecmd parse "ban player(1) -reason()" -- Steve -reason being mean`,
				"parsecmd run ban Steve -reason spam",
				"parsecmd duration 1d12h",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"blueprint": {
				Name:        "blueprint",
				Description: "Show the arguments and flags a usage string declares",
				Usage:       "USAGE",
				Examples:    []string{`parsecmd blueprint "ban player(1) -reason()"`},
			},
			"parse": {
				Name:        "parse",
				Description: "Match tokens against a usage string",
				Usage:       "USAGE -- TOKENS...",
				Examples:    []string{`parsecmd parse "warn player(1) reason()" -- Steve stop that now`},
			},
			"run": {
				Name:        "run",
				Description: "Match a command line against the commands in the command file",
				Usage:       "[--] COMMAND TOKENS...",
				Examples:    []string{"parsecmd run ban Steve -reason spam"},
			},
			"batch": {
				Name:        "batch",
				Description: "Match command lines read from stdin concurrently",
				Usage:       "[--limit=N]",
				Examples:    []string{"parsecmd batch --limit=4 < commands.txt"},
			},
			"duration": {
				Name:        "duration",
				Description: "Resolve a compact duration such as 1d12h to a time",
				Usage:       "EXPR",
				Aliases:     []string{"dur"},
			},
			"init": {
				Name:        "init",
				Description: "Write a starter command file in the current directory",
				Usage:       "[--name=NAME] [--yaml] [--force]",
			},
			"commands": {
				Name:        "commands",
				Description: "List the commands in the command file",
				Aliases:     []string{"ls"},
			},
			"version": {
				Name:        "version",
				Description: "Print version information",
			},
		},
	}
}
