// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shayne/yargs"
	"github.com/yeetrun/parsecmd/pkg/parsecmd"
	"tailscale.com/types/logger"
	"tailscale.com/util/mak"
)

var (
	// ErrNoCommand is returned by Dispatch when there are no tokens.
	ErrNoCommand = errors.New("no command given")

	// ErrUnknownCommand is returned by Dispatch when the first token names no
	// registered command or alias.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand is returned by Register when a name or alias is
	// already taken.
	ErrDuplicateCommand = errors.New("duplicate command")
)

// MissingArgsError is returned by Dispatch for commands registered with
// RequireArgs when non-optional arguments captured nothing.
type MissingArgsError struct {
	Command string
	Missing []string
}

func (e *MissingArgsError) Error() string {
	return fmt.Sprintf("'%s' requires argument(s): %s", e.Command, strings.Join(e.Missing, ", "))
}

type CommandInfo struct {
	Name        string
	Description string
	// Usage is the usage string the command's blueprint is built from. Its
	// first token must be Name.
	Usage    string
	Examples []string
	Aliases  []string
	Hidden   bool
	// RequireArgs makes Dispatch reject invocations that leave a
	// non-optional argument absent.
	RequireArgs bool
}

// Invocation is one dispatched command line.
type Invocation struct {
	ID      uuid.UUID
	Info    CommandInfo
	Command *parsecmd.Command
	Tokens  []string
	Parsed  *parsecmd.ParsedCommand
}

// Handler runs a parsed invocation.
type Handler func(ctx context.Context, inv *Invocation) error

type entry struct {
	info    CommandInfo
	cmd     *parsecmd.Command
	handler Handler
}

// Registry maps command names and aliases to usage-string commands. It is
// safe for concurrent use; commands are normally registered once at startup.
type Registry struct {
	Name        string
	Description string

	// Logf, if non-nil, receives dispatch logs and match diagnostics.
	Logf logger.Logf

	// ParseOptions are passed to every match.
	ParseOptions []parsecmd.ParseOption

	mu       sync.RWMutex
	commands map[string]*entry
	aliases  map[string]string
}

// NewRegistry returns an empty registry for the program called name.
func NewRegistry(name string) *Registry {
	return &Registry{Name: name}
}

func (r *Registry) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// Register adds a command. The usage string is built strictly, so malformed
// usage strings fail here rather than at dispatch time.
func (r *Registry) Register(info CommandInfo, h Handler) error {
	bp, err := parsecmd.Build(info.Usage)
	if err != nil {
		return fmt.Errorf("failed to register %q: %w", info.Name, err)
	}
	if info.Name == "" {
		info.Name = bp.Name()
	}
	if info.Name != bp.Name() {
		return fmt.Errorf("failed to register %q: usage names command %q", info.Name, bp.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(info.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, info.Name)
	}
	for _, alias := range info.Aliases {
		if alias == info.Name || r.taken(alias) {
			return fmt.Errorf("%w: alias %s of %s", ErrDuplicateCommand, alias, info.Name)
		}
	}

	cmd := parsecmd.NewCommand(info.Usage)
	cmd.Description = info.Description
	cmd.Aliases = slices.Clone(info.Aliases)
	mak.Set(&r.commands, info.Name, &entry{info: info, cmd: cmd, handler: h})
	for _, alias := range info.Aliases {
		mak.Set(&r.aliases, alias, info.Name)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(info CommandInfo, h Handler) {
	if err := r.Register(info, h); err != nil {
		panic(err)
	}
}

func (r *Registry) taken(name string) bool {
	if _, ok := r.commands[name]; ok {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	e, ok := r.commands[name]
	return e, ok
}

// Lookup returns the command registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (CommandInfo, *parsecmd.Command, bool) {
	e, ok := r.lookup(name)
	if !ok {
		return CommandInfo{}, nil, false
	}
	return e.info, e.cmd, true
}

// Commands returns every registered command sorted by name.
func (r *Registry) Commands() []CommandInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CommandInfo, 0, len(r.commands))
	for _, e := range r.commands {
		out = append(out, e.info)
	}
	slices.SortFunc(out, func(a, b CommandInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Resolve matches tokens against the command named by the first token
// without running its handler.
func (r *Registry) Resolve(tokens []string) (*Invocation, error) {
	if len(tokens) == 0 {
		return nil, ErrNoCommand
	}
	e, ok := r.lookup(tokens[0])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, tokens[0])
	}
	inv := &Invocation{
		ID:      uuid.New(),
		Info:    e.info,
		Command: e.cmd,
		Tokens:  slices.Clone(tokens),
	}
	opts := append(slices.Clone(r.ParseOptions), parsecmd.WithLogf(r.prefixed(inv.ID)))
	inv.Parsed = e.cmd.Parse(tokens[1:], opts...)
	if e.info.RequireArgs {
		if missing := inv.Parsed.MissingRequired(); len(missing) > 0 {
			return inv, &MissingArgsError{Command: e.info.Name, Missing: missing}
		}
	}
	return inv, nil
}

func (r *Registry) prefixed(id uuid.UUID) logger.Logf {
	return func(format string, args ...any) {
		r.logf("[%s] "+format, append([]any{id}, args...)...)
	}
}

// Dispatch resolves tokens and runs the command's handler, if any.
func (r *Registry) Dispatch(ctx context.Context, tokens []string) (*Invocation, error) {
	inv, err := r.Resolve(tokens)
	if err != nil {
		return inv, err
	}
	r.logf("[%s] dispatching %s", inv.ID, inv.Info.Name)
	e, _ := r.lookup(inv.Info.Name)
	if e.handler == nil {
		return inv, nil
	}
	if err := e.handler(ctx, inv); err != nil {
		return inv, fmt.Errorf("%s: %w", inv.Info.Name, err)
	}
	return inv, nil
}

// DispatchLine tokenizes line and dispatches it.
func (r *Registry) DispatchLine(ctx context.Context, line string) (*Invocation, error) {
	return r.Dispatch(ctx, parsecmd.Tokenize(line))
}

// HelpConfig describes the registered commands for yargs help generation.
func (r *Registry) HelpConfig() yargs.HelpConfig {
	subcommands := make(map[string]yargs.SubCommandInfo)
	for _, info := range r.Commands() {
		subcommands[info.Name] = toSubCommandInfo(info)
	}
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        r.Name,
			Description: r.Description,
		},
		SubCommands: subcommands,
	}
}

func toSubCommandInfo(info CommandInfo) yargs.SubCommandInfo {
	_, usage, _ := strings.Cut(info.Usage, " ")
	return yargs.SubCommandInfo{
		Name:        info.Name,
		Description: info.Description,
		Usage:       usage,
		Examples:    info.Examples,
		Aliases:     info.Aliases,
		Hidden:      info.Hidden,
	}
}
