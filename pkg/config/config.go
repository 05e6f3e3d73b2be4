// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads command definitions from a parsecmd.toml or
// parsecmd.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/yeetrun/parsecmd/pkg/cli"
	"github.com/yeetrun/parsecmd/pkg/parsecmd"
	"gopkg.in/yaml.v3"
)

const (
	FileName       = "parsecmd.toml"
	CurrentVersion = 1
)

// fileNames are searched in order in each directory.
var fileNames = []string{FileName, "parsecmd.yaml", "parsecmd.yml"}

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	Version     int    `toml:"version,omitempty" yaml:"version,omitempty"`
	Requires    string `toml:"requires,omitempty" yaml:"requires,omitempty"`
	Name        string `toml:"name,omitempty" yaml:"name,omitempty"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`

	Commands []CommandEntry `toml:"commands,omitempty" yaml:"commands,omitempty"`
}

type CommandEntry struct {
	Name        string   `toml:"name,omitempty" yaml:"name,omitempty"`
	Usage       string   `toml:"usage" yaml:"usage"`
	Description string   `toml:"description,omitempty" yaml:"description,omitempty"`
	Aliases     []string `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Examples    []string `toml:"examples,omitempty" yaml:"examples,omitempty"`
	Hidden      bool     `toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	RequireArgs bool     `toml:"require_args,omitempty" yaml:"require_args,omitempty"`
}

// CommandName returns the entry's name, defaulting to the first token of its
// usage string.
func (e CommandEntry) CommandName() string {
	if e.Name != "" {
		return e.Name
	}
	name, _, _ := strings.Cut(e.Usage, " ")
	return name
}

// Location is a config file on disk.
type Location struct {
	Path   string
	Dir    string
	Config *Config
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads the config file at path. The format follows the file extension.
func Load(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch f {
	case formatTOML:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case formatYAML:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	return &cfg, nil
}

// Find returns the path of the nearest config file in startDir or one of its
// parents. It returns an error matching os.ErrNotExist if there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadFromDir finds and loads the nearest config file. It returns nil, nil if
// there is none.
func LoadFromDir(startDir string) (*Location, error) {
	path, err := Find(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Location{Path: path, Dir: filepath.Dir(path), Config: cfg}, nil
}

// Save writes loc.Config to loc.Path with commands sorted by name.
func Save(loc *Location) error {
	if loc == nil || loc.Config == nil {
		return nil
	}
	f, err := formatOf(loc.Path)
	if err != nil {
		return err
	}
	if loc.Config.Version == 0 {
		loc.Config.Version = CurrentVersion
	}
	slices.SortFunc(loc.Config.Commands, func(a, b CommandEntry) int {
		return strings.Compare(a.CommandName(), b.CommandName())
	})

	var buf bytes.Buffer
	switch f {
	case formatTOML:
		if err := toml.NewEncoder(&buf).Encode(loc.Config); err != nil {
			return err
		}
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(loc.Config); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(loc.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(loc.Path, buf.Bytes(), 0o644)
}

// Validate checks the config against the running tool version and builds
// every usage string strictly. All problems are reported together.
func (c *Config) Validate(v *semver.Version) error {
	var errs []error
	if c.Version > CurrentVersion {
		errs = append(errs, fmt.Errorf("config version %d is newer than supported version %d", c.Version, CurrentVersion))
	}
	if c.Requires != "" {
		constraint, err := semver.NewConstraint(c.Requires)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid requires %q: %w", c.Requires, err))
		} else if ok, reasons := constraint.Validate(v); !ok {
			errs = append(errs, fmt.Errorf("version %s does not satisfy %q: %w", v, c.Requires, errors.Join(reasons...)))
		}
	}
	seen := make(map[string]bool)
	for i, e := range c.Commands {
		bp, err := parsecmd.Build(e.Usage)
		if err != nil {
			errs = append(errs, fmt.Errorf("commands[%d]: %w", i, err))
			continue
		}
		name := e.CommandName()
		if name != bp.Name() {
			errs = append(errs, fmt.Errorf("commands[%d]: name %q does not match usage %q", i, name, e.Usage))
		}
		for _, n := range append([]string{name}, e.Aliases...) {
			if seen[n] {
				errs = append(errs, fmt.Errorf("commands[%d]: %q defined twice", i, n))
			}
			seen[n] = true
		}
	}
	return errors.Join(errs...)
}

// Registry registers every command with h as its handler.
func (c *Config) Registry(h cli.Handler) (*cli.Registry, error) {
	name := c.Name
	if name == "" {
		name = "parsecmd"
	}
	reg := cli.NewRegistry(name)
	reg.Description = c.Description
	for _, e := range c.Commands {
		info := cli.CommandInfo{
			Name:        e.Name,
			Usage:       e.Usage,
			Description: e.Description,
			Aliases:     e.Aliases,
			Examples:    e.Examples,
			Hidden:      e.Hidden,
			RequireArgs: e.RequireArgs,
		}
		if err := reg.Register(info, h); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
