// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

// base is the release line reported by development builds.
const base = "0.1.0"

// Version returns the release version if set, otherwise falls back to the commit hash.
func Version() string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return v
	}
	return Commit()
}

// Commit returns the commit hash of the current build.
func Commit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var dirty bool
	var commit string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}

	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}

// Semver returns the build version as a semantic version. Builds without a
// release version report the base release line.
func Semver() *semver.Version {
	if v, err := semver.NewVersion(strings.TrimSpace(buildVersion)); err == nil {
		return v
	}
	return semver.MustParse(base)
}
