package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// versionInfo describes the running binary.
type versionInfo struct {
	base     string // contents of VERSION
	module   string // module version of a tagged install, e.g. v0.3.0
	revision string // short VCS revision of a checkout build
	dirty    bool   // checkout had uncommitted changes
}

func currentVersion() versionInfo {
	v := versionInfo{base: strings.TrimSpace(embeddedVersion)}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}

	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v.module = mv
		return v
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.revision = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			v.dirty = s.Value == "true"
		}
	}

	return v
}

// String is the version shown by the version command: the module version
// for tagged installs, devel-0.3.0+abc1234 for checkout builds.
func (v versionInfo) String() string {
	if v.module != "" {
		return v.module
	}

	s := "devel-" + v.base
	if v.revision != "" {
		s += "+" + v.revision
		if v.dirty {
			s += ".dirty"
		}
	}

	return s
}

// Semver is the version a configuration's requires constraint is checked
// against. Checkout builds count as the release they are heading for.
func (v versionInfo) Semver() string {
	if v.module != "" {
		return v.module
	}

	return v.base
}
