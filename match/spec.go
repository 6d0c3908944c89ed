// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package match decides whether a dependency matches a configured ModuleSpec:
an exact id, a name, a regex, a SemVer range, or a raw "name@version"
string, exactly as a license policy's module/excludeModule/extraModule
lists allow.
*/
package match

import (
	"regexp"
	"strings"

	"deps.dev/util/semver"

	"github.com/google/license-auditor/system"
)

// ModuleSpec is a single entry from a module/excludeModule list. A spec
// built from a raw string (ParseModuleSpec) only ever populates System,
// Name and Version; the remaining fields are only reachable from a
// structured configuration document.
type ModuleSpec struct {
	// System restricts the spec to a single ecosystem. The zero value
	// (system.Unknown) matches every system.
	System system.System

	Name    string
	Version string

	// NameMatch, when non-empty, is a regular expression tested against
	// the dependency's name, taking priority over Name.
	NameMatch string
	// VersionMatch, when non-empty, is a regular expression tested
	// against the dependency's version, taking priority over Semver and
	// Version.
	VersionMatch string
	// Semver, when non-empty, is a SemVer range tested against the
	// dependency's version, taking priority over Version.
	Semver string

	// Ignore marks modules that should be skipped before expansion. It
	// carries no weight in Matches itself; callers that care about
	// exclusion read this field directly once a match is found.
	Ignore bool
}

// ParseModuleSpec builds a ModuleSpec from a raw string of the form
// "name", "name@version", or "SYSTEM:name@version".
func ParseModuleSpec(raw string) ModuleSpec {
	var spec ModuleSpec
	s := raw
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		if sys, err := system.Parse(s[:colon]); err == nil {
			spec.System = sys
			s = s[colon+1:]
		}
	}
	if at := strings.LastIndexByte(s, '@'); at > 0 {
		spec.Name, spec.Version = s[:at], s[at+1:]
	} else {
		spec.Name = s
	}
	return spec
}

// Matches reports whether a dependency identified by sys, name and version
// satisfies spec. version should be the dependency's resolved version when
// one is available, since Semver matching treats an unparseable version as
// non-matching.
func Matches(sys system.System, name, version string, spec ModuleSpec) bool {
	if spec.System != system.Unknown && spec.System != sys {
		return false
	}
	if !matchesName(name, spec) {
		return false
	}
	return matchesVersion(sys, version, spec)
}

func matchesName(name string, spec ModuleSpec) bool {
	if spec.NameMatch != "" {
		re, err := regexp.Compile(spec.NameMatch)
		if err != nil {
			return false
		}
		return re.MatchString(name)
	}
	return spec.Name == name
}

func matchesVersion(sys system.System, version string, spec ModuleSpec) bool {
	switch {
	case spec.VersionMatch != "":
		re, err := regexp.Compile(spec.VersionMatch)
		if err != nil {
			return false
		}
		return re.MatchString(version)
	case spec.Semver != "":
		semverSys := semverSystem(sys)
		v, err := semverSys.Parse(version)
		if err != nil {
			return false
		}
		c, err := semverSys.ParseConstraint(spec.Semver)
		if err != nil {
			return false
		}
		return c.Set().MatchVersion(v)
	case spec.Version != "":
		return spec.Version == version
	}
	// No version field at all: matches any version.
	return true
}

// semverSystem maps our System to the semver package's own System enum,
// the same mapping deps.dev/util/resolve's match.go uses when delegating
// range checks.
func semverSystem(sys system.System) semver.System {
	switch sys {
	case system.NPM:
		return semver.NPM
	case system.PyPI:
		return semver.PyPI
	case system.Go:
		return semver.Maven // a relaxed numeric range is close enough for Go's simple dotted versions
	default:
		return semver.Maven
	}
}
