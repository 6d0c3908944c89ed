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

package dep

import "github.com/google/license-auditor/system"

// Declaration is a single dependency as found in a project manifest, before
// any remote resolution has happened.
type Declaration struct {
	System system.System
	Name   string

	// Version is the declared value, verbatim: this may be a range, a
	// property reference that failed to resolve, or a concrete version.
	Version string
	// ResolvedVersion is Version after system-aware normalization. It may
	// be empty if normalization could not produce a concrete version.
	ResolvedVersion string

	// Origin is the manifest file path this declaration came from.
	Origin string

	Production  bool
	Development bool

	// Warnings are non-fatal notices scoped to this declaration, e.g. an
	// unresolved Maven property reference or a dropped PyPI extras
	// qualifier. They are merged into the run's caveats, prefixed with
	// this declaration's display name.
	Warnings []string
}

// ID returns the canonical id for this declaration, preferring the
// resolved version when one is available.
func (d Declaration) ID() ID {
	if d.ResolvedVersion != "" {
		return MakeID(d.System, d.Name, d.ResolvedVersion)
	}
	return MakeID(d.System, d.Name, d.Version)
}

// DisplayName renders a declaration the way caveats reference it: the
// module name, plus its version, plus its resolved version in parens when
// that differs from the declared one.
func (d Declaration) DisplayName() string {
	return displayName(d.Name, d.Version, d.ResolvedVersion)
}

func displayName(name, version, resolvedVersion string) string {
	s := name
	if version != "" {
		s += "@" + version
	}
	if resolvedVersion != "" && resolvedVersion != version {
		s += " (" + resolvedVersion + ")"
	}
	return s
}
