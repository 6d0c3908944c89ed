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
Package dep defines the data model shared by every component of the license
audit core: dependency declarations as read from manifests, the resolved
dependency graph, the license policy, and the final classification result.
*/
package dep

import (
	"fmt"
	"strings"

	"github.com/google/license-auditor/system"
)

// ID canonically identifies a module, or a single version of a module, by
// the string "SYSTEM:NAME" or "SYSTEM:NAME@VERSION". It is produced by
// NewID and MakeID, and is always safe to use as a map key or for
// equality comparisons.
type ID string

// NewID builds the canonical id for a module, with no version component.
func NewID(sys system.System, name string) ID {
	return ID(sys.String() + ":" + name)
}

// MakeID builds the canonical id for a specific version of a module. If
// version is empty this is equivalent to NewID.
func MakeID(sys system.System, name, version string) ID {
	if version == "" {
		return NewID(sys, name)
	}
	return ID(fmt.Sprintf("%s:%s@%s", sys.String(), name, version))
}

// Parse splits an ID back into its system, name and (possibly empty)
// version. It is the inverse of MakeID: MakeID(Parse(id)) reproduces id.
func (id ID) Parse() (sys system.System, name, version string, err error) {
	s := string(id)
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return system.Unknown, "", "", fmt.Errorf("dep: malformed id %q: missing system", s)
	}
	sys, err = system.Parse(s[:colon])
	if err != nil {
		return system.Unknown, "", "", fmt.Errorf("dep: malformed id %q: %w", s, err)
	}
	rest := s[colon+1:]
	// A version separator is an "@" that isn't the leading character: NPM
	// scoped package names ("@scope/name") start with one of their own.
	if at := strings.LastIndexByte(rest, '@'); at > 0 {
		return sys, rest[:at], rest[at+1:], nil
	}
	return sys, rest, "", nil
}

// System returns the system component of id, ignoring any parse error.
func (id ID) System() system.System {
	sys, _, _, _ := id.Parse()
	return sys
}

// Name returns the name component of id, ignoring any parse error.
func (id ID) Name() string {
	_, name, _, _ := id.Parse()
	return name
}
