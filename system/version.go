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

package system

import (
	"regexp"

	"deps.dev/util/semver"
)

// numericDotted matches a relaxed, dot-separated run of numbers followed by
// anything, which is as strict as Maven and PyPI version strings get treated
// for validity purposes.
var numericDotted = regexp.MustCompile(`^\d+(\.\d+)*\S*$`)

// goVersion additionally requires the "v" prefix Go modules use.
var goVersion = regexp.MustCompile(`^v\d+(\.\d+)*\S*$`)

// IsValidVersion reports whether v is a well-formed version string for sys.
// It returns false for an empty string regardless of system.
func IsValidVersion(sys System, v string) bool {
	if v == "" {
		return false
	}
	switch sys {
	case NPM:
		_, err := semver.NPM.Parse(v)
		return err == nil
	case PyPI, Maven:
		return numericDotted.MatchString(v)
	case Go:
		return goVersion.MatchString(v)
	}
	return false
}

// ResolveVersion normalizes a declared version string for sys. For NPM it
// collapses a SemVer range to its minimum satisfying version; every other
// system returns v unchanged. ResolveVersion never fails: on any parse error
// it returns v as given.
func ResolveVersion(sys System, v string) string {
	if sys != NPM || v == "" {
		return v
	}
	if ver, err := semver.NPM.Parse(v); err == nil {
		return ver.String()
	}
	c, err := semver.NPM.ParseConstraint(v)
	if err != nil {
		return v
	}
	min, err := c.CalculateMinVersion()
	if err != nil || min == nil {
		return v
	}
	return min.String()
}
