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

package match

import (
	"testing"

	"github.com/google/license-auditor/system"
)

func TestParseModuleSpec(t *testing.T) {
	tests := []struct {
		raw  string
		want ModuleSpec
	}{
		{"lodash", ModuleSpec{Name: "lodash"}},
		{"lodash@4.17.21", ModuleSpec{Name: "lodash", Version: "4.17.21"}},
		{"NPM:lodash@4.17.21", ModuleSpec{System: system.NPM, Name: "lodash", Version: "4.17.21"}},
		{"@scope/pkg@1.0.0", ModuleSpec{Name: "@scope/pkg", Version: "1.0.0"}},
	}
	for _, tt := range tests {
		if got := ParseModuleSpec(tt.raw); got != tt.want {
			t.Errorf("ParseModuleSpec(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		sys     system.System
		depName string
		version string
		spec    ModuleSpec
		want    bool
	}{
		{"exact", system.NPM, "lodash", "4.17.21", ModuleSpec{Name: "lodash", Version: "4.17.21"}, true},
		{"wrong version", system.NPM, "lodash", "4.0.0", ModuleSpec{Name: "lodash", Version: "4.17.21"}, false},
		{"no version matches any", system.NPM, "lodash", "4.0.0", ModuleSpec{Name: "lodash"}, true},
		{"wrong system", system.Maven, "lodash", "4.17.21", ModuleSpec{System: system.NPM, Name: "lodash"}, false},
		{"name regex", system.NPM, "lodash-es", "1.0.0", ModuleSpec{NameMatch: "^lodash"}, true},
		{"semver range", system.NPM, "lodash", "4.17.21", ModuleSpec{Name: "lodash", Semver: ">=4.0.0 <5.0.0"}, true},
		{"semver range miss", system.NPM, "lodash", "5.0.0", ModuleSpec{Name: "lodash", Semver: ">=4.0.0 <5.0.0"}, false},
		{"semver invalid version", system.NPM, "lodash", "not-a-version", ModuleSpec{Name: "lodash", Semver: ">=4.0.0"}, false},
		{"version regex", system.NPM, "lodash", "4.17.21", ModuleSpec{Name: "lodash", VersionMatch: `^4\.`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.sys, tt.depName, tt.version, tt.spec); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
