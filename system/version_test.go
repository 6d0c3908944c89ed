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

import "testing"

func TestIsValidVersion(t *testing.T) {
	tests := []struct {
		sys  System
		v    string
		want bool
	}{
		{NPM, "1.2.3", true},
		{NPM, "", false},
		{NPM, "latest", false},
		{NPM, "^1.2.3", false}, // a range is not a concrete valid version
		{PyPI, "1.2.3", true},
		{PyPI, "1.2.3rc1", true},
		{PyPI, "abc", false},
		{Maven, "1.2", true},
		{Maven, "", false},
		{Go, "v1.2.3", true},
		{Go, "1.2.3", false},
		{Unknown, "1.2.3", false},
	}
	for _, tt := range tests {
		if got := IsValidVersion(tt.sys, tt.v); got != tt.want {
			t.Errorf("IsValidVersion(%v, %q) = %v, want %v", tt.sys, tt.v, got, tt.want)
		}
	}
}

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		sys  System
		v    string
		want string
	}{
		{NPM, "1.2.3", "1.2.3"},
		{NPM, "^1.2.3", "1.2.3"},
		{NPM, "latest", "latest"}, // unresolvable, returned unchanged
		{PyPI, "1.2.3", "1.2.3"},
		{Maven, "1.2.3", "1.2.3"},
		{Go, "v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		if got := ResolveVersion(tt.sys, tt.v); got != tt.want {
			t.Errorf("ResolveVersion(%v, %q) = %q, want %q", tt.sys, tt.v, got, tt.want)
		}
	}
}

func TestResolveVersionIdempotent(t *testing.T) {
	for _, v := range []string{"1.2.3", "^1.2.3", "~1.2.0", "1.x", "latest"} {
		once := ResolveVersion(NPM, v)
		twice := ResolveVersion(NPM, once)
		if once != twice {
			t.Errorf("ResolveVersion not idempotent for %q: %q != %q", v, once, twice)
		}
	}
}
