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

// Disposition is where a license bucket that isn't explicitly classified
// ends up.
type Disposition string

const (
	Warning   Disposition = "warning"
	Forbidden Disposition = "forbidden"
)

// LicensePolicy configures the Classifier. Allowed, Warning and Forbidden
// are lists of SPDX identifiers or expressions (or, for licenses that
// aren't valid SPDX, plain strings compared literally).
//
// The struct tags document the shape an external configuration loader
// (out of Core's scope) is expected to parse into this type; Core itself
// never reads YAML.
type LicensePolicy struct {
	Allowed   []string `yaml:"allowed"`
	Warning   []string `yaml:"warning"`
	Forbidden []string `yaml:"forbidden"`

	// Others is the bucket for a license that satisfies none of Allowed,
	// Forbidden or Warning. Defaults to Forbidden.
	Others Disposition `yaml:"others"`
	// Unknown is the bucket for a module with no license information at
	// all. Defaults to Warning.
	Unknown Disposition `yaml:"unknown"`
}

// Normalized returns a copy of p with defaults applied.
func (p LicensePolicy) Normalized() LicensePolicy {
	if p.Others == "" {
		p.Others = Forbidden
	}
	if p.Unknown == "" {
		p.Unknown = Warning
	}
	return p
}
