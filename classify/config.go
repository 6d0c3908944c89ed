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
Package classify implements the Classifier: it filters a resolved
dependency graph down to the modules a policy cares about, then buckets
each survivor into allowed, warning or forbidden using SPDX satisfaction
(falling back to string equality for non-SPDX identifiers).
*/
package classify

import (
	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

// SystemOptions narrows or excludes modules within one ecosystem during
// classification. This is configured independently of resolve.SystemOptions:
// a module can be expanded (to discover its own subtree) while still being
// excluded from the final Result here, and vice versa.
type SystemOptions struct {
	// Modules, when non-empty, restricts classification to dependencies
	// matching at least one entry.
	Modules []match.ModuleSpec
	// ExcludeModules drops any dependency matching an entry.
	ExcludeModules []match.ModuleSpec
}

// Config configures one Classify call.
type Config struct {
	Policy dep.LicensePolicy

	// Production and Development gate which dependencies survive the
	// pre-filter, per §4.6's production/development filter.
	Production  bool
	Development bool
	// OnlyDirect, when true, drops every transitive dependency.
	OnlyDirect bool

	PerSystem map[system.System]SystemOptions
}

func (c Config) systemOptions(sys system.System) SystemOptions {
	return c.PerSystem[sys]
}
