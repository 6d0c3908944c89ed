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

// Info is a fully resolved dependency: the output of the Resolution Engine
// and the input to the Classifier. Exactly one Info exists per id reached
// during a run.
type Info struct {
	ID              ID
	System          system.System
	Name            string
	Version         string
	ResolvedVersion string
	Licenses        []string

	Direct      bool
	Production  bool
	Development bool

	// Dependencies holds the ids of this module's direct children in the
	// expanded graph.
	Dependencies []ID
	// Ancestors holds the direct-dependency ids (a subset of the run's
	// direct roots) known to reach this module. Empty for direct modules.
	Ancestors []ID
	// Origins holds the manifest file paths of the direct declarations
	// that are this module itself (if direct) or that resolved to one of
	// its ancestors.
	Origins []string

	// Error, if set, means this module's data (licenses, dependencies)
	// could not be retrieved and the module was emitted with empty
	// payload instead of aborting the run.
	Error string
	// Warnings are non-fatal notices scoped to this module, e.g. an
	// ancestor that could not be determined.
	Warnings []string
}

// DisplayName renders this Info the way caveats reference it.
func (i Info) DisplayName() string {
	return displayName(i.Name, i.Version, i.ResolvedVersion)
}
