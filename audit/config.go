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

package audit

import (
	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

// SystemConfig is the per-ecosystem configuration section of Config,
// covering both manifest discovery and resolution/classification
// filtering for one system.
//
// The yaml struct tags exist purely as a documentation aid for an
// external adapter that owns configuration-file loading (flag/env
// parsing and YAML/TOML decoding are explicitly out of Core's scope, per
// spec.md §1); this package never parses YAML itself.
type SystemConfig struct {
	IncludeFiles     []string `yaml:"includeFiles"`
	ExcludeFiles     []string `yaml:"excludeFiles"`
	DevelopmentFiles []string `yaml:"developmentFiles"`

	Modules        []string `yaml:"modules"`
	ExcludeModules []string `yaml:"excludeModules"`
	ExtraModules   []string `yaml:"extraModules"`

	RecursiveRequirements *bool `yaml:"recursiveRequirements"`
}

// Config is the full external-configuration document Run accepts, shaped
// after spec.md §6's "Configuration input" fields.
type Config struct {
	Licenses dep.LicensePolicy `yaml:"licenses"`

	Production  bool `yaml:"production"`
	Development bool `yaml:"development"`
	OnlyDirect  bool `yaml:"onlyDirect"`

	PerSystem map[system.System]SystemConfig `yaml:"perSystem"`

	// Cwd is the root directory manifest discovery walks.
	Cwd string `yaml:"cwd"`
	// Log, when true, enables StdLogger output during the run.
	Log bool `yaml:"log"`
}

// DefaultConfig returns spec.md §6's defaults: production=true,
// development=true, onlyDirect=false, others=forbidden, unknown=warning.
func DefaultConfig() Config {
	return Config{
		Licenses:    dep.LicensePolicy{}.Normalized(),
		Production:  true,
		Development: true,
		Cwd:         ".",
	}
}

// moduleSpecs parses a raw module-list (as found in configuration) into
// match.ModuleSpecs.
func moduleSpecs(raw []string) []match.ModuleSpec {
	specs := make([]match.ModuleSpec, 0, len(raw))
	for _, r := range raw {
		specs = append(specs, match.ParseModuleSpec(r))
	}
	return specs
}
