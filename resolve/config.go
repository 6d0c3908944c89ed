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
Package resolve implements the Resolution Engine: it takes the direct
declarations a manifest.MultiReader produces and, talking to an
insights.Client, expands them into the full transitive dependency graph
under bounded concurrency, with deduplication, ancestor tracking and
per-module error isolation.
*/
package resolve

import (
	"time"

	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

// DefaultConcurrency is the worker-pool bound used when Config.Concurrency
// is zero.
const DefaultConcurrency = 500

// SystemOptions excludes modules within one ecosystem during expansion,
// independently of the Classifier's own (separately configured)
// inclusion/exclusion filters. Inclusion narrowing (the "modules" list) is
// a Classifier-only concern per §4.6: the Resolution Engine always expands
// the full graph so the Classifier has complete ancestor information to
// work with, and only ExcludeModules short-circuits expansion early.
type SystemOptions struct {
	// ExcludeModules marks matching declarations as ignored before
	// expansion. Only entries with Ignore set actually take effect here;
	// entries without it exist purely for the Classifier's own exclusion
	// filter and are inert during expansion.
	ExcludeModules []match.ModuleSpec
}

// Config configures one Engine.
type Config struct {
	// OnlyDirect, when true, never calls GetDependencies: the graph
	// consists only of direct declarations.
	OnlyDirect bool
	// Production and Development gate whether a direct dependency's own
	// subtree is expanded at all, per §4.5's skip condition. Both
	// default to true in NewConfig.
	Production  bool
	Development bool

	PerSystem map[system.System]SystemOptions

	// Concurrency bounds the number of in-flight RPC tasks across the
	// whole run. Zero means DefaultConcurrency.
	Concurrency int

	// RequestTimeout is carried in the configuration but the Engine does
	// not apply it: insights.Client calls run under whatever per-request
	// deadline the client itself sets (GRPCClient uses 10 seconds).
	RequestTimeout time.Duration
}

// NewConfig returns the spec's defaults: production=true, development=true,
// onlyDirect=false.
func NewConfig() Config {
	return Config{Production: true, Development: true}
}

func (c Config) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c Config) systemOptions(sys system.System) SystemOptions {
	return c.PerSystem[sys]
}
