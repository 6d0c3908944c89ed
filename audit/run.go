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
	"context"
	"fmt"

	"github.com/google/license-auditor/classify"
	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/insights"
	"github.com/google/license-auditor/manifest"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/resolve"
	"github.com/google/license-auditor/system"
)

// Run wires manifest discovery, the Resolution Engine and the Classifier
// into one call, matching spec.md §2's data flow: MultiReader -> direct
// declarations -> Engine -> resolved DependencyInfo set -> Classifier ->
// Result. client is the only remote dependency; everything else is local
// computation.
func Run(ctx context.Context, client insights.Client, cfg Config) (*dep.Result, error) {
	logger := resolve.Logger(nopLogger{})
	if cfg.Log {
		logger = NewStdLogger()
	}

	manifestOpts := manifestOptions(cfg)
	reader := manifest.NewMultiReader(cfg.Cwd, manifestOpts)
	decls, readErrs := reader.ReadAll()

	engineCfg := resolveConfig(cfg)
	engine := resolve.NewEngine(client, logger, SystemClock{}, engineCfg)
	expanded, err := engine.Expand(ctx, decls)
	if err != nil {
		return nil, fmt.Errorf("audit: expanding dependency graph: %w", err)
	}

	caveats := dep.Caveats{
		Errors:   append(append([]string{}, readErrs...), expanded.Errors...),
		Warnings: append([]string{}, expanded.Warnings...),
	}

	classifyCfg := classifyConfig(cfg)
	return classify.Classify(expanded.Infos, classifyCfg, caveats), nil
}

func manifestOptions(cfg Config) manifest.PerSystemOptions {
	opts := make(manifest.PerSystemOptions, len(cfg.PerSystem))
	for sys, sc := range cfg.PerSystem {
		opts[sys] = manifest.Options{
			Include:               sc.IncludeFiles,
			Development:           sc.DevelopmentFiles,
			Exclude:               sc.ExcludeFiles,
			ExtraModules:          sc.ExtraModules,
			RecursiveRequirements: sc.RecursiveRequirements,
		}
	}
	return opts
}

func resolveConfig(cfg Config) resolve.Config {
	rc := resolve.NewConfig()
	rc.OnlyDirect = cfg.OnlyDirect
	rc.Production = cfg.Production
	rc.Development = cfg.Development
	rc.PerSystem = make(map[system.System]resolve.SystemOptions, len(cfg.PerSystem))
	for sys, sc := range cfg.PerSystem {
		rc.PerSystem[sys] = resolve.SystemOptions{
			ExcludeModules: ignoredSpecs(sc.ExcludeModules),
		}
	}
	return rc
}

func classifyConfig(cfg Config) classify.Config {
	cc := classify.Config{
		Policy:      cfg.Licenses,
		Production:  cfg.Production,
		Development: cfg.Development,
		OnlyDirect:  cfg.OnlyDirect,
	}
	cc.PerSystem = make(map[system.System]classify.SystemOptions, len(cfg.PerSystem))
	for sys, sc := range cfg.PerSystem {
		cc.PerSystem[sys] = classify.SystemOptions{
			Modules:        moduleSpecs(sc.Modules),
			ExcludeModules: moduleSpecs(sc.ExcludeModules),
		}
	}
	return cc
}

// ignoredSpecs parses excludeModules entries and marks them Ignore so the
// Resolution Engine actually skips expanding them, per resolve.SystemOptions'
// own doc comment distinguishing "ignored during expansion" from "excluded
// from the final Result".
func ignoredSpecs(raw []string) []match.ModuleSpec {
	specs := moduleSpecs(raw)
	for i := range specs {
		specs[i].Ignore = true
	}
	return specs
}

// nopLogger discards every message; the default when Config.Log is false.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
