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

package resolve

import (
	"context"
	"testing"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/insights"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

func mustFind(t *testing.T, infos []dep.Info, id dep.ID) dep.Info {
	t.Helper()
	for _, i := range infos {
		if i.ID == id {
			return i
		}
	}
	t.Fatalf("no info for %s among %d infos", id, len(infos))
	return dep.Info{}
}

func TestExpandForbiddenMIT(t *testing.T) {
	c := insights.NewLocalClient()
	c.Add(system.NPM, "x", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.2.3", IsDefault: true}},
		Licenses: map[string][]string{"1.2.3": {"MIT"}},
	})
	e := NewEngine(c, nil, nil, NewConfig())
	decls := []dep.Declaration{{System: system.NPM, Name: "x", Version: "1.2.3", ResolvedVersion: "1.2.3", Production: true, Origin: "package.json"}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 1 {
		t.Fatalf("got %d infos, want 1", len(result.Infos))
	}
	info := result.Infos[0]
	if !info.Direct || info.Licenses[0] != "MIT" {
		t.Errorf("info = %+v", info)
	}
}

func TestExpandAncestorPropagation(t *testing.T) {
	// A (direct, production) -> B -> C.
	c := insights.NewLocalClient()
	c.Add(system.NPM, "a", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "b", Version: "1.0.0", Relation: insights.Direct}},
		},
	})
	c.Add(system.NPM, "b", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "c", Version: "1.0.0", Relation: insights.Indirect}},
		},
	})
	c.Add(system.NPM, "c", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
	})

	e := NewEngine(c, nil, nil, NewConfig())
	decls := []dep.Declaration{{
		System: system.NPM, Name: "a", Version: "1.0.0", ResolvedVersion: "1.0.0",
		Production: true, Origin: "package.json",
	}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 3 {
		t.Fatalf("got %d infos, want 3: %+v", len(result.Infos), result.Infos)
	}

	aID := dep.MakeID(system.NPM, "a", "1.0.0")
	cID := dep.MakeID(system.NPM, "c", "1.0.0")
	cInfo := mustFind(t, result.Infos, cID)
	if cInfo.Direct {
		t.Errorf("c should not be direct")
	}
	if !cInfo.Production {
		t.Errorf("c should inherit production from its ancestor a")
	}
	if len(cInfo.Ancestors) != 1 || cInfo.Ancestors[0] != aID {
		t.Errorf("c.Ancestors = %v, want [%s]", cInfo.Ancestors, aID)
	}
	found := false
	for _, o := range cInfo.Origins {
		if o == "package.json" {
			found = true
		}
	}
	if !found {
		t.Errorf("c.Origins = %v, want to contain package.json", cInfo.Origins)
	}
}

func TestExpandUnknownLicenses(t *testing.T) {
	c := insights.NewLocalClient()
	c.Add(system.NPM, "x", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {}},
	})
	e := NewEngine(c, nil, nil, NewConfig())
	decls := []dep.Declaration{{System: system.NPM, Name: "x", Version: "1.0.0", ResolvedVersion: "1.0.0", Production: true}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 1 || len(result.Infos[0].Licenses) != 0 {
		t.Fatalf("infos = %+v", result.Infos)
	}
}

func TestExpandInvalidVersionFallsBackToDefault(t *testing.T) {
	c := insights.NewLocalClient()
	c.Add(system.NPM, "x", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "9.9.9", IsDefault: true}},
		Licenses: map[string][]string{"9.9.9": {"MIT"}},
	})
	e := NewEngine(c, nil, nil, NewConfig())
	decls := []dep.Declaration{{System: system.NPM, Name: "x", Version: "latest", Production: true}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 1 || result.Infos[0].ResolvedVersion != "9.9.9" {
		t.Fatalf("infos = %+v", result.Infos)
	}
}

func TestExpandDedup(t *testing.T) {
	// a and b both depend on shared@1.0.0: it must appear exactly once.
	c := insights.NewLocalClient()
	c.Add(system.NPM, "a", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "shared", Version: "1.0.0", Relation: insights.Direct}},
		},
	})
	c.Add(system.NPM, "b", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "shared", Version: "1.0.0", Relation: insights.Direct}},
		},
	})
	c.Add(system.NPM, "shared", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
	})

	e := NewEngine(c, nil, nil, NewConfig())
	decls := []dep.Declaration{
		{System: system.NPM, Name: "a", Version: "1.0.0", ResolvedVersion: "1.0.0", Production: true, Origin: "a.json"},
		{System: system.NPM, Name: "b", Version: "1.0.0", ResolvedVersion: "1.0.0", Production: true, Origin: "b.json"},
	}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[dep.ID]int{}
	for _, i := range result.Infos {
		seen[i.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appeared %d times, want 1", id, n)
		}
	}
	sharedID := dep.MakeID(system.NPM, "shared", "1.0.0")
	shared := mustFind(t, result.Infos, sharedID)
	if len(shared.Ancestors) != 2 {
		t.Errorf("shared.Ancestors = %v, want 2 ancestors", shared.Ancestors)
	}
}

func TestExpandExcludeModulesVersionMatchesResolvedDirect(t *testing.T) {
	// x's declared version is a range; only its resolved version appears
	// in a real manifest-derived ModuleSpec match.
	c := insights.NewLocalClient()
	c.Add(system.NPM, "x", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.2.5", IsDefault: true}},
		Licenses: map[string][]string{"1.2.5": {"MIT"}},
	})
	cfg := NewConfig()
	cfg.PerSystem = map[system.System]SystemOptions{
		system.NPM: {
			ExcludeModules: []match.ModuleSpec{{Name: "x", Version: "1.2.5", Ignore: true}},
		},
	}
	e := NewEngine(c, nil, nil, cfg)
	decls := []dep.Declaration{{
		System: system.NPM, Name: "x", Version: "^1.2.3", ResolvedVersion: "1.2.5",
		Production: true, Origin: "package.json",
	}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 0 {
		t.Fatalf("got %d infos, want 0 (x should have been excluded before expansion): %+v", len(result.Infos), result.Infos)
	}
}

func TestExpandExcludeModulesSemverIgnoresTransitive(t *testing.T) {
	// a (direct) -> b. b is only ever discovered with a resolved version
	// (GetDependencies never supplies a declared range for a transitive
	// dep), so the exclude spec must be checked against that resolved
	// version, not an empty declared one.
	c := insights.NewLocalClient()
	c.Add(system.NPM, "a", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "b", Version: "1.0.0", Relation: insights.Direct}},
		},
	})
	c.Add(system.NPM, "b", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"GPL-3.0"}},
	})
	cfg := NewConfig()
	cfg.PerSystem = map[system.System]SystemOptions{
		system.NPM: {
			ExcludeModules: []match.ModuleSpec{{Name: "b", Semver: ">=1.0.0", Ignore: true}},
		},
	}
	e := NewEngine(c, nil, nil, cfg)
	decls := []dep.Declaration{{
		System: system.NPM, Name: "a", Version: "1.0.0", ResolvedVersion: "1.0.0",
		Production: true, Origin: "package.json",
	}}
	result, err := e.Expand(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Infos) != 1 {
		t.Fatalf("got %d infos, want 1 (b should have been ignored before expansion): %+v", len(result.Infos), result.Infos)
	}
	if result.Infos[0].Name != "a" {
		t.Errorf("infos = %+v, want only a", result.Infos)
	}
}
