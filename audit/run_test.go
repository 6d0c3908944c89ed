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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/insights"
	"github.com/google/license-auditor/system"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies":{"x":"1.2.3"},"devDependencies":{"tooling":"2.0.0"}}`)

	client := insights.NewLocalClient()
	client.Add(system.NPM, "x", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.2.3", IsDefault: true}},
		Licenses: map[string][]string{"1.2.3": {"MIT"}},
	})
	client.Add(system.NPM, "tooling", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "2.0.0", IsDefault: true}},
		Licenses: map[string][]string{"2.0.0": {"GPL-3.0"}},
	})

	cfg := DefaultConfig()
	cfg.Cwd = dir
	cfg.Licenses = dep.LicensePolicy{Allowed: []string{"MIT"}, Forbidden: []string{"GPL-3.0"}}

	result, err := Run(context.Background(), client, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Allowed) != 1 || result.Allowed[0].Info.Name != "x" {
		t.Errorf("allowed = %+v", result.Allowed)
	}
	if len(result.Forbidden) != 1 || result.Forbidden[0].Info.Name != "tooling" {
		t.Errorf("forbidden = %+v", result.Forbidden)
	}
}

func TestRunOnlyDirectExcludesTransitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies":{"a":"1.0.0"}}`)

	client := insights.NewLocalClient()
	client.Add(system.NPM, "a", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
		Dependencies: map[string][]insights.DependencyNode{
			"1.0.0": {{System: system.NPM, Name: "b", Version: "1.0.0", Relation: insights.Direct}},
		},
	})
	client.Add(system.NPM, "b", &insights.LocalPackage{
		Versions: []insights.VersionInfo{{Version: "1.0.0", IsDefault: true}},
		Licenses: map[string][]string{"1.0.0": {"MIT"}},
	})

	cfg := DefaultConfig()
	cfg.Cwd = dir
	cfg.OnlyDirect = true
	cfg.Licenses = dep.LicensePolicy{Allowed: []string{"MIT"}}

	result, err := Run(context.Background(), client, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Allowed) != 1 || result.Allowed[0].Info.Name != "a" {
		t.Errorf("want only direct dep a allowed, got %+v", result.Allowed)
	}
}
