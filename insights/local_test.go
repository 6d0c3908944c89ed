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

package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/google/license-auditor/system"
)

func TestLocalClientRoundTrip(t *testing.T) {
	c := NewLocalClient()
	c.Add(system.NPM, "lodash", &LocalPackage{
		Versions: []VersionInfo{{System: system.NPM, Name: "lodash", Version: "4.17.21", IsDefault: true}},
		Licenses: map[string][]string{"4.17.21": {"MIT"}},
		Dependencies: map[string][]DependencyNode{
			"4.17.21": {{System: system.NPM, Name: "left-pad", Version: "1.0.0", Relation: Direct}},
		},
	})

	ctx := context.Background()
	versions, err := c.GetVersions(ctx, system.NPM, "lodash")
	if err != nil || len(versions) != 1 || !versions[0].IsDefault {
		t.Fatalf("GetVersions = %+v, %v", versions, err)
	}
	licenses, err := c.GetVersion(ctx, system.NPM, "lodash", "4.17.21")
	if err != nil || len(licenses) != 1 || licenses[0] != "MIT" {
		t.Fatalf("GetVersion = %+v, %v", licenses, err)
	}
	deps, err := c.GetDependencies(ctx, system.NPM, "lodash", "4.17.21")
	if err != nil || len(deps) != 1 || deps[0].Name != "left-pad" {
		t.Fatalf("GetDependencies = %+v, %v", deps, err)
	}
}

func TestLocalClientNotFound(t *testing.T) {
	c := NewLocalClient()
	_, err := c.GetVersion(context.Background(), system.NPM, "missing", "1.0.0")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
