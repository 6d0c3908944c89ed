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

package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

// packageJSON is the subset of package.json this reader understands.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func newNPMReader(opts Options) Reader {
	b := &Base{
		Sys:            system.NPM,
		DefaultInclude: []string{"**/package.json"},
		DefaultExclude: []string{"**/node_modules/**"},
		Options:        opts,
	}
	b.ParseFile = func(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
		return parseNPM(fsys, path, isDevelopment)
	}
	return b
}

func parseNPM(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var decls []dep.Declaration
	addAll := func(deps map[string]string, development bool) {
		for name, version := range deps {
			decls = append(decls, dep.Declaration{
				Name:            name,
				Version:         version,
				ResolvedVersion: system.ResolveVersion(system.NPM, version),
				Production:      !isDevelopment && !development,
				Development:     isDevelopment || development,
			})
		}
	}
	addAll(pkg.Dependencies, false)
	addAll(pkg.DevDependencies, true)
	return decls, nil
}
