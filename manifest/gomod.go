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
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

func newGoReader(opts Options) Reader {
	b := &Base{
		Sys:            system.Go,
		DefaultInclude: []string{"**/go.mod"},
		DefaultExclude: []string{"**/vendor/**"},
		Options:        opts,
	}
	b.ParseFile = func(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
		return parseGoMod(fsys, path, isDevelopment)
	}
	return b
}

// parseGoMod is a small line-oriented scanner: it recognizes a "require ( ...
// )" block and single-line "require name version" statements, and ignores
// everything else (module/go/toolchain/replace/exclude directives carry no
// dependency declarations per §4.3).
func parseGoMod(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var decls []dep.Declaration
	inBlock := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case inBlock:
			if line == ")" {
				inBlock = false
				continue
			}
			if d, ok := parseGoModLine(line, isDevelopment); ok {
				decls = append(decls, d)
			}
		case line == "require (":
			inBlock = true
		case strings.HasPrefix(line, "require "):
			if d, ok := parseGoModLine(strings.TrimPrefix(line, "require "), isDevelopment); ok {
				decls = append(decls, d)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return decls, nil
}

func parseGoModLine(line string, isDevelopment bool) (dep.Declaration, bool) {
	line = strings.TrimSuffix(strings.TrimSpace(line), "// indirect")
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return dep.Declaration{}, false
	}
	name, version := fields[0], fields[1]
	return dep.Declaration{
		Name:            name,
		Version:         version,
		ResolvedVersion: system.ResolveVersion(system.Go, version),
		Production:      !isDevelopment,
		Development:     isDevelopment,
	}, true
}
