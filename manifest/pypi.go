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
	"path"
	"regexp"
	"strings"

	"deps.dev/util/pypi"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

func newPyPIReader(opts Options) Reader {
	b := &Base{
		Sys:                system.PyPI,
		DefaultInclude:     []string{"**/requirements.txt"},
		DefaultDevelopment: []string{"**/requirements-dev.txt"},
		DefaultExclude:     []string{"**/venv/**", "**/.venv/**"},
		Options:            opts,
	}
	recursive := opts.RecursiveRequirements == nil || *opts.RecursiveRequirements
	b.ParseFile = func(fsys fs.FS, p string, isDevelopment bool) ([]dep.Declaration, error) {
		return parsePyPIFile(fsys, p, isDevelopment, recursive, nil)
	}
	return b
}

// pypiConstraint is the spec's restricted single-operator grammar: one of
// ==, >=, <=, !=, ~= followed by a version, with no compound ranges.
var pypiConstraint = regexp.MustCompile(`^(==|>=|<=|!=|~=)\s*([^\s,]+)$`)

func parsePyPIFile(fsys fs.FS, p string, isDevelopment, recursive bool, seen map[string]string) ([]dep.Declaration, error) {
	abs := path.Clean(p)
	if seen == nil {
		seen = map[string]string{}
	}
	return parsePyPIFileRec(fsys, abs, isDevelopment, recursive, seen)
}

func parsePyPIFileRec(fsys fs.FS, p string, isDevelopment, recursive bool, seen map[string]string) ([]dep.Declaration, error) {
	if _, ok := seen[p]; ok {
		return nil, nil
	}
	seen[p] = p

	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var decls []dep.Declaration
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := cutRequirementsInclude(line); ok {
			if !recursive {
				continue
			}
			incPath := path.Join(path.Dir(p), rest)
			incDecls, err := parsePyPIFileRec(fsys, incPath, isDevelopment, recursive, seen)
			if err != nil {
				return nil, fmt.Errorf("included file %q: %w", rest, err)
			}
			decls = append(decls, incDecls...)
			continue
		}

		decl, err := parsePyPIRequirement(line, isDevelopment)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return decls, nil
}

func cutRequirementsInclude(line string) (rest string, ok bool) {
	for _, prefix := range []string{"-r ", "--requirement "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

func parsePyPIRequirement(line string, isDevelopment bool) (dep.Declaration, error) {
	parsed, err := pypi.ParseDependency(line)
	if err != nil {
		return dep.Declaration{}, fmt.Errorf("invalid requirement %q: %w", line, err)
	}

	decl := dep.Declaration{
		Name:        parsed.Name,
		Production:  !isDevelopment,
		Development: isDevelopment,
	}
	if parsed.Extras != "" {
		decl.Warnings = append(decl.Warnings, fmt.Sprintf("dropping extras %q from %q", parsed.Extras, parsed.Name))
	}

	if parsed.Constraint == "" {
		return decl, nil
	}
	m := pypiConstraint.FindStringSubmatch(parsed.Constraint)
	if m == nil {
		return dep.Declaration{}, fmt.Errorf("unsupported requirement operator in %q", line)
	}
	op, version := m[1], m[2]
	decl.Version = version
	if op != "!=" {
		decl.ResolvedVersion = version
	}
	return decl, nil
}
