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
	"encoding/xml"
	"fmt"
	"io/fs"
	"strings"

	"deps.dev/util/maven"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

func newMavenReader(opts Options) Reader {
	b := &Base{
		Sys:            system.Maven,
		DefaultInclude: []string{"**/pom.xml"},
		Options:        opts,
	}
	b.ParseFile = func(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
		return parseMaven(fsys, path, isDevelopment)
	}
	return b
}

func parseMaven(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var project maven.Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	props := mavenPropertyMap(project)

	decls := make([]dep.Declaration, 0, len(project.Dependencies))
	for _, d := range project.Dependencies {
		version, resolved, warn := interpolateMavenVersion(string(d.Version), props)
		production, development := mavenScope(string(d.Scope))
		if isDevelopment {
			production, development = false, true
		}
		decl := dep.Declaration{
			Name:            d.Name(),
			Version:         version,
			ResolvedVersion: resolved,
			Production:      production,
			Development:     development,
		}
		if warn != "" {
			decl.Warnings = append(decl.Warnings, warn)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// mavenPropertyMap builds the same name→value dictionary
// deps.dev/util/maven's own (unexported) propertyMap builds: pom properties
// plus the project's own groupId/version (and their pom./project.-prefixed
// aliases), since that unexported method isn't reachable from here.
func mavenPropertyMap(project maven.Project) map[string]string {
	m := make(map[string]string)
	for _, p := range project.Properties.Properties {
		m[p.Name] = p.Value
	}
	add := func(key, value string) {
		if value == "" {
			return
		}
		if _, ok := m[key]; !ok {
			m[key] = value
		}
		m["pom."+key] = value
		m["project."+key] = value
	}
	add("groupId", string(project.GroupID))
	add("version", string(project.Version))
	add("artifactId", string(project.ArtifactID))
	return m
}

// interpolateMavenVersion resolves ${prop} placeholders in a dependency's
// declared version against props, modeled on util/maven's interpolating
// brace-scanning algorithm (that helper is unexported, so this is a
// from-scratch equivalent rather than a call into the library). Returns the
// (possibly still-unresolved) verbatim version, the resolved version (empty
// if any placeholder failed to resolve), and a warning string (empty if
// fully resolved).
func interpolateMavenVersion(version string, props map[string]string) (raw, resolved, warning string) {
	if !strings.Contains(version, "${") {
		return version, version, ""
	}
	var out strings.Builder
	s := version
	ok := true
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}")
		if j < 0 {
			break
		}
		out.WriteString(s[:i])
		key := s[i+2 : i+j]
		if v, found := props[key]; found {
			out.WriteString(v)
		} else {
			ok = false
			out.WriteString(s[i : i+j+1])
		}
		s = s[i+j+1:]
	}
	out.WriteString(s)
	result := out.String()
	if !ok {
		return version, "", fmt.Sprintf("unresolved property reference in version %q", version)
	}
	return version, result, ""
}

// mavenScope maps a Maven dependency scope to the production/development
// flags per §4.3: compile (the default, empty string) is production;
// test/provided/runtime are development.
func mavenScope(scope string) (production, development bool) {
	switch scope {
	case "", "compile":
		return true, false
	case "test", "provided", "runtime":
		return false, true
	default:
		return true, false
	}
}
