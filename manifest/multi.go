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
	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

// PerSystemOptions maps a system to the discovery Options that configure its
// reader, mirroring spec's perSystemOptions configuration shape.
type PerSystemOptions map[system.System]Options

// MultiReader fans a project root out across every registered ecosystem
// reader and concatenates their declarations, matching the teacher repo's
// own pattern of treating each ecosystem's resolver as an independent unit
// composed by a thin top-level driver.
type MultiReader struct {
	Root    string
	Readers []Reader
}

// NewMultiReader builds the standard four-ecosystem MultiReader (NPM, Maven,
// PyPI, Go), applying opts[sys] to the reader for sys when present.
func NewMultiReader(root string, opts PerSystemOptions) *MultiReader {
	return &MultiReader{
		Root: root,
		Readers: []Reader{
			newNPMReader(opts[system.NPM]),
			newMavenReader(opts[system.Maven]),
			newPyPIReader(opts[system.PyPI]),
			newGoReader(opts[system.Go]),
		},
	}
}

// ReadAll runs every reader and returns the concatenation of their
// declarations plus every file-level error, each error prefixed with the
// system that produced it.
func (m *MultiReader) ReadAll() ([]dep.Declaration, []string) {
	var decls []dep.Declaration
	var errs []string
	for _, r := range m.Readers {
		d, e := r.ReadAll(m.Root)
		decls = append(decls, d...)
		for _, msg := range e {
			errs = append(errs, r.System().String()+": "+msg)
		}
	}
	return decls, errs
}
