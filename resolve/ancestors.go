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

import "github.com/google/license-auditor/dep"

// maxAncestorHops bounds how far ancestors() climbs the reverse-adjacency
// parents map before falling back to requestAncestor, per §4.5/§9: this
// keeps worst-case work linear on deeply shared graphs instead of
// recursively chasing every path to every root.
const maxAncestorHops = 2

// ancestors returns every direct-dep id reachable from id within
// maxAncestorHops steps through r.parents. If none is found within that
// bound, it falls back to the single requestAncestor recorded for id at
// first discovery (empty if id is itself direct or none was recorded).
func (r *runState) ancestors(id dep.ID) []dep.ID {
	if r.directDeps[id] {
		return nil
	}
	found := make(map[dep.ID]bool)
	frontier := []dep.ID{id}
	for hop := 0; hop < maxAncestorHops && len(frontier) > 0; hop++ {
		var next []dep.ID
		for _, cur := range frontier {
			for p := range r.parents[cur] {
				if r.directDeps[p] {
					found[p] = true
				} else {
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	if len(found) == 0 {
		if rec, ok := r.modulesInfo[id]; ok && rec.requestAncestor != "" {
			found[rec.requestAncestor] = true
		}
	}
	out := make([]dep.ID, 0, len(found))
	for a := range found {
		out = append(out, a)
	}
	return out
}
