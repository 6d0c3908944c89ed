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
	"sort"

	"github.com/google/license-auditor/dep"
)

// synthesize builds the final Result from the run's accumulated state, per
// §4.5 step 5: one dep.Info per id in modulesInfo, with direct/production/
// development/origins/ancestors derived from directDeps/directProd/
// directDev/directOrigins and the ancestors() traversal.
func (r *runState) synthesize() *Result {
	ids := make([]dep.ID, 0, len(r.modulesInfo))
	for id := range r.modulesInfo {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	infos := make([]dep.Info, 0, len(ids))
	var errs, warns []string
	errs = append(errs, r.errs...)
	warns = append(warns, r.warns...)

	for _, id := range ids {
		mod := r.modulesInfo[id]
		deprec := r.dependenciesInfo[id]

		direct := r.directDeps[id]
		ancestors := r.ancestors(id)

		production := direct && r.directProd[id]
		development := direct && r.directDev[id]
		var origins []string
		if direct {
			origins = append(origins, r.directOrigins[id]...)
		}
		for _, a := range ancestors {
			if r.directProd[a] {
				production = true
			}
			if r.directDev[a] {
				development = true
			}
			origins = append(origins, r.directOrigins[a]...)
		}

		info := dep.Info{
			ID:              id,
			System:          mod.system,
			Name:            mod.name,
			Version:         mod.version,
			ResolvedVersion: mod.resolvedVersion,
			Licenses:        mod.licenses,
			Direct:          direct,
			Production:      production,
			Development:     development,
			Ancestors:       ancestors,
			Origins:         dedupStrings(origins),
		}
		if deprec != nil {
			info.Dependencies = deprec.dependencies
		}

		var modWarnings []string
		if mod.err != "" {
			info.Error = mod.err
		} else if deprec != nil && deprec.err != "" {
			info.Error = deprec.err
		}
		if !direct && len(ancestors) == 0 {
			modWarnings = append(modWarnings, "ancestor not found")
		}
		if !direct && !production && !development {
			modWarnings = append(modWarnings, "not production nor development")
		}
		info.Warnings = modWarnings

		infos = append(infos, info)

		display := info.DisplayName()
		if info.Error != "" {
			errs = append(errs, display+": "+info.Error)
		}
		for _, w := range modWarnings {
			warns = append(warns, display+": "+w)
		}
	}

	return &Result{Infos: infos, Errors: errs, Warnings: warns}
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
