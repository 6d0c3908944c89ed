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

package classify

import (
	"fmt"

	"github.com/google/license-auditor/classify/spdx"
	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/match"
)

const unknownLicense = "unknown"

// allowed is the third classification bucket. dep.LicensePolicy only names
// Warning and Forbidden as configurable "others"/"unknown" dispositions,
// since a dependency can never be configured to merge into allowed.
const allowed dep.Disposition = "allowed"

// Classify filters and buckets infos per cfg, per §4.6. The per-dep errors
// and warnings already carried on each dep.Info are merged with caveats,
// manifest/resolve errors and warnings passed in, and any policy-config
// warnings discovered along the way (each non-SPDX policy identifier is
// reported at most once, regardless of how many dependencies it's checked
// against).
func Classify(infos []dep.Info, cfg Config, caveats dep.Caveats) *dep.Result {
	policy := cfg.Policy.Normalized()
	result := &dep.Result{Caveats: caveats}
	warner := &policyWarner{warned: make(map[string]bool)}

	for _, info := range infos {
		if info.Error != "" {
			result.Caveats.Errors = append(result.Caveats.Errors, info.DisplayName()+": "+info.Error)
		}
		for _, w := range info.Warnings {
			result.Caveats.Warnings = append(result.Caveats.Warnings, info.DisplayName()+": "+w)
		}

		if !passesFilters(info, cfg) {
			continue
		}

		class := dep.Classification{Info: info}
		bucket, licenses := classifyOne(info, policy, warner)
		class.Licenses = licenses

		switch bucket {
		case dep.Forbidden:
			result.Forbidden = append(result.Forbidden, class)
		case dep.Warning:
			result.Warning = append(result.Warning, class)
		default:
			result.Allowed = append(result.Allowed, class)
		}
	}

	result.Caveats.Warnings = append(result.Caveats.Warnings, warner.messages()...)
	return result
}

func passesFilters(info dep.Info, cfg Config) bool {
	opts := cfg.systemOptions(info.System)

	if len(opts.Modules) > 0 && !matchesAny(info, opts.Modules) {
		return false
	}
	if matchesAny(info, opts.ExcludeModules) {
		return false
	}
	if info.Development && !cfg.Development && !(info.Production && cfg.Production) {
		return false
	}
	if info.Production && !cfg.Production && !(info.Development && cfg.Development) {
		return false
	}
	if !info.Direct && cfg.OnlyDirect {
		return false
	}
	return true
}

func matchesAny(info dep.Info, specs []match.ModuleSpec) bool {
	for _, s := range specs {
		if match.Matches(info.System, info.Name, info.ResolvedVersion, s) {
			return true
		}
	}
	return false
}

// classifyOne applies the short-circuit bucket order adopted for this
// classifier: unknown -> allowed -> forbidden -> warning -> others. Others
// and unknown are then merged per the policy's configured dispositions.
func classifyOne(info dep.Info, policy dep.LicensePolicy, warner *policyWarner) (dep.Disposition, []string) {
	if len(info.Licenses) == 0 {
		return policy.Unknown, []string{unknownLicense}
	}

	switch {
	case allSatisfy(info.Licenses, policy.Allowed, warner):
		return allowed, info.Licenses
	case allSatisfy(info.Licenses, policy.Forbidden, warner):
		return dep.Forbidden, info.Licenses
	case allSatisfy(info.Licenses, policy.Warning, warner):
		return dep.Warning, info.Licenses
	default:
		return policy.Others, info.Licenses
	}
}

// allSatisfy reports whether every license in L is satisfied by some
// identifier in ids: ∀ℓ∈L ∃i∈ids: satisfies(ℓ,i).
func allSatisfy(licenses, ids []string, warner *policyWarner) bool {
	if len(ids) == 0 {
		return false
	}
	for _, l := range licenses {
		if !satisfiesAny(l, ids, warner) {
			return false
		}
	}
	return true
}

func satisfiesAny(license string, ids []string, warner *policyWarner) bool {
	for _, id := range ids {
		if satisfies(license, id, warner) {
			return true
		}
	}
	return false
}

// satisfies implements §4.6's satisfies(ℓ,i): SPDX satisfaction when both
// sides parse as valid SPDX expressions, string equality otherwise. A
// policy identifier that fails to parse or validate as SPDX is reported
// once, since it's the policy author's input that's suspect, not the
// dependency's license.
func satisfies(license, id string, warner *policyWarner) bool {
	le, errL := spdx.Parse(license)
	pe, errI := spdx.Parse(id)
	if errL == nil && errI == nil && le.Valid() && pe.Valid() {
		return spdx.Satisfies(le, pe)
	}
	if errI != nil || !pe.Valid() {
		warner.warn(id)
	}
	return license == id
}

// policyWarner dedupes the policy-config warning (§7 taxonomy item 6)
// across every dependency/identifier pair checked in one Classify call.
type policyWarner struct {
	warned map[string]bool
	order  []string
}

func (w *policyWarner) warn(id string) {
	if w.warned[id] {
		return
	}
	w.warned[id] = true
	w.order = append(w.order, id)
}

func (w *policyWarner) messages() []string {
	msgs := make([]string, len(w.order))
	for i, id := range w.order {
		msgs[i] = fmt.Sprintf("policy identifier %q is not a valid SPDX license expression; falling back to string equality", id)
	}
	return msgs
}
