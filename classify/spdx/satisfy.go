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

package spdx

import "strings"

// Satisfies reports whether license is acceptable under policy: OR is an
// alternative choice (any term satisfying policy is enough) and AND is a
// simultaneous requirement (every term must satisfy policy), matching the
// dual-licensing vs. combined-licensing reading of the SPDX grammar. policy
// itself is flattened into a flat allow-set: both its AND and OR nodes are
// read as "any of these identifiers is acceptable", since a policy
// expresses a set of allowed choices rather than a license grant.
func Satisfies(license, policy Expression) bool {
	allowed := flatten(policy, nil)
	return satisfies(license, allowed)
}

func flatten(e Expression, into []Expression) []Expression {
	switch v := e.(type) {
	case *Compound:
		for _, t := range v.Terms {
			into = flatten(t, into)
		}
		return into
	default:
		return append(into, e)
	}
}

func satisfies(e Expression, allowed []Expression) bool {
	switch v := e.(type) {
	case *Compound:
		if v.Op == Or {
			for _, t := range v.Terms {
				if satisfies(t, allowed) {
					return true
				}
			}
			return false
		}
		for _, t := range v.Terms {
			if !satisfies(t, allowed) {
				return false
			}
		}
		return true
	default:
		for _, a := range allowed {
			if leafMatches(e, a) {
				return true
			}
		}
		return false
	}
}

func leafMatches(license, policy Expression) bool {
	switch lv := license.(type) {
	case *Simple:
		switch pv := policy.(type) {
		case *Simple:
			return sameID(lv.ID, pv.ID) && lv.Plus == pv.Plus
		default:
			return false
		}
	case *With:
		switch pv := policy.(type) {
		case *With:
			return sameID(lv.License.ID, pv.License.ID) && lv.License.Plus == pv.License.Plus &&
				strings.EqualFold(lv.Exception, pv.Exception)
		case *Simple:
			// A WITH exception only ever grants additional permission on
			// top of its base license, so it still satisfies a policy
			// entry for the bare license.
			return sameID(lv.License.ID, pv.ID) && lv.License.Plus == pv.Plus
		default:
			return false
		}
	}
	return false
}

func sameID(a, b string) bool {
	return strings.EqualFold(a, b)
}
