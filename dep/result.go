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

package dep

// Classification is the bucket a module ends up in after policy
// evaluation.
type Classification struct {
	Info     Info
	Licenses []string // the licenses that were actually evaluated
}

// Caveats collects the non-fatal issues encountered while producing a
// Result: manifest parse failures, unresolved properties, RPC errors,
// policy-configuration warnings. None of these abort a run.
type Caveats struct {
	Errors   []string
	Warnings []string
}

// Result is the final, reporter-agnostic output of one check: every
// surviving dependency partitioned by classification, plus the caveats
// gathered along the way.
type Result struct {
	Allowed   []Classification
	Warning   []Classification
	Forbidden []Classification
	Caveats   Caveats
}
