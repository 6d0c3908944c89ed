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

package insights

import (
	"context"
	"sync"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/system"
)

// LocalPackage is one package's data in a LocalClient, the in-memory
// fixture format tests build by hand.
type LocalPackage struct {
	Versions []VersionInfo
	// Licenses maps a concrete version to its license list.
	Licenses map[string][]string
	// Dependencies maps a concrete version to its dependency nodes.
	Dependencies map[string][]DependencyNode
}

// LocalClient is an in-memory Client test double, mirroring the teacher's
// own resolve.LocalClient: tests populate Packages directly instead of
// dialing a real service.
type LocalClient struct {
	mu       sync.Mutex
	Packages map[dep.ID]*LocalPackage

	// Calls counts invocations per method, for tests asserting on
	// deduplication or retry behavior.
	Calls struct {
		GetVersions      int
		GetVersion       int
		GetDependencies  int
	}
}

// NewLocalClient returns an empty LocalClient ready for Packages to be
// populated.
func NewLocalClient() *LocalClient {
	return &LocalClient{Packages: make(map[dep.ID]*LocalPackage)}
}

// Add registers pkg under (sys, name), returning pkg for chaining.
func (l *LocalClient) Add(sys system.System, name string, pkg *LocalPackage) *LocalPackage {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pkg.Licenses == nil {
		pkg.Licenses = make(map[string][]string)
	}
	if pkg.Dependencies == nil {
		pkg.Dependencies = make(map[string][]DependencyNode)
	}
	l.Packages[dep.NewID(sys, name)] = pkg
	return pkg
}

func (l *LocalClient) GetVersions(_ context.Context, sys system.System, name string) ([]VersionInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls.GetVersions++
	pkg, ok := l.Packages[dep.NewID(sys, name)]
	if !ok {
		return nil, notFoundf("package %s:%s", sys, name)
	}
	return pkg.Versions, nil
}

func (l *LocalClient) GetVersion(_ context.Context, sys system.System, name, version string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls.GetVersion++
	pkg, ok := l.Packages[dep.NewID(sys, name)]
	if !ok {
		return nil, notFoundf("package %s:%s", sys, name)
	}
	licenses, ok := pkg.Licenses[version]
	if !ok {
		return nil, notFoundf("version %s:%s@%s", sys, name, version)
	}
	return licenses, nil
}

func (l *LocalClient) GetDependencies(_ context.Context, sys system.System, name, version string) ([]DependencyNode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls.GetDependencies++
	pkg, ok := l.Packages[dep.NewID(sys, name)]
	if !ok {
		return nil, notFoundf("package %s:%s", sys, name)
	}
	nodes, ok := pkg.Dependencies[version]
	if !ok {
		return nil, notFoundf("dependencies %s:%s@%s", sys, name, version)
	}
	return nodes, nil
}

var _ Client = (*LocalClient)(nil)
