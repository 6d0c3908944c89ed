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

/*
Package insights is a narrow, gRPC-stub-free view of the three deps.dev
Insights operations the audit core needs: listing a package's known
versions, fetching one version's licenses, and fetching its resolved
dependency graph. Client is pure Go data; nothing in this package imports a
generated protobuf stub, so the core can be tested against LocalClient and
wired in production against GRPCClient without either side depending on the
other.
*/
package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/license-auditor/system"
)

// ErrNotFound is returned by any Client method when the remote service has
// no record of the requested package or version.
var ErrNotFound = errors.New("insights: not found")

// VersionInfo is one entry returned by GetVersions.
type VersionInfo struct {
	System    system.System
	Name      string
	Version   string
	IsDefault bool
}

// Relation describes how a dependency node relates to the version whose
// graph was requested.
type Relation int8

const (
	Self Relation = iota
	Direct
	Indirect
)

func (r Relation) String() string {
	switch r {
	case Self:
		return "SELF"
	case Direct:
		return "DIRECT"
	case Indirect:
		return "INDIRECT"
	}
	return "UNKNOWN"
}

// DependencyNode is one node in a GetDependencies response.
type DependencyNode struct {
	System   system.System
	Name     string
	Version  string
	Relation Relation
	Errors   []string
}

// Client is the remote surface the Resolution Engine depends on. Every
// method must be safe for concurrent use: the Engine calls all three from
// many goroutines at once, bounded only by its own worker pool.
type Client interface {
	// GetVersions returns every known version of (sys, name), in no
	// particular order. Exactly one entry should have IsDefault set,
	// unless the package itself is unknown, in which case ErrNotFound is
	// returned.
	GetVersions(ctx context.Context, sys system.System, name string) ([]VersionInfo, error)
	// GetVersion returns the license list declared for one concrete
	// version. ErrNotFound is returned when the version does not exist.
	GetVersion(ctx context.Context, sys system.System, name, version string) ([]string, error)
	// GetDependencies returns the resolved dependency graph for one
	// concrete version, as computed by the remote service (the audit
	// core performs no local resolution of its own). ErrNotFound is
	// returned when the version does not exist.
	GetDependencies(ctx context.Context, sys system.System, name, version string) ([]DependencyNode, error)
}

// notFoundf wraps a formatted message around ErrNotFound, mirroring the
// teacher's own fmt.Errorf("... %w", ErrNotFound) idiom for sentinel errors.
func notFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, error(ErrNotFound))...)
}
