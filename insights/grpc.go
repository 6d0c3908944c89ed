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
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "deps.dev/api/v3"

	"github.com/google/license-auditor/system"
)

// requestTimeout is the per-request deadline §4.4 requires.
const requestTimeout = 10 * time.Second

// maxRetries is the number of additional attempts made after the first one
// when a request fails with DeadlineExceeded.
const maxRetries = 3

// GRPCClient adapts a caller-supplied deps.dev v3 Insights stub to Client,
// the same way the teacher's resolve.APIClient wraps pb.InsightsClient in
// api.go: translating requests/responses and retrying deadline-exceeded
// errors with the same parameters, up to maxRetries times.
type GRPCClient struct {
	c pb.InsightsClient
}

// NewGRPCClient wraps c. The generated stub itself — including how it was
// dialed — is the external adapter's responsibility per spec.md §1; this
// package never constructs a grpc.ClientConn.
func NewGRPCClient(c pb.InsightsClient) *GRPCClient {
	return &GRPCClient{c: c}
}

func (g *GRPCClient) GetVersions(ctx context.Context, sys system.System, name string) ([]VersionInfo, error) {
	req := &pb.GetPackageRequest{
		PackageKey: &pb.PackageKey{
			System: toPB(sys),
			Name:   name,
		},
	}
	resp, err := retry(ctx, func(ctx context.Context) (*pb.Package, error) {
		return g.c.GetPackage(ctx, req)
	})
	if status.Code(err) == codes.NotFound {
		return nil, notFoundf("package %s:%s", sys, name)
	}
	if err != nil {
		return nil, err
	}
	out := make([]VersionInfo, len(resp.GetVersions()))
	for i, v := range resp.GetVersions() {
		vk := v.GetVersionKey()
		out[i] = VersionInfo{
			System:    sys,
			Name:      name,
			Version:   vk.GetVersion(),
			IsDefault: v.GetIsDefault(),
		}
	}
	return out, nil
}

func (g *GRPCClient) GetVersion(ctx context.Context, sys system.System, name, version string) ([]string, error) {
	req := &pb.GetVersionRequest{
		VersionKey: &pb.VersionKey{
			System:  toPB(sys),
			Name:    name,
			Version: version,
		},
	}
	resp, err := retry(ctx, func(ctx context.Context) (*pb.Version, error) {
		return g.c.GetVersion(ctx, req)
	})
	if status.Code(err) == codes.NotFound {
		return nil, notFoundf("version %s:%s@%s", sys, name, version)
	}
	if err != nil {
		return nil, err
	}
	return resp.GetLicenses(), nil
}

func (g *GRPCClient) GetDependencies(ctx context.Context, sys system.System, name, version string) ([]DependencyNode, error) {
	req := &pb.GetDependenciesRequest{
		VersionKey: &pb.VersionKey{
			System:  toPB(sys),
			Name:    name,
			Version: version,
		},
	}
	resp, err := retry(ctx, func(ctx context.Context) (*pb.Dependencies, error) {
		return g.c.GetDependencies(ctx, req)
	})
	if status.Code(err) == codes.NotFound {
		return nil, notFoundf("dependencies %s:%s@%s", sys, name, version)
	}
	if err != nil {
		return nil, err
	}
	nodes := make([]DependencyNode, 0, len(resp.GetNodes()))
	for _, n := range resp.GetNodes() {
		vk := n.GetVersionKey()
		nodes = append(nodes, DependencyNode{
			System:   fromPB(vk.GetSystem()),
			Name:     vk.GetName(),
			Version:  vk.GetVersion(),
			Relation: fromPBRelation(n.GetRelation()),
			Errors:   n.GetErrors(),
		})
	}
	return nodes, nil
}

// retry issues call, retrying up to maxRetries additional times when it
// fails with codes.DeadlineExceeded, reusing the same request each time —
// exactly the contract §4.4 describes. Every attempt gets its own
// requestTimeout-bounded context, matching the teacher's practice of never
// trusting the caller's ambient deadline for a single RPC leg.
func retry[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp, err := call(callCtx)
		cancel()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if status.Code(err) != codes.DeadlineExceeded {
			return zero, err
		}
	}
	return zero, fmt.Errorf("exhausted %d retries: %w", maxRetries, lastErr)
}

func toPB(sys system.System) pb.System {
	switch sys {
	case system.NPM:
		return pb.System_NPM
	case system.Maven:
		return pb.System_MAVEN
	case system.PyPI:
		return pb.System_PYPI
	case system.Go:
		return pb.System_GO
	}
	return pb.System_SYSTEM_UNSPECIFIED
}

func fromPB(sys pb.System) system.System {
	switch sys {
	case pb.System_NPM:
		return system.NPM
	case pb.System_MAVEN:
		return system.Maven
	case pb.System_PYPI:
		return system.PyPI
	case pb.System_GO:
		return system.Go
	}
	return system.Unknown
}

func fromPBRelation(r pb.Dependencies_Relation) Relation {
	switch r {
	case pb.Dependencies_SELF:
		return Self
	case pb.Dependencies_DIRECT:
		return Direct
	case pb.Dependencies_INDIRECT:
		return Indirect
	}
	return Indirect
}
