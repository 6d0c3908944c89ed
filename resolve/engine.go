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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/insights"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

// Logger is the narrow logging surface the Engine depends on, defined here
// rather than imported so any type with this method set (including the
// external adapter's own logger) satisfies it without a shared dependency.
type Logger interface {
	Printf(format string, args ...any)
}

// Clock is injected to time each Expand run for its closing log line and is
// trivially fakeable in tests.
type Clock interface {
	Now() time.Time
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Result is the output of one Engine.Expand call: the fully resolved
// dependency graph plus every caveat gathered along the way, each prefixed
// with the offending module's display name.
type Result struct {
	Infos    []dep.Info
	Errors   []string
	Warnings []string
}

// Engine is the Resolution Engine. A single Engine may be reused across
// many Expand calls; calls serialize, matching §4.5's one-run-at-a-time
// contract.
type Engine struct {
	client insights.Client
	logger Logger
	clock  Clock
	cfg    Config

	serialMu sync.Mutex
	running  chan struct{}
}

// NewEngine builds an Engine around client. A nil logger or clock falls
// back to a no-op logger and the real wall clock, respectively — the Core
// never requires a caller to supply either, matching spec.md §1's "consumes
// only a logger, a clock, and a gRPC client interface" without forcing
// every caller to provide all three explicitly.
func NewEngine(client insights.Client, logger Logger, clock Clock, cfg Config) *Engine {
	if logger == nil {
		logger = nopLogger{}
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Engine{client: client, logger: logger, clock: clock, cfg: cfg}
}

// Expand runs one full resolution over decls: the direct declarations a
// manifest.MultiReader produced. A second call blocks until the first's run
// has completed, per §4.5's serialization contract.
func (e *Engine) Expand(ctx context.Context, decls []dep.Declaration) (*Result, error) {
	e.serialMu.Lock()
	for e.running != nil {
		wait := e.running
		e.serialMu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		e.serialMu.Lock()
	}
	done := make(chan struct{})
	e.running = done
	e.serialMu.Unlock()
	defer func() {
		close(done)
		e.serialMu.Lock()
		e.running = nil
		e.serialMu.Unlock()
	}()

	start := e.clock.Now()
	e.logger.Printf("resolve: expanding %d direct declarations", len(decls))
	r := newRunState(e, e.cfg.concurrency())
	result, err := r.run(ctx, decls)
	if err == nil {
		e.logger.Printf("resolve: expanded to %d modules in %s (%d errors, %d warnings)",
			len(result.Infos), e.clock.Now().Sub(start), len(result.Errors), len(result.Warnings))
	}
	return result, err
}

// expandCtx carries the fan-out context §4.5's expand algorithm threads
// through recursive calls.
type expandCtx struct {
	isDirect bool
	// production and development mirror the triggering direct
	// declaration's own flags; only meaningful when isDirect is true.
	production, development bool
	// ancestor is the direct-dep id recorded as this module's
	// requestAncestor fallback: empty for a direct call, and otherwise
	// either the direct parent (when the parent call was itself direct)
	// or the parent's own ancestor (propagated unchanged through deeper
	// transitive hops).
	ancestor dep.ID
}

type moduleRecord struct {
	system system.System
	name   string
	// version is the declaration's own verbatim version (a range, for a
	// direct module whose manifest entry wasn't yet concrete); empty for
	// a transitive module, which has no "declared" version of its own.
	version         string
	resolvedVersion string
	licenses        []string
	err             string
	requestAncestor dep.ID
}

type dependenciesRecord struct {
	resolvedVersion string
	dependencies    []dep.ID
	err             string
}

// runState holds every piece of mutable state owned by a single Expand
// call, matching §4.5's list verbatim.
type runState struct {
	e   *Engine
	sem chan struct{}
	wg  sync.WaitGroup

	mu                  sync.Mutex
	modulesInfo         map[dep.ID]*moduleRecord
	dependenciesInfo    map[dep.ID]*dependenciesRecord
	requested           map[dep.ID]bool
	ignored             map[dep.ID]bool
	directDeps          map[dep.ID]bool
	directProd          map[dep.ID]bool
	directDev           map[dep.ID]bool
	directOrigins       map[dep.ID][]string
	parents             map[dep.ID]map[dep.ID]bool
	defaultVersionCache map[defaultVersionKey]*defaultVersionFuture

	errs  []string
	warns []string
}

type defaultVersionKey struct {
	system system.System
	name   string
}

type defaultVersionFuture struct {
	once    sync.Once
	version string
	err     error
}

func newRunState(e *Engine, concurrency int) *runState {
	return &runState{
		e:                   e,
		sem:                 make(chan struct{}, concurrency),
		modulesInfo:         make(map[dep.ID]*moduleRecord),
		dependenciesInfo:    make(map[dep.ID]*dependenciesRecord),
		requested:           make(map[dep.ID]bool),
		ignored:             make(map[dep.ID]bool),
		directDeps:          make(map[dep.ID]bool),
		directProd:          make(map[dep.ID]bool),
		directDev:           make(map[dep.ID]bool),
		directOrigins:       make(map[dep.ID][]string),
		parents:             make(map[dep.ID]map[dep.ID]bool),
		defaultVersionCache: make(map[defaultVersionKey]*defaultVersionFuture),
	}
}

func (r *runState) run(ctx context.Context, decls []dep.Declaration) (*Result, error) {
	for _, d := range decls {
		id := d.ID()
		r.directDeps[id] = true
		if d.Production {
			r.directProd[id] = true
		}
		if d.Development {
			r.directDev[id] = true
		}
		r.directOrigins[id] = append(r.directOrigins[id], d.Origin)
		for _, w := range d.Warnings {
			r.addWarning(d.DisplayName(), w)
		}
	}

	for _, d := range decls {
		d := d
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.expand(ctx, expandDep{
				system:          d.System,
				name:            d.Name,
				version:         d.Version,
				resolvedVersion: d.ResolvedVersion,
			}, expandCtx{isDirect: true, production: d.Production, development: d.Development})
		}()
	}
	r.wg.Wait()

	return r.synthesize(), nil
}

type expandDep struct {
	system          system.System
	name            string
	version         string
	resolvedVersion string
}

func (d expandDep) id() dep.ID {
	if d.resolvedVersion != "" {
		return dep.MakeID(d.system, d.name, d.resolvedVersion)
	}
	return dep.MakeID(d.system, d.name, d.version)
}

// expand is idempotent and reentrant: concurrent calls for the same id
// after the first return immediately once requested is marked.
func (r *runState) expand(ctx context.Context, d expandDep, ectx expandCtx) {
	id := d.id()

	versionToRequest := d.resolvedVersion
	if !system.IsValidVersion(d.system, versionToRequest) {
		versionToRequest = d.version
	}

	r.mu.Lock()
	if r.ignored[id] {
		r.mu.Unlock()
		return
	}
	if matchesIgnore(r.e.cfg.systemOptions(d.system).ExcludeModules, d.system, d.name, versionToRequest) {
		r.ignored[id] = true
		r.mu.Unlock()
		return
	}
	if r.requested[id] {
		r.mu.Unlock()
		return
	}
	r.requested[id] = true
	if _, ok := r.modulesInfo[id]; !ok {
		requestAncestor := dep.ID("")
		if !ectx.isDirect {
			requestAncestor = ectx.ancestor
		}
		r.modulesInfo[id] = &moduleRecord{
			system:          d.system,
			name:            d.name,
			version:         d.version,
			requestAncestor: requestAncestor,
		}
	}
	r.mu.Unlock()

	if !system.IsValidVersion(d.system, versionToRequest) {
		v, err := r.defaultVersion(ctx, d.system, d.name)
		if err != nil {
			msg := fmt.Sprintf("no usable version: %v", err)
			r.mu.Lock()
			r.modulesInfo[id].err = msg
			r.dependenciesInfo[id] = &dependenciesRecord{err: msg}
			r.mu.Unlock()
			return
		}
		versionToRequest = v
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.fetchVersion(ctx, id, d.system, d.name, versionToRequest)
	}()
	go func() {
		defer wg.Done()
		if r.skipDependencies(ectx) {
			return
		}
		r.fetchDependencies(ctx, id, d.system, d.name, versionToRequest, ectx)
	}()
	wg.Wait()
}

func (r *runState) skipDependencies(ectx expandCtx) bool {
	if r.e.cfg.OnlyDirect {
		return true
	}
	if ectx.isDirect && ectx.development && !r.e.cfg.Development {
		return true
	}
	if ectx.isDirect && ectx.production && !r.e.cfg.Production {
		return true
	}
	return false
}

func (r *runState) fetchVersion(ctx context.Context, id dep.ID, sys system.System, name, version string) {
	r.acquire(ctx)
	defer r.release()

	licenses, err := r.e.client.GetVersion(ctx, sys, name, version)
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.modulesInfo[id]
	if err != nil {
		rec.err = err.Error()
		return
	}
	rec.resolvedVersion = version
	rec.licenses = licenses
}

func (r *runState) fetchDependencies(ctx context.Context, id dep.ID, sys system.System, name, version string, ectx expandCtx) {
	r.acquire(ctx)
	nodes, err := r.e.client.GetDependencies(ctx, sys, name, version)
	r.release()

	if err != nil {
		r.mu.Lock()
		r.dependenciesInfo[id] = &dependenciesRecord{err: err.Error()}
		r.mu.Unlock()
		return
	}

	children := make([]dep.ID, 0, len(nodes))
	var toExpand []struct {
		d    expandDep
		ctx  expandCtx
	}
	r.mu.Lock()
	for _, n := range nodes {
		if n.System == sys && n.Name == name {
			continue // SELF node
		}
		cid := dep.MakeID(n.System, n.Name, n.Version)
		children = append(children, cid)
		if r.parents[cid] == nil {
			r.parents[cid] = make(map[dep.ID]bool)
		}
		r.parents[cid][id] = true

		childAncestor := id
		if !ectx.isDirect {
			childAncestor = ectx.ancestor
		}
		toExpand = append(toExpand, struct {
			d   expandDep
			ctx expandCtx
		}{
			d: expandDep{system: n.System, name: n.Name, resolvedVersion: n.Version},
			ctx: expandCtx{
				isDirect: false,
				ancestor: childAncestor,
			},
		})
	}
	r.dependenciesInfo[id] = &dependenciesRecord{resolvedVersion: version, dependencies: children}
	r.mu.Unlock()

	for _, next := range toExpand {
		next := next
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.expand(ctx, next.d, next.ctx)
		}()
	}
}

func (r *runState) acquire(ctx context.Context) {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
	}
}

func (r *runState) release() {
	select {
	case <-r.sem:
	default:
	}
}

// defaultVersion returns the default version of (sys, name), deduplicating
// concurrent lookups for the same package through defaultVersionCache.
func (r *runState) defaultVersion(ctx context.Context, sys system.System, name string) (string, error) {
	key := defaultVersionKey{system: sys, name: name}
	r.mu.Lock()
	f, ok := r.defaultVersionCache[key]
	if !ok {
		f = &defaultVersionFuture{}
		r.defaultVersionCache[key] = f
	}
	r.mu.Unlock()

	f.once.Do(func() {
		r.acquire(ctx)
		defer r.release()
		versions, err := r.e.client.GetVersions(ctx, sys, name)
		if err != nil {
			f.err = err
			return
		}
		for _, v := range versions {
			if v.IsDefault {
				f.version = v.Version
				return
			}
		}
		f.err = fmt.Errorf("%s:%s: %w", sys, name, errNoDefaultVersion)
	})
	return f.version, f.err
}

var errNoDefaultVersion = errors.New("resolve: no default version")

func matchesIgnore(specs []match.ModuleSpec, sys system.System, name, version string) bool {
	for _, s := range specs {
		if s.Ignore && match.Matches(sys, name, version, s) {
			return true
		}
	}
	return false
}

func (r *runState) addWarning(displayName, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, displayName+": "+msg)
}
