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
Package manifest discovers dependency manifest files under a project root and
parses them into dep.Declaration values, one reader per ecosystem. A Base
provides the file-discovery and extraModules scaffolding every reader shares;
MultiReader fans out across every registered ecosystem reader.
*/
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/google/license-auditor/dep"
	"github.com/google/license-auditor/match"
	"github.com/google/license-auditor/system"
)

// Options configures file discovery and synthetic declarations shared by
// every ecosystem reader.
type Options struct {
	// Include lists glob patterns (relative to Root, matched against
	// slash-separated paths) identifying manifest files to read. A nil or
	// empty Include falls back to the reader's own default.
	Include []string
	// Development lists glob patterns that, in addition to Include,
	// identify manifest files whose declarations are forced development.
	// A path matching both Include and Development is only read once, as
	// development.
	Development []string
	// Exclude lists glob patterns applied on top of Include and
	// Development; a matching path is skipped entirely.
	Exclude []string

	// ExtraModules are raw "name@version" (or "SYSTEM:name@version")
	// strings synthesized as declarations with origin "extraModules",
	// both production and development true, regardless of what the
	// manifest files themselves say.
	ExtraModules []string

	// RecursiveRequirements controls whether the PyPI reader follows "-r
	// path"/"--requirement path" includes. Ignored by every other
	// reader. nil means the spec default (true); a non-nil value
	// overrides it, so Options{} alone cannot disable recursion.
	RecursiveRequirements *bool
}

// Reader parses one ecosystem's manifest files into declarations.
type Reader interface {
	// System identifies the ecosystem this reader handles.
	System() system.System
	// ReadAll discovers and parses every manifest file under root,
	// returning every declaration found plus any file-level errors
	// encountered along the way. A per-file parse failure is captured as
	// an error and does not stop the remaining files from being read.
	ReadAll(root string) ([]dep.Declaration, []string)
}

// Base implements the file-discovery and extraModules contract shared by
// every ecosystem reader. An ecosystem reader embeds a *Base and supplies
// its own default globs plus a per-file ParseFile function.
type Base struct {
	Sys system.System

	// DefaultInclude and DefaultDevelopment are used when Options.Include
	// or Options.Development is empty.
	DefaultInclude     []string
	DefaultDevelopment []string
	DefaultExclude     []string

	Options Options

	// ParseFile parses the manifest at path (read from fsys) into
	// declarations. isDevelopment is true when path matched a
	// Development glob. The returned declarations need not set Origin or
	// Production/Development beyond what §4.3's per-system scope mapping
	// requires for dependencies whose own declared scope differs from
	// the file-level default; Base.readAll fills in Origin and the
	// file-level Development/Production defaults are the parser's
	// responsibility to honor via isDevelopment.
	ParseFile func(fsys fs.FS, path string, isDevelopment bool) ([]dep.Declaration, error)
}

// System returns the ecosystem this Base was configured for.
func (b *Base) System() system.System {
	return b.Sys
}

// ReadAll walks root on the local filesystem and delegates to readAll.
func (b *Base) ReadAll(root string) ([]dep.Declaration, []string) {
	return b.readAll(rootFS(root), root)
}

// readAll is the filesystem-agnostic core, split out so tests can supply an
// fstest.MapFS instead of real files.
func (b *Base) readAll(fsys fs.FS, root string) ([]dep.Declaration, []string) {
	var decls []dep.Declaration
	var errs []string

	includeGlobs := compileGlobs(firstNonEmpty(b.Options.Include, b.DefaultInclude))
	devGlobs := compileGlobs(firstNonEmpty(b.Options.Development, b.DefaultDevelopment))
	excludeGlobs := compileGlobs(firstNonEmpty(b.Options.Exclude, b.DefaultExclude))

	paths := discover(fsys, includeGlobs, devGlobs, excludeGlobs)
	for _, p := range paths {
		fileDecls, err := b.ParseFile(fsys, p.path, p.isDevelopment)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", displayPath(root, p.path), err))
			continue
		}
		for i := range fileDecls {
			fileDecls[i].System = b.Sys
			if fileDecls[i].Origin == "" {
				fileDecls[i].Origin = displayPath(root, p.path)
			}
		}
		decls = append(decls, fileDecls...)
	}

	for _, raw := range b.Options.ExtraModules {
		spec := match.ParseModuleSpec(raw)
		sys := spec.System
		if sys == system.Unknown {
			sys = b.Sys
		}
		if sys != b.Sys {
			continue
		}
		decls = append(decls, dep.Declaration{
			System:          b.Sys,
			Name:            spec.Name,
			Version:         spec.Version,
			ResolvedVersion: system.ResolveVersion(b.Sys, spec.Version),
			Origin:          "extraModules",
			Production:      true,
			Development:     true,
		})
	}

	return decls, errs
}

type discoveredPath struct {
	path          string
	isDevelopment bool
}

// discover walks fsys and returns, in stable lexical order, every path that
// matches an include or development glob and no exclude glob. A path
// matching both include and development is only returned once, as
// development: §4.3 gives development precedence and excludes the path from
// the production include set.
func discover(fsys fs.FS, include, development, exclude []glob.Glob) []discoveredPath {
	var out []discoveredPath
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		slash := filepath.ToSlash(path)
		if matchesAny(exclude, slash) {
			return nil
		}
		switch {
		case matchesAny(development, slash):
			out = append(out, discoveredPath{path: path, isDevelopment: true})
		case matchesAny(include, slash):
			out = append(out, discoveredPath{path: path})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		variants := []string{p}
		// A leading "**/" also matches at the root ("**/go.mod" matches
		// "go.mod"), which the glob library alone does not do.
		if strings.HasPrefix(p, "**/") {
			variants = append(variants, p[len("**/"):])
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				// An unparseable glob matches nothing rather than aborting
				// discovery for every other pattern.
				continue
			}
			globs = append(globs, g)
		}
	}
	return globs
}

func firstNonEmpty(primary, fallback []string) []string {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func displayPath(root, path string) string {
	if root == "" || root == "." {
		return path
	}
	return filepath.ToSlash(filepath.Join(root, path))
}
