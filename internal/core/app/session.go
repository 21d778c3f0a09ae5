// Package app hosts the analysis session: one cache instance plus the
// resolver, extractor and detector wired over it. Sessions are cheap and
// single-writer; concurrent analyses take one session each.
package app

import (
	"path/filepath"

	"cyclescan/internal/core/config"
	"cyclescan/internal/engine/cache"
	"cyclescan/internal/engine/extractor"
	"cyclescan/internal/engine/graph"
	"cyclescan/internal/engine/parser"
	"cyclescan/internal/engine/resolver"
)

// Options carries the per-call knobs of cycle detection. Zero values fall
// back to the session's configuration.
type Options struct {
	MaxDepth        int
	ReportAllCycles bool
	WorkspaceRoot   string
	BarrelNames     []string
}

type Session struct {
	cfg    *config.Config
	cache  *cache.Analysis
	parser *parser.Parser
}

func NewSession(cfg *config.Config) *Session {
	return &Session{
		cfg:    cfg,
		cache:  cache.NewAnalysis(),
		parser: parser.NewParser(),
	}
}

// Clear resets every cache of the session in place, making it equivalent
// to a fresh one.
func (s *Session) Clear() {
	s.cache.Clear()
}

func (s *Session) resolverFor(opts Options) *resolver.Resolver {
	root := opts.WorkspaceRoot
	if root == "" {
		root = s.cfg.Workspace.Root
	}
	barrels := opts.BarrelNames
	if barrels == nil {
		barrels = s.cfg.Resolve.BarrelNames
	}
	return resolver.New(resolver.Options{
		WorkspaceRoot: root,
		SourceRoot:    s.cfg.Workspace.SourceDir,
		AliasPrefixes: s.cfg.Resolve.AliasPrefixes,
		Extensions:    s.cfg.Resolve.Extensions,
		BarrelNames:   barrels,
	}, s.cache)
}

func (s *Session) extractorFor(opts Options) *extractor.Extractor {
	return extractor.New(s.parser, s.resolverFor(opts), s.cache)
}

// FindCircularDependencies runs cycle detection from startFile. Each
// returned cycle is an ordered file list closed by a repetition of its
// first element, ready for joining into a display chain. Cycles already
// reported earlier in the session are not returned again.
func (s *Session) FindCircularDependencies(startFile string, opts Options) [][]string {
	if abs, err := filepath.Abs(startFile); err == nil {
		startFile = abs
	}
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = s.cfg.Detect.MaxDepth
	}
	det := graph.New(s.extractorFor(opts), s.cache)
	return det.FindCycles(startFile, graph.FindOptions{
		MaxDepth:  maxDepth,
		ReportAll: opts.ReportAllCycles,
	})
}

// HasOnlyTypeImports reports whether every edge between consecutive files
// in the list is a type-only import; callers use it to suppress cycles
// with no runtime circularity.
func (s *Session) HasOnlyTypeImports(files []string) bool {
	return s.extractorFor(Options{}).HasOnlyTypeImports(files)
}
