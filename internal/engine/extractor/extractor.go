// Package extractor turns a source file into its outgoing reference edges,
// memoizing the result against the file's fingerprint. It never returns an
// error: unreadable or unparsable files degrade to zero edges, because a
// missed cycle is preferable to an aborted run.
package extractor

import (
	"log/slog"
	"os"
	"time"

	"cyclescan/internal/engine/cache"
	"cyclescan/internal/engine/parser"
	"cyclescan/internal/engine/resolver"
	"cyclescan/internal/shared/observability"
)

type Extractor struct {
	parser   *parser.Parser
	resolver *resolver.Resolver
	cache    *cache.Analysis
}

func New(p *parser.Parser, r *resolver.Resolver, c *cache.Analysis) *Extractor {
	return &Extractor{parser: p, resolver: r, cache: c}
}

// ImportsOf returns the resolved outgoing edges of file. On a cache hit the
// stored slice itself is returned; callers must treat it as read-only. On a
// miss the file is read, scanned and resolved, and the fresh entry replaces
// any stale one together with the new fingerprint.
func (e *Extractor) ImportsOf(file string) []cache.ImportEdge {
	if edges, ok := e.cache.CachedImports(file); ok {
		observability.DependencyCacheHits.Inc()
		return edges
	}
	observability.DependencyCacheMisses.Inc()

	fp, _ := cache.FingerprintOf(file)

	content, err := os.ReadFile(file)
	if err != nil {
		// Missing, is-a-directory, permission denied: the file simply has
		// no dependencies this session.
		slog.Debug("treating unreadable file as dependency-free", "path", file, "error", err)
		e.cache.StoreImports(file, fp, []cache.ImportEdge{})
		return e.mustCached(file)
	}

	start := time.Now()
	decls, err := e.parser.ScanImports(file, content)
	observability.ParseDuration.WithLabelValues(e.parser.LanguageForPath(file)).Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Debug("treating unparsable file as dependency-free", "path", file, "error", err)
		e.cache.StoreImports(file, fp, []cache.ImportEdge{})
		return e.mustCached(file)
	}

	edges := make([]cache.ImportEdge, 0, len(decls))
	for _, d := range decls {
		target, ok := e.resolver.Resolve(d.Specifier, file)
		if !ok {
			continue
		}
		edges = append(edges, cache.ImportEdge{
			RawSpecifier: d.Specifier,
			Resolved:     target,
			Dynamic:      d.Dynamic,
			TypeOnly:     d.TypeOnly,
			Line:         d.Line,
		})
	}

	e.cache.StoreImports(file, fp, edges)
	return e.mustCached(file)
}

// mustCached reads back the entry just stored so hit and miss paths hand
// out the same backing slice.
func (e *Extractor) mustCached(file string) []cache.ImportEdge {
	if edges, ok := e.cache.CachedImports(file); ok {
		return edges
	}
	// The file changed between store and read-back; treat it as edge-less
	// for this call, the next one recomputes.
	return nil
}

// HasOnlyTypeImports reports whether every edge between consecutive files
// in the list is marked type-only. The list is expected in cycle form, the
// closing file repeated at the end, so the wrap-around edge is covered by
// the last pair. An empty or single-file list is vacuously true.
//
// A pair with no recorded edge counts as a runtime edge: absence of
// evidence must not suppress a cycle report.
func (e *Extractor) HasOnlyTypeImports(files []string) bool {
	for i := 0; i+1 < len(files); i++ {
		edges := e.ImportsOf(files[i])
		found := false
		for _, edge := range edges {
			if edge.Resolved != files[i+1] {
				continue
			}
			if !edge.TypeOnly {
				return false
			}
			found = true
		}
		if !found {
			return false
		}
	}
	return true
}
