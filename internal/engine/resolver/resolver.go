// Package resolver maps raw module specifiers to absolute workspace file
// paths. It is the termination point of the reference graph: anything it
// cannot place inside the workspace (bare package names, builtins,
// unresolvable relative paths) simply does not become an edge.
package resolver

import (
	"path/filepath"
	"strings"

	"cyclescan/internal/engine/cache"
	"cyclescan/internal/shared/observability"
)

// Options carries the filesystem-independent inputs of resolution. A
// Resolver is stateless apart from the cache handle, so resolution is a
// pure function of Options, the arguments and filesystem state.
type Options struct {
	// WorkspaceRoot is the absolute root of the analyzable tree.
	WorkspaceRoot string
	// SourceRoot is the subdirectory of WorkspaceRoot that privileged
	// aliases resolve into, typically "src".
	SourceRoot string
	// AliasPrefixes are the privileged prefixes mapped into SourceRoot,
	// e.g. "@/" and "~/". Checked in order.
	AliasPrefixes []string
	// Extensions is the ordered probe list suffixed onto extensionless
	// candidates, e.g. [".ts", ".tsx", ".js", ".jsx"].
	Extensions []string
	// BarrelNames are the directory entry files probed as a fallback,
	// e.g. ["index.ts", "index.js"]. Checked in order.
	BarrelNames []string
}

type Resolver struct {
	opts  Options
	cache *cache.Analysis
}

func New(opts Options, c *cache.Analysis) *Resolver {
	return &Resolver{opts: opts, cache: c}
}

// Resolve maps a specifier appearing in fromFile to the absolute path of a
// workspace file. The second return is false for bare specifiers and for
// candidates no probe could locate.
//
// Resolution order: relative, aliased, bare. Each candidate base path is
// probed the same way: the exact path first, then each configured
// extension, then each barrel name inside the path. Note the exact-path
// check also matches directories; a directory that exists wins over its
// own barrel file. That quirk is observable behavior and is kept as-is.
func (r *Resolver) Resolve(specifier, fromFile string) (string, bool) {
	specifier = strings.TrimSpace(specifier)
	if specifier == "" {
		observability.ResolutionOutcomes.WithLabelValues("empty").Inc()
		return "", false
	}

	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		base := filepath.Join(filepath.Dir(fromFile), specifier)
		if target, ok := r.probe(base); ok {
			observability.ResolutionOutcomes.WithLabelValues("relative").Inc()
			return target, true
		}
		observability.ResolutionOutcomes.WithLabelValues("unresolved").Inc()
		return "", false
	}

	for _, prefix := range r.opts.AliasPrefixes {
		if !strings.HasPrefix(specifier, prefix) {
			continue
		}
		rest := strings.TrimPrefix(specifier, prefix)
		base := filepath.Join(r.opts.WorkspaceRoot, r.opts.SourceRoot, rest)
		if target, ok := r.probe(base); ok {
			observability.ResolutionOutcomes.WithLabelValues("alias").Inc()
			return target, true
		}
		observability.ResolutionOutcomes.WithLabelValues("unresolved").Inc()
		return "", false
	}

	// Any other @scope/... specifier resolves against the workspace root
	// with the scope stripped.
	if strings.HasPrefix(specifier, "@") {
		if idx := strings.Index(specifier, "/"); idx > 0 && idx < len(specifier)-1 {
			base := filepath.Join(r.opts.WorkspaceRoot, specifier[idx+1:])
			if target, ok := r.probe(base); ok {
				observability.ResolutionOutcomes.WithLabelValues("scoped").Inc()
				return target, true
			}
		}
		observability.ResolutionOutcomes.WithLabelValues("unresolved").Inc()
		return "", false
	}

	// Bare specifier: external package or builtin. Terminates the graph.
	observability.ResolutionOutcomes.WithLabelValues("bare").Inc()
	return "", false
}

// probe performs at most one existence check per candidate and returns on
// the first hit.
func (r *Resolver) probe(base string) (string, bool) {
	base = filepath.Clean(base)
	if r.cache.Exists(base) {
		return base, true
	}
	for _, ext := range r.opts.Extensions {
		candidate := base + ext
		if r.cache.Exists(candidate) {
			return candidate, true
		}
	}
	for _, barrel := range r.opts.BarrelNames {
		candidate := filepath.Join(base, barrel)
		if r.cache.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
