// Package cache holds the per-session state shared by resolution, import
// extraction and cycle detection. One Analysis instance belongs to exactly
// one logical writer; independent sessions each get their own instance and
// never share entries.
package cache

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"

	"cyclescan/internal/shared/observability"
)

// Fingerprint is a cheap change detector for a file, derived from its
// last-modified time and byte size. It is only ever compared for equality;
// it makes no claim about content.
type Fingerprint string

// ImportEdge is one outgoing module reference extracted from a file.
// Resolved is the absolute path of the target workspace file; edges whose
// specifier could not be mapped into the workspace are dropped before they
// are ever stored, so a stored edge always has a non-empty Resolved.
type ImportEdge struct {
	RawSpecifier string
	Resolved     string
	Dynamic      bool
	TypeOnly     bool
	Line         int
}

type depEntry struct {
	fingerprint Fingerprint
	edges       []ImportEdge
}

// Analysis is the cache handle threaded through every operation of a
// session. Its four maps carry deliberately different invalidation
// policies:
//
//   - existence is sticky: once a path has been probed, the answer holds for
//     the rest of the session even if the file is created or deleted later.
//     The workspace is assumed not to mutate mid-session.
//   - deps is validated: an entry only counts while the file's live
//     fingerprint still equals the stored one.
//   - patterns is pure memoization; pattern strings are immutable per run.
//   - reported accumulates cycle signatures so the same structural cycle is
//     reported once across all entry points.
//
// Keep the two filesystem-backed maps separate; unifying them would force
// one policy onto the other.
type Analysis struct {
	existence map[string]bool
	deps      map[string]depEntry
	patterns  map[string]glob.Glob
	reported  map[string]bool
}

func NewAnalysis() *Analysis {
	return &Analysis{
		existence: make(map[string]bool),
		deps:      make(map[string]depEntry),
		patterns:  make(map[string]glob.Glob),
		reported:  make(map[string]bool),
	}
}

// Clear empties every map in place. The instance is immediately usable
// afterwards; tests use this between independent scenarios.
func (c *Analysis) Clear() {
	c.existence = make(map[string]bool)
	c.deps = make(map[string]depEntry)
	c.patterns = make(map[string]glob.Glob)
	c.reported = make(map[string]bool)
}

// FingerprintOf stats the file and returns its fingerprint. The second
// return is false when the file cannot be stat'd (missing, permission
// error); it never panics or propagates the underlying error.
func FingerprintOf(path string) (Fingerprint, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return Fingerprint(fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size())), true
}

// Exists reports whether path exists, consulting the sticky existence map
// first. A miss costs exactly one stat; the result is then pinned for the
// session lifetime.
func (c *Analysis) Exists(path string) bool {
	if hit, ok := c.existence[path]; ok {
		return hit
	}
	observability.ExistenceProbes.Inc()
	_, err := os.Stat(path)
	exists := err == nil
	c.existence[path] = exists
	return exists
}

// IsValid reports whether the cached dependency entry for path is still
// current: an entry must exist and the live fingerprint must equal the
// stored one. A file that can no longer be stat'd is never valid.
func (c *Analysis) IsValid(path string) bool {
	entry, ok := c.deps[path]
	if !ok {
		return false
	}
	live, ok := FingerprintOf(path)
	if !ok {
		return false
	}
	return entry.fingerprint == live
}

// CachedImports returns the stored edge list for path if it is still valid.
// The returned slice is the backing collection, not a copy; callers must
// treat it as read-only.
func (c *Analysis) CachedImports(path string) ([]ImportEdge, bool) {
	if !c.IsValid(path) {
		return nil, false
	}
	return c.deps[path].edges, true
}

// StoreImports replaces the dependency entry for path. Fingerprint and edge
// list are swapped together; the entry is never observable half-updated.
func (c *Analysis) StoreImports(path string, fp Fingerprint, edges []ImportEdge) {
	c.deps[path] = depEntry{fingerprint: fp, edges: edges}
}

// Pattern returns the compiled matcher for a glob pattern, compiling on
// first use.
func (c *Analysis) Pattern(pattern string) (glob.Glob, error) {
	if g, ok := c.patterns[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.patterns[pattern] = g
	return g, nil
}

// MarkReported records a cycle signature, returning true only the first
// time the signature is seen in this session.
func (c *Analysis) MarkReported(signature string) bool {
	if c.reported[signature] {
		return false
	}
	c.reported[signature] = true
	return true
}
