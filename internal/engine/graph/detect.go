// Package graph performs bounded depth-first cycle detection over the lazy
// reference graph. Edges are pulled from the extractor as files are
// visited; there is no materialized adjacency structure.
package graph

import (
	"cyclescan/internal/engine/cache"
	"cyclescan/internal/engine/extractor"
	"cyclescan/internal/shared/observability"
)

// FindOptions bounds one detection run. MaxDepth is a traversal-cost
// ceiling, not a cycle-length limit: branches deeper than MaxDepth are
// silently abandoned, never flagged.
type FindOptions struct {
	MaxDepth  int
	ReportAll bool
}

type Detector struct {
	extractor *extractor.Extractor
	cache     *cache.Analysis
}

func New(ex *extractor.Extractor, c *cache.Analysis) *Detector {
	return &Detector{extractor: ex, cache: c}
}

// FindCycles runs a depth-first traversal from startFile and returns every
// newly discovered cycle, each as an ordered node list closed by a
// repetition of its first node. Cycles whose signature was already
// recorded in the session's reported set are suppressed, which dedups
// structurally identical cycles across entry points.
//
// Dynamic edges are skipped: a call-style reference binds conditionally at
// runtime and is excluded from the static cycle graph by design.
//
// The traversal never re-enters a file already on the current path, but
// carries no global visited set; a file may be walked again on a different
// branch, since it can participate in several distinct cycles.
func (d *Detector) FindCycles(startFile string, opts FindOptions) [][]string {
	var cycles [][]string
	path := make([]string, 0, 16)
	onPath := make(map[string]bool)
	d.walk(startFile, 0, opts, path, onPath, &cycles)
	return cycles
}

// walk returns true when the traversal should stop entirely, which under
// ReportAll=false happens as soon as one cycle is recorded.
func (d *Detector) walk(file string, depth int, opts FindOptions, path []string, onPath map[string]bool, cycles *[][]string) bool {
	path = append(path, file)
	onPath[file] = true
	defer delete(onPath, file)

	for _, edge := range d.extractor.ImportsOf(file) {
		if edge.Dynamic {
			continue
		}
		target := edge.Resolved

		if onPath[target] {
			raw := make([]string, 0, len(path)+1)
			raw = append(raw, path...)
			raw = append(raw, target)

			if d.cache.MarkReported(Signature(raw)) {
				*cycles = append(*cycles, MinimalCycle(raw))
				observability.CyclesFound.Inc()
				if !opts.ReportAll {
					return true
				}
			}
			continue
		}

		if depth < opts.MaxDepth {
			if d.walk(target, depth+1, opts, path, onPath, cycles) {
				return true
			}
		}
	}
	return false
}
