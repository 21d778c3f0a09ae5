package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cyclescan/internal/engine/graph"
	"cyclescan/internal/shared/observability"
)

// Cycle is one reported circular import chain.
type Cycle struct {
	// Files is the ordered chain, first file repeated at the end.
	Files []string
	// Display is the chain joined for human-readable output.
	Display string
	// TypeOnly is true when every edge of the cycle is a type-only
	// import, meaning there is no runtime circularity.
	TypeOnly bool
}

// Report is the outcome of one full-workspace analysis run.
type Report struct {
	RunID        string
	StartedAt    time.Time
	Duration     time.Duration
	FilesScanned int
	Cycles       []Cycle
}

// Analyze scans the workspace and runs cycle detection from every source
// file against the session's shared caches, so each structural cycle is
// reported exactly once no matter how many entry points reach it.
func (s *Session) Analyze(ctx context.Context) (Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "session.Analyze", trace.WithAttributes(
		attribute.String("workspace.root", s.cfg.Workspace.Root),
	))
	defer span.End()

	started := time.Now()
	report := Report{RunID: uuid.NewString(), StartedAt: started}

	files, err := s.ScanWorkspace()
	if err != nil {
		return Report{}, err
	}
	report.FilesScanned = len(files)
	observability.FilesScanned.Add(float64(len(files)))

	opts := Options{
		MaxDepth:        s.cfg.Detect.MaxDepth,
		ReportAllCycles: s.cfg.Detect.ReportAll,
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		for _, chain := range s.FindCircularDependencies(file, opts) {
			cycle := Cycle{
				Files:    chain,
				Display:  displayChain(chain),
				TypeOnly: s.HasOnlyTypeImports(chain),
			}
			if cycle.TypeOnly && s.cfg.Detect.SkipTypeOnly {
				continue
			}
			report.Cycles = append(report.Cycles, cycle)
		}
		if !s.cfg.Detect.ReportAll && len(report.Cycles) > 0 {
			break
		}
	}

	report.Duration = time.Since(started)
	observability.AnalysisDuration.WithLabelValues("analyze").Observe(report.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("files.scanned", report.FilesScanned),
		attribute.Int("cycles.found", len(report.Cycles)),
	)
	return report, nil
}

func displayChain(files []string) string {
	return strings.Join(files, graph.Delimiter)
}
