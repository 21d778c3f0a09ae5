package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tracer is the shared tracer for analysis spans.
var Tracer trace.Tracer = otel.Tracer("cyclescan")

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cyclescan_parse_seconds",
		Help:    "Time spent extracting imports from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cyclescan_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	DependencyCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_dependency_cache_hits_total",
		Help: "Import extractions served from the fingerprint-validated cache.",
	})

	DependencyCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_dependency_cache_misses_total",
		Help: "Import extractions that required a fresh read and parse.",
	})

	ExistenceProbes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_existence_probes_total",
		Help: "Filesystem existence checks issued by the resolver.",
	})

	ResolutionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclescan_resolution_total",
		Help: "Specifier resolutions by outcome.",
	}, []string{"outcome"})

	CyclesFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_cycles_found_total",
		Help: "Distinct circular import chains recorded across all runs.",
	})

	FilesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_files_scanned_total",
		Help: "Entry files fed into cycle detection.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyclescan_rescans_total",
		Help: "Analysis runs triggered by watch-mode change batches.",
	})
)
