package config

import "time"

type Config struct {
	Version       int           `toml:"version"`
	Workspace     Workspace     `toml:"workspace"`
	Resolve       Resolve       `toml:"resolve"`
	Detect        Detect        `toml:"detect"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Output        Output        `toml:"output"`
}

type Workspace struct {
	// Root is the absolute root of the analyzable tree. References that
	// resolve outside it terminate the graph.
	Root string `toml:"root"`
	// SourceDir is the subdirectory privileged aliases map into.
	SourceDir string `toml:"source_dir"`
}

type Resolve struct {
	// AliasPrefixes are the privileged specifier prefixes, in order.
	AliasPrefixes []string `toml:"alias_prefixes"`
	// Extensions is the ordered probe list for extensionless specifiers.
	Extensions []string `toml:"extensions"`
	// BarrelNames are directory entry files probed as a fallback, in order.
	BarrelNames []string `toml:"barrel_names"`
}

type Detect struct {
	MaxDepth  int  `toml:"max_depth"`
	ReportAll bool `toml:"report_all"`
	// SkipTypeOnly suppresses cycles whose every edge is a type-only
	// import; such cycles have no runtime circularity.
	SkipTypeOnly bool `toml:"skip_type_only"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	RescansPerSecond float64       `toml:"rescans_per_second"`
	RescanBurst      int           `toml:"rescan_burst"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	// MetricsAddr serves /metrics and /health when non-empty.
	MetricsAddr string `toml:"metrics_addr"`
	// OTLPEndpoint enables the trace exporter when non-empty.
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Output struct {
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
}
