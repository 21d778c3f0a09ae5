package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"cyclescan/internal/core/errors"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "read config")
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a usable configuration rooted at dir without reading any
// file; the CLI uses it when no config file is present.
func Default(dir string) *Config {
	cfg := &Config{Workspace: Workspace{Root: dir}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Workspace.Root) == "" {
		cfg.Workspace.Root = "."
	}
	if abs, err := filepath.Abs(cfg.Workspace.Root); err == nil {
		cfg.Workspace.Root = abs
	}
	if strings.TrimSpace(cfg.Workspace.SourceDir) == "" {
		cfg.Workspace.SourceDir = "src"
	}

	if len(cfg.Resolve.AliasPrefixes) == 0 {
		cfg.Resolve.AliasPrefixes = []string{"@/", "~/"}
	}
	if len(cfg.Resolve.Extensions) == 0 {
		cfg.Resolve.Extensions = []string{".ts", ".tsx", ".js", ".jsx"}
	}
	if len(cfg.Resolve.BarrelNames) == 0 {
		cfg.Resolve.BarrelNames = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}
	}

	if cfg.Detect.MaxDepth == 0 {
		cfg.Detect.MaxDepth = 32
	}

	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build", "coverage"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSecond == 0 {
		cfg.Watch.RescansPerSecond = 2
	}
	if cfg.Watch.RescanBurst == 0 {
		cfg.Watch.RescanBurst = 1
	}

	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = filepath.Join(cfg.Workspace.Root, ".cyclescan", "history.db")
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return errors.New(errors.CodeValidationError, fmt.Sprintf("unsupported config version: %d", cfg.Version))
	}

	if cfg.Detect.MaxDepth < 1 {
		return errors.New(errors.CodeValidationError, "detect.max_depth must be at least 1")
	}

	for _, ext := range cfg.Resolve.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.New(errors.CodeValidationError, fmt.Sprintf("resolve.extensions entry %q must start with a dot", ext))
		}
	}
	for _, prefix := range cfg.Resolve.AliasPrefixes {
		if !strings.HasSuffix(prefix, "/") {
			return errors.New(errors.CodeValidationError, fmt.Sprintf("resolve.alias_prefixes entry %q must end with a slash", prefix))
		}
	}
	for _, name := range cfg.Resolve.BarrelNames {
		if strings.ContainsRune(name, os.PathSeparator) {
			return errors.New(errors.CodeValidationError, fmt.Sprintf("resolve.barrel_names entry %q must be a bare file name", name))
		}
	}

	for _, pattern := range append(append([]string{}, cfg.Exclude.Dirs...), cfg.Exclude.Files...) {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern"),
				errors.CtxPattern, pattern)
		}
	}

	if cfg.Watch.Debounce < 0 {
		return errors.New(errors.CodeValidationError, "watch.debounce must not be negative")
	}
	return nil
}
