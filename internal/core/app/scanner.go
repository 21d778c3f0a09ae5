package app

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"cyclescan/internal/core/errors"
)

// ScanWorkspace walks the workspace root and returns every analyzable
// source file, sorted, with excluded directories pruned and excluded files
// skipped. Exclude patterns are compiled once through the session's
// pattern cache.
func (s *Session) ScanWorkspace() ([]string, error) {
	dirGlobs, err := s.compilePatterns(s.cfg.Exclude.Dirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := s.compilePatterns(s.cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	var files []string
	root := s.cfg.Workspace.Root
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable subtree costs coverage, not the run.
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		base := filepath.Base(path)
		if d.IsDir() {
			for _, g := range dirGlobs {
				if g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, g := range fileGlobs {
			if g.Match(base) {
				return nil
			}
		}
		if s.parser.IsSupportedPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrap(walkErr, errors.CodeInternal, "walk workspace")
	}

	sort.Strings(files)
	return files, nil
}

func (s *Session) compilePatterns(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := s.cache.Pattern(p)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern"),
				errors.CtxPattern, p)
		}
		out = append(out, g)
	}
	return out, nil
}
