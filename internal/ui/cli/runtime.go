package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"cyclescan/internal/core/app"
	"cyclescan/internal/core/config"
	"cyclescan/internal/core/watcher"
	"cyclescan/internal/data/history"
	"cyclescan/internal/engine/graph"
	"cyclescan/internal/shared/observability"
	"cyclescan/internal/ui/report"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("cyclescan v%s\n", versionString)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	if len(opts.args) > 0 {
		root, err := filepath.Abs(opts.args[0])
		if err != nil {
			slog.Error("invalid workspace path", "path", opts.args[0], "error", err)
			return 1
		}
		cfg.Workspace.Root = root
	}

	since, err := parseSince(opts.since)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := setupTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(flushCtx)
			}()
		}
	}

	if cfg.Observability.MetricsAddr != "" {
		obs := NewObservabilityServer(cfg.Observability.MetricsAddr)
		if err := obs.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = obs.Stop(stopCtx)
		}()
	}

	store, err := openHistoryStore(opts.history, cfg)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return 1
	}
	if store != nil {
		defer store.Close()
	}

	rt := &runtime{cfg: cfg, store: store}

	initial, err := rt.analyzeOnce(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return 1
	}

	if !opts.ui {
		fmt.Print(report.Text(initial))
	}

	if store != nil && !opts.ui {
		printTrend(store, cfg.Workspace.Root, since)
	}

	if opts.once {
		if len(initial.Cycles) > 0 {
			return 1
		}
		return 0
	}

	rt.limiter = rate.NewLimiter(rate.Limit(cfg.Watch.RescansPerSecond), cfg.Watch.RescanBurst)

	if opts.ui {
		if err := runUI(ctx, rt, initial); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	rt.onReport = func(r app.Report) {
		fmt.Print(report.Text(r))
	}
	if err := rt.watch(ctx); err != nil {
		slog.Error("watch mode failed", "error", err)
		return 1
	}
	return 0
}

// runtime drives repeated analyses over one configuration. Every rescan
// uses a fresh session so previously reported cycles surface again and
// deleted files are re-probed.
type runtime struct {
	cfg      *config.Config
	store    *history.Store
	limiter  *rate.Limiter
	onReport func(app.Report)
}

func (rt *runtime) analyzeOnce(ctx context.Context) (app.Report, error) {
	session := app.NewSession(rt.cfg)
	r, err := session.Analyze(ctx)
	if err != nil {
		return app.Report{}, err
	}

	if err := writeOutputs(rt.cfg, r); err != nil {
		slog.Error("failed to write diagram outputs", "error", err)
	}
	if rt.store != nil {
		if err := saveRun(rt.store, rt.cfg.Workspace.Root, r); err != nil {
			slog.Error("failed to record run", "error", err)
		}
	}
	return r, nil
}

// watch blocks until ctx is cancelled, rescanning the workspace after
// each debounced change batch. The limiter absorbs editor save storms the
// debounce window does not cover.
func (rt *runtime) watch(ctx context.Context) error {
	changes := make(chan []string, 1)
	w, err := watcher.New(
		rt.cfg.Watch.Debounce,
		rt.cfg.Exclude.Dirs,
		rt.cfg.Exclude.Files,
		rt.cfg.Resolve.Extensions,
		func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		},
	)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(rt.cfg.Workspace.Root); err != nil {
		return fmt.Errorf("watch %s: %w", rt.cfg.Workspace.Root, err)
	}
	slog.Info("watching for changes", "root", rt.cfg.Workspace.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			if err := rt.limiter.Wait(ctx); err != nil {
				return nil
			}
			observability.RescansTotal.Inc()
			slog.Debug("rescanning after change", "changed", len(paths))

			r, err := rt.analyzeOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("rescan failed", "error", err)
				continue
			}
			if rt.onReport != nil {
				rt.onReport(r)
			}
		}
	}
}

func loadConfig(path, cwd string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", path)
		return config.Default(cwd), nil
	}
	return nil, err
}

func openHistoryStore(enabled bool, cfg *config.Config) (*history.Store, error) {
	if !enabled && !cfg.History.Enabled {
		return nil, nil
	}
	path := cfg.History.Path
	if path == "" {
		path = filepath.Join(cfg.Workspace.Root, ".cyclescan", "history.db")
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func saveRun(store *history.Store, workspace string, r app.Report) error {
	rows := make([]history.CycleRow, 0, len(r.Cycles))
	for _, c := range r.Cycles {
		rows = append(rows, history.CycleRow{
			Signature: graph.Signature(c.Files),
			Display:   c.Display,
			Length:    len(c.Files) - 1,
			TypeOnly:  c.TypeOnly,
		})
	}
	return store.SaveRun(history.Run{
		ID:           r.RunID,
		Timestamp:    r.StartedAt,
		Workspace:    workspace,
		FilesScanned: r.FilesScanned,
		CycleCount:   len(r.Cycles),
		Duration:     r.Duration,
	}, rows)
}

func printTrend(store *history.Store, workspace string, since time.Time) {
	points, err := store.Trend(workspace, since)
	if err != nil {
		slog.Error("failed to load history trend", "error", err)
		return
	}
	if len(points) == 0 {
		fmt.Println("History: no runs recorded in the requested window.")
		return
	}
	fmt.Printf("History: %d runs, latest cycle count %d\n", len(points), points[len(points)-1].CycleCount)
	for _, p := range points {
		fmt.Printf("  %s cycles=%d\n", p.Timestamp.Format("2006-01-02 15:04:05"), p.CycleCount)
	}
}

func writeOutputs(cfg *config.Config, r app.Report) error {
	if cfg.Output.DOT != "" {
		if err := writeBytes(cfg.Output.DOT, []byte(report.DOT(r.Cycles))); err != nil {
			return fmt.Errorf("write DOT output %q: %w", cfg.Output.DOT, err)
		}
	}
	if cfg.Output.Mermaid != "" {
		if err := writeBytes(cfg.Output.Mermaid, []byte(report.Mermaid(r.Cycles))); err != nil {
			return fmt.Errorf("write mermaid output %q: %w", cfg.Output.Mermaid, err)
		}
	}
	return nil
}

func writeBytes(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func parseSince(value string) (time.Time, error) {
	raw := value
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
				closeFn = func() { _ = f.Close() }
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cyclescan", "cyclescan.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cyclescan", "cyclescan.log")
	}

	return "cyclescan.log"
}
