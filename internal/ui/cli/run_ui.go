package cli

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"cyclescan/internal/core/app"
)

// runUI drives the terminal UI while the watch loop feeds it fresh
// reports in the background. Quitting the UI cancels the watch loop.
func runUI(ctx context.Context, rt *runtime, initial app.Report) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	rt.onReport = func(r app.Report) {
		p.Send(reportMsg{report: r})
	}

	go func() {
		p.Send(reportMsg{report: initial})
	}()

	go func() {
		if err := rt.watch(ctx); err != nil {
			slog.Error("watch mode failed", "error", err)
		}
	}()

	_, err := p.Run()
	return err
}
