// Package report renders analysis reports for terminals and diagram
// files.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"cyclescan/internal/core/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	typeOnlyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// Text renders a run report for terminal output.
func Text(r app.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Circular Import Report") + "\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"run %s | %d files | %s", r.RunID, r.FilesScanned, r.Duration.Round(time.Millisecond))) + "\n\n")

	if len(r.Cycles) == 0 {
		b.WriteString(successStyle.Render("No circular imports found") + "\n")
		return b.String()
	}

	for i, c := range r.Cycles {
		label := cycleStyle.Render(fmt.Sprintf("cycle %d", i+1))
		if c.TypeOnly {
			label += " " + typeOnlyStyle.Render("(type-only)")
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + c.Display + "\n")
	}
	b.WriteString("\n" + cycleStyle.Render(fmt.Sprintf("%d cycle(s) detected", len(r.Cycles))) + "\n")
	return b.String()
}
