package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cyclescan/internal/core/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	typeOnlyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	cycleList  list.Model
	report     app.Report
	lastUpdate time.Time
}

type reportMsg struct {
	report app.Report
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.cycleList.SetSize(width, height)
	case reportMsg:
		m.report = msg.report
		m.lastUpdate = time.Now()

		items := make([]list.Item, 0, len(m.report.Cycles))
		for _, c := range m.report.Cycles {
			title := "Circular Import"
			if c.TypeOnly {
				title = "Circular Import (type-only)"
			}
			items = append(items, item{title: title, desc: c.Display})
		}
		m.cycleList.SetItems(items)
	}

	var cmd tea.Cmd
	m.cycleList, cmd = m.cycleList.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files scanned | %v",
		m.lastUpdate.Format("15:04:05"), m.report.FilesScanned, m.report.Duration.Round(time.Millisecond)))

	var summary string
	if len(m.report.Cycles) == 0 {
		summary = successStyle.Render("No circular imports")
	} else {
		typeOnly := 0
		for _, c := range m.report.Cycles {
			if c.TypeOnly {
				typeOnly++
			}
		}
		summary = cycleStyle.Render(fmt.Sprintf("%d cycles", len(m.report.Cycles)))
		if typeOnly > 0 {
			summary += " | " + typeOnlyStyle.Render(fmt.Sprintf("%d type-only", typeOnly))
		}
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Circular Import Monitor"), status, summary)
	help := statusStyle.Render("q: quit")

	return docStyle.Render(header + "\n" + help + "\n\n" + m.cycleList.View())
}

func initialModel() model {
	cycleList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	cycleList.Title = "Detected Cycles"
	cycleList.SetShowStatusBar(false)
	cycleList.SetFilteringEnabled(true)

	return model{
		cycleList:  cycleList,
		lastUpdate: time.Now(),
	}
}
