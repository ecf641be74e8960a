package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1cbyc/view0x/internal/model"
)

type modelT struct {
	report *model.Report
	issues []model.Issue
	cursor int
}

func initialModel(r *model.Report) modelT {
	return modelT{report: r, issues: r.AllIssues()}
}

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.issues)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	s := m.report.Summary
	fmt.Fprintf(&b, "Issues (%d)  high=%d medium=%d low=%d  score=%d risk=%s\n\n",
		s.TotalIssues, s.HighSeverity, s.MediumSeverity, s.LowSeverity, s.OverallScore, s.RiskLevel)
	for i, issue := range m.issues {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := 0
		if issue.Location != nil {
			line = issue.Location.Line
		}
		suppressed := ""
		if issue.Suppressed {
			suppressed = " (suppressed)"
		}
		fmt.Fprintf(&b, "%s%s [%s] line %d %s%s\n", marker, issue.Type, issue.Severity, line, issue.Description, suppressed)
	}
	b.WriteString("\nq to quit\n")
	return b.String()
}

// Run launches an interactive list view over a merged report.
func Run(r *model.Report) error {
	p := tea.NewProgram(initialModel(r))
	_, err := p.Run()
	return err
}
