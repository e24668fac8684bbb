package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"unsplashdl/pkg/ui"
)

// View renders the download screen
func (m *Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(" UNSPLASHDL "))
	sections = append(sections, m.renderProgress())
	sections = append(sections, m.renderStats())

	if recent := m.renderRecent(); recent != "" {
		sections = append(sections, recent)
	}
	if logs := m.renderLogs(); logs != "" {
		sections = append(sections, logs)
	}

	if m.showHelp {
		sections = append(sections, helpStyle.Render("q / ctrl+c  stop after running downloads\n?           toggle help\nctrl+l      clear log"))
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m *Model) renderProgress() string {
	status := m.spinner.View() + " Downloading"
	switch {
	case m.cancelled:
		status = warningStyle.Render("■ Stopping")
	case m.finished:
		status = successStyle.Render("✓ Done")
	}

	return fmt.Sprintf("%s %s %s",
		status,
		m.bar.ViewAs(m.Percent()),
		statsValueStyle.Render(fmt.Sprintf("%d/%d", m.completed+m.failed, len(m.items))),
	)
}

func (m *Model) renderStats() string {
	elapsed := time.Since(m.startTime)

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Written:"), successStyle.Render(fmt.Sprintf("%d", m.completed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Skipped:"), errorStyle.Render(fmt.Sprintf("%d", m.failed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Pending:"), statsValueStyle.Render(fmt.Sprintf("%d", m.Pending()))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Size:"), statsValueStyle.Render(ui.FormatBytes(m.bytes))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Elapsed:"), statsValueStyle.Render(ui.FormatDuration(elapsed))),
	}
	return strings.Join(stats, "  ")
}

func (m *Model) renderRecent() string {
	recent := m.Recent(m.maxRecent)
	if len(recent) == 0 {
		return ""
	}

	lines := []string{titleStyle.Render(" RECENT ")}
	for _, item := range recent {
		if item.State == ItemDone {
			lines = append(lines, fmt.Sprintf("%s %s %s", successStyle.Render("✓"), item.File, dimStyle.Render(ui.FormatBytes(item.Bytes))))
		} else {
			lines = append(lines, fmt.Sprintf("%s #%d %s", errorStyle.Render("✗"), item.Index, dimStyle.Render(truncate(item.URL, 60))))
		}
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderLogs() string {
	if len(m.logMessages) == 0 {
		return ""
	}

	var lines []string
	for _, msg := range m.logMessages {
		lines = append(lines, fmt.Sprintf("%s %s",
			logTimestampStyle.Render(msg.Time.Format("15:04:05")),
			lipgloss.NewStyle().Foreground(msg.Color).Render(msg.Message),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
