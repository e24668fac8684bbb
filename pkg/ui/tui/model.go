package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ItemState is where one download stands
type ItemState int

const (
	ItemPending ItemState = iota
	ItemDone
	ItemFailed
)

// Item is one URL of the run
type Item struct {
	Index int
	URL   string
	File  string
	Bytes int64
	State ItemState
	Err   error
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Model is the bubbletea model of a download run
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	items     []Item
	completed int
	failed    int
	bytes     int64
	startTime time.Time

	width          int
	height         int
	showHelp       bool
	finished       bool
	cancelled      bool
	logMessages    []LogMessage
	maxLogMessages int
	maxRecent      int
}

// NewModel creates a model for downloading urls
func NewModel(urls []string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	items := make([]Item, len(urls))
	for i, u := range urls {
		items[i] = Item{Index: i, URL: u}
	}

	return Model{
		spinner:        s,
		bar:            progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		items:          items,
		startTime:      time.Now(),
		logMessages:    []LogMessage{},
		maxLogMessages: 8,
		maxRecent:      6,
	}
}

// Init starts the spinner and the refresh tick
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Complete marks item index as written to file
func (m *Model) Complete(index int, file string, size int64) {
	if index < 0 || index >= len(m.items) || m.items[index].State != ItemPending {
		return
	}
	m.items[index].State = ItemDone
	m.items[index].File = file
	m.items[index].Bytes = size
	m.completed++
	m.bytes += size
}

// Fail marks item index as skipped
func (m *Model) Fail(index int, err error) {
	if index < 0 || index >= len(m.items) || m.items[index].State != ItemPending {
		return
	}
	m.items[index].State = ItemFailed
	m.items[index].Err = err
	m.failed++
}

// AddLogMessage adds a log message, keeping only the newest few
func (m *Model) AddLogMessage(level, message string) {
	color := dimWhite
	switch level {
	case "ERROR":
		color = errorRed
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Percent returns the finished share of the run in [0, 1]
func (m *Model) Percent() float64 {
	if len(m.items) == 0 {
		return 1
	}
	return float64(m.completed+m.failed) / float64(len(m.items))
}

// Pending returns how many items have not finished
func (m *Model) Pending() int {
	return len(m.items) - m.completed - m.failed
}

// Cancelled reports whether the user quit before the run finished
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Recent returns up to n finished items, newest index last
func (m *Model) Recent(n int) []Item {
	var recent []Item
	for i := len(m.items) - 1; i >= 0 && len(recent) < n; i-- {
		if m.items[i].State != ItemPending {
			recent = append([]Item{m.items[i]}, recent...)
		}
	}
	return recent
}
