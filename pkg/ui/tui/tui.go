// Package tui renders a live full-screen view of a download run.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI drives a bubbletea program for one download run
type TUI struct {
	program *tea.Program
}

// NewTUI creates a TUI for downloading urls
func NewTUI(urls []string, opts ...tea.ProgramOption) *TUI {
	model := NewModel(urls)
	return &TUI{program: tea.NewProgram(&model, opts...)}
}

// Run blocks until the run finishes or the user quits and returns the final
// model. Model.Cancelled reports whether the user asked to stop early.
func (t *TUI) Run() (*Model, error) {
	final, err := t.program.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("tui: unexpected model %T", final)
	}
	return m, nil
}

// ItemDone reports a written file
func (t *TUI) ItemDone(index int, file string, size int64) {
	t.program.Send(ItemDoneMsg{Index: index, File: file, Bytes: size})
}

// ItemFailed reports a skipped item
func (t *TUI) ItemFailed(index int, err error) {
	t.program.Send(ItemFailedMsg{Index: index, Err: err})
}

// Log adds a line to the log panel
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.program.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Finish ends the program once every item has reported
func (t *TUI) Finish() {
	t.program.Send(FinishedMsg{})
}
