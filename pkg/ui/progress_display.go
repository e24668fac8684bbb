package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressDisplay prints one line per finished download and a final summary
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	total     int
	completed int
	failed    int
	bytes     int64
	startTime time.Time
}

// NewProgressDisplay creates a display for total items; a nil writer uses the ui output
func NewProgressDisplay(out io.Writer, total int) *ProgressDisplay {
	if out == nil {
		out = Output()
	}
	return &ProgressDisplay{
		out:       out,
		total:     total,
		startTime: time.Now(),
	}
}

// Report prints the outcome of item index. A nil err means file was written.
func (p *ProgressDisplay) Report(index int, url, file string, size int64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	done := p.completed + p.failed + 1
	counter := Dim(fmt.Sprintf("[%d/%d]", done, p.total))

	if err != nil {
		p.failed++
		fmt.Fprintf(p.out, "%s %s #%d skipped %s: %v\n", counter, Red("✗"), index, Dim(url), err)
		return
	}

	p.completed++
	p.bytes += size
	fmt.Fprintf(p.out, "%s %s %s %s\n", counter, Green("✓"), file, Dim(FormatBytes(size)))
}

// Complete prints the summary of the run
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Fprintf(p.out, "\n%s Downloaded %d of %d images\n", Green("✓"), p.completed, p.total)
	fmt.Fprintf(p.out, "  %s %s in %s\n", Dim("•"), FormatBytes(p.bytes), FormatDuration(elapsed))
	if p.failed > 0 {
		fmt.Fprintf(p.out, "  %s %s\n", Dim("•"), Red(fmt.Sprintf("%d downloads failed", p.failed)))
	}
}

// Counts returns completed and failed totals so far
func (p *ProgressDisplay) Counts() (completed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed, p.failed
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatBytes formats bytes in a human-readable way
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
