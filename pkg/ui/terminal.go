package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔════════════════════════════════════════════════════════════╗
    ║ ██╗   ██╗███╗   ██╗███████╗██████╗ ██╗      █████╗ ███████╗ ║
    ║ ██║   ██║████╗  ██║██╔════╝██╔══██╗██║     ██╔══██╗██╔════╝ ║
    ║ ██║   ██║██╔██╗ ██║███████╗██████╔╝██║     ███████║███████╗ ║
    ║ ██║   ██║██║╚██╗██║╚════██║██╔═══╝ ██║     ██╔══██║╚════██║ ║
    ║ ╚██████╔╝██║ ╚████║███████║██║     ███████╗██║  ██║███████║ ║
    ║  ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝ ║
    ║             COLLECTION DOWNLOADER  ::  unsplashdl            ║
    ╚════════════════════════════════════════════════════════════╝
`

var (
	mu           sync.Mutex
	out          io.Writer = os.Stdout
	quiet        bool
	colorEnabled = os.Getenv("NO_COLOR") == ""
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects all ui printing; nil restores stdout
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Output returns the writer ui prints to
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// SetColor turns ANSI colours on or off
func SetColor(enabled bool) {
	colorEnabled = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

func emit(always bool, s string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && !always {
		return
	}
	fmt.Fprintln(out, s)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	emit(false, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(false, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	emit(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		emit(false, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		emit(false, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	emit(false, Magenta(msg))
}

// PrintList prints one line per item, numbered from zero
func PrintList(items []string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	for i, item := range items {
		fmt.Fprintf(out, "%s %s\n", Dim(fmt.Sprintf("%4d", i)), item)
	}
}
