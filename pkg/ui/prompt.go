package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxAttempts bounds how often a prompt repeats after invalid input
const maxAttempts = 3

// ErrNoInput is returned when input ends before a valid answer
var ErrNoInput = errors.New("no input")

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Prompter asks questions on a line-oriented reader
type Prompter struct {
	in   *bufio.Reader
	file *os.File
	out  io.Writer
}

// NewPrompter reads answers from in and writes questions to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.file = f
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints label and returns the trimmed answer, or def when the answer is empty
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", Cyan(label), def)
	} else {
		fmt.Fprintf(p.out, "%s: ", Cyan(label))
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskInt asks for a whole number in [min, max]. An empty answer selects def
// when def is in range. Invalid answers are rejected with a message and the
// question repeats.
func (p *Prompter) AskInt(label string, min, max, def int) (int, error) {
	defText := ""
	if def >= min && def <= max {
		defText = strconv.Itoa(def)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := p.Ask(fmt.Sprintf("%s (%d-%d)", label, min, max), defText)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Fprintln(p.out, Red(fmt.Sprintf("Please enter a number between %d and %d", min, max)))
	}
	return 0, fmt.Errorf("no valid number after %d attempts", maxAttempts)
}

// AskSecret asks for a value without echoing it when reading from a terminal
func (p *Prompter) AskSecret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", Cyan(label))

	if p.file != nil && IsInteractive(p.file) {
		secret, err := term.ReadPassword(int(p.file.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	return p.readLine()
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.Ask(label+" ("+hint+")", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
