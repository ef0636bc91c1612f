package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrInterrupted is returned by an InputReader when the user aborts the
// prompt with Ctrl+C.
var ErrInterrupted = errors.New("prompt interrupted")

// InputReader supplies user lines to a session.
type InputReader interface {
	// ReadLine prompts for and returns the next input line without its
	// trailing newline. It returns io.EOF when input ends and
	// ErrInterrupted when the user aborts the prompt.
	ReadLine(prompt string) (string, error)

	// Close releases the reader and persists any input history.
	Close() error
}

// LinerInput reads lines with line editing and history navigation. It is
// the reader used when the session runs on a terminal.
type LinerInput struct {
	line        *liner.State
	historyFile string
}

// NewLinerInput creates a LinerInput. historyFile may be empty to skip
// history persistence.
func NewLinerInput(historyFile string) *LinerInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	in := &LinerInput{
		line:        line,
		historyFile: historyFile,
	}
	in.loadHistory()

	return in
}

func (in *LinerInput) loadHistory() {
	if in.historyFile == "" {
		return
	}

	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
}

func (in *LinerInput) saveHistory() {
	if in.historyFile == "" {
		return
	}

	f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	in.line.WriteHistory(f)
}

// ReadLine prompts for the next line, recording non-empty input in history.
func (in *LinerInput) ReadLine(prompt string) (string, error) {
	input, err := in.line.Prompt(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", ErrInterrupted
		}
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		in.line.AppendHistory(input)
	}

	return input, nil
}

// Close saves history and closes the liner.
func (in *LinerInput) Close() error {
	in.saveHistory()
	return in.line.Close()
}

// ScannerInput reads lines from a plain reader. It backs piped input and
// tests, echoing the prompt to out before each read.
type ScannerInput struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerInput creates a ScannerInput reading from r and echoing prompts
// to out.
func NewScannerInput(r io.Reader, out io.Writer) *ScannerInput {
	return &ScannerInput{
		scanner: bufio.NewScanner(r),
		out:     out,
	}
}

// ReadLine prints the prompt and returns the next line.
func (si *ScannerInput) ReadLine(prompt string) (string, error) {
	fmt.Fprint(si.out, prompt)

	if !si.scanner.Scan() {
		if err := si.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return si.scanner.Text(), nil
}

// Close is a no-op for scanner input.
func (si *ScannerInput) Close() error {
	return nil
}

var (
	_ InputReader = (*LinerInput)(nil)
	_ InputReader = (*ScannerInput)(nil)
)
