package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPrompter asks yes/no questions on the terminal. Answers default
// to yes; without a terminal on stdin nobody can answer, so it proceeds.
type terminalPrompter struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

func newTerminalPrompter(in *os.File, out io.Writer) *terminalPrompter {
	return &terminalPrompter{
		in:         in,
		out:        out,
		isTerminal: func() bool { return term.IsTerminal(int(in.Fd())) },
	}
}

// Confirm prints question and reads one line.
func (p *terminalPrompter) Confirm(_ context.Context, question string) (bool, error) {
	if !p.isTerminal() {
		return true, nil
	}

	_, _ = fmt.Fprintf(p.out, "%s [Y/n]: ", question)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return false, nil
	default:
		return true, nil
	}
}
