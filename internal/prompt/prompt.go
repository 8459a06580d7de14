// Package prompt is the interaction port between pipeline stages and the
// operator. Stages only see the Port interface, so they run headlessly in
// tests with a scripted implementation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a confirmation gate is reached without
// a terminal to answer it. Gates never default to "yes".
var ErrNotInteractive = errors.New("interactive confirmation required but stdin is not a terminal")

// Choice is one selectable option for SelectOne.
type Choice struct {
	Value string
	Label string
}

// Port is the interactive gate surface consumed by stages.
type Port interface {
	// Confirm asks a yes/no question. An empty answer resolves to def.
	Confirm(message string, def bool) (bool, error)
	// SelectOne presents choices and returns the Value of the selected one.
	SelectOne(message string, choices []Choice) (string, error)
}

// Terminal prompts on an interactive terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal builds a terminal port on stdin/stdout. It fails when stdin is
// not a TTY so unattended invocations abort instead of silently proceeding.
func NewTerminal() (*Terminal, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil, ErrNotInteractive
	}
	return &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// NewTerminalWithStreams builds a terminal port on explicit streams.
func NewTerminalWithStreams(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm implements Port.
func (t *Terminal) Confirm(message string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(t.out, "%s %s ", message, hint)
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// SelectOne implements Port.
func (t *Terminal) SelectOne(message string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("no choices to select from")
	}
	fmt.Fprintln(t.out, message)
	for i, choice := range choices {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, choice.Label)
	}
	for {
		fmt.Fprintf(t.out, "Select 1-%d: ", len(choices))
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		idx, convErr := strconv.Atoi(line)
		if convErr == nil && idx >= 1 && idx <= len(choices) {
			return choices[idx-1].Value, nil
		}
		fmt.Fprintln(t.out, "Invalid selection.")
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Script replays predetermined answers. Exhausting the script is an error so
// tests fail loudly when a stage asks an unexpected question.
type Script struct {
	Confirms   []bool
	Selections []string

	confirmIdx int
	selectIdx  int

	// Asked records every prompt message in order, for assertions.
	Asked []string
}

// Confirm implements Port.
func (s *Script) Confirm(message string, def bool) (bool, error) {
	s.Asked = append(s.Asked, message)
	if s.confirmIdx >= len(s.Confirms) {
		return false, fmt.Errorf("unscripted confirmation: %q", message)
	}
	answer := s.Confirms[s.confirmIdx]
	s.confirmIdx++
	return answer, nil
}

// SelectOne implements Port.
func (s *Script) SelectOne(message string, choices []Choice) (string, error) {
	s.Asked = append(s.Asked, message)
	if s.selectIdx >= len(s.Selections) {
		return "", fmt.Errorf("unscripted selection: %q", message)
	}
	answer := s.Selections[s.selectIdx]
	s.selectIdx++
	for _, choice := range choices {
		if choice.Value == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("scripted answer %q is not a valid choice for %q", answer, message)
}
