// Package prompt asks questions on a plain line-oriented terminal or pipe.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foldr/internal/organize"
)

// Line is a Prompter that reads answers line by line. End of input counts as
// dismissing the question.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

var _ organize.Prompter = (*Line)(nil)

// NewLine returns a prompter reading from in and writing to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

func (l *Line) readLine() (string, bool, error) {
	s, err := l.in.ReadString('\n')
	if err == io.EOF {
		if s == "" {
			return "", false, nil
		}
		return strings.TrimRight(s, "\r\n"), true, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(s, "\r\n"), true, nil
}

// Choose prints the dialog with numbered options and reads a number. An
// empty answer or end of input dismisses the dialog.
func (l *Line) Choose(d organize.Dialog) (int, error) {
	fmt.Fprintf(l.out, "\n%s\n%s\n\n", d.Title, d.Message)
	for i, opt := range d.Options {
		fmt.Fprintf(l.out, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprintf(l.out, "Choose [1-%d]: ", len(d.Options))
		line, ok, err := l.readLine()
		if err != nil {
			return organize.ChoiceDismissed, err
		}
		line = strings.TrimSpace(line)
		if !ok || line == "" {
			return organize.ChoiceDismissed, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(d.Options) {
			return n - 1, nil
		}
		fmt.Fprintf(l.out, "Please enter a number between 1 and %d.\n", len(d.Options))
	}
}

// Input reads one line. An empty answer keeps initial.
func (l *Line) Input(title, prompt, initial string) (string, bool, error) {
	fmt.Fprintf(l.out, "\n%s\n%s [%s]: ", title, prompt, initial)
	line, ok, err := l.readLine()
	if err != nil || !ok {
		return "", false, err
	}
	if strings.TrimSpace(line) == "" {
		return initial, true, nil
	}
	return line, true, nil
}

// Alert prints a message.
func (l *Line) Alert(title, message string) error {
	_, err := fmt.Fprintf(l.out, "\n%s\n%s\n", title, message)
	return err
}
